package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/types"

	"gorm.io/gorm"
)

func actorOf(u *models.User) *types.Actor {
	return &types.Actor{UserID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}

var adminActor = &types.Actor{UserID: 9999, Username: "admin", IsAdmin: true}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func boolP(v bool) *bool          { return &v }
func uintPtr(v uint) *uint        { return &v }
func floatPtr(v float64) *float64 { return &v }

type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failNext error
}

func (f *fakeStorage) Upload(_ context.Context, src io.Reader, filename string) (StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return StoredObject{}, err
	}
	if _, err := io.ReadAll(src); err != nil {
		return StoredObject{}, err
	}
	id := fmt.Sprintf("reviews/%d-%s", len(f.uploaded)+1, filename)
	f.uploaded = append(f.uploaded, id)
	return StoredObject{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (f *fakeStorage) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

type sentCode struct {
	Email, Username, Code string
}

type fakeMailer struct {
	sent []sentCode
	err  error
}

func (m *fakeMailer) SendVerificationCode(_ context.Context, email, username, code string) error {
	m.sent = append(m.sent, sentCode{email, username, code})
	return m.err
}

type fakeGeocoder struct {
	lat, lon  float64
	err       error
	addresses []string
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (float64, float64, error) {
	g.addresses = append(g.addresses, address)
	return g.lat, g.lon, g.err
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) SendMessage(message string) error {
	n.messages = append(n.messages, message)
	return nil
}

// newRatings builds a RatingService without a cache.
func newRatings(db *gorm.DB) *RatingService {
	return NewRatingService(RatingServiceOptions{DB: db, Logger: logger.Nop{}})
}

func actorFor(userID uint) *types.Actor {
	return &types.Actor{UserID: userID}
}

var studentActor = &types.Actor{UserID: 9998, Username: "student"}
