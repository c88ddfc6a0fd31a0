package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// AdminKey marks a websocket session as belonging to an administrator.
const AdminKey = "admin"

type Service interface {
	SendMessage(message string) error
}

// MelodyService broadcasts to administrator sessions only.
type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter([]byte(message), func(sess *melody.Session) bool {
		v, _ := sess.Get(AdminKey)
		isAdmin, _ := v.(bool)
		return isAdmin
	})
}

// Nop drops every message.
type Nop struct{}

func (Nop) SendMessage(string) error { return nil }

// ReportEvent is pushed to moderators when a review is reported.
type ReportEvent struct {
	Type       string    `json:"type"`
	ReportID   uint      `json:"reportId"`
	ReviewID   uint      `json:"reviewId"`
	ReporterID uint      `json:"reporterId"`
	Reason     string    `json:"reason"`
	At         time.Time `json:"at"`
}

type MessageBuilder struct {
	event ReportEvent
}

func NewReportMessageBuilder(reportID, reviewID, reporterID uint, reason string) *MessageBuilder {
	return &MessageBuilder{
		event: ReportEvent{
			Type:       "report.created",
			ReportID:   reportID,
			ReviewID:   reviewID,
			ReporterID: reporterID,
			Reason:     reason,
			At:         time.Now().UTC(),
		},
	}
}

// WithType overrides the event type, e.g. for the nightly digest.
func (b *MessageBuilder) WithType(t string) *MessageBuilder {
	b.event.Type = t
	return b
}

func (b *MessageBuilder) Build() string {
	data, err := json.Marshal(b.event)
	if err != nil {
		return fmt.Sprintf(`{"type":%q,"reportId":%d}`, b.event.Type, b.event.ReportID)
	}
	return string(data)
}

// DigestMessage summarises the pending moderation queue.
func DigestMessage(pending int64) string {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "report.digest",
		"pending": pending,
		"at":      time.Now().UTC(),
	})
	return string(data)
}
