package services

import (
	"context"

	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/matching"
	"campusnest/types"

	"gorm.io/gorm"
)

const DefaultMatchLimit = 10

// RoommateMatch is one ranked candidate with the profile it was scored on.
type RoommateMatch struct {
	User    models.User
	Profile *models.RoommateProfile
	Score   float64
}

type RoommateService struct {
	db        *gorm.DB
	bookmarks *BookmarkService
	weights   matching.Weights
	logger    logger.Logger
}

type RoommateServiceOptions struct {
	DB        *gorm.DB
	Bookmarks *BookmarkService
	Weights   matching.Weights
	Logger    logger.Logger
}

func NewRoommateService(opts RoommateServiceOptions) *RoommateService {
	w := opts.Weights
	if w.Validate() != nil {
		w = matching.DefaultWeights
	}
	return &RoommateService{db: opts.DB, bookmarks: opts.Bookmarks, weights: w, logger: opts.Logger}
}

// Matches ranks the opted-in users of the caller's campus. Users without a
// campus get an empty list.
func (s *RoommateService) Matches(ctx context.Context, actor *types.Actor, limit int) ([]RoommateMatch, error) {
	if !actor.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication credentials were not provided.")
	}
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	db := s.db.WithContext(ctx)

	var me models.User
	if err := db.Preload("RoommateProfile").First(&me, actor.UserID).Error; err != nil {
		return nil, translate(err, "User", "")
	}
	if me.CampusID == nil {
		return []RoommateMatch{}, nil
	}

	var profiles []models.RoommateProfile
	if err := db.Joins("JOIN users ON users.id = roommate_profiles.user_id").
		Where("users.campus_id = ? AND roommate_profiles.looking_for_roommate = ? AND users.id <> ?", *me.CampusID, true, me.ID).
		Find(&profiles).Error; err != nil {
		return nil, errors.Internal("Could not load roommate candidates", err)
	}
	if len(profiles) == 0 {
		return []RoommateMatch{}, nil
	}

	userIDs := make([]uint, 0, len(profiles)+1)
	byUser := make(map[uint]*models.RoommateProfile, len(profiles))
	for i := range profiles {
		userIDs = append(userIDs, profiles[i].UserID)
		byUser[profiles[i].UserID] = &profiles[i]
	}
	var users []models.User
	if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, errors.Internal("Could not load roommate candidates", err)
	}
	usersByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	sets, err := s.bookmarks.HousingIDsByUser(ctx, append(userIDs, me.ID))
	if err != nil {
		return nil, err
	}

	requester := matching.Candidate{
		UserID:    me.ID,
		Username:  me.Username,
		Bookmarks: sets[me.ID],
		Profile:   matching.ProfileFrom(me.RoommateProfile),
	}
	candidates := make([]matching.Candidate, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, matching.Candidate{
			UserID:    u.ID,
			Username:  u.Username,
			Bookmarks: sets[u.ID],
			Profile:   matching.ProfileFrom(byUser[u.ID]),
		})
	}

	ranked := matching.Rank(requester, candidates, s.weights)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]RoommateMatch, len(ranked))
	for i, m := range ranked {
		out[i] = RoommateMatch{
			User:    usersByID[m.Candidate.UserID],
			Profile: byUser[m.Candidate.UserID],
			Score:   m.Score,
		}
	}
	return out, nil
}
