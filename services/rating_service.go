package services

import (
	"context"

	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/rating"

	"gorm.io/gorm"
)

// CampusSummary adds the housing count to a campus-wide rating summary.
type CampusSummary struct {
	rating.Summary
	HousingCount int `json:"housingCount"`
}

const reviewRatingColumns = "id, housing_id, cost, safety, management, noise, tag1, tag2, tag3"

type RatingService struct {
	db     *gorm.DB
	cache  SummaryCache
	logger logger.Logger
}

type RatingServiceOptions struct {
	DB     *gorm.DB
	Cache  SummaryCache
	Logger logger.Logger
}

func NewRatingService(opts RatingServiceOptions) *RatingService {
	cache := opts.Cache
	if cache == nil {
		cache = noCache{}
	}
	return &RatingService{db: opts.DB, cache: cache, logger: opts.Logger}
}

// HousingSummary aggregates every review of one housing.
func (s *RatingService) HousingSummary(ctx context.Context, housingID uint) (rating.Summary, error) {
	cached, gen, ok := s.cache.GetHousing(ctx, housingID)
	if ok {
		return *cached, nil
	}

	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Select(reviewRatingColumns).
		Where("housing_id = ?", housingID).
		Order("id ASC").
		Find(&reviews).Error; err != nil {
		return rating.Summary{}, errors.Internal("Could not load reviews", err)
	}

	summary := rating.Compute(rating.FromReviews(reviews))
	s.cache.SetHousing(ctx, housingID, summary, gen)
	return summary, nil
}

// HousingSummaries aggregates several housings with one query. Housings
// without reviews get an empty summary.
func (s *RatingService) HousingSummaries(ctx context.Context, housingIDs []uint) (map[uint]rating.Summary, error) {
	out := make(map[uint]rating.Summary, len(housingIDs))
	if len(housingIDs) == 0 {
		return out, nil
	}

	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Select(reviewRatingColumns).
		Where("housing_id IN ?", housingIDs).
		Order("id ASC").
		Find(&reviews).Error; err != nil {
		return nil, errors.Internal("Could not load reviews", err)
	}

	grouped := make(map[uint][]models.Review, len(housingIDs))
	for _, r := range reviews {
		grouped[r.HousingID] = append(grouped[r.HousingID], r)
	}
	for _, id := range housingIDs {
		out[id] = rating.Compute(rating.FromReviews(grouped[id]))
	}
	return out, nil
}

// CampusSummary aggregates every review of every housing on a campus.
func (s *RatingService) CampusSummary(ctx context.Context, campusID uint) (CampusSummary, error) {
	cached, gen, ok := s.cache.GetCampus(ctx, campusID)
	if ok {
		return *cached, nil
	}

	db := s.db.WithContext(ctx)

	var housingCount int64
	if err := db.Model(&models.Housing{}).Where("campus_id = ?", campusID).Count(&housingCount).Error; err != nil {
		return CampusSummary{}, errors.Internal("Could not count housings", err)
	}

	var reviews []models.Review
	if err := db.
		Select(reviewRatingColumns).
		Where("housing_id IN (?)", db.Model(&models.Housing{}).Select("id").Where("campus_id = ?", campusID)).
		Order("id ASC").
		Find(&reviews).Error; err != nil {
		return CampusSummary{}, errors.Internal("Could not load reviews", err)
	}

	summary := CampusSummary{
		Summary:      rating.Compute(rating.FromReviews(reviews)),
		HousingCount: int(housingCount),
	}
	s.cache.SetCampus(ctx, campusID, summary, gen)
	return summary, nil
}

// Invalidate drops the cached summaries a review write on housingID affects
// and advances their generations, so reads already in flight do not store.
func (s *RatingService) Invalidate(ctx context.Context, housingID, campusID uint) error {
	if err := s.cache.Invalidate(ctx, housingID, campusID); err != nil {
		s.logger.Error("invalidate summaries housing=%d campus=%d: %v", housingID, campusID, err)
		return errors.Internal("Could not refresh rating summary", err)
	}
	return nil
}
