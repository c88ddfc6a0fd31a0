package services

import (
	"context"

	"campusnest/builders"
	"campusnest/constants"
	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/policy"
	"campusnest/types"
	"campusnest/validator"

	"gorm.io/gorm"
)

type ReviewService struct {
	db      *gorm.DB
	ratings *RatingService
	storage MediaStorage
	logger  logger.Logger
}

type ReviewServiceOptions struct {
	DB      *gorm.DB
	Ratings *RatingService
	Storage MediaStorage
	Logger  logger.Logger
}

func NewReviewService(opts ReviewServiceOptions) *ReviewService {
	storage := opts.Storage
	if storage == nil {
		storage = disabledStorage{}
	}
	return &ReviewService{db: opts.DB, ratings: opts.Ratings, storage: storage, logger: opts.Logger}
}

func withReviewAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username")
	}).Preload("Media", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// ListByHousing returns a housing's reviews, newest first.
func (s *ReviewService) ListByHousing(ctx context.Context, housingID uint) ([]models.Review, error) {
	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Housing{}, housingID).Error; err != nil {
		return nil, translate(err, "Housing", "")
	}

	var reviews []models.Review
	if err := withReviewAuthor(db).
		Where("housing_id = ?", housingID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, errors.Internal("Could not load reviews", err)
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := withReviewAuthor(s.db.WithContext(ctx)).First(&review, id).Error; err != nil {
		return nil, translate(err, "Review", "")
	}
	return &review, nil
}

// Create posts the actor's review of a housing. A user reviews a housing at
// most once.
func (s *ReviewService) Create(ctx context.Context, actor *types.Actor, housingID uint, req dto.ReviewRequest) (*models.Review, error) {
	if !actor.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required.")
	}
	if missing := req.Missing(); len(missing) > 0 {
		return nil, errors.NewValidationError(missing)
	}

	review := builders.NewReviewBuilder().
		ForHousing(housingID).
		ByUser(actor.UserID).
		WithRatings(*req.Cost, *req.Safety, *req.Management, *req.Noise).
		WithTags(constants.Tag(*req.Tag1), constants.Tag(*req.Tag2), constants.Tag(*req.Tag3)).
		Build()
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := validator.ValidateReview(review); err != nil {
		return nil, err
	}

	var housing models.Housing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "campus_id").First(&housing, housingID).Error; err != nil {
			return translate(err, "Housing", "")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("housing_id = ? AND user_id = ?", housingID, actor.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errors.Conflict("You have already reviewed this housing.", nil)
		}

		if err := tx.Omit("Housing", "User", "Media").Create(review).Error; err != nil {
			return translate(err, "Review", "You have already reviewed this housing.")
		}
		return s.ratings.Invalidate(ctx, housing.ID, housing.CampusID)
	})
	if err != nil {
		return nil, translate(err, "Review", "You have already reviewed this housing.")
	}
	s.afterWrite(ctx, housing.ID, housing.CampusID)

	return s.Get(ctx, review.ID)
}

// Update changes the present fields of the actor's own review.
func (s *ReviewService) Update(ctx context.Context, actor *types.Actor, id uint, req dto.ReviewRequest) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyReview(actor, review).Err(); err != nil {
		return nil, err
	}

	req.Apply(review)
	if err := validator.ValidateReview(review); err != nil {
		return nil, err
	}

	var housing models.Housing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "campus_id").First(&housing, review.HousingID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{ID: review.ID}).Select(
			"cost", "safety", "management", "noise", "tag1", "tag2", "tag3", "comment", "updated_at",
		).Updates(review).Error; err != nil {
			return err
		}
		return s.ratings.Invalidate(ctx, housing.ID, housing.CampusID)
	})
	if err != nil {
		return nil, translate(err, "Review", "")
	}
	s.afterWrite(ctx, housing.ID, housing.CampusID)

	return s.Get(ctx, id)
}

// Delete removes the actor's own review with its media and reports.
func (s *ReviewService) Delete(ctx context.Context, actor *types.Actor, id uint) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanModifyReview(actor, review).Err(); err != nil {
		return err
	}

	var housing models.Housing
	var publicIDs []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "campus_id").First(&housing, review.HousingID).Error; err != nil {
			return err
		}
		var err error
		if publicIDs, err = deleteReviews(tx, []uint{review.ID}); err != nil {
			return err
		}
		return s.ratings.Invalidate(ctx, housing.ID, housing.CampusID)
	})
	if err != nil {
		return translate(err, "Review", "")
	}
	s.afterWrite(ctx, housing.ID, housing.CampusID)

	purgeStored(ctx, s.storage, s.logger, publicIDs)
	return nil
}

// afterWrite advances the summary generations again once the write is
// visible. A read that sampled the generation between the in-transaction
// Invalidate and the commit saw pre-write rows. This bump either turns its
// store into a no-op or drops what it already stored.
func (s *ReviewService) afterWrite(ctx context.Context, housingID, campusID uint) {
	_ = s.ratings.Invalidate(ctx, housingID, campusID)
}

// deleteReviews removes reviews and everything they own. It returns the
// storage ids of the removed media so callers can purge them after commit.
func deleteReviews(tx *gorm.DB, ids []uint) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var publicIDs []string
	if err := tx.Model(&models.Media{}).Where("review_id IN ?", ids).Pluck("public_id", &publicIDs).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("review_id IN ?", ids).Delete(&models.Media{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("review_id IN ?", ids).Delete(&models.Report{}).Error; err != nil {
		return nil, err
	}
	return publicIDs, tx.Where("id IN ?", ids).Delete(&models.Review{}).Error
}

// purgeStored deletes remote objects whose rows are already gone. Failures
// only leave orphaned files behind, so they are logged.
func purgeStored(ctx context.Context, storage MediaStorage, log logger.Logger, publicIDs []string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := storage.Delete(ctx, id); err != nil {
			log.Error("delete stored media %s: %v", id, err)
		}
	}
}
