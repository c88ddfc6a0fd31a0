package services

import (
	"context"
	"io"

	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/policy"
	"campusnest/types"

	"gorm.io/gorm"
)

type MediaService struct {
	db      *gorm.DB
	storage MediaStorage
	logger  logger.Logger
}

type MediaServiceOptions struct {
	DB      *gorm.DB
	Storage MediaStorage
	Logger  logger.Logger
}

func NewMediaService(opts MediaServiceOptions) *MediaService {
	storage := opts.Storage
	if storage == nil {
		storage = disabledStorage{}
	}
	return &MediaService{db: opts.DB, storage: storage, logger: opts.Logger}
}

func (s *MediaService) review(ctx context.Context, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Select("id", "user_id", "housing_id").First(&review, reviewID).Error; err != nil {
		return nil, translate(err, "Review", "")
	}
	return &review, nil
}

func (s *MediaService) ListByReview(ctx context.Context, reviewID uint) ([]models.Media, error) {
	if _, err := s.review(ctx, reviewID); err != nil {
		return nil, err
	}
	var media []models.Media
	if err := s.db.WithContext(ctx).Where("review_id = ?", reviewID).Order("id ASC").Find(&media).Error; err != nil {
		return nil, errors.Internal("Could not load media", err)
	}
	return media, nil
}

// Upload stores an image for the actor's own review.
func (s *MediaService) Upload(ctx context.Context, actor *types.Actor, reviewID uint, src io.Reader, filename string) (*models.Media, error) {
	review, err := s.review(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyMedia(actor, review).Err(); err != nil {
		return nil, err
	}

	obj, err := s.storage.Upload(ctx, src, filename)
	if err != nil {
		return nil, err
	}

	media := &models.Media{ReviewID: review.ID, URL: obj.URL, PublicID: obj.PublicID}
	if err := s.db.WithContext(ctx).Create(media).Error; err != nil {
		if delErr := s.storage.Delete(ctx, obj.PublicID); delErr != nil {
			s.logger.Error("orphaned stored media %s: %v", obj.PublicID, delErr)
		}
		return nil, errors.Internal("Could not save media", err)
	}
	return media, nil
}

// Delete removes one image of the actor's own review.
func (s *MediaService) Delete(ctx context.Context, actor *types.Actor, mediaID uint) error {
	var media models.Media
	if err := s.db.WithContext(ctx).First(&media, mediaID).Error; err != nil {
		return translate(err, "Media", "")
	}
	review, err := s.review(ctx, media.ReviewID)
	if err != nil {
		return err
	}
	if err := policy.CanModifyMedia(actor, review).Err(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Media{}, media.ID).Error; err != nil {
		return errors.Internal("Could not delete media", err)
	}
	if err := s.storage.Delete(ctx, media.PublicID); err != nil {
		s.logger.Error("delete stored media %s: %v", media.PublicID, err)
	}
	return nil
}
