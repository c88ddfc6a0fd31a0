package services

import (
	"context"

	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/policy"
	"campusnest/types"

	"gorm.io/gorm"
)

const bookmarkConflict = "You have already bookmarked this housing."

type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// List returns the owner's bookmarks, newest first.
func (s *BookmarkService) List(ctx context.Context, actor *types.Actor, ownerID uint) ([]models.Bookmark, error) {
	if err := policy.CanListBookmarks(actor, ownerID).Err(); err != nil {
		return nil, err
	}
	var bookmarks []models.Bookmark
	if err := s.db.WithContext(ctx).
		Preload("Housing").
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&bookmarks).Error; err != nil {
		return nil, errors.Internal("Could not load bookmarks", err)
	}
	return bookmarks, nil
}

func (s *BookmarkService) Create(ctx context.Context, actor *types.Actor, housingID uint) (*models.Bookmark, error) {
	if !actor.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required.")
	}

	bookmark := &models.Bookmark{UserID: actor.UserID, HousingID: housingID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Housing{}, housingID).Error; err != nil {
			return translate(err, "Housing", "")
		}
		var existing int64
		if err := tx.Model(&models.Bookmark{}).
			Where("user_id = ? AND housing_id = ?", actor.UserID, housingID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errors.Conflict(bookmarkConflict, nil)
		}
		return tx.Omit("User", "Housing").Create(bookmark).Error
	})
	if err != nil {
		return nil, translate(err, "Bookmark", bookmarkConflict)
	}
	return bookmark, nil
}

func (s *BookmarkService) Delete(ctx context.Context, actor *types.Actor, id uint) error {
	var bookmark models.Bookmark
	if err := s.db.WithContext(ctx).First(&bookmark, id).Error; err != nil {
		return translate(err, "Bookmark", "")
	}
	if err := policy.CanDeleteBookmark(actor, &bookmark).Err(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Bookmark{}, bookmark.ID).Error; err != nil {
		return errors.Internal("Could not delete bookmark", err)
	}
	return nil
}

// HousingIDsByUser loads bookmark sets for the given users in one query.
func (s *BookmarkService) HousingIDsByUser(ctx context.Context, userIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []models.Bookmark
	if err := s.db.WithContext(ctx).
		Select("user_id", "housing_id").
		Where("user_id IN ?", userIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.Internal("Could not load bookmarks", err)
	}
	for _, b := range rows {
		out[b.UserID] = append(out[b.UserID], b.HousingID)
	}
	return out, nil
}
