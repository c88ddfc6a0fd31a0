package services

import (
	"context"
	"strings"

	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/policy"
	"campusnest/types"
	"campusnest/validator"

	"gorm.io/gorm"
)

const campusConflict = "A campus with this name or email domain already exists."

type CampusService struct {
	db      *gorm.DB
	ratings *RatingService
	storage MediaStorage
	logger  logger.Logger
}

type CampusServiceOptions struct {
	DB      *gorm.DB
	Ratings *RatingService
	Storage MediaStorage
	Logger  logger.Logger
}

func NewCampusService(opts CampusServiceOptions) *CampusService {
	storage := opts.Storage
	if storage == nil {
		storage = disabledStorage{}
	}
	return &CampusService{db: opts.DB, ratings: opts.Ratings, storage: storage, logger: opts.Logger}
}

// List returns every campus ordered by name, optionally narrowed by a
// case-insensitive match on name or email domain.
func (s *CampusService) List(ctx context.Context, search string) ([]models.Campus, error) {
	q := s.db.WithContext(ctx).Model(&models.Campus{})
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email_domain) LIKE ?", like, like)
	}
	var campuses []models.Campus
	if err := q.Order("name ASC").Find(&campuses).Error; err != nil {
		return nil, errors.Internal("Could not load campuses", err)
	}
	return campuses, nil
}

func (s *CampusService) Get(ctx context.Context, id uint) (*models.Campus, error) {
	var campus models.Campus
	if err := s.db.WithContext(ctx).First(&campus, id).Error; err != nil {
		return nil, translate(err, "Campus", "")
	}
	return &campus, nil
}

// Detail returns the campus with its housing count and rating aggregates.
func (s *CampusService) Detail(ctx context.Context, id uint) (*models.Campus, CampusSummary, error) {
	campus, err := s.Get(ctx, id)
	if err != nil {
		return nil, CampusSummary{}, err
	}
	summary, err := s.ratings.CampusSummary(ctx, campus.ID)
	if err != nil {
		return nil, CampusSummary{}, err
	}
	return campus, summary, nil
}

func (s *CampusService) Create(ctx context.Context, actor *types.Actor, req dto.CampusRequest) (*models.Campus, error) {
	if err := policy.CanManageCatalog(actor).Err(); err != nil {
		return nil, err
	}
	campus := &models.Campus{
		Name:        strings.TrimSpace(req.Name),
		EmailDomain: strings.ToLower(strings.TrimSpace(req.EmailDomain)),
	}
	if err := validator.ValidateCampus(campus); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, campus); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(campus).Error; err != nil {
		return nil, translate(err, "Campus", campusConflict)
	}
	return campus, nil
}

// Update renames a campus or changes its domain. Users already on the
// campus keep their emails, so a domain change is refused while any user's
// email would stop matching.
func (s *CampusService) Update(ctx context.Context, actor *types.Actor, id uint, req dto.CampusRequest) (*models.Campus, error) {
	if err := policy.CanManageCatalog(actor).Err(); err != nil {
		return nil, err
	}
	campus, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	campus.Name = strings.TrimSpace(req.Name)
	newDomain := strings.ToLower(strings.TrimSpace(req.EmailDomain))
	domainChanged := newDomain != campus.EmailDomain
	campus.EmailDomain = newDomain

	if err := validator.ValidateCampus(campus); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, campus); err != nil {
		return nil, err
	}
	if domainChanged {
		var mismatched int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("campus_id = ? AND LOWER(email) NOT LIKE ?", campus.ID, "%@"+newDomain).
			Count(&mismatched).Error; err != nil {
			return nil, errors.Internal("Could not check campus users", err)
		}
		if mismatched > 0 {
			return nil, errors.FieldError("emailDomain", "Users on this campus have emails outside the new domain.")
		}
	}

	if err := s.db.WithContext(ctx).Model(campus).Select("name", "email_domain", "updated_at").Updates(campus).Error; err != nil {
		return nil, translate(err, "Campus", campusConflict)
	}
	return campus, nil
}

// Delete is refused while any user belongs to the campus. Otherwise the
// campus's housings and everything under them go with it.
func (s *CampusService) Delete(ctx context.Context, actor *types.Actor, id uint) error {
	if err := policy.CanManageCatalog(actor).Err(); err != nil {
		return err
	}
	campus, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var housingIDs []uint
	var publicIDs []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("campus_id = ?", campus.ID).Count(&users).Error; err != nil {
			return err
		}
		if users > 0 {
			return errors.Conflict("Cannot delete a campus while users are associated with it.", nil)
		}

		if err := tx.Model(&models.Housing{}).Where("campus_id = ?", campus.ID).Pluck("id", &housingIDs).Error; err != nil {
			return err
		}
		ids, err := deleteHousings(tx, housingIDs)
		if err != nil {
			return err
		}
		publicIDs = ids
		return tx.Delete(&models.Campus{}, campus.ID).Error
	})
	if err != nil {
		return translate(err, "Campus", "")
	}

	_ = s.ratings.Invalidate(ctx, 0, campus.ID)
	for _, hid := range housingIDs {
		_ = s.ratings.Invalidate(ctx, hid, 0)
	}
	purgeStored(ctx, s.storage, s.logger, publicIDs)
	return nil
}

func (s *CampusService) checkUnique(ctx context.Context, campus *models.Campus) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Campus{}).
		Where("(LOWER(name) = ? OR email_domain = ?) AND id <> ?", strings.ToLower(campus.Name), campus.EmailDomain, campus.ID).
		Count(&n).Error; err != nil {
		return errors.Internal("Could not check campus", err)
	}
	if n > 0 {
		return errors.Conflict(campusConflict, nil)
	}
	return nil
}
