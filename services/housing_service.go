package services

import (
	"context"
	"strings"

	"campusnest/builders"
	"campusnest/constants"
	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/policy"
	"campusnest/services/rating"
	"campusnest/types"
	"campusnest/validator"

	"gorm.io/gorm"
)

const (
	housingConflict = "This campus already lists a housing with this name and type."
	maxSuggestions  = 3
)

type HousingService struct {
	db       *gorm.DB
	ratings  *RatingService
	geocoder Geocoder
	storage  MediaStorage
	index    HousingIndex
	logger   logger.Logger
}

type HousingServiceOptions struct {
	DB       *gorm.DB
	Ratings  *RatingService
	Geocoder Geocoder
	Storage  MediaStorage
	Index    HousingIndex
	Logger   logger.Logger
}

func NewHousingService(opts HousingServiceOptions) *HousingService {
	storage := opts.Storage
	if storage == nil {
		storage = disabledStorage{}
	}
	return &HousingService{
		db:       opts.DB,
		ratings:  opts.Ratings,
		geocoder: opts.Geocoder,
		storage:  storage,
		index:    opts.Index,
		logger:   opts.Logger,
	}
}

// HousingPage is one page of the housing listing with per-row aggregates.
type HousingPage struct {
	Housings    []models.Housing
	Summaries   map[uint]rating.Summary
	Total       int64
	Page        Page
	Suggestions []string
}

// List filters, orders and paginates housings. When a search term matches
// nothing, close housing names are offered as suggestions.
func (s *HousingService) List(ctx context.Context, f dto.HousingFilter) (*HousingPage, error) {
	page := Page{Page: f.Page, Limit: f.Limit}.Normalize()

	qb := builders.NewHousingQueryBuilder(s.db.WithContext(ctx).Model(&models.Housing{})).
		WithCampus(f.CampusID).
		WithType(constants.HousingType(f.Type)).
		WithOrdering(f.Ordering)
	if bad := qb.InvalidOrdering(); bad != "" {
		return nil, errors.FieldError("ordering", "Unknown ordering \""+bad+"\". Use name, latitude or longitude, optionally prefixed with -.")
	}
	s.applySearch(ctx, qb, f.Search)

	base := qb.Query().Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, errors.Internal("Could not count housings", err)
	}

	var housings []models.Housing
	if err := qb.Page(page.Page, page.Limit).Find(&housings).Error; err != nil {
		return nil, errors.Internal("Could not load housings", err)
	}

	ids := make([]uint, len(housings))
	for i, h := range housings {
		ids[i] = h.ID
	}
	summaries, err := s.ratings.HousingSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &HousingPage{Housings: housings, Summaries: summaries, Total: total, Page: page}
	if total == 0 && strings.TrimSpace(f.Search) != "" {
		result.Suggestions, err = s.suggest(ctx, f)
		if err != nil {
			s.logger.Error("housing suggestions for %q: %v", f.Search, err)
		}
	}
	return result, nil
}

// applySearch narrows by the index when one is configured and falls back to
// SQL matching when there is none or it fails.
func (s *HousingService) applySearch(ctx context.Context, qb *builders.HousingQueryBuilder, term string) {
	if strings.TrimSpace(term) == "" {
		return
	}
	if s.index != nil {
		ids, err := s.index.Search(ctx, term)
		if err == nil {
			qb.WithIDs(ids)
			return
		}
		s.logger.Error("housing index search for %q: %v", term, err)
	}
	qb.WithSearch(term)
}

func (s *HousingService) suggest(ctx context.Context, f dto.HousingFilter) ([]string, error) {
	q := s.db.WithContext(ctx).Model(&models.Housing{})
	if f.CampusID != nil {
		q = q.Where("campus_id = ?", *f.CampusID)
	}
	var names []string
	if err := q.Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return Suggest(f.Search, names, maxSuggestions), nil
}

// Get returns a housing with its rating summary.
func (s *HousingService) Get(ctx context.Context, id uint) (*models.Housing, rating.Summary, error) {
	var housing models.Housing
	if err := s.db.WithContext(ctx).First(&housing, id).Error; err != nil {
		return nil, rating.Summary{}, translate(err, "Housing", "")
	}
	summary, err := s.ratings.HousingSummary(ctx, housing.ID)
	if err != nil {
		return nil, rating.Summary{}, err
	}
	return &housing, summary, nil
}

func (s *HousingService) Create(ctx context.Context, actor *types.Actor, req dto.HousingRequest) (*models.Housing, error) {
	if err := policy.CanManageCatalog(actor).Err(); err != nil {
		return nil, err
	}
	housing := &models.Housing{}
	req.ToModel(housing)
	if err := s.prepare(ctx, housing); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit("Campus").Create(housing).Error; err != nil {
		return nil, translate(err, "Housing", housingConflict)
	}
	_ = s.ratings.Invalidate(ctx, 0, housing.CampusID)
	s.reindex(ctx, housing)
	return housing, nil
}

func (s *HousingService) Update(ctx context.Context, actor *types.Actor, id uint, req dto.HousingRequest) (*models.Housing, error) {
	if err := policy.CanManageCatalog(actor).Err(); err != nil {
		return nil, err
	}
	var housing models.Housing
	if err := s.db.WithContext(ctx).First(&housing, id).Error; err != nil {
		return nil, translate(err, "Housing", "")
	}
	oldCampus := housing.CampusID
	req.ToModel(&housing)
	if err := s.prepare(ctx, &housing); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&housing).Omit("Campus", "created_at").Select("*").Updates(&housing).Error; err != nil {
		return nil, translate(err, "Housing", housingConflict)
	}
	_ = s.ratings.Invalidate(ctx, housing.ID, housing.CampusID)
	if oldCampus != housing.CampusID {
		_ = s.ratings.Invalidate(ctx, 0, oldCampus)
	}
	s.reindex(ctx, &housing)
	return &housing, nil
}

// Delete removes a housing with its reviews and bookmarks.
func (s *HousingService) Delete(ctx context.Context, actor *types.Actor, id uint) error {
	if err := policy.CanManageCatalog(actor).Err(); err != nil {
		return err
	}
	var housing models.Housing
	if err := s.db.WithContext(ctx).Select("id", "campus_id").First(&housing, id).Error; err != nil {
		return translate(err, "Housing", "")
	}
	var publicIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		publicIDs, err = deleteHousings(tx, []uint{housing.ID})
		return err
	})
	if err != nil {
		return translate(err, "Housing", "")
	}
	_ = s.ratings.Invalidate(ctx, housing.ID, housing.CampusID)
	purgeStored(ctx, s.storage, s.logger, publicIDs)
	if s.index != nil {
		if err := s.index.Remove(ctx, housing.ID); err != nil {
			s.logger.Error("unindex housing %d: %v", housing.ID, err)
		}
	}
	return nil
}

func (s *HousingService) reindex(ctx context.Context, housing *models.Housing) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, housing); err != nil {
		s.logger.Error("index housing %d: %v", housing.ID, err)
	}
}

// RebuildIndex reloads every housing into the search index. It returns the
// number of housings indexed, or zero when no index is configured.
func (s *HousingService) RebuildIndex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	var housings []models.Housing
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&housings).Error; err != nil {
		return 0, errors.Internal("Could not load housings", err)
	}
	if err := s.index.Rebuild(ctx, housings); err != nil {
		return 0, err
	}
	return len(housings), nil
}

// prepare validates, checks the campus and uniqueness, and fills in
// coordinates when they were left out.
func (s *HousingService) prepare(ctx context.Context, housing *models.Housing) error {
	housing.Name = strings.TrimSpace(housing.Name)
	if err := validator.ValidateHousing(housing); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Campus{}, housing.CampusID).Error; err != nil {
		if isNotFound(err) {
			return errors.FieldError("campusId", "Campus does not exist.")
		}
		return errors.Internal("Could not load campus", err)
	}

	var n int64
	if err := db.Model(&models.Housing{}).
		Where("campus_id = ? AND name = ? AND type = ? AND id <> ?", housing.CampusID, housing.Name, housing.Type, housing.ID).
		Count(&n).Error; err != nil {
		return errors.Internal("Could not check housing", err)
	}
	if n > 0 {
		return errors.Conflict(housingConflict, nil)
	}

	if housing.Latitude == nil && s.geocoder != nil {
		county := housing.County
		if county != "" && !strings.HasSuffix(strings.ToLower(county), "county") {
			county += " County"
		}
		line2 := ""
		if housing.AddressLine2 != nil {
			line2 = *housing.AddressLine2
		}
		lat, lon, err := s.geocoder.Geocode(ctx, FormatAddress(housing.AddressLine1, line2, county, string(housing.State)))
		if err != nil {
			s.logger.Info("geocode housing %q: %v", housing.Name, err)
		} else {
			housing.Latitude, housing.Longitude = &lat, &lon
		}
	}
	return nil
}

// deleteHousings removes housings and everything that hangs off them,
// returning the storage ids of media that went with their reviews.
func deleteHousings(tx *gorm.DB, ids []uint) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var reviewIDs []uint
	if err := tx.Model(&models.Review{}).Where("housing_id IN ?", ids).Pluck("id", &reviewIDs).Error; err != nil {
		return nil, err
	}
	publicIDs, err := deleteReviews(tx, reviewIDs)
	if err != nil {
		return nil, err
	}
	if err := tx.Where("housing_id IN ?", ids).Delete(&models.Bookmark{}).Error; err != nil {
		return nil, err
	}
	return publicIDs, tx.Where("id IN ?", ids).Delete(&models.Housing{}).Error
}
