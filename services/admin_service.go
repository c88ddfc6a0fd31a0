package services

import (
	"context"

	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/policy"
	"campusnest/types"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AdminService exposes the registered entities to administrators.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Entities lists every registered entity with its row count.
func (s *AdminService) Entities(ctx context.Context, actor *types.Actor) ([]dto.EntityInfo, error) {
	if err := policy.CanModerate(actor).Err(); err != nil {
		return nil, err
	}
	out := make([]dto.EntityInfo, 0, len(models.Registry))
	for _, e := range models.Registry {
		var n int64
		if err := s.db.WithContext(ctx).Raw("SELECT COUNT(*) FROM " + pq.QuoteIdentifier(e.Table)).Scan(&n).Error; err != nil {
			return nil, errors.Internal("Could not count "+e.Name, err)
		}
		out = append(out, dto.EntityInfo{Name: e.Name, Table: e.Table, Count: n})
	}
	return out, nil
}

// Rows pages through one registered entity by id. Unknown names are
// NotFound; nothing outside the registry is reachable.
func (s *AdminService) Rows(ctx context.Context, actor *types.Actor, name string, page Page) (any, int64, error) {
	if err := policy.CanModerate(actor).Err(); err != nil {
		return nil, 0, err
	}
	entity, ok := models.LookupEntity(name)
	if !ok {
		return nil, 0, errors.NotFound("Entity")
	}
	page = page.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(entity.Model()).Count(&total).Error; err != nil {
		return nil, 0, errors.Internal("Could not count "+name, err)
	}
	rows := entity.Rows()
	if err := s.db.WithContext(ctx).Order("id ASC").Offset(page.Offset()).Limit(page.Limit).Find(rows).Error; err != nil {
		return nil, 0, errors.Internal("Could not list "+name, err)
	}
	return rows, total, nil
}
