package services

import (
	"context"
	"fmt"
	"time"

	"campusnest/services/logger"
	"campusnest/services/rating"

	"github.com/redis/go-redis/v9"
)

// SummaryCache stores computed rating summaries per housing and per campus.
// Every scope carries a generation that Invalidate advances. Get reports the
// current generation and Set stores only while it is unchanged, so a summary
// computed before a write can never land after that write's Invalidate.
type SummaryCache interface {
	GetHousing(ctx context.Context, housingID uint) (s *rating.Summary, gen int64, ok bool)
	SetHousing(ctx context.Context, housingID uint, s rating.Summary, gen int64)
	GetCampus(ctx context.Context, campusID uint) (s *CampusSummary, gen int64, ok bool)
	SetCampus(ctx context.Context, campusID uint, s CampusSummary, gen int64)
	Invalidate(ctx context.Context, housingID, campusID uint) error
}

func housingSummaryKey(id uint) string { return fmt.Sprintf("summary:housing:%d", id) }
func campusSummaryKey(id uint) string  { return fmt.Sprintf("summary:campus:%d", id) }
func housingGenKey(id uint) string     { return fmt.Sprintf("summary:gen:housing:%d", id) }
func campusGenKey(id uint) string      { return fmt.Sprintf("summary:gen:campus:%d", id) }

// RedisSummaryCache never fails a read path: errors on get and set are
// logged and treated as misses. Invalidate errors are returned so writers
// can refuse to leave stale data behind.
type RedisSummaryCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: ttl, logger: log}
}

func (c *RedisSummaryCache) GetHousing(ctx context.Context, housingID uint) (*rating.Summary, int64, bool) {
	var s rating.Summary
	gen, found, err := GetFromRedis(ctx, c.rdb, housingGenKey(housingID), housingSummaryKey(housingID), &s)
	if err != nil {
		c.logger.Error("summary cache get housing %d: %v", housingID, err)
		return nil, gen, false
	}
	if !found {
		return nil, gen, false
	}
	return &s, gen, true
}

func (c *RedisSummaryCache) SetHousing(ctx context.Context, housingID uint, s rating.Summary, gen int64) {
	stored, err := SetToRedis(ctx, c.rdb, housingGenKey(housingID), housingSummaryKey(housingID), gen, s, c.ttl)
	if err != nil {
		c.logger.Error("summary cache set housing %d: %v", housingID, err)
		return
	}
	if !stored {
		c.logger.Debug("summary cache skip housing %d: generation moved past %d", housingID, gen)
	}
}

func (c *RedisSummaryCache) GetCampus(ctx context.Context, campusID uint) (*CampusSummary, int64, bool) {
	var s CampusSummary
	gen, found, err := GetFromRedis(ctx, c.rdb, campusGenKey(campusID), campusSummaryKey(campusID), &s)
	if err != nil {
		c.logger.Error("summary cache get campus %d: %v", campusID, err)
		return nil, gen, false
	}
	if !found {
		return nil, gen, false
	}
	return &s, gen, true
}

func (c *RedisSummaryCache) SetCampus(ctx context.Context, campusID uint, s CampusSummary, gen int64) {
	stored, err := SetToRedis(ctx, c.rdb, campusGenKey(campusID), campusSummaryKey(campusID), gen, s, c.ttl)
	if err != nil {
		c.logger.Error("summary cache set campus %d: %v", campusID, err)
		return
	}
	if !stored {
		c.logger.Debug("summary cache skip campus %d: generation moved past %d", campusID, gen)
	}
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, housingID, campusID uint) error {
	var genKeys, keys []string
	if housingID != 0 {
		genKeys = append(genKeys, housingGenKey(housingID))
		keys = append(keys, housingSummaryKey(housingID))
	}
	if campusID != 0 {
		genKeys = append(genKeys, campusGenKey(campusID))
		keys = append(keys, campusSummaryKey(campusID))
	}
	return BumpAndDelete(ctx, c.rdb, genKeys, keys...)
}

// noCache is used when Redis is not configured.
type noCache struct{}

func (noCache) GetHousing(context.Context, uint) (*rating.Summary, int64, bool) { return nil, 0, false }
func (noCache) SetHousing(context.Context, uint, rating.Summary, int64)         {}
func (noCache) GetCampus(context.Context, uint) (*CampusSummary, int64, bool)   { return nil, 0, false }
func (noCache) SetCampus(context.Context, uint, CampusSummary, int64)           {}
func (noCache) Invalidate(context.Context, uint, uint) error                    { return nil }
