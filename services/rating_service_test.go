package services

import (
	"context"
	"sync"
	"testing"

	"campusnest/constants"
	"campusnest/services/logger"
	"campusnest/services/rating"
	"campusnest/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache records what the rating service stores and drops. It follows
// the generation rules of the Redis cache.
type memoryCache struct {
	mu          sync.Mutex
	housings    map[uint]rating.Summary
	campuses    map[uint]CampusSummary
	housingGen  map[uint]int64
	campusGen   map[uint]int64
	invalidated [][2]uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		housings:   map[uint]rating.Summary{},
		campuses:   map[uint]CampusSummary{},
		housingGen: map[uint]int64{},
		campusGen:  map[uint]int64{},
	}
}

func (c *memoryCache) GetHousing(_ context.Context, id uint) (*rating.Summary, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.housings[id]
	return &s, c.housingGen[id], ok
}

func (c *memoryCache) SetHousing(_ context.Context, id uint, s rating.Summary, gen int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.housingGen[id] == gen {
		c.housings[id] = s
	}
}

func (c *memoryCache) GetCampus(_ context.Context, id uint) (*CampusSummary, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.campuses[id]
	return &s, c.campusGen[id], ok
}

func (c *memoryCache) SetCampus(_ context.Context, id uint, s CampusSummary, gen int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.campusGen[id] == gen {
		c.campuses[id] = s
	}
}

func (c *memoryCache) Invalidate(_ context.Context, housingID, campusID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.housingGen[housingID]++
	c.campusGen[campusID]++
	delete(c.housings, housingID)
	delete(c.campuses, campusID)
	c.invalidated = append(c.invalidated, [2]uint{housingID, campusID})
	return nil
}

func (c *memoryCache) cachedHousing(id uint) (rating.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.housings[id]
	return s, ok
}

// stallingCache holds the first SetHousing until release is closed, so a
// summary read can be parked between its query and its cache store.
type stallingCache struct {
	*memoryCache
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (c *stallingCache) SetHousing(ctx context.Context, id uint, s rating.Summary, gen int64) {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.reached)
		<-c.release
	}
	c.memoryCache.SetHousing(ctx, id, s, gen)
}

func TestHousingSummary(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := newRatings(db)

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	vue := testutil.Housing(t, db, campus, "The Vue")
	empty := testutil.Housing(t, db, campus, "Chitwood Hall")
	alice := testutil.User(t, db, "alice", campus)
	bob := testutil.User(t, db, "bob", campus)
	testutil.Review(t, db, alice, vue, 2, constants.TagQuietAndChill, constants.TagAffordable, constants.TagWalkableArea)
	testutil.Review(t, db, bob, vue, 5)

	s, err := svc.HousingSummary(ctx, vue.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, s.ReviewCount)
	require.NotNil(t, s.AvgNoise)
	assert.InDelta(t, 3.5, *s.AvgNoise, 1e-9)
	assert.Equal(t, []constants.Tag{constants.TagAffordable, constants.TagQuietAndChill, constants.TagWalkableArea}, s.TopTags)

	s, err = svc.HousingSummary(ctx, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, s.ReviewCount)
	assert.Nil(t, s.AvgCost)

	all, err := svc.HousingSummaries(ctx, []uint{vue.ID, empty.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, all[vue.ID].ReviewCount)
	assert.Equal(t, 0, all[empty.ID].ReviewCount)
}

func TestReviewWritesInvalidateCachedSummaries(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cache := newMemoryCache()
	ratings := NewRatingService(RatingServiceOptions{DB: db, Cache: cache, Logger: logger.Nop{}})
	reviews := NewReviewService(ReviewServiceOptions{DB: db, Ratings: ratings, Logger: logger.Nop{}})

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	vue := testutil.Housing(t, db, campus, "The Vue")
	alice := testutil.User(t, db, "alice", campus)

	s, err := ratings.HousingSummary(ctx, vue.ID)
	require.NoError(t, err)
	assert.Zero(t, s.ReviewCount)
	_, err = ratings.CampusSummary(ctx, campus.ID)
	require.NoError(t, err)
	assert.Contains(t, cache.housings, vue.ID)
	assert.Contains(t, cache.campuses, campus.ID)

	_, err = reviews.Create(ctx, actorOf(alice), vue.ID, fullReview(4))
	require.NoError(t, err)
	assert.NotContains(t, cache.housings, vue.ID)
	assert.NotContains(t, cache.campuses, campus.ID)
	assert.Contains(t, cache.invalidated, [2]uint{vue.ID, campus.ID})

	s, err = ratings.HousingSummary(ctx, vue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ReviewCount)

	cs, err := ratings.CampusSummary(ctx, campus.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.HousingCount)
	assert.Equal(t, 1, cs.ReviewCount)
}

func TestSummaryReadRacingReviewWriteIsNotCached(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cache := &stallingCache{memoryCache: newMemoryCache(), reached: make(chan struct{}), release: make(chan struct{})}
	ratings := NewRatingService(RatingServiceOptions{DB: db, Cache: cache, Logger: logger.Nop{}})
	reviews := NewReviewService(ReviewServiceOptions{DB: db, Ratings: ratings, Logger: logger.Nop{}})

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	vue := testutil.Housing(t, db, campus, "The Vue")
	alice := testutil.User(t, db, "alice", campus)

	type result struct {
		summary rating.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		s, err := ratings.HousingSummary(ctx, vue.ID)
		done <- result{s, err}
	}()
	<-cache.reached

	_, err := reviews.Create(ctx, actorOf(alice), vue.ID, fullReview(4))
	require.NoError(t, err)

	close(cache.release)
	stale := <-done
	require.NoError(t, stale.err)
	assert.Zero(t, stale.summary.ReviewCount)

	_, cached := cache.cachedHousing(vue.ID)
	assert.False(t, cached, "summary computed before the write must not be stored")

	s, err := ratings.HousingSummary(ctx, vue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ReviewCount)

	again, ok := cache.cachedHousing(vue.ID)
	require.True(t, ok)
	assert.Equal(t, 1, again.ReviewCount)
}
