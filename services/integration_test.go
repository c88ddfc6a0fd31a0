//go:build integration
// +build integration

package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"campusnest/config"
	"campusnest/constants"
	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/rating"
	"campusnest/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("campusnest"),
		postgres.WithUsername("campusnest"),
		postgres.WithPassword("campusnest"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := config.ConnectDB(dsn, false)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate redis: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb, err := config.ConnectRedis(ctx, &config.Config{RedisAddr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPostgresConstraints(t *testing.T) {
	db := setupPostgres(t)
	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	alice := testutil.User(t, db, "alice", campus)
	housing := testutil.Housing(t, db, campus, "The Vue")
	testutil.Review(t, db, alice, housing, 4)

	dup := &models.Review{HousingID: housing.ID, UserID: alice.ID, Cost: 1, Safety: 1, Management: 1, Noise: 1,
		Tag1: "affordable", Tag2: "thin_walls", Tag3: "free_parking"}
	err := db.Omit("Housing", "User", "Media").Create(dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.True(t, errors.HasCode(translate(err, "Review", "dup"), errors.ErrCodeConflict))

	bob := testutil.User(t, db, "bob", campus)
	outOfRange := &models.Review{HousingID: housing.ID, UserID: bob.ID, Cost: 9, Safety: 1, Management: 1, Noise: 1,
		Tag1: "affordable", Tag2: "thin_walls", Tag3: "free_parking"}
	assert.Error(t, db.Omit("Housing", "User", "Media").Create(outOfRange).Error)

	err = db.Delete(&models.Campus{}, campus.ID).Error
	assert.Error(t, err, "users restrict campus deletion")
}

func TestPostgresServices(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	ratings := newRatings(db)
	housings := NewHousingService(HousingServiceOptions{DB: db, Ratings: ratings, Logger: logger.Nop{}})
	reviews := NewReviewService(ReviewServiceOptions{DB: db, Ratings: ratings, Logger: logger.Nop{}})
	admin := NewAdminService(db)

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	alice := testutil.User(t, db, "alice", campus)
	vue := testutil.Housing(t, db, campus, "The Vue")
	testutil.Housing(t, db, campus, "Chitwood Hall")

	_, err := reviews.Create(ctx, actorOf(alice), vue.ID, fullReview(3))
	require.NoError(t, err)
	_, err = reviews.Create(ctx, actorOf(alice), vue.ID, fullReview(3))
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	page, err := housings.List(ctx, dto.HousingFilter{Search: "VUE", Ordering: "-name"})
	require.NoError(t, err)
	require.Len(t, page.Housings, 1)
	assert.Equal(t, 1, page.Summaries[vue.ID].ReviewCount)

	entities, err := admin.Entities(ctx, adminActor)
	require.NoError(t, err)
	for _, e := range entities {
		if e.Name == "review" {
			assert.EqualValues(t, 1, e.Count)
		}
	}

	require.NoError(t, housings.Delete(ctx, adminActor, vue.ID))
	var n int64
	require.NoError(t, db.Model(&models.Review{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRedisSummaryCache(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	cache := NewRedisSummaryCache(rdb, time.Minute, logger.Nop{})

	_, gen, ok := cache.GetHousing(ctx, 1)
	assert.False(t, ok)
	assert.Zero(t, gen)

	avg := 4.5
	cache.SetHousing(ctx, 1, ratingSummaryFixture(avg), gen)
	cache.SetCampus(ctx, 2, CampusSummary{Summary: ratingSummaryFixture(avg), HousingCount: 3}, 0)

	got, _, ok := cache.GetHousing(ctx, 1)
	require.True(t, ok)
	require.NotNil(t, got.AvgCost)
	assert.InDelta(t, avg, *got.AvgCost, 1e-9)

	campus, _, ok := cache.GetCampus(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, 3, campus.HousingCount)

	require.NoError(t, cache.Invalidate(ctx, 1, 2))
	_, gen, ok = cache.GetHousing(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
	_, campusGen, ok := cache.GetCampus(ctx, 2)
	assert.False(t, ok)
	assert.Equal(t, int64(1), campusGen)

	// A summary computed under generation 0 is refused once it moved on.
	cache.SetHousing(ctx, 1, ratingSummaryFixture(avg), 0)
	_, _, ok = cache.GetHousing(ctx, 1)
	assert.False(t, ok)

	cache.SetHousing(ctx, 1, ratingSummaryFixture(avg), gen)
	_, _, ok = cache.GetHousing(ctx, 1)
	assert.True(t, ok)
}

func TestLoginThrottle(t *testing.T) {
	db := testutil.NewDB(t)
	rdb := setupRedis(t)
	ctx := context.Background()
	svc := NewAuthService(AuthServiceOptions{DB: db, Redis: rdb, Tokens: newTestTokens(), Logger: logger.Nop{}})
	userWithPassword(t, db, "raider", "raider@ttu.edu", "correct-horse")

	for i := 0; i < maxLoginFailures; i++ {
		_, _, err := svc.Login(ctx, dto.LoginRequest{Identifier: "raider", Password: "wrong"})
		require.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
	}

	_, _, err := svc.Login(ctx, dto.LoginRequest{Identifier: "raider", Password: "correct-horse"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeTooManyAttempts))

	ttl, err := rdb.TTL(ctx, loginFailKey("raider")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, rdb.Del(ctx, loginFailKey("raider")).Err())
	_, _, err = svc.Login(ctx, dto.LoginRequest{Identifier: "raider", Password: "correct-horse"})
	assert.NoError(t, err)
}

func ratingSummaryFixture(avg float64) rating.Summary {
	return rating.Summary{AvgCost: &avg, ReviewCount: 2, TopTags: []constants.Tag{constants.TagAffordable}}
}
