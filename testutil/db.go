// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"campusnest/config"
	"campusnest/constants"
	"campusnest/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory SQLite store private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:campusnest_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func Campus(t testing.TB, db *gorm.DB, name, domain string) *models.Campus {
	t.Helper()
	c := &models.Campus{Name: name, EmailDomain: domain}
	require.NoError(t, db.Create(c).Error)
	return c
}

// User creates a verified user with an empty roommate profile.
func User(t testing.TB, db *gorm.DB, username string, campus *models.Campus) *models.User {
	t.Helper()
	u := &models.User{
		Username:   username,
		Email:      username + "@" + campus.EmailDomain,
		Password:   "x",
		CampusID:   &campus.ID,
		IsVerified: true,
	}
	require.NoError(t, db.Omit("Campus", "RoommateProfile").Create(u).Error)
	require.NoError(t, db.Create(&models.RoommateProfile{UserID: u.ID}).Error)
	return u
}

func Housing(t testing.TB, db *gorm.DB, campus *models.Campus, name string) *models.Housing {
	t.Helper()
	h := &models.Housing{
		CampusID:     campus.ID,
		Name:         name,
		Type:         constants.HousingTypeApartment,
		AddressLine1: "1 Main St",
		County:       "Lubbock",
		State:        "TX",
	}
	require.NoError(t, db.Omit("Campus").Create(h).Error)
	return h
}

// Review stores a review with the given ratings applied to all four
// categories and three distinct tags.
func Review(t testing.TB, db *gorm.DB, user *models.User, housing *models.Housing, score int, tags ...constants.Tag) *models.Review {
	t.Helper()
	defaults := []constants.Tag{constants.TagAffordable, constants.TagThinWalls, constants.TagFreeParking}
	copy(defaults, tags)
	r := &models.Review{
		HousingID:  housing.ID,
		UserID:     user.ID,
		Cost:       score,
		Safety:     score,
		Management: score,
		Noise:      score,
		Tag1:       defaults[0],
		Tag2:       defaults[1],
		Tag3:       defaults[2],
		Comment:    "ok",
	}
	require.NoError(t, db.Omit("Housing", "User", "Media").Create(r).Error)
	return r
}
