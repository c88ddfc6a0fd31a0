package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://x")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/campusnest")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("ROOMMATE_WEIGHT_BOOKMARKS", "")
	t.Setenv("ROOMMATE_WEIGHT_PREFS", "")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("ELASTIC_INDEX", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres://u:p@localhost/campusnest", cfg.DatabaseURL)
	assert.Equal(t, "s3cret.refresh", cfg.RefreshSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.InDelta(t, 0.6, cfg.RoommateWeights.Bookmarks, 1e-9)
	assert.Equal(t, "housings", cfg.ElasticIndex)
}

func TestConnectElasticDisabledWithoutURL(t *testing.T) {
	es, err := ConnectElastic(&Config{})
	require.NoError(t, err)
	assert.Nil(t, es)
}

func TestLoadRejectsBadWeights(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("ROOMMATE_WEIGHT_BOOKMARKS", "0.7")
	t.Setenv("ROOMMATE_WEIGHT_PREFS", "0.7")
	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseURLFromProfile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEV_DB_HOST", "db")
	t.Setenv("DEV_DB_USER", "app")
	t.Setenv("DEV_DB_PASSWORD", "pw")
	t.Setenv("DEV_DB_NAME", "campusnest")
	t.Setenv("DEV_DB_PORT", "")
	t.Setenv("DEV_DB_SSLMODE", "")

	dsn, err := databaseURL("dev")
	require.NoError(t, err)
	assert.Equal(t, "host=db user=app password=pw dbname=campusnest port=5432 sslmode=disable TimeZone=UTC", dsn)

	_, err = databaseURL("staging")
	assert.Error(t, err)
}
