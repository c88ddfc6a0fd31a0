package services

import (
	"testing"
	"time"

	"campusnest/errors"
	"campusnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens() *TokenService {
	return NewTokenService(TokenServiceOptions{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	tokens := newTestTokens()
	user := &models.User{ID: 42, Username: "raider", Email: "raider@ttu.edu", IsAdmin: true}

	pair, err := tokens.GeneratePair(user)
	require.NoError(t, err)

	actor, err := tokens.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), actor.UserID)
	assert.Equal(t, "raider", actor.Username)
	assert.Equal(t, "raider@ttu.edu", actor.Email)
	assert.True(t, actor.IsAdmin)
}

func TestRefreshTokenCannotAuthenticate(t *testing.T) {
	tokens := newTestTokens()
	pair, err := tokens.GeneratePair(&models.User{ID: 1, Username: "a"})
	require.NoError(t, err)

	_, err = tokens.ParseAccess(pair.Refresh)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidToken))

	_, err = tokens.Refresh(pair.Access)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidToken))
}

func TestRefreshIssuesAccess(t *testing.T) {
	tokens := newTestTokens()
	pair, err := tokens.GeneratePair(&models.User{ID: 7, Username: "b"})
	require.NoError(t, err)

	access, err := tokens.Refresh(pair.Refresh)
	require.NoError(t, err)
	actor, err := tokens.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), actor.UserID)
}

func TestExpiredAndForeignTokens(t *testing.T) {
	tokens := newTestTokens()
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := tokens.GeneratePair(&models.User{ID: 1})
	require.NoError(t, err)
	tokens.now = time.Now

	_, err = tokens.ParseAccess(pair.Access)
	assert.Error(t, err)

	other := NewTokenService(TokenServiceOptions{AccessSecret: "other", RefreshSecret: "other", AccessTTL: time.Minute, RefreshTTL: time.Minute})
	fresh, err := other.GeneratePair(&models.User{ID: 1})
	require.NoError(t, err)
	_, err = tokens.ParseAccess(fresh.Access)
	assert.Error(t, err)

	_, err = tokens.ParseAccess("not.a.token")
	assert.Error(t, err)
}
