package services

import (
	"context"
	stderrors "errors"
	"testing"

	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeVerifier struct {
	identity *GoogleIdentity
	err      error
}

func (v fakeVerifier) Verify(context.Context, string) (*GoogleIdentity, error) {
	return v.identity, v.err
}

func newAuthService(t *testing.T, verifier IDTokenVerifier) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewAuthService(AuthServiceOptions{DB: db, Tokens: newTestTokens(), Verifier: verifier, Logger: logger.Nop{}}), db
}

func userWithPassword(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: username, Email: email, Password: hashed}
	require.NoError(t, db.Omit("Campus", "RoommateProfile").Create(u).Error)
	return u
}

func TestLogin(t *testing.T) {
	svc, db := newAuthService(t, nil)
	ctx := context.Background()
	stored := userWithPassword(t, db, "Raider", "raider@ttu.edu", "correct-horse")

	for _, identifier := range []string{"raider", "RAIDER@ttu.edu", " Raider "} {
		user, pair, err := svc.Login(ctx, dto.LoginRequest{Identifier: identifier, Password: "correct-horse"})
		require.NoError(t, err, identifier)
		assert.Equal(t, stored.ID, user.ID)
		assert.NotNil(t, user.LastLogin)

		actor, err := svc.tokens.ParseAccess(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, actor.UserID)
	}

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, stored.ID).Error)
	assert.NotNil(t, reloaded.LastLogin)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, db := newAuthService(t, nil)
	ctx := context.Background()
	userWithPassword(t, db, "raider", "raider@ttu.edu", "correct-horse")

	_, _, wrongPassword := svc.Login(ctx, dto.LoginRequest{Identifier: "raider", Password: "nope"})
	_, _, unknownUser := svc.Login(ctx, dto.LoginRequest{Identifier: "ghost", Password: "nope"})

	for _, err := range []error{wrongPassword, unknownUser} {
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, invalidLogin, appErr.Message)
	}
}

func TestAuthRefresh(t *testing.T) {
	svc, db := newAuthService(t, nil)
	ctx := context.Background()
	user := userWithPassword(t, db, "raider", "raider@ttu.edu", "correct-horse")
	_, pair, err := svc.Login(ctx, dto.LoginRequest{Identifier: "raider", Password: "correct-horse"})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh(ctx, pair.Access)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidToken))

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)
	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidToken))
}

func TestGoogleSignInCreatesVerifiedUser(t *testing.T) {
	identity := &GoogleIdentity{Email: "Raider@TTU.edu", EmailVerified: true, GivenName: "Red", FamilyName: "Raider"}
	svc, db := newAuthService(t, fakeVerifier{identity: identity})
	ctx := context.Background()
	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	userWithPassword(t, db, "raider", "someone@else.edu", "whatever-pass")

	user, pair, err := svc.GoogleSignIn(ctx, dto.GoogleLoginRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.Equal(t, "raider@ttu.edu", user.Email)
	assert.Equal(t, "raider1", user.Username)
	assert.True(t, user.IsVerified)
	assert.Equal(t, "Red", user.FirstName)
	require.NotNil(t, user.CampusID)
	assert.Equal(t, campus.ID, *user.CampusID)

	var profiles int64
	require.NoError(t, db.Model(&models.RoommateProfile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)

	again, _, err := svc.GoogleSignIn(ctx, dto.GoogleLoginRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)
}

func TestGoogleSignInRejections(t *testing.T) {
	tests := []struct {
		name     string
		verifier IDTokenVerifier
		code     errors.ErrorCode
	}{
		{"not configured", nil, errors.ErrCodeInvalidOperation},
		{"bad token", fakeVerifier{err: stderrors.New("expired")}, errors.ErrCodeInvalidToken},
		{"unverified email", fakeVerifier{identity: &GoogleIdentity{Email: "a@ttu.edu"}}, errors.ErrCodeValidation},
		{"not edu", fakeVerifier{identity: &GoogleIdentity{Email: "a@gmail.com", EmailVerified: true}}, errors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService(t, tt.verifier)
			_, _, err := svc.GoogleSignIn(context.Background(), dto.GoogleLoginRequest{IDToken: "token"})
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}
