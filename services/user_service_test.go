package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"campusnest/constants"
	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := testutil.NewDB(t)
	mailer := &fakeMailer{}
	return NewUserService(UserServiceOptions{DB: db, Mailer: mailer, Logger: logger.Nop{}}), db, mailer
}

func registration(username, email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  "correct-horse",
		Password2: "correct-horse",
		FirstName: "Raider",
	}
}

func TestRegisterResolvesCampusAndMailsCode(t *testing.T) {
	svc, db, mailer := newUserService(t)
	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")

	user, err := svc.Register(context.Background(), registration("raider", " Raider@TTU.edu "))
	require.NoError(t, err)
	assert.Equal(t, "raider@ttu.edu", user.Email)
	require.NotNil(t, user.CampusID)
	assert.Equal(t, campus.ID, *user.CampusID)
	assert.False(t, user.IsVerified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct-horse")))

	var profiles int64
	require.NoError(t, db.Model(&models.RoommateProfile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "raider@ttu.edu", mailer.sent[0].Email)
	assert.Len(t, mailer.sent[0].Code, 6)
	assert.Equal(t, user.Code, mailer.sent[0].Code)
}

func TestRegisterWithoutMatchingCampus(t *testing.T) {
	svc, _, _ := newUserService(t)

	user, err := svc.Register(context.Background(), registration("owl", "owl@rice.edu"))
	require.NoError(t, err)
	assert.Nil(t, user.CampusID)
}

func TestRegisterRejectsForeignDomainForCampus(t *testing.T) {
	svc, db, mailer := newUserService(t)
	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")

	req := registration("owl", "owl@rice.edu")
	req.CampusID = &campus.ID
	_, err := svc.Register(context.Background(), req)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
	assert.Empty(t, mailer.sent)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestRegisterValidation(t *testing.T) {
	svc, db, _ := newUserService(t)
	testutil.User(t, db, "taken", testutil.Campus(t, db, "Texas Tech", "ttu.edu"))

	tests := []struct {
		name  string
		req   dto.RegisterRequest
		code  errors.ErrorCode
		field string
	}{
		{"not edu", registration("a", "a@gmail.com"), errors.ErrCodeValidation, "email"},
		{"short password", func() dto.RegisterRequest {
			r := registration("a", "a@ttu.edu")
			r.Password, r.Password2 = "short", "short"
			return r
		}(), errors.ErrCodeValidation, "password"},
		{"password mismatch", func() dto.RegisterRequest {
			r := registration("a", "a@ttu.edu")
			r.Password2 = "different-one"
			return r
		}(), errors.ErrCodeValidation, "password"},
		{"username taken", registration("taken", "new@ttu.edu"), errors.ErrCodeConflict, "username"},
		{"email taken", registration("fresh", "TAKEN@ttu.edu"), errors.ErrCodeConflict, "email"},
		{"unknown campus", func() dto.RegisterRequest {
			r := registration("a", "a@ttu.edu")
			r.CampusID = uintPtr(404)
			return r
		}(), errors.ErrCodeValidation, "campusId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr, "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, _, mailer := newUserService(t)
	mailer.err = stderrors.New("smtp down")

	user, err := svc.Register(context.Background(), registration("raider", "raider@ttu.edu"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestVerify(t *testing.T) {
	svc, _, mailer := newUserService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registration("raider", "raider@ttu.edu"))
	require.NoError(t, err)
	code := mailer.sent[0].Code

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = svc.Verify(ctx, "raider@ttu.edu", wrong)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidCode))

	realNow := svc.now
	svc.now = func() time.Time { return realNow().Add(time.Hour) }
	_, err = svc.Verify(ctx, "raider@ttu.edu", code)
	assert.True(t, errors.HasCode(err, errors.ErrCodeExpiredCode))
	svc.now = realNow

	user, err := svc.Verify(ctx, "RAIDER@ttu.edu", code)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.NotNil(t, user.VerifiedAt)
	assert.Empty(t, user.Code)

	again, err := svc.Verify(ctx, "raider@ttu.edu", "999999")
	require.NoError(t, err, "an already verified user is returned as is")
	assert.True(t, again.IsVerified)

	_, err = svc.Verify(ctx, "nobody@ttu.edu", code)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestResend(t *testing.T) {
	svc, db, mailer := newUserService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registration("raider", "raider@ttu.edu"))
	require.NoError(t, err)

	require.NoError(t, svc.Resend(ctx, "raider@ttu.edu"))
	require.Len(t, mailer.sent, 2)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "raider@ttu.edu").First(&stored).Error)
	assert.Equal(t, mailer.sent[1].Code, stored.Code)

	mailer.err = stderrors.New("smtp down")
	err = svc.Resend(ctx, "raider@ttu.edu")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUpstream))
	mailer.err = nil

	_, err = svc.Verify(ctx, "raider@ttu.edu", mailer.sent[2].Code)
	require.NoError(t, err)
	err = svc.Resend(ctx, "raider@ttu.edu")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOperation))
}

func TestPurgeStaleCodes(t *testing.T) {
	svc, db, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registration("old", "old@ttu.edu"))
	require.NoError(t, err)

	n, err := svc.PurgeStaleCodes(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	realNow := svc.now
	svc.now = func() time.Time { return realNow().Add(time.Hour) }
	_, err = svc.Register(ctx, registration("fresh", "fresh@ttu.edu"))
	require.NoError(t, err)

	n, err = svc.PurgeStaleCodes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var old models.User
	require.NoError(t, db.Where("username = ?", "old").First(&old).Error)
	assert.Empty(t, old.Code)
	assert.Nil(t, old.CodeCreatedAt)
}

func TestUpdateMe(t *testing.T) {
	svc, db, _ := newUserService(t)
	ctx := context.Background()
	ttu := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	rice := testutil.Campus(t, db, "Rice", "rice.edu")
	alice := testutil.User(t, db, "alice", ttu)

	_, err := svc.Me(ctx, nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))

	updated, err := svc.UpdateMe(ctx, actorOf(alice), dto.UpdateMeRequest{FirstName: strPtr(" Alice "), LastName: strPtr("Smith")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)

	_, err = svc.UpdateMe(ctx, actorOf(alice), dto.UpdateMeRequest{CampusID: &rice.ID})
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Fields, "email")

	me, err := svc.Me(ctx, actorOf(alice))
	require.NoError(t, err)
	assert.Equal(t, ttu.ID, *me.CampusID)
	assert.Equal(t, "Alice", me.FirstName)
}

func TestRoommateProfile(t *testing.T) {
	svc, db, _ := newUserService(t)
	ctx := context.Background()
	alice := testutil.User(t, db, "alice", testutil.Campus(t, db, "Texas Tech", "ttu.edu"))

	profile, err := svc.GetProfile(ctx, actorOf(alice))
	require.NoError(t, err)
	assert.False(t, profile.LookingForRoommate)
	assert.Nil(t, profile.Age)

	updated, err := svc.UpdateProfile(ctx, actorOf(alice), dto.RoommateProfileRequest{
		LookingForRoommate: boolP(true),
		Age:                intPtr(21),
		Gender:             strPtr("female"),
		Cleanliness:        intPtr(4),
		SleepSchedule:      strPtr("night_owl"),
	})
	require.NoError(t, err)
	assert.True(t, updated.LookingForRoommate)

	_, err = svc.UpdateProfile(ctx, actorOf(alice), dto.RoommateProfileRequest{Age: intPtr(12), Gender: strPtr("robot")})
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Fields, "age")
	assert.Contains(t, appErr.Fields, "gender")

	cleared, err := svc.UpdateProfile(ctx, actorOf(alice), dto.RoommateProfileRequest{SleepSchedule: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.SleepSchedule)

	stored, err := svc.GetProfile(ctx, actorOf(alice))
	require.NoError(t, err)
	assert.True(t, stored.LookingForRoommate)
	require.NotNil(t, stored.Age)
	assert.Equal(t, 21, *stored.Age)
	require.NotNil(t, stored.Gender)
	assert.Equal(t, constants.GenderFemale, *stored.Gender)
	assert.Nil(t, stored.SleepSchedule)

	_, err = svc.GetProfile(ctx, nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
}
