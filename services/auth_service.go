package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

const (
	maxLoginFailures = 5
	loginLockout     = 15 * time.Minute
	invalidLogin     = "No active account found with the given credentials"
)

// GoogleIdentity is the part of a Google ID token we rely on.
type GoogleIdentity struct {
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
}

type IDTokenVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleIdentity, error)
}

// GoogleVerifier validates ID tokens against Google's published keys.
type GoogleVerifier struct {
	ClientID string
}

func (v GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.ClientID)
	if err != nil {
		return nil, err
	}
	claim := func(key string) string {
		s, _ := payload.Claims[key].(string)
		return s
	}
	verified, _ := payload.Claims["email_verified"].(bool)
	return &GoogleIdentity{
		Email:         claim("email"),
		EmailVerified: verified,
		GivenName:     claim("given_name"),
		FamilyName:    claim("family_name"),
	}, nil
}

type AuthService struct {
	db       *gorm.DB
	rdb      *redis.Client
	tokens   *TokenService
	verifier IDTokenVerifier
	logger   logger.Logger
	now      func() time.Time
}

type AuthServiceOptions struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Tokens   *TokenService
	Verifier IDTokenVerifier
	Logger   logger.Logger
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		db:       opts.DB,
		rdb:      opts.Redis,
		tokens:   opts.Tokens,
		verifier: opts.Verifier,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

func loginFailKey(identifier string) string {
	return "login:fail:" + identifier
}

// Login accepts a username or an email. Repeated failures for the same
// identifier are locked out for a while when Redis is available.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, TokenPair, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if err := s.checkThrottle(ctx, identifier); err != nil {
		return nil, TokenPair{}, err
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", identifier, identifier).
		First(&user).Error
	if err != nil && !isNotFound(err) {
		return nil, TokenPair{}, errors.Internal("Could not load user", err)
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		s.recordFailure(ctx, identifier)
		return nil, TokenPair{}, errors.Unauthorized(invalidLogin)
	}
	s.clearFailures(ctx, identifier)

	return s.issue(ctx, &user)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*models.User, TokenPair, error) {
	now := s.now()
	user.LastLogin = &now
	if err := s.db.WithContext(ctx).Model(user).UpdateColumn("last_login", now).Error; err != nil {
		s.logger.Error("update last login for user %d: %v", user.ID, err)
	}
	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) checkThrottle(ctx context.Context, identifier string) error {
	if s.rdb == nil {
		return nil
	}
	n, err := s.rdb.Get(ctx, loginFailKey(identifier)).Int()
	if err != nil && err != redis.Nil {
		s.logger.Error("read login throttle: %v", err)
		return nil
	}
	if n >= maxLoginFailures {
		return errors.NewAppError(errors.ErrCodeTooManyAttempts, "Too many failed login attempts. Try again later.", nil)
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, identifier string) {
	if s.rdb == nil {
		return
	}
	key := loginFailKey(identifier)
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, loginLockout)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("record login failure: %v", err)
	}
}

func (s *AuthService) clearFailures(ctx context.Context, identifier string) {
	if s.rdb == nil {
		return
	}
	if err := DeleteFromRedis(ctx, s.rdb, loginFailKey(identifier)); err != nil {
		s.logger.Error("clear login failures: %v", err)
	}
}

// Refresh returns a new access token for a valid refresh token whose user
// still exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", err
	}
	actor, err := s.tokens.ParseAccess(access)
	if err != nil {
		return "", err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", actor.UserID).Count(&n).Error; err != nil {
		return "", errors.Internal("Could not load user", err)
	}
	if n == 0 {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "User no longer exists", nil)
	}
	return access, nil
}

// GoogleSignIn logs in the owner of a verified Google campus email, creating
// a verified account on first use.
func (s *AuthService) GoogleSignIn(ctx context.Context, req dto.GoogleLoginRequest) (*models.User, TokenPair, error) {
	if s.verifier == nil {
		return nil, TokenPair{}, errors.NewAppError(errors.ErrCodeInvalidOperation, "Google sign-in is not configured.", nil)
	}
	identity, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, TokenPair{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Google token is invalid", err)
	}
	if !identity.EmailVerified {
		return nil, TokenPair{}, errors.FieldError("email", "Google has not verified this email.")
	}
	email := strings.ToLower(identity.Email)
	if !validator.IsEduEmail(email) {
		return nil, TokenPair{}, errors.FieldError("email", "Must be an .edu address.")
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&user).Error
	switch {
	case err == nil:
		return s.issue(ctx, &user)
	case !isNotFound(err):
		return nil, TokenPair{}, errors.Internal("Could not load user", err)
	}

	created, err := s.createGoogleUser(ctx, identity, email, req.CampusID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return s.issue(ctx, created)
}

func (s *AuthService) createGoogleUser(ctx context.Context, identity *GoogleIdentity, email string, campusID *uint) (*models.User, error) {
	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return nil, errors.Internal("Could not generate password", err)
	}
	hashed, err := HashPassword(hex.EncodeToString(secret))
	if err != nil {
		return nil, errors.Internal("Could not hash password", err)
	}
	now := s.now()
	user := &models.User{
		Email:      email,
		FirstName:  identity.GivenName,
		LastName:   identity.FamilyName,
		Password:   hashed,
		IsVerified: true,
		VerifiedAt: &now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		campus, err := resolveCampus(tx, campusID, email)
		if err != nil {
			return err
		}
		if campus != nil {
			if err := validator.ValidateEmailDomain(email, campus); err != nil {
				return err
			}
			user.CampusID = &campus.ID
		}
		if user.Username, err = freeUsername(tx, email); err != nil {
			return err
		}
		if err := tx.Omit("Campus", "RoommateProfile").Create(user).Error; err != nil {
			return translate(err, "User", "A user with that email already exists.")
		}
		return tx.Create(&models.RoommateProfile{UserID: user.ID}).Error
	})
	if err != nil {
		return nil, translate(err, "User", "")
	}
	return user, nil
}

// freeUsername derives a username from the email local part, adding a
// numeric suffix until it is unused.
func freeUsername(tx *gorm.DB, email string) (string, error) {
	base := email
	if i := strings.Index(email, "@"); i > 0 {
		base = email[:i]
	}
	candidate := base
	for i := 1; ; i++ {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", candidate).Count(&n).Error; err != nil {
			return "", errors.Internal("Could not check username", err)
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}
