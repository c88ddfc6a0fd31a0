package services

import (
	"fmt"
	"time"

	"campusnest/errors"
	"campusnest/models"
	"campusnest/types"

	"github.com/dgrijalva/jwt-go"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// UserInfo is the identity carried inside every token.
type UserInfo struct {
	UserId   uint   `json:"userid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	Type     string   `json:"typ"`
	jwt.StandardClaims
}

// TokenPair is what login and Google sign-in return.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService signs and verifies HS256 tokens. Access and refresh tokens
// use separate secrets.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type TokenServiceOptions struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenService(opts TokenServiceOptions) *TokenService {
	return &TokenService{
		accessSecret:  []byte(opts.AccessSecret),
		refreshSecret: []byte(opts.RefreshSecret),
		accessTTL:     opts.AccessTTL,
		refreshTTL:    opts.RefreshTTL,
		now:           time.Now,
	}
}

func userInfoOf(user *models.User) UserInfo {
	return UserInfo{
		UserId:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}
}

func (s *TokenService) sign(info UserInfo, typ string, ttl time.Duration, secret []byte) (string, error) {
	now := s.now()
	claims := &Claims{
		UserInfo: info,
		Type:     typ,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
			Subject:   fmt.Sprint(info.UserId),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// GeneratePair issues a fresh access and refresh token for user.
func (s *TokenService) GeneratePair(user *models.User) (TokenPair, error) {
	info := userInfoOf(user)
	access, err := s.sign(info, tokenTypeAccess, s.accessTTL, s.accessSecret)
	if err != nil {
		return TokenPair{}, errors.Internal("Could not sign token", err)
	}
	refresh, err := s.sign(info, tokenTypeRefresh, s.refreshTTL, s.refreshSecret)
	if err != nil {
		return TokenPair{}, errors.Internal("Could not sign token", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) parse(tokenString, typ string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token is invalid or expired", err)
	}
	if claims.Type != typ || claims.UserInfo.UserId == 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token is invalid or expired", nil)
	}
	return claims, nil
}

// ParseAccess verifies an access token and returns the actor it names.
func (s *TokenService) ParseAccess(tokenString string) (*types.Actor, error) {
	claims, err := s.parse(tokenString, tokenTypeAccess, s.accessSecret)
	if err != nil {
		return nil, err
	}
	return &types.Actor{
		UserID:   claims.UserInfo.UserId,
		Username: claims.UserInfo.Username,
		Email:    claims.UserInfo.Email,
		IsAdmin:  claims.UserInfo.IsAdmin,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh, s.refreshSecret)
	if err != nil {
		return "", err
	}
	access, err := s.sign(claims.UserInfo, tokenTypeAccess, s.accessTTL, s.accessSecret)
	if err != nil {
		return "", errors.Internal("Could not sign token", err)
	}
	return access, nil
}
