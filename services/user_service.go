package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/types"
	"campusnest/validator"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const codeLength = 6

type UserService struct {
	db      *gorm.DB
	mailer  Mailer
	logger  logger.Logger
	codeTTL time.Duration
	now     func() time.Time
}

type UserServiceOptions struct {
	DB      *gorm.DB
	Mailer  Mailer
	Logger  logger.Logger
	CodeTTL time.Duration
}

func NewUserService(opts UserServiceOptions) *UserService {
	ttl := opts.CodeTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &UserService{db: opts.DB, mailer: opts.Mailer, logger: opts.Logger, codeTTL: ttl, now: time.Now}
}

func generateVerificationCode() (string, error) {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(n.String())
	}
	return b.String(), nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}

// Register creates an unverified user and its roommate profile in one
// transaction, then mails the verification code. When no campus is given
// the campus owning the email domain is used, if there is one.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.ValidateRegistration(username, email, req.Password, req.Password2); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, errors.Internal("Could not hash password", err)
	}
	code, err := generateVerificationCode()
	if err != nil {
		return nil, errors.Internal("Could not generate verification code", err)
	}
	now := s.now()

	user := &models.User{
		Username:      username,
		Email:         email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      hashed,
		Code:          code,
		CodeCreatedAt: &now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		campus, err := resolveCampus(tx, req.CampusID, email)
		if err != nil {
			return err
		}
		if campus != nil {
			if err := validator.ValidateEmailDomain(email, campus); err != nil {
				return err
			}
			user.CampusID = &campus.ID
		}

		if err := checkUserUnique(tx, username, email, 0); err != nil {
			return err
		}
		if err := tx.Omit("Campus", "RoommateProfile").Create(user).Error; err != nil {
			return translate(err, "User", "A user with that username or email already exists.")
		}
		profile := &models.RoommateProfile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			return errors.Internal("Could not create roommate profile", err)
		}
		user.RoommateProfile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Username, code); err != nil {
		s.logger.Error("send verification code to %s: %v", user.Email, err)
	}
	return user, nil
}

func resolveCampus(tx *gorm.DB, campusID *uint, email string) (*models.Campus, error) {
	var campus models.Campus
	if campusID != nil {
		if err := tx.First(&campus, *campusID).Error; err != nil {
			if isNotFound(err) {
				return nil, errors.FieldError("campusId", "Campus does not exist.")
			}
			return nil, errors.Internal("Could not load campus", err)
		}
		return &campus, nil
	}
	err := tx.Where("LOWER(email_domain) = ?", emailDomain(email)).First(&campus).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("Could not load campus", err)
	}
	return &campus, nil
}

func checkUserUnique(tx *gorm.DB, username, email string, exceptID uint) error {
	var existing []models.User
	if err := tx.Select("id", "username", "email").
		Where("(username = ? OR LOWER(email) = ?) AND id <> ?", username, strings.ToLower(email), exceptID).
		Find(&existing).Error; err != nil {
		return errors.Internal("Could not check user", err)
	}
	fields := map[string]string{}
	for _, u := range existing {
		if u.Username == username {
			fields["username"] = "A user with that username already exists."
		}
		if strings.EqualFold(u.Email, email) {
			fields["email"] = "A user with that email already exists."
		}
	}
	if len(fields) > 0 {
		return &errors.AppError{Code: errors.ErrCodeConflict, Message: "User already exists", Fields: fields}
	}
	return nil
}

// Verify marks the email as verified when the code matches and is fresh.
func (s *UserService) Verify(ctx context.Context, email, code string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, translate(err, "User", "")
	}
	if user.IsVerified {
		return &user, nil
	}
	if user.Code == "" || user.Code != code {
		return nil, errors.NewAppError(errors.ErrCodeInvalidCode, "Verification code is incorrect.", nil)
	}
	now := s.now()
	if user.CodeCreatedAt == nil || now.Sub(*user.CodeCreatedAt) > s.codeTTL {
		return nil, errors.NewAppError(errors.ErrCodeExpiredCode, "Verification code has expired. Request a new one.", nil)
	}

	user.IsVerified = true
	user.VerifiedAt = &now
	user.Code = ""
	user.CodeCreatedAt = nil
	if err := s.db.WithContext(ctx).Model(&user).
		Select("is_verified", "verified_at", "code", "code_created_at").
		Updates(&user).Error; err != nil {
		return nil, errors.Internal("Could not verify user", err)
	}
	return &user, nil
}

// Resend issues a fresh code for an unverified user.
func (s *UserService) Resend(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return translate(err, "User", "")
	}
	if user.IsVerified {
		return errors.NewAppError(errors.ErrCodeInvalidOperation, "Email is already verified.", nil)
	}
	code, err := generateVerificationCode()
	if err != nil {
		return errors.Internal("Could not generate verification code", err)
	}
	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).
		Updates(map[string]any{"code": code, "code_created_at": now}).Error; err != nil {
		return errors.Internal("Could not store verification code", err)
	}
	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Username, code); err != nil {
		return errors.NewAppError(errors.ErrCodeUpstream, "Could not send verification email", err)
	}
	return nil
}

// PurgeStaleCodes clears verification codes older than the code TTL.
func (s *UserService) PurgeStaleCodes(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("code <> '' AND code_created_at < ?", s.now().Add(-s.codeTTL)).
		Updates(map[string]any{"code": "", "code_created_at": nil})
	return res.RowsAffected, res.Error
}

func (s *UserService) Me(ctx context.Context, actor *types.Actor) (*models.User, error) {
	if !actor.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication credentials were not provided.")
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, actor.UserID).Error; err != nil {
		return nil, translate(err, "User", "")
	}
	return &user, nil
}

// UpdateMe changes names and campus. Switching campus must keep the email
// inside the new campus domain.
func (s *UserService) UpdateMe(ctx context.Context, actor *types.Actor, req dto.UpdateMeRequest) (*models.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.CampusID != nil {
		var campus models.Campus
		if err := s.db.WithContext(ctx).First(&campus, *req.CampusID).Error; err != nil {
			if isNotFound(err) {
				return nil, errors.FieldError("campusId", "Campus does not exist.")
			}
			return nil, errors.Internal("Could not load campus", err)
		}
		if err := validator.ValidateEmailDomain(user.Email, &campus); err != nil {
			return nil, err
		}
		user.CampusID = &campus.ID
	}
	if err := s.db.WithContext(ctx).Model(user).
		Select("first_name", "last_name", "campus_id").
		Updates(user).Error; err != nil {
		return nil, errors.Internal("Could not update user", err)
	}
	return user, nil
}

// GetProfile returns the caller's roommate profile, creating it for
// accounts that predate profiles.
func (s *UserService) GetProfile(ctx context.Context, actor *types.Actor) (*models.RoommateProfile, error) {
	if !actor.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication credentials were not provided.")
	}
	profile := models.RoommateProfile{UserID: actor.UserID}
	if err := s.db.WithContext(ctx).Where("user_id = ?", actor.UserID).FirstOrCreate(&profile).Error; err != nil {
		return nil, errors.Internal("Could not load roommate profile", err)
	}
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *types.Actor, req dto.RoommateProfileRequest) (*models.RoommateProfile, error) {
	profile, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	req.Apply(profile)
	if err := validator.ValidateRoommateProfile(profile); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(profile).Omit("user_id", "created_at").Select("*").Updates(profile).Error; err != nil {
		return nil, errors.Internal("Could not update roommate profile", err)
	}
	return profile, nil
}
