package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fittrack/models"
	"fittrack/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TokenVerifier validates third-party identity tokens (Firebase).
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*utils.FirebaseClaims, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user,omitempty"`
}

type AuthService struct {
	db       *gorm.DB
	secret   []byte
	ttl      time.Duration
	verifier TokenVerifier
	mailer   Mailer
	effort   BestEffort
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration, verifier TokenVerifier, mailer Mailer, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		db:       db,
		secret:   []byte(secret),
		ttl:      ttl,
		verifier: verifier,
		mailer:   mailer,
		effort:   BestEffort{Log: log},
	}
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	token, err := utils.GenerateJWT(s.secret, u.ID, u.Email, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &AuthResult{AccessToken: token}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password, username string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var handle *string
	if username != "" {
		u, err := NormalizeUsername(username)
		if err != nil {
			return nil, err
		}
		handle = &u
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrEmailTaken
	}
	if handle != nil {
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", *handle).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrUsernameTaken
		}
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, Username: handle, Password: &hashed}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.welcome(ctx, &user)
	return s.issue(&user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == nil {
		return nil, ErrSocialAccount
	}
	if !utils.CheckPasswordHash(password, *user.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(&user)
}

// FirebaseLogin finds or creates the password-less user behind a verified
// Firebase ID token.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.verifier == nil {
		return nil, newError(ErrUnauthorized, "Firebase login is not enabled")
	}
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Invalid Firebase token")
	}
	email := strings.ToLower(claims.Email)
	if email == "" {
		return nil, InvalidInput("Email not found in Firebase token")
	}

	user := models.User{Email: email}
	res := s.db.WithContext(ctx).Where("email = ?", email).FirstOrCreate(&user)
	if res.Error != nil {
		if !isUniqueViolation(res.Error) {
			return nil, res.Error
		}
		// created concurrently
		if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
			return nil, err
		}
	} else if res.RowsAffected > 0 {
		s.welcome(ctx, &user)
	}

	out, err := s.issue(&user)
	if err != nil {
		return nil, err
	}
	out.User = &user
	return out, nil
}

// SetUsername claims a username for the user.
func (s *AuthService) SetUsername(ctx context.Context, userID uint, username string) (*models.User, error) {
	handle, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("username", handle)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, ErrUsernameTaken
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate resolves a bearer token to a live user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	claims, err := utils.ParseJWT(s.secret, token)
	if err != nil {
		return 0, newError(ErrUnauthorized, "invalid token")
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, newError(ErrUnauthorized, "invalid claims")
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, newError(ErrUnauthorized, "user not found")
	}
	return id, nil
}

func (s *AuthService) welcome(ctx context.Context, u *models.User) {
	if s.mailer == nil {
		return
	}
	s.effort.Run(ctx, "auth.welcome_email", logrus.Fields{"user_id": u.ID}, func(ctx context.Context) error {
		return s.mailer.Send(ctx, u.Email, "Welcome to FitTrack",
			"Your account is ready. Log your first workout and start tracking your progress.")
	})
}
