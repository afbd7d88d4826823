package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials     = errors.New("invalid_credentials")
	ErrPasswordChangeRequired = errors.New("password_change_required")
)

// AuthService checks credentials and the weekly password rule.
type AuthService struct {
	DB  *gorm.DB
	Loc *time.Location
	now func() time.Time
}

func NewAuthService(db *gorm.DB, loc *time.Location) *AuthService {
	if loc == nil {
		loc = time.UTC
	}
	return &AuthService{DB: db, Loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// LoginResult is returned by POST /auth/login.
type LoginResult struct {
	Token                  string      `json:"token"`
	User                   models.User `json:"user"`
	PasswordChangeRequired bool        `json:"password_change_required"`
}

func (s *AuthService) Login(ctx context.Context, cin, password string) (LoginResult, error) {
	var res LoginResult
	cin = strings.TrimSpace(cin)
	if cin == "" || password == "" {
		return res, ErrInvalidCredentials
	}
	var u models.User
	err := s.DB.WithContext(ctx).Where("cin = ?", cin).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, ErrInvalidCredentials
	}
	if err != nil {
		return res, fmt.Errorf("login lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return res, ErrInvalidCredentials
	}
	token, err := auth.IssueToken(u.ID, u.CIN, models.NormalizeRole(u.Role), s.now())
	if err != nil {
		return res, fmt.Errorf("issue token: %w", err)
	}
	res.Token = token
	res.User = u
	res.PasswordChangeRequired = PasswordChangeRequired(&u, s.now(), s.Loc)
	return res, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		return u, notFound("user", err)
	}
	return u, nil
}

// Exists reports whether the user is still present. It backs auth.SetUserVerifier.
func (s *AuthService) Exists(ctx context.Context, userID uint) bool {
	var n int64
	return s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error == nil && n > 0
}

// VerifyPassword re-checks the caller's password before a sensitive action.
func (s *AuthService) VerifyPassword(ctx context.Context, userID uint, password string) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if len(next) < 6 {
		return invalid("new password too short")
	}
	if err := s.VerifyPassword(ctx, userID, current); err != nil {
		return err
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	now := s.now()
	err = s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password":                            hash,
		"password_changed_at":                 now,
		"password_change_required_week_start": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Required is PasswordChangeRequired for a stored user.
func (s *AuthService) Required(ctx context.Context, userID uint) (bool, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return false, err
	}
	return PasswordChangeRequired(&u, s.now(), s.Loc), nil
}

// PasswordChangeRequired is true on Mondays for employees who have not
// changed their password since the start of that day.
func PasswordChangeRequired(u *models.User, now time.Time, loc *time.Location) bool {
	if !u.IsEmployee() {
		return false
	}
	local := now.In(loc)
	if local.Weekday() != time.Monday {
		return false
	}
	if u.PasswordChangedAt == nil {
		return true
	}
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return u.PasswordChangedAt.Before(startOfDay)
}
