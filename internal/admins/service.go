package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/stockroom-dev/stockroom/internal/auth"
	"github.com/stockroom-dev/stockroom/internal/models"
)

var (
	// ErrInvalidCredentials is returned for an unknown user and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin already exists")
)

// dummyHash is compared against when the username is unknown so that both
// failure paths pay for one bcrypt comparison.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZmYy8nbnLi2fBQ5fYpu1jW"

// Service is the identity store used by the login path and the admin CLI.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a new admins service
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "admins_service").Logger(),
	}
}

// Authenticate returns the admin whose username and password match.
func (s *Service) Authenticate(ctx context.Context, userName, password string) (*models.Admin, error) {
	admin, err := s.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = auth.VerifyPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		// Corrupt hash: not the caller's fault, but still not a login.
		s.logger.Error().Err(err).Str("admin_id", admin.ID).Msg("Stored password hash is unusable")
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// normalizeUserName is applied wherever a username enters the store or is
// looked up. Matching stays case-sensitive.
func normalizeUserName(userName string) string {
	return strings.TrimSpace(userName)
}

// FindByUserName looks up an admin by username.
func (s *Service) FindByUserName(ctx context.Context, userName string) (*models.Admin, error) {
	userName = normalizeUserName(userName)
	if userName == "" {
		return nil, ErrNotFound
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Where("user_name = ?", userName).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

// FindByID looks up an admin by identifier.
func (s *Service) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := models.FindByID(s.db.WithContext(ctx), id, &admin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

// Create stores a new admin with a bcrypt hash of password.
func (s *Service) Create(ctx context.Context, userName, password string) (*models.Admin, error) {
	userName = normalizeUserName(userName)
	if userName == "" {
		return nil, errors.New("username is required")
	}

	if _, err := s.FindByUserName(ctx, userName); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		UserName:     userName,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info().Str("admin_id", admin.ID).Str("user_name", admin.UserName).Msg("Admin created")
	return admin, nil
}

// List returns all admins, oldest first.
func (s *Service) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.WithContext(ctx).Order("created_at ASC, user_name ASC").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// SetPassword replaces the password hash of an existing admin. Tokens issued
// before the change stay valid until they expire.
func (s *Service) SetPassword(ctx context.Context, userName, password string) error {
	admin, err := s.FindByUserName(ctx, userName)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(admin).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("Admin password changed")
	return nil
}
