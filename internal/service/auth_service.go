package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/checkin-service/internal/auth"
	"github.com/spec-kit/checkin-service/internal/config"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/repository"
)

// AuthService coordinates staff account registration and login flows.
type AuthService struct {
	staff      repository.StaffRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, staff repository.StaffRepository, resets repository.PasswordResetRepository) *AuthService {
	return &AuthService{
		staff:      staff,
		resets:     resets,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterStaff creates a new operator account. An empty role defaults to SCANNER.
func (s *AuthService) RegisterStaff(ctx context.Context, name, email, password string, role domain.StaffRole) (*domain.StaffMember, string, time.Time, error) {
	email = NormalizeEmail(email)
	if role == "" {
		role = domain.StaffRoleScanner
	}

	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	staff := &domain.StaffMember{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// LoginStaff authenticates an operator and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.StaffMember, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	if !staff.Active {
		return nil, "", time.Time{}, errors.New("staff inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// RequestPasswordReset persists a reset token for the staff email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	staff, err := s.staff.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		StaffID:   staff.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return errors.New("token expired or used")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	staff, err := s.staff.GetByID(ctx, token.StaffID)
	if err != nil {
		return err
	}
	staff.PasswordHash = hash
	if err := s.staff.Update(ctx, staff); err != nil {
		return err
	}

	return s.resets.MarkUsed(ctx, token.ID)
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, staffID, currentPassword, newPassword string) error {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
		return errors.New("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	staff.PasswordHash = hash
	return s.staff.Update(ctx, staff)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
