package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/metrics"
	"checkinn/internal/models"
	"checkinn/internal/repositories"
	"checkinn/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = apperrors.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password")

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, *utils.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *utils.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *utils.TokenPair, error)
	Logout(ctx context.Context, userID uint) error
	Me(ctx context.Context, userID uint) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

// TokenIssuer signs and validates session tokens.
type TokenIssuer interface {
	GenerateTokens(user *models.User) (*utils.TokenPair, error)
	ParseRefreshToken(token string) (*models.UserClaims, error)
}

// Notifier receives account lifecycle events.
type Notifier interface {
	Welcome(user *models.User)
}

type RegisterInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,password"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Role         string `json:"role" validate:"omitempty,oneof=Customer HotelPartner"`
	BusinessName string `json:"businessName" validate:"max=200"`
	BusinessType string `json:"businessType" validate:"max=100"`
}

type service struct {
	userRepo repositories.UserRepository
	tokens   TokenIssuer
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(userRepo repositories.UserRepository, tokens TokenIssuer, notifier Notifier, m *metrics.Metrics, logger *zap.Logger) Service {
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*models.User, *utils.TokenPair, error) {
	role := models.RoleCustomer
	if in.Role != "" {
		parsed, ok := models.ParseRole(in.Role)
		if !ok || parsed == models.RoleAdmin {
			return nil, nil, apperrors.Validation("INVALID_ROLE", "Invalid role")
		}
		role = parsed
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, nil, apperrors.Internal("Failed to register user", err)
	}
	if existing != nil {
		return nil, nil, emailTaken()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperrors.Internal("Failed to register user", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Password:     string(hashed),
		Role:         role,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}
	if role == models.RoleHotelPartner {
		submitted := s.now()
		user.PartnerInfo = models.PartnerInfo{
			VerificationStatus: models.PartnerPending,
			BusinessName:       strings.TrimSpace(in.BusinessName),
			BusinessType:       strings.TrimSpace(in.BusinessType),
			SubmittedAt:        &submitted,
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, nil, emailTaken()
		}
		return nil, nil, apperrors.Internal("Failed to register user", err)
	}

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, nil, apperrors.Internal("Error generating tokens", err)
	}

	s.metrics.RecordRegistration(string(role))
	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(role)))
	s.notifier.Welcome(user)
	return user, tokens, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, *utils.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.Info("login failed: unknown email")
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, apperrors.Internal("Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login failed: incorrect password", zap.Uint("user_id", user.ID))
		return nil, nil, errInvalidCredentials
	}

	if !user.IsActive() {
		return nil, nil, inactiveAccount(user)
	}

	now := s.now()
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.logger.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, nil, apperrors.Internal("Error generating tokens", err)
	}
	return user, tokens, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *utils.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, apperrors.Unauthorized("REFRESH_TOKEN_MISSING", "Refresh token is required")
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("INVALID_REFRESH_TOKEN", "Invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperrors.Unauthorized("INVALID_REFRESH_TOKEN", "Invalid refresh token")
		}
		return nil, nil, apperrors.Internal("Failed to refresh tokens", err)
	}

	if user.TokenVersion != claims.TokenVersion {
		s.logger.Info("refresh rejected: token version mismatch",
			zap.Uint("user_id", user.ID), zap.Int("token_version", claims.TokenVersion), zap.Int("current_version", user.TokenVersion))
		return nil, nil, apperrors.Unauthorized("SESSION_REVOKED", "Session has been revoked, please log in again")
	}
	if !user.IsActive() {
		return nil, nil, inactiveAccount(user)
	}

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, nil, apperrors.Internal("Error generating tokens", err)
	}
	return user, tokens, nil
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NotFound("USER_NOT_FOUND", "User not found")
		}
		return apperrors.Internal("Failed to log out", err)
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("USER_NOT_FOUND", "User not found")
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}
	return user, nil
}

// ChangePassword replaces the password and revokes every existing session.
func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperrors.Validation("INVALID_OLD_PASSWORD", "Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": string(hashed)}); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}
	if err := s.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}
	return nil
}

func emailTaken() error {
	return apperrors.Conflict("EMAIL_TAKEN", "", "Email is already registered")
}

func inactiveAccount(user *models.User) error {
	return apperrors.Forbidden("ACCOUNT_"+strings.ToUpper(string(user.Status)),
		fmt.Sprintf("Your account is %s, please contact support", user.Status))
}
