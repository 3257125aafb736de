// Package admin implements user administration for admins.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/metrics"
	"checkinn/internal/models"
	"checkinn/internal/repositories"
	"checkinn/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	errSelfAction   = apperrors.Forbidden("SELF_ACTION_FORBIDDEN", "You cannot perform this action on your own account")
	errUserNotFound = apperrors.NotFound("USER_NOT_FOUND", "User not found")
	errNoChanges    = apperrors.Validation("NO_CHANGES", "No fields to update")
)

// Guarded actions.
const (
	ActionUpdateStatus = "update_status"
	ActionUpdateUser   = "update_user"
	ActionDeleteUser   = "delete_user"
)

type Service interface {
	GuardSelf(action string, actorID, targetID uint) error
	ListUsers(ctx context.Context, q UserQuery) ([]*models.User, int64, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateStatus(ctx context.Context, actorID, targetID uint, status string) (*models.User, error)
	UpdateUser(ctx context.Context, actorID, targetID uint, in UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, targetID uint) error
	Stats(ctx context.Context) (*Stats, error)
}

type UserQuery struct {
	Role   string
	Status string
	Search string
	Offset int
	Limit  int
}

// UpdateStatusInput and UpdateUserInput are checked by the service after the
// self-action guard, so a self-targeted request is refused whatever it carries.
type UpdateStatusInput struct {
	Status string `json:"status"`
}

type UpdateUserInput struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type Stats struct {
	Users    map[models.Role]int64          `json:"users"`
	Partners map[models.PartnerStatus]int64 `json:"partners"`
	Hotels   int64                          `json:"hotels"`
	Bookings int64                          `json:"bookings"`
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type service struct {
	users    repositories.UserRepository
	hotels   counter
	bookings counter
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(users repositories.UserRepository, hotels repositories.HotelRepository, bookings repositories.BookingRepository, m *metrics.Metrics, logger *zap.Logger) Service {
	return &service{
		users:    users,
		hotels:   hotels,
		bookings: bookings,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// GuardSelf refuses actions an admin targets at their own account. It runs
// before any read or write, and before the request body is looked at.
func (s *service) GuardSelf(action string, actorID, targetID uint) error {
	if actorID != targetID {
		return nil
	}
	s.metrics.RecordSelfActionDenied(action)
	s.logger.Warn("admin self action denied", zap.String("action", action), zap.Uint("admin_id", actorID))
	return errSelfAction
}

func (s *service) ListUsers(ctx context.Context, q UserQuery) ([]*models.User, int64, error) {
	filter := repositories.UserFilter{
		Search: q.Search,
		Offset: q.Offset,
		Limit:  q.Limit,
	}
	if q.Role != "" {
		role, ok := models.ParseRole(q.Role)
		if !ok {
			return nil, 0, apperrors.Validation("INVALID_ROLE", "Invalid role")
		}
		filter.Role = role
	}
	if q.Status != "" {
		status, ok := models.ParseUserStatus(q.Status)
		if !ok {
			return nil, 0, apperrors.Validation("INVALID_STATUS", "Invalid status")
		}
		filter.Status = status
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to fetch users", err)
	}
	return users, total, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errUserNotFound
		}
		return nil, apperrors.Internal("Failed to fetch user", err)
	}
	return user, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, targetID uint, status string) (*models.User, error) {
	if err := s.GuardSelf(ActionUpdateStatus, actorID, targetID); err != nil {
		return nil, err
	}
	parsed, ok := models.ParseUserStatus(status)
	if !ok {
		return nil, apperrors.Validation("INVALID_STATUS", "Invalid status")
	}
	if _, err := s.GetUser(ctx, targetID); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, targetID, map[string]interface{}{"status": parsed}, true); err != nil {
		return nil, err
	}
	s.logger.Info("user status updated",
		zap.Uint("admin_id", actorID), zap.Uint("user_id", targetID), zap.String("status", string(parsed)))
	return s.GetUser(ctx, targetID)
}

func (s *service) UpdateUser(ctx context.Context, actorID, targetID uint, in UpdateUserInput) (*models.User, error) {
	if err := s.GuardSelf(ActionUpdateUser, actorID, targetID); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	revoke := false

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("INVALID_NAME", "name is required")
		}
		if len(name) > validation.MaxNameLength {
			return nil, apperrors.Validation("INVALID_NAME", "name must be at most 100 characters")
		}
		fields["name"] = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if len(phone) > validation.MaxPhoneLength {
			return nil, apperrors.Validation("INVALID_PHONE", "phone must be at most 30 characters")
		}
		fields["phone"] = phone
	}
	if in.Role != nil {
		role, ok := models.ParseRole(*in.Role)
		if !ok {
			return nil, apperrors.Validation("INVALID_ROLE", "Invalid role")
		}
		if role != user.Role {
			fields["role"] = role
			revoke = true
			if role == models.RoleHotelPartner && user.PartnerInfo.VerificationStatus == "" {
				fields[repositories.ColPartnerStatus] = models.PartnerPending
				fields[repositories.ColPartnerSubmittedAt] = s.now()
			}
		}
	}
	if in.Status != nil {
		status, ok := models.ParseUserStatus(*in.Status)
		if !ok {
			return nil, apperrors.Validation("INVALID_STATUS", "Invalid status")
		}
		if status != user.Status {
			fields["status"] = status
			revoke = true
		}
	}
	if len(fields) == 0 {
		return nil, errNoChanges
	}

	if err := s.apply(ctx, targetID, fields, revoke); err != nil {
		return nil, err
	}
	s.logger.Info("user updated", zap.Uint("admin_id", actorID), zap.Uint("user_id", targetID), zap.Bool("sessions_revoked", revoke))
	return s.GetUser(ctx, targetID)
}

// apply writes fields and, when revoke is set, invalidates the target's
// sessions so the new role or status takes effect immediately.
func (s *service) apply(ctx context.Context, id uint, fields map[string]interface{}, revoke bool) error {
	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return errUserNotFound
		}
		return apperrors.Internal("Failed to update user", err)
	}
	if !revoke {
		return nil
	}
	if err := s.users.IncrementTokenVersion(ctx, id); err != nil {
		return apperrors.Internal("Failed to revoke user sessions", err)
	}
	return nil
}

func (s *service) DeleteUser(ctx context.Context, actorID, targetID uint) error {
	if err := s.GuardSelf(ActionDeleteUser, actorID, targetID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, targetID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return errUserNotFound
		}
		return apperrors.Internal("Failed to delete user", err)
	}
	s.logger.Info("user deleted", zap.Uint("admin_id", actorID), zap.Uint("user_id", targetID))
	return nil
}

// Stats runs the four counts concurrently.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Users, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Partners, err = s.users.CountPartnersByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Hotels, err = s.hotels.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Bookings, err = s.bookings.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Failed to fetch stats", err)
	}
	return &stats, nil
}
