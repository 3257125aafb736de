package repositories

import (
	"context"
	"errors"
	"strings"

	"checkinn/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userRepository struct {
	db     *gorm.DB
	cache  UserCache
	logger *zap.Logger
}

// NewUserRepository creates a new instance of UserRepository. cache may be nil.
func NewUserRepository(db *gorm.DB, cache UserCache, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		r.logger.Error("create user failed", zap.String("email", user.Email), zap.Error(err))
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.readThrough(ctx, id, func() (*models.User, error) {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			r.logger.Error("get user failed", zap.Uint("user_id", id), zap.Error(err))
			return nil, ErrDatabaseOperation
		}
		return &user, nil
	})
}

// readThrough serves id from the cache and falls back to load. The generation
// is read before load, so an invalidation that lands while load runs keeps the
// loaded row out of the cache.
func (r *userRepository) readThrough(ctx context.Context, id uint, load func() (*models.User, error)) (*models.User, error) {
	if r.cache == nil {
		return load()
	}

	user, found, err := r.cache.GetUser(ctx, id)
	if err != nil {
		r.logger.Warn("user cache read failed", zap.Uint("user_id", id), zap.Error(err))
	}
	if found {
		return user, nil
	}

	gen, genErr := r.cache.UserGeneration(ctx, id)
	if genErr != nil {
		r.logger.Warn("user cache generation read failed", zap.Uint("user_id", id), zap.Error(genErr))
	}

	user, err = load()
	if err != nil {
		return nil, err
	}
	if genErr == nil {
		if err := r.cache.CacheUser(ctx, user, gen); err != nil {
			r.logger.Warn("failed to cache user", zap.Uint("user_id", id), zap.Error(err))
		}
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var users []*models.User
	if err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&users).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return users, total, nil
}

func (r *userRepository) ListPartners(ctx context.Context, filter PartnerFilter) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleHotelPartner)
	if filter.Status != "" {
		query = query.Where(ColPartnerStatus+" = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR "+ColPartnerBusinessName+" ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var partners []*models.User
	if err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&partners).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return partners, total, nil
}

func (r *userRepository) CountPartnersByStatus(ctx context.Context) (map[models.PartnerStatus]int64, error) {
	var rows []struct {
		Status models.PartnerStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(ColPartnerStatus+" AS status, COUNT(*) AS count").
		Where("role = ?", models.RoleHotelPartner).
		Group(ColPartnerStatus).
		Scan(&rows).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}

	counts := make(map[models.PartnerStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *userRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}

	counts := make(map[models.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		r.logger.Error("update user failed", zap.Uint("user_id", id), zap.Error(result.Error))
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) TransitionPartnerStatus(ctx context.Context, id uint, from, to models.PartnerStatus, fields map[string]interface{}) (bool, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates[ColPartnerStatus] = to

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ? AND "+ColPartnerStatus+" = ?", id, models.RoleHotelPartner, from).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("partner status transition failed",
			zap.Uint("user_id", id), zap.String("from", string(from)), zap.String("to", string(to)), zap.Error(result.Error))
		return false, ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	r.invalidate(ctx, id)
	return true, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) invalidate(ctx context.Context, id uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(ctx, id); err != nil {
		r.logger.Warn("failed to invalidate user cache", zap.Uint("user_id", id), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
