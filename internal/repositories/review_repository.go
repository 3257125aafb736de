package repositories

import (
	"context"
	"errors"

	"checkinn/internal/models"

	"gorm.io/gorm"
)

var ErrReviewExists = errors.New("review already exists for booking")

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsForBooking(ctx context.Context, bookingID uint) (bool, error)
	ListByHotel(ctx context.Context, hotelID uint, offset, limit int) ([]*models.Review, int64, error)
	RatingSummary(ctx context.Context, hotelID uint) (float64, int, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewExists
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("booking_id = ?", bookingID).Count(&count).Error; err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *reviewRepository) ListByHotel(ctx context.Context, hotelID uint, offset, limit int) ([]*models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("hotel_id = ?", hotelID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	var reviews []*models.Review
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return reviews, total, nil
}

func (r *reviewRepository) RatingSummary(ctx context.Context, hotelID uint) (float64, int, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("hotel_id = ?", hotelID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, ErrDatabaseOperation
	}
	return row.Average, row.Count, nil
}
