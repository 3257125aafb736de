package repositories

import (
	"context"
	"errors"
	"time"

	"checkinn/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomUnavailable = errors.New("room unavailable for the requested dates")
)

type BookingRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uint, offset, limit int) ([]*models.Booking, int64, error)
	ListByPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Booking, int64, error)
	// Reserve inserts booking only while fewer than capacity live bookings of
	// the same room overlap its stay. It returns ErrRoomUnavailable otherwise.
	Reserve(ctx context.Context, booking *models.Booking, capacity int) error
	CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id uint, from []models.BookingStatus, to models.BookingStatus) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Hotel").Preload("Room").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &booking, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID uint, offset, limit int) ([]*models.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{}).Where("customer_id = ?", customerID)
	return r.page(query, offset, limit)
}

func (r *bookingRepository) ListByPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("hotel_id IN (?)", r.db.Model(&models.Hotel{}).Select("id").Where("partner_id = ?", partnerID))
	return r.page(query, offset, limit)
}

func (r *bookingRepository) page(query *gorm.DB, offset, limit int) ([]*models.Booking, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	var bookings []*models.Booking
	err := query.Preload("Hotel").Preload("Room").
		Order("check_in DESC").Offset(offset).Limit(limit).Find(&bookings).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return bookings, total, nil
}

func (r *bookingRepository) Reserve(ctx context.Context, booking *models.Booking, capacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes reservations of the same room.
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, booking.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return ErrDatabaseOperation
		}

		overlapping, err := countOverlapping(tx, booking.RoomID, booking.CheckIn, booking.CheckOut)
		if err != nil {
			return err
		}
		if overlapping >= int64(capacity) {
			return ErrRoomUnavailable
		}

		if err := tx.Omit("Hotel", "Room").Create(booking).Error; err != nil {
			return ErrDatabaseOperation
		}
		return nil
	})
}

// CountOverlapping counts live bookings of the room whose stay intersects [checkIn, checkOut).
func (r *bookingRepository) CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	return countOverlapping(r.db.WithContext(ctx), roomID, checkIn, checkOut)
}

func countOverlapping(db *gorm.DB, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.Booking{}).
		Where("room_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			roomID, models.BookingCancelled, checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uint, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if to == models.BookingCancelled {
		updates["cancelled_at"] = time.Now()
	}
	result := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, ErrDatabaseOperation
	}
	return result.RowsAffected > 0, nil
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&total).Error; err != nil {
		return 0, ErrDatabaseOperation
	}
	return total, nil
}
