package repositories

import (
	"context"
	"errors"
	"strings"

	"checkinn/internal/models"

	"gorm.io/gorm"
)

var (
	ErrHotelNotFound = errors.New("hotel not found")
	ErrRoomNotFound  = errors.New("room not found")
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *models.Hotel) error
	GetByID(ctx context.Context, id uint) (*models.Hotel, error)
	List(ctx context.Context, filter models.HotelFilter) ([]*models.Hotel, int64, error)
	Update(ctx context.Context, hotel *models.Hotel) error
	Delete(ctx context.Context, id uint) error
	UpdateRating(ctx context.Context, id uint, average float64, count int) error
	Count(ctx context.Context) (int64, error)

	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uint) error
}

type hotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	if err := r.db.WithContext(ctx).Create(hotel).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *hotelRepository) GetByID(ctx context.Context, id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := r.db.WithContext(ctx).First(&hotel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &hotel, nil
}

// List returns active hotels for public searches, or every hotel of a partner
// when PartnerID is set.
func (r *hotelRepository) List(ctx context.Context, filter models.HotelFilter) ([]*models.Hotel, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Hotel{})
	if filter.PartnerID != 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	} else {
		query = query.Where("is_active = ?", true)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("city ILIKE ?", city)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", like, like, like)
	}
	if filter.MinRating > 0 {
		query = query.Where("average_rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var hotels []*models.Hotel
	if err := query.Order("average_rating DESC, created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&hotels).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return hotels, total, nil
}

func (r *hotelRepository) Update(ctx context.Context, hotel *models.Hotel) error {
	if err := r.db.WithContext(ctx).Omit("Rooms").Save(hotel).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *hotelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return ErrDatabaseOperation
		}
		result := tx.Delete(&models.Hotel{}, id)
		if result.Error != nil {
			return ErrDatabaseOperation
		}
		if result.RowsAffected == 0 {
			return ErrHotelNotFound
		}
		return nil
	})
}

func (r *hotelRepository) UpdateRating(ctx context.Context, id uint, average float64, count int) error {
	err := r.db.WithContext(ctx).Model(&models.Hotel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"average_rating": average, "review_count": count}).Error
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *hotelRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Hotel{}).Count(&total).Error; err != nil {
		return 0, ErrDatabaseOperation
	}
	return total, nil
}

func (r *hotelRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *hotelRepository) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &room, nil
}

func (r *hotelRepository) ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error) {
	var rooms []*models.Room
	if err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("price_per_night ASC").Find(&rooms).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return rooms, nil
}

func (r *hotelRepository) UpdateRoom(ctx context.Context, room *models.Room) error {
	if err := r.db.WithContext(ctx).Save(room).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *hotelRepository) DeleteRoom(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Room{}, id)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
