// Package hotel manages hotels and rooms listed by verified partners.
package hotel

import (
	"context"
	"errors"
	"strings"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/models"
	"checkinn/internal/repositories"

	"go.uber.org/zap"
)

var (
	errHotelNotFound = apperrors.NotFound("HOTEL_NOT_FOUND", "Hotel not found")
	errRoomNotFound  = apperrors.NotFound("ROOM_NOT_FOUND", "Room not found")
	errNotOwner      = apperrors.Forbidden("NOT_HOTEL_OWNER", "You do not own this hotel")
)

type Service interface {
	ListHotels(ctx context.Context, filter models.HotelFilter) ([]*models.Hotel, int64, error)
	GetHotel(ctx context.Context, id uint) (*models.Hotel, error)
	ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error)

	CreateHotel(ctx context.Context, partnerID uint, in HotelInput) (*models.Hotel, error)
	ListPartnerHotels(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Hotel, int64, error)
	UpdateHotel(ctx context.Context, partnerID, hotelID uint, in HotelInput) (*models.Hotel, error)
	DeleteHotel(ctx context.Context, partnerID, hotelID uint) error

	CreateRoom(ctx context.Context, partnerID, hotelID uint, in RoomInput) (*models.Room, error)
	UpdateRoom(ctx context.Context, partnerID, roomID uint, in RoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, partnerID, roomID uint) error
}

type HotelInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Address     string   `json:"address" validate:"required,max=500"`
	City        string   `json:"city" validate:"required,max=100"`
	Country     string   `json:"country" validate:"required,max=100"`
	StarRating  int      `json:"starRating" validate:"omitempty,min=1,max=5"`
	Amenities   []string `json:"amenities" validate:"max=50,dive,required,max=100"`
	Images      []string `json:"images" validate:"max=20,dive,required"`
	IsActive    *bool    `json:"isActive"`
}

type RoomInput struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Type          string   `json:"type" validate:"required,oneof=single double suite family"`
	Capacity      int      `json:"capacity" validate:"required,min=1,max=20"`
	PricePerNight float64  `json:"pricePerNight" validate:"required,gt=0"`
	Quantity      int      `json:"quantity" validate:"omitempty,min=1,max=500"`
	Amenities     []string `json:"amenities" validate:"max=50,dive,required,max=100"`
	IsAvailable   *bool    `json:"isAvailable"`
}

type service struct {
	hotels repositories.HotelRepository
	logger *zap.Logger
}

func NewService(hotels repositories.HotelRepository, logger *zap.Logger) Service {
	return &service{hotels: hotels, logger: logger}
}

func (s *service) ListHotels(ctx context.Context, filter models.HotelFilter) ([]*models.Hotel, int64, error) {
	filter.PartnerID = 0
	hotels, total, err := s.hotels.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to fetch hotels", err)
	}
	return hotels, total, nil
}

// GetHotel returns an active hotel with its rooms.
func (s *service) GetHotel(ctx context.Context, id uint) (*models.Hotel, error) {
	hotel, err := s.loadHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !hotel.IsActive {
		return nil, errHotelNotFound
	}
	rooms, err := s.hotels.ListRooms(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch rooms", err)
	}
	hotel.Rooms = make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		hotel.Rooms = append(hotel.Rooms, *r)
	}
	return hotel, nil
}

func (s *service) ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error) {
	hotel, err := s.loadHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if !hotel.IsActive {
		return nil, errHotelNotFound
	}
	rooms, err := s.hotels.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch rooms", err)
	}
	return rooms, nil
}

func (s *service) CreateHotel(ctx context.Context, partnerID uint, in HotelInput) (*models.Hotel, error) {
	hotel := &models.Hotel{PartnerID: partnerID, IsActive: true}
	applyHotel(hotel, in)

	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, apperrors.Internal("Failed to create hotel", err)
	}
	s.logger.Info("hotel created", zap.Uint("hotel_id", hotel.ID), zap.Uint("partner_id", partnerID))
	return hotel, nil
}

func (s *service) ListPartnerHotels(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Hotel, int64, error) {
	hotels, total, err := s.hotels.List(ctx, models.HotelFilter{PartnerID: partnerID, Offset: offset, Limit: limit})
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to fetch hotels", err)
	}
	return hotels, total, nil
}

func (s *service) UpdateHotel(ctx context.Context, partnerID, hotelID uint, in HotelInput) (*models.Hotel, error) {
	hotel, err := s.ownedHotel(ctx, partnerID, hotelID)
	if err != nil {
		return nil, err
	}
	applyHotel(hotel, in)

	if err := s.hotels.Update(ctx, hotel); err != nil {
		return nil, apperrors.Internal("Failed to update hotel", err)
	}
	return hotel, nil
}

func (s *service) DeleteHotel(ctx context.Context, partnerID, hotelID uint) error {
	if _, err := s.ownedHotel(ctx, partnerID, hotelID); err != nil {
		return err
	}
	if err := s.hotels.Delete(ctx, hotelID); err != nil {
		if errors.Is(err, repositories.ErrHotelNotFound) {
			return errHotelNotFound
		}
		return apperrors.Internal("Failed to delete hotel", err)
	}
	s.logger.Info("hotel deleted", zap.Uint("hotel_id", hotelID), zap.Uint("partner_id", partnerID))
	return nil
}

func (s *service) CreateRoom(ctx context.Context, partnerID, hotelID uint, in RoomInput) (*models.Room, error) {
	if _, err := s.ownedHotel(ctx, partnerID, hotelID); err != nil {
		return nil, err
	}
	room := &models.Room{HotelID: hotelID, IsAvailable: true}
	applyRoom(room, in)

	if err := s.hotels.CreateRoom(ctx, room); err != nil {
		return nil, apperrors.Internal("Failed to create room", err)
	}
	return room, nil
}

func (s *service) UpdateRoom(ctx context.Context, partnerID, roomID uint, in RoomInput) (*models.Room, error) {
	room, err := s.ownedRoom(ctx, partnerID, roomID)
	if err != nil {
		return nil, err
	}
	applyRoom(room, in)

	if err := s.hotels.UpdateRoom(ctx, room); err != nil {
		return nil, apperrors.Internal("Failed to update room", err)
	}
	return room, nil
}

func (s *service) DeleteRoom(ctx context.Context, partnerID, roomID uint) error {
	if _, err := s.ownedRoom(ctx, partnerID, roomID); err != nil {
		return err
	}
	if err := s.hotels.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return errRoomNotFound
		}
		return apperrors.Internal("Failed to delete room", err)
	}
	return nil
}

func (s *service) loadHotel(ctx context.Context, id uint) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrHotelNotFound) {
			return nil, errHotelNotFound
		}
		return nil, apperrors.Internal("Failed to fetch hotel", err)
	}
	return hotel, nil
}

func (s *service) ownedHotel(ctx context.Context, partnerID, hotelID uint) (*models.Hotel, error) {
	hotel, err := s.loadHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if hotel.PartnerID != partnerID {
		s.logger.Warn("hotel ownership check failed", zap.Uint("hotel_id", hotelID), zap.Uint("partner_id", partnerID))
		return nil, errNotOwner
	}
	return hotel, nil
}

func (s *service) ownedRoom(ctx context.Context, partnerID, roomID uint) (*models.Room, error) {
	room, err := s.hotels.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, errRoomNotFound
		}
		return nil, apperrors.Internal("Failed to fetch room", err)
	}
	if _, err := s.ownedHotel(ctx, partnerID, room.HotelID); err != nil {
		return nil, err
	}
	return room, nil
}

func applyHotel(h *models.Hotel, in HotelInput) {
	h.Name = strings.TrimSpace(in.Name)
	h.Description = strings.TrimSpace(in.Description)
	h.Address = strings.TrimSpace(in.Address)
	h.City = strings.TrimSpace(in.City)
	h.Country = strings.TrimSpace(in.Country)
	h.StarRating = in.StarRating
	h.Amenities = models.StringList(in.Amenities)
	h.Images = models.StringList(in.Images)
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
}

func applyRoom(r *models.Room, in RoomInput) {
	r.Name = strings.TrimSpace(in.Name)
	r.Type = models.RoomType(in.Type)
	r.Capacity = in.Capacity
	r.PricePerNight = in.PricePerNight
	r.Quantity = in.Quantity
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	r.Amenities = models.StringList(in.Amenities)
	if in.IsAvailable != nil {
		r.IsAvailable = *in.IsAvailable
	}
}
