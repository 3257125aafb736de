// Package booking handles customer reservations.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/metrics"
	"checkinn/internal/models"
	"checkinn/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var (
	errBookingNotFound = apperrors.NotFound("BOOKING_NOT_FOUND", "Booking not found")
	errRoomNotFound    = apperrors.NotFound("ROOM_NOT_FOUND", "Room not found")
	errNoAccess        = apperrors.Forbidden("BOOKING_FORBIDDEN", "You do not have access to this booking")
)

type Service interface {
	Create(ctx context.Context, customerID uint, in CreateInput) (*models.Booking, error)
	Get(ctx context.Context, viewer Viewer, bookingID uint) (*models.Booking, error)
	ListMine(ctx context.Context, customerID uint, offset, limit int) ([]*models.Booking, int64, error)
	ListForPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Booking, int64, error)
	Cancel(ctx context.Context, customerID, bookingID uint) (*models.Booking, error)
	Availability(ctx context.Context, roomID uint, checkIn, checkOut string) (*Availability, error)
}

// Notifier is told about booking lifecycle events.
type Notifier interface {
	BookingConfirmed(user *models.User, booking *models.Booking)
	BookingCancelled(user *models.User, booking *models.Booking)
}

// Viewer identifies who is reading a booking.
type Viewer struct {
	UserID uint
	Role   models.Role
}

type CreateInput struct {
	RoomID          uint   `json:"roomId" validate:"required"`
	CheckIn         string `json:"checkIn" validate:"required"`
	CheckOut        string `json:"checkOut" validate:"required"`
	Guests          int    `json:"guests" validate:"required,min=1"`
	SpecialRequests string `json:"specialRequests" validate:"max=500"`
}

type Availability struct {
	RoomID    uint `json:"roomId"`
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
	Nights    int  `json:"nights"`
}

type service struct {
	bookings repositories.BookingRepository
	hotels   repositories.HotelRepository
	users    repositories.UserRepository
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	bookings repositories.BookingRepository,
	hotels repositories.HotelRepository,
	users repositories.UserRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) Service {
	return &service{
		bookings: bookings,
		hotels:   hotels,
		users:    users,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, customerID uint, in CreateInput) (*models.Booking, error) {
	checkIn, checkOut, err := s.parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		s.metrics.RecordBooking("invalid")
		return nil, err
	}

	room, hotel, err := s.bookableRoom(ctx, in.RoomID)
	if err != nil {
		s.metrics.RecordBooking("invalid")
		return nil, err
	}
	if in.Guests > room.Capacity {
		s.metrics.RecordBooking("invalid")
		return nil, apperrors.Validation("CAPACITY_EXCEEDED", fmt.Sprintf("Room capacity is %d guests", room.Capacity))
	}

	nights := nightsBetween(checkIn, checkOut)
	booking := &models.Booking{
		Reference:       newReference(),
		CustomerID:      customerID,
		HotelID:         hotel.ID,
		RoomID:          room.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          in.Guests,
		Nights:          nights,
		TotalPrice:      math.Round(float64(nights)*room.PricePerNight*100) / 100,
		Status:          models.BookingConfirmed,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
	}

	if err := s.bookings.Reserve(ctx, booking, room.Quantity); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRoomUnavailable):
			s.metrics.RecordBooking("unavailable")
			return nil, apperrors.Conflict("ROOM_UNAVAILABLE", "", "Room is not available for the selected dates")
		case errors.Is(err, repositories.ErrRoomNotFound):
			s.metrics.RecordBooking("invalid")
			return nil, errRoomNotFound
		default:
			s.metrics.RecordBooking("error")
			return nil, apperrors.Internal("Failed to create booking", err)
		}
	}

	s.metrics.RecordBooking("created")
	s.logger.Info("booking created",
		zap.String("reference", booking.Reference),
		zap.Uint("customer_id", customerID),
		zap.Uint("room_id", room.ID),
		zap.Int("nights", nights))

	booking.Hotel = hotel
	booking.Room = room
	s.notify(ctx, customerID, booking, s.notifier.BookingConfirmed)
	return booking, nil
}

// Get returns a booking to its customer, the partner owning the hotel, or an admin.
func (s *service) Get(ctx context.Context, viewer Viewer, bookingID uint) (*models.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch viewer.Role {
	case models.RoleAdmin:
		return booking, nil
	case models.RoleCustomer:
		if booking.CustomerID == viewer.UserID {
			return booking, nil
		}
	case models.RoleHotelPartner:
		if booking.Hotel != nil && booking.Hotel.PartnerID == viewer.UserID {
			return booking, nil
		}
		if booking.CustomerID == viewer.UserID {
			return booking, nil
		}
	}
	return nil, errNoAccess
}

func (s *service) ListMine(ctx context.Context, customerID uint, offset, limit int) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookings.ListByCustomer(ctx, customerID, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to fetch bookings", err)
	}
	return bookings, total, nil
}

func (s *service) ListForPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookings.ListByPartner(ctx, partnerID, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to fetch bookings", err)
	}
	return bookings, total, nil
}

func (s *service) Cancel(ctx context.Context, customerID, bookingID uint) (*models.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, apperrors.Forbidden("BOOKING_FORBIDDEN", "You can only cancel your own bookings")
	}
	if !booking.Status.Cancellable() {
		return nil, cancelConflict(booking.Status)
	}
	if !s.now().Before(booking.CheckIn) {
		return nil, apperrors.Validation("CHECKIN_PASSED", "Bookings can only be cancelled before check-in")
	}

	cancellable := []models.BookingStatus{models.BookingPending, models.BookingConfirmed}
	changed, err := s.bookings.UpdateStatus(ctx, bookingID, cancellable, models.BookingCancelled)
	if err != nil {
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	if !changed {
		latest, err := s.load(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return nil, cancelConflict(latest.Status)
	}

	cancelled, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordBooking("cancelled")
	s.logger.Info("booking cancelled", zap.String("reference", booking.Reference), zap.Uint("customer_id", customerID))
	s.notify(ctx, customerID, cancelled, s.notifier.BookingCancelled)
	return cancelled, nil
}

func (s *service) Availability(ctx context.Context, roomID uint, checkIn, checkOut string) (*Availability, error) {
	in, out, err := s.parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	room, _, err := s.bookableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.CountOverlapping(ctx, roomID, in, out)
	if err != nil {
		return nil, apperrors.Internal("Failed to check availability", err)
	}
	remaining := room.Quantity - int(booked)
	if remaining < 0 {
		remaining = 0
	}
	return &Availability{
		RoomID:    roomID,
		Available: remaining > 0,
		Remaining: remaining,
		Nights:    nightsBetween(in, out),
	}, nil
}

func (s *service) load(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, errBookingNotFound
		}
		return nil, apperrors.Internal("Failed to fetch booking", err)
	}
	return booking, nil
}

// bookableRoom loads a room that is open for booking in an active hotel.
func (s *service) bookableRoom(ctx context.Context, roomID uint) (*models.Room, *models.Hotel, error) {
	room, err := s.hotels.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, nil, errRoomNotFound
		}
		return nil, nil, apperrors.Internal("Failed to fetch room", err)
	}
	hotel, err := s.hotels.GetByID(ctx, room.HotelID)
	if err != nil {
		if errors.Is(err, repositories.ErrHotelNotFound) {
			return nil, nil, errRoomNotFound
		}
		return nil, nil, apperrors.Internal("Failed to fetch hotel", err)
	}
	if !hotel.IsActive || !room.IsAvailable {
		return nil, nil, apperrors.Conflict("ROOM_NOT_BOOKABLE", "", "Room is not available for booking")
	}
	return room, hotel, nil
}

// parseStay parses dates as calendar days in UTC.
func (s *service) parseStay(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	checkIn, err := parseDate(checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("INVALID_CHECK_IN", "checkIn must be a date (YYYY-MM-DD)")
	}
	checkOut, err := parseDate(checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("INVALID_CHECK_OUT", "checkOut must be a date (YYYY-MM-DD)")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, apperrors.Validation("INVALID_STAY", "Check-out date must be after check-in date")
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, apperrors.Validation("CHECK_IN_IN_PAST", "Check-in date cannot be in the past")
	}
	return checkIn, checkOut, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func nightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

func newReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(id[:8])
}

func cancelConflict(status models.BookingStatus) error {
	return apperrors.Conflict("BOOKING_NOT_CANCELLABLE", string(status),
		fmt.Sprintf("Booking is %s and cannot be cancelled", status))
}

func (s *service) notify(ctx context.Context, customerID uint, booking *models.Booking, send func(*models.User, *models.Booking)) {
	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		s.logger.Warn("booking email skipped", zap.Uint("customer_id", customerID), zap.Error(err))
		return
	}
	send(customer, booking)
}
