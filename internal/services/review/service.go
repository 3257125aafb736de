// Package review lets customers rate hotels they stayed at.
package review

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/models"
	"checkinn/internal/repositories"

	"go.uber.org/zap"
)

var errAlreadyReviewed = apperrors.Conflict("REVIEW_EXISTS", "", "You have already reviewed this booking")

type Service interface {
	Create(ctx context.Context, customerID, hotelID uint, in CreateInput) (*models.Review, error)
	List(ctx context.Context, hotelID uint, offset, limit int) ([]*models.Review, int64, error)
}

type CreateInput struct {
	BookingID uint   `json:"bookingId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

type service struct {
	reviews  repositories.ReviewRepository
	bookings repositories.BookingRepository
	hotels   repositories.HotelRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(reviews repositories.ReviewRepository, bookings repositories.BookingRepository, hotels repositories.HotelRepository, logger *zap.Logger) Service {
	return &service{
		reviews:  reviews,
		bookings: bookings,
		hotels:   hotels,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, customerID, hotelID uint, in CreateInput) (*models.Review, error) {
	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.NotFound("BOOKING_NOT_FOUND", "Booking not found")
		}
		return nil, apperrors.Internal("Failed to fetch booking", err)
	}

	switch {
	case booking.CustomerID != customerID:
		return nil, apperrors.Forbidden("REVIEW_FORBIDDEN", "You can only review your own bookings")
	case booking.HotelID != hotelID:
		return nil, apperrors.Validation("BOOKING_HOTEL_MISMATCH", "Booking does not belong to this hotel")
	case booking.Status == models.BookingCancelled:
		return nil, apperrors.Validation("BOOKING_CANCELLED", "Cancelled bookings cannot be reviewed")
	case s.now().Before(booking.CheckOut):
		return nil, apperrors.Validation("STAY_NOT_FINISHED", "You can review a stay only after check-out")
	}

	exists, err := s.reviews.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to create review", err)
	}
	if exists {
		return nil, errAlreadyReviewed
	}

	review := &models.Review{
		HotelID:    hotelID,
		CustomerID: customerID,
		BookingID:  booking.ID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrReviewExists) {
			return nil, errAlreadyReviewed
		}
		return nil, apperrors.Internal("Failed to create review", err)
	}

	s.refreshRating(ctx, hotelID)
	return review, nil
}

// refreshRating recomputes the hotel aggregate. A failure leaves the
// previous aggregate in place and does not fail the review.
func (s *service) refreshRating(ctx context.Context, hotelID uint) {
	avg, count, err := s.reviews.RatingSummary(ctx, hotelID)
	if err != nil {
		s.logger.Warn("rating summary failed", zap.Uint("hotel_id", hotelID), zap.Error(err))
		return
	}
	avg = math.Round(avg*10) / 10
	if err := s.hotels.UpdateRating(ctx, hotelID, avg, count); err != nil {
		s.logger.Warn("hotel rating update failed", zap.Uint("hotel_id", hotelID), zap.Error(err))
	}
}

func (s *service) List(ctx context.Context, hotelID uint, offset, limit int) ([]*models.Review, int64, error) {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repositories.ErrHotelNotFound) {
			return nil, 0, apperrors.NotFound("HOTEL_NOT_FOUND", "Hotel not found")
		}
		return nil, 0, apperrors.Internal("Failed to fetch hotel", err)
	}
	reviews, total, err := s.reviews.ListByHotel(ctx, hotelID, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to fetch reviews", err)
	}
	return reviews, total, nil
}
