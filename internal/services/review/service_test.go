package review

import (
	"context"
	"testing"
	"time"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/models"
	"checkinn/internal/repositories"
	"checkinn/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	reviews  *mocks.ReviewRepository
	bookings *mocks.BookingRepository
	hotels   *mocks.HotelRepository
	svc      *service
}

func newFixture() *fixture {
	f := &fixture{
		reviews:  new(mocks.ReviewRepository),
		bookings: new(mocks.BookingRepository),
		hotels:   new(mocks.HotelRepository),
	}
	f.svc = NewService(f.reviews, f.bookings, f.hotels, zap.NewNop()).(*service)
	f.svc.now = func() time.Time { return now }
	return f
}

func completedStay() *models.Booking {
	return &models.Booking{
		ID:         3,
		CustomerID: 9,
		HotelID:    2,
		CheckIn:    now.AddDate(0, 0, -5),
		CheckOut:   now.AddDate(0, 0, -2),
		Status:     models.BookingConfirmed,
	}
}

func TestCreate_RecomputesRating(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, uint(3)).Return(completedStay(), nil)
	f.reviews.On("ExistsForBooking", mock.Anything, uint(3)).Return(false, nil)
	f.reviews.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)
	f.reviews.On("RatingSummary", mock.Anything, uint(2)).Return(4.333333, 3, nil)
	f.hotels.On("UpdateRating", mock.Anything, uint(2), 4.3, 3).Return(nil)

	review, err := f.svc.Create(context.Background(), 9, 2, CreateInput{BookingID: 3, Rating: 5, Comment: " Lovely "})
	require.NoError(t, err)
	assert.Equal(t, "Lovely", review.Comment)
	f.hotels.AssertExpectations(t)
}

func TestCreate_Refused(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Booking)
		hotelID uint
		kind    apperrors.Kind
	}{
		{"not the customer's booking", func(b *models.Booking) { b.CustomerID = 8 }, 2, apperrors.KindForbidden},
		{"other hotel", func(b *models.Booking) {}, 5, apperrors.KindValidation},
		{"cancelled", func(b *models.Booking) { b.Status = models.BookingCancelled }, 2, apperrors.KindValidation},
		{"before check-out", func(b *models.Booking) { b.CheckOut = now.Add(time.Hour) }, 2, apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := completedStay()
			tt.mutate(b)
			f.bookings.On("GetByID", mock.Anything, uint(3)).Return(b, nil)

			_, err := f.svc.Create(context.Background(), 9, tt.hotelID, CreateInput{BookingID: 3, Rating: 4})
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, tt.kind))
			f.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_OneReviewPerBooking(t *testing.T) {
	t.Run("existing review", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", mock.Anything, uint(3)).Return(completedStay(), nil)
		f.reviews.On("ExistsForBooking", mock.Anything, uint(3)).Return(true, nil)

		_, err := f.svc.Create(context.Background(), 9, 2, CreateInput{BookingID: 3, Rating: 4})
		assert.Equal(t, "You have already reviewed this booking", apperrors.PublicMessage(err))
	})

	t.Run("unique index race", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", mock.Anything, uint(3)).Return(completedStay(), nil)
		f.reviews.On("ExistsForBooking", mock.Anything, uint(3)).Return(false, nil)
		f.reviews.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrReviewExists)

		_, err := f.svc.Create(context.Background(), 9, 2, CreateInput{BookingID: 3, Rating: 4})
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		f.reviews.AssertNotCalled(t, "RatingSummary", mock.Anything, mock.Anything)
	})
}

func TestList_UnknownHotel(t *testing.T) {
	f := newFixture()
	f.hotels.On("GetByID", mock.Anything, uint(2)).Return(nil, repositories.ErrHotelNotFound)

	_, _, err := f.svc.List(context.Background(), 2, 0, 10)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
