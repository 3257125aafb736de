package booking

import (
	"context"
	"regexp"
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

type fakeNotifier struct {
	confirmed []string
	cancelled []string
}

func (n *fakeNotifier) BookingConfirmed(_ *models.User, b *models.Booking) {
	n.confirmed = append(n.confirmed, b.Reference)
}

func (n *fakeNotifier) BookingCancelled(_ *models.User, b *models.Booking) {
	n.cancelled = append(n.cancelled, b.Reference)
}

type fixture struct {
	bookings *mocks.BookingRepository
	hotels   *mocks.HotelRepository
	users    *mocks.UserRepository
	notifier *fakeNotifier
	svc      *service
}

var today = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		bookings: new(mocks.BookingRepository),
		hotels:   new(mocks.HotelRepository),
		users:    new(mocks.UserRepository),
		notifier: &fakeNotifier{},
	}
	f.svc = NewService(f.bookings, f.hotels, f.users, f.notifier, nil, zap.NewNop()).(*service)
	f.svc.now = func() time.Time { return today }
	return f
}

func (f *fixture) withRoom(room *models.Room, hotel *models.Hotel) {
	f.hotels.On("GetRoom", mock.Anything, room.ID).Return(room, nil)
	f.hotels.On("GetByID", mock.Anything, hotel.ID).Return(hotel, nil)
}

func activeRoom() (*models.Room, *models.Hotel) {
	hotel := &models.Hotel{ID: 2, PartnerID: 50, IsActive: true}
	room := &models.Room{ID: 4, HotelID: 2, Capacity: 2, PricePerNight: 89.5, Quantity: 3, IsAvailable: true}
	return room, hotel
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	room, hotel := activeRoom()
	f.withRoom(room, hotel)
	f.bookings.On("Reserve", mock.Anything, mock.AnythingOfType("*models.Booking"), 3).Return(nil)
	f.users.On("GetByID", mock.Anything, uint(9)).Return(&models.User{ID: 9, Email: "sam@example.com"}, nil)

	booking, err := f.svc.Create(context.Background(), 9, CreateInput{
		RoomID:   4,
		CheckIn:  "2026-06-10",
		CheckOut: "2026-06-13",
		Guests:   2,
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^BK-[0-9A-F]{8}$`), booking.Reference)
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, 268.5, booking.TotalPrice)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, uint(2), booking.HotelID)
	assert.Equal(t, []string{booking.Reference}, f.notifier.confirmed)
}

func TestCreate_RoomFullyBooked(t *testing.T) {
	f := newFixture()
	room, hotel := activeRoom()
	f.withRoom(room, hotel)
	f.bookings.On("Reserve", mock.Anything, mock.Anything, 3).Return(repositories.ErrRoomUnavailable)

	_, err := f.svc.Create(context.Background(), 9, CreateInput{RoomID: 4, CheckIn: "2026-06-10", CheckOut: "2026-06-11", Guests: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Equal(t, "Room is not available for the selected dates", apperrors.PublicMessage(err))
	assert.Empty(t, f.notifier.confirmed)
}

func TestCreate_ValidatesStay(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		guests   int
		message  string
	}{
		{"checkout before checkin", "2026-06-10", "2026-06-09", 1, "Check-out date must be after check-in date"},
		{"same day", "2026-06-10", "2026-06-10", 1, "Check-out date must be after check-in date"},
		{"past checkin", "2026-05-30", "2026-06-02", 1, "Check-in date cannot be in the past"},
		{"bad date", "10/06/2026", "2026-06-12", 1, "checkIn must be a date (YYYY-MM-DD)"},
		{"too many guests", "2026-06-10", "2026-06-12", 3, "Room capacity is 2 guests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			room, hotel := activeRoom()
			f.withRoom(room, hotel)

			_, err := f.svc.Create(context.Background(), 9, CreateInput{RoomID: 4, CheckIn: tt.checkIn, CheckOut: tt.checkOut, Guests: tt.guests})
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			assert.Equal(t, tt.message, apperrors.PublicMessage(err))
			f.bookings.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_CheckInTodayAllowed(t *testing.T) {
	f := newFixture()
	room, hotel := activeRoom()
	f.withRoom(room, hotel)
	f.bookings.On("Reserve", mock.Anything, mock.Anything, 3).Return(nil)
	f.users.On("GetByID", mock.Anything, uint(9)).Return(&models.User{ID: 9}, nil)

	_, err := f.svc.Create(context.Background(), 9, CreateInput{RoomID: 4, CheckIn: "2026-06-01", CheckOut: "2026-06-02", Guests: 1})
	assert.NoError(t, err)
}

func TestCreate_InactiveHotel(t *testing.T) {
	f := newFixture()
	room, hotel := activeRoom()
	hotel.IsActive = false
	f.withRoom(room, hotel)

	_, err := f.svc.Create(context.Background(), 9, CreateInput{RoomID: 4, CheckIn: "2026-06-10", CheckOut: "2026-06-11", Guests: 1})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestGet_AccessRules(t *testing.T) {
	booking := &models.Booking{ID: 1, CustomerID: 9, Hotel: &models.Hotel{PartnerID: 50}}
	tests := []struct {
		name    string
		viewer  Viewer
		allowed bool
	}{
		{"owner", Viewer{UserID: 9, Role: models.RoleCustomer}, true},
		{"other customer", Viewer{UserID: 10, Role: models.RoleCustomer}, false},
		{"hotel partner", Viewer{UserID: 50, Role: models.RoleHotelPartner}, true},
		{"other partner", Viewer{UserID: 51, Role: models.RoleHotelPartner}, false},
		{"admin", Viewer{UserID: 1, Role: models.RoleAdmin}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.bookings.On("GetByID", mock.Anything, uint(1)).Return(booking, nil)

			got, err := f.svc.Get(context.Background(), tt.viewer, 1)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, booking, got)
			} else {
				assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
			}
		})
	}
}

func TestCancel(t *testing.T) {
	future := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	past := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		booking    *models.Booking
		customerID uint
		kind       apperrors.Kind
		wantErr    bool
	}{
		{
			name:       "confirmed future booking",
			booking:    &models.Booking{ID: 1, Reference: "BK-AAAA0001", CustomerID: 9, CheckIn: future, Status: models.BookingConfirmed},
			customerID: 9,
		},
		{
			name:       "someone else's booking",
			booking:    &models.Booking{ID: 1, CustomerID: 8, CheckIn: future, Status: models.BookingConfirmed},
			customerID: 9,
			kind:       apperrors.KindForbidden,
			wantErr:    true,
		},
		{
			name:       "already cancelled",
			booking:    &models.Booking{ID: 1, CustomerID: 9, CheckIn: future, Status: models.BookingCancelled},
			customerID: 9,
			kind:       apperrors.KindConflict,
			wantErr:    true,
		},
		{
			name:       "check-in passed",
			booking:    &models.Booking{ID: 1, CustomerID: 9, CheckIn: past, Status: models.BookingConfirmed},
			customerID: 9,
			kind:       apperrors.KindValidation,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.bookings.On("GetByID", mock.Anything, uint(1)).Return(tt.booking, nil)
			f.bookings.On("UpdateStatus", mock.Anything, uint(1),
				[]models.BookingStatus{models.BookingPending, models.BookingConfirmed}, models.BookingCancelled).
				Return(true, nil).Maybe()
			f.users.On("GetByID", mock.Anything, uint(9)).Return(&models.User{ID: 9}, nil).Maybe()

			_, err := f.svc.Cancel(context.Background(), tt.customerID, 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, tt.kind))
				f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, []string{"BK-AAAA0001"}, f.notifier.cancelled)
			}
		})
	}
}

func TestAvailability(t *testing.T) {
	f := newFixture()
	room, hotel := activeRoom()
	f.withRoom(room, hotel)
	checkIn := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	f.bookings.On("CountOverlapping", mock.Anything, uint(4), checkIn, checkOut).Return(int64(2), nil)

	avail, err := f.svc.Availability(context.Background(), 4, "2026-06-10", "2026-06-12")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 1, avail.Remaining)
	assert.Equal(t, 2, avail.Nights)
}
