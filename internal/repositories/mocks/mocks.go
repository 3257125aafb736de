// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"checkinn/internal/models"
	"checkinn/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, int64, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) ListPartners(ctx context.Context, filter repositories.PartnerFilter) ([]*models.User, int64, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) CountPartnersByStatus(ctx context.Context) (map[models.PartnerStatus]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[models.PartnerStatus]int64)
	return counts, args.Error(1)
}

func (m *UserRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[models.Role]int64)
	return counts, args.Error(1)
}

func (m *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *UserRepository) TransitionPartnerStatus(ctx context.Context, id uint, from, to models.PartnerStatus, fields map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, from, to, fields)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepository) IncrementTokenVersion(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type HotelRepository struct {
	mock.Mock
}

var _ repositories.HotelRepository = (*HotelRepository)(nil)

func (m *HotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	args := m.Called(ctx, hotel)
	return args.Error(0)
}

func (m *HotelRepository) GetByID(ctx context.Context, id uint) (*models.Hotel, error) {
	args := m.Called(ctx, id)
	hotel, _ := args.Get(0).(*models.Hotel)
	return hotel, args.Error(1)
}

func (m *HotelRepository) List(ctx context.Context, filter models.HotelFilter) ([]*models.Hotel, int64, error) {
	args := m.Called(ctx, filter)
	hotels, _ := args.Get(0).([]*models.Hotel)
	return hotels, args.Get(1).(int64), args.Error(2)
}

func (m *HotelRepository) Update(ctx context.Context, hotel *models.Hotel) error {
	args := m.Called(ctx, hotel)
	return args.Error(0)
}

func (m *HotelRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *HotelRepository) UpdateRating(ctx context.Context, id uint, average float64, count int) error {
	args := m.Called(ctx, id, average, count)
	return args.Error(0)
}

func (m *HotelRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *HotelRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *HotelRepository) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *HotelRepository) ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error) {
	args := m.Called(ctx, hotelID)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *HotelRepository) UpdateRoom(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *HotelRepository) DeleteRoom(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type BookingRepository struct {
	mock.Mock
}

var _ repositories.BookingRepository = (*BookingRepository)(nil)

func (m *BookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*models.Booking)
	return booking, args.Error(1)
}

func (m *BookingRepository) ListByCustomer(ctx context.Context, customerID uint, offset, limit int) ([]*models.Booking, int64, error) {
	args := m.Called(ctx, customerID, offset, limit)
	bookings, _ := args.Get(0).([]*models.Booking)
	return bookings, args.Get(1).(int64), args.Error(2)
}

func (m *BookingRepository) ListByPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Booking, int64, error) {
	args := m.Called(ctx, partnerID, offset, limit)
	bookings, _ := args.Get(0).([]*models.Booking)
	return bookings, args.Get(1).(int64), args.Error(2)
}

func (m *BookingRepository) Reserve(ctx context.Context, booking *models.Booking, capacity int) error {
	args := m.Called(ctx, booking, capacity)
	return args.Error(0)
}

func (m *BookingRepository) CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BookingRepository) UpdateStatus(ctx context.Context, id uint, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *BookingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type ReviewRepository struct {
	mock.Mock
}

var _ repositories.ReviewRepository = (*ReviewRepository)(nil)

func (m *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepository) ListByHotel(ctx context.Context, hotelID uint, offset, limit int) ([]*models.Review, int64, error) {
	args := m.Called(ctx, hotelID, offset, limit)
	reviews, _ := args.Get(0).([]*models.Review)
	return reviews, args.Get(1).(int64), args.Error(2)
}

func (m *ReviewRepository) RatingSummary(ctx context.Context, hotelID uint) (float64, int, error) {
	args := m.Called(ctx, hotelID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}
