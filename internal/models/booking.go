package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingStatus is the lifecycle state of a reservation.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Cancellable reports whether a booking in this status may still be cancelled.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Reference       string         `gorm:"uniqueIndex;not null" json:"reference"`
	CustomerID      uint           `gorm:"not null;index" json:"customerId"`
	HotelID         uint           `gorm:"not null;index" json:"hotelId"`
	RoomID          uint           `gorm:"not null;index" json:"roomId"`
	CheckIn         time.Time      `gorm:"not null" json:"checkIn"`
	CheckOut        time.Time      `gorm:"not null" json:"checkOut"`
	Guests          int            `gorm:"not null" json:"guests"`
	Nights          int            `gorm:"not null" json:"nights"`
	TotalPrice      float64        `gorm:"not null" json:"totalPrice"`
	Status          BookingStatus  `gorm:"type:varchar(20);default:'confirmed';index" json:"status"`
	SpecialRequests string         `gorm:"type:text" json:"specialRequests,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty"`
	Hotel           *Hotel         `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	Room            *Room          `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

type Review struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	HotelID    uint           `gorm:"not null;index" json:"hotelId"`
	CustomerID uint           `gorm:"not null;index" json:"customerId"`
	BookingID  uint           `gorm:"not null;uniqueIndex" json:"bookingId"`
	Rating     int            `gorm:"not null" json:"rating"`
	Comment    string         `gorm:"type:text" json:"comment"`
}
