package models

import (
	"time"

	"gorm.io/gorm"
)

type Hotel struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	PartnerID     uint           `gorm:"not null;index" json:"partnerId"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Address       string         `gorm:"not null" json:"address"`
	City          string         `gorm:"not null;index" json:"city"`
	Country       string         `gorm:"not null" json:"country"`
	StarRating    int            `gorm:"default:0" json:"starRating"`
	Amenities     StringList     `gorm:"type:jsonb" json:"amenities"`
	Images        StringList     `gorm:"type:jsonb" json:"images"`
	IsActive      bool           `gorm:"default:true" json:"isActive"`
	AverageRating float64        `gorm:"default:0" json:"averageRating"`
	ReviewCount   int            `gorm:"default:0" json:"reviewCount"`
	Rooms         []Room         `gorm:"constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

// RoomType is the category of a room.
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
	RoomFamily RoomType = "family"
)

type Room struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	HotelID       uint           `gorm:"not null;index" json:"hotelId"`
	Name          string         `gorm:"not null" json:"name"`
	Type          RoomType       `gorm:"type:varchar(20);not null" json:"type"`
	Capacity      int            `gorm:"not null" json:"capacity"`
	PricePerNight float64        `gorm:"not null" json:"pricePerNight"`
	Quantity      int            `gorm:"default:1" json:"quantity"`
	Amenities     StringList     `gorm:"type:jsonb" json:"amenities"`
	IsAvailable   bool           `gorm:"default:true" json:"isAvailable"`
}

// HotelFilter narrows public hotel searches.
type HotelFilter struct {
	City      string
	Search    string
	MinRating float64
	PartnerID uint
	Offset    int
	Limit     int
}
