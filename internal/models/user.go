package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the account type of a user.
type Role string

const (
	RoleCustomer     Role = "Customer"
	RoleHotelPartner Role = "HotelPartner"
	RoleAdmin        Role = "Admin"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleHotelPartner, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// UserStatus is the account standing managed by admins.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(s) {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return UserStatus(s), true
	default:
		return "", false
	}
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex:idx_users_email,where:deleted_at IS NULL;not null" json:"email"`
	Phone        string         `json:"phone"`
	Password     string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);default:'Customer';index" json:"role"`
	Status       UserStatus     `gorm:"type:varchar(20);default:'active'" json:"status"`
	TokenVersion int            `gorm:"default:1" json:"-"`
	LastLoginAt  *time.Time     `json:"lastLoginAt,omitempty"`
	PartnerInfo  PartnerInfo    `gorm:"embedded;embeddedPrefix:partner_" json:"-"`
}

// IsPartner reports whether the user is a hotel partner.
func (u *User) IsPartner() bool { return u.Role == RoleHotelPartner }

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Role        Role         `json:"role"`
	Status      UserStatus   `json:"status"`
	LastLoginAt *time.Time   `json:"lastLoginAt,omitempty"`
	PartnerInfo *PartnerInfo `json:"partnerInfo,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ToResponse strips credentials; partner info is only present for partners.
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.IsPartner() {
		info := u.PartnerInfo
		resp.PartnerInfo = &info
	}
	return resp
}

// ToResponses maps a slice of users.
func ToResponses(users []*User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out
}
