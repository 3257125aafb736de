package models

import "github.com/golang-jwt/jwt/v5"

// Token types carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// UserClaims are the JWT claims of access and refresh tokens.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	TokenType    string `json:"typ"`
	TokenVersion int    `json:"token_version"`
}

// IsAdmin reports whether the claims belong to an admin.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
