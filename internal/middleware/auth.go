// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization, and other request processing middleware
// that can be used with the fiber web framework.
package middleware

import (
	"context"
	"fmt"
	"strings"

	"checkinn/internal/models"
	"checkinn/internal/utils"
	"checkinn/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccessTokenCookie is the cookie read when no Authorization header is sent.
const AccessTokenCookie = "accessToken"

// TokenParser validates access tokens.
type TokenParser interface {
	ParseAccessToken(token string) (*models.UserClaims, error)
}

// UserLoader loads the current user record.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	tokens TokenParser
	users  UserLoader
	logger *zap.Logger
}

func NewAuthMiddleware(tokens TokenParser, users UserLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Handler validates the access token and stores the claims and the current
// user record in the request context. It checks for:
// - a Bearer token or the access token cookie
// - a valid signature and expiry
// - a token version matching the stored user
// - an active account
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString := extractToken(c)
	if tokenString == "" {
		return response.Unauthorized(c, "Authentication required")
	}

	claims, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		m.logger.Debug("access token rejected", zap.Error(err))
		return response.Unauthorized(c, "Invalid or expired token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		m.logger.Info("user from token not found", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return response.Unauthorized(c, "Invalid or expired token")
	}

	if claims.TokenVersion != user.TokenVersion {
		m.logger.Info("token version mismatch",
			zap.Uint("user_id", user.ID),
			zap.Int("token_version", claims.TokenVersion),
			zap.Int("current_version", user.TokenVersion))
		return response.Unauthorized(c, "Session has been revoked, please log in again")
	}

	if !user.IsActive() {
		return response.Forbidden(c, fmt.Sprintf("Your account is %s, please contact support", user.Status))
	}

	// The stored role wins over the token role.
	claims.Role = user.Role
	c.Locals(utils.LocalsClaims, claims)
	c.Locals(utils.LocalsUser, user)
	return c.Next()
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return c.Cookies(AccessTokenCookie)
}

// RequireRoles allows the request only for the given roles.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c, "Authentication required")
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return response.Forbidden(c, "Access denied: insufficient permissions")
	}
}

// AdminOnly verifies that the request has valid admin claims.
func AdminOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}
