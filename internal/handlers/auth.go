package handlers

import (
	"time"

	"checkinn/internal/middleware"
	"checkinn/internal/models"
	"checkinn/internal/services/auth"
	"checkinn/internal/utils"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	authService  auth.Service
	validator    *validation.Validator
	secureCookie bool
	refreshTTL   time.Duration
}

func NewAuthHandler(authService auth.Service, v *validation.Validator, secureCookie bool, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validator:    v,
		secureCookie: secureCookie,
		refreshTTL:   refreshTTL,
	}
}

// Register creates a customer or hotel partner account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	user, tokens, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookies(c, tokens)
	message := "Registration successful"
	if user.IsPartner() {
		message = "Registration successful, your partner account is awaiting admin review"
	}
	return response.Created(c, message, sessionPayload(user, tokens))
}

// Login handles user authentication and returns JWT tokens
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	user, tokens, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookies(c, tokens)
	return response.Success(c, "Login successful", sessionPayload(user, tokens))
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	// First try to get token from cookies
	refreshToken := c.Cookies(refreshTokenCookie)

	// If not in cookies, try request body
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	user, tokens, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return response.FromError(c, err)
	}

	h.setAuthCookies(c, tokens)
	return response.Success(c, "Token refreshed", sessionPayload(user, tokens))
}

// Logout revokes every token of the caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}

	// Increment token version to invalidate all existing tokens
	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		return response.FromError(c, err)
	}

	h.clearAuthCookies(c)
	return response.Success(c, "Successfully logged out", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	user, err := h.authService.Me(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{"user": user.ToResponse()})
}

// ChangePassword handles password change requests
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,password"`
	}
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.authService.ChangePassword(c.UserContext(), claims.UserID, input.CurrentPassword, input.NewPassword); err != nil {
		return response.FromError(c, err)
	}

	h.clearAuthCookies(c)
	return response.Success(c, "Password changed successfully, please log in again", nil)
}

func sessionPayload(user *models.User, tokens *utils.TokenPair) fiber.Map {
	return fiber.Map{
		"user":         user.ToResponse(),
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
	}
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, tokens *utils.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Expires:  time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Expires:  time.Now().Add(h.refreshTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/api/auth",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for name, path := range map[string]string{middleware.AccessTokenCookie: "/", refreshTokenCookie: "/api/auth"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   h.secureCookie,
			Path:     path,
		})
	}
}
