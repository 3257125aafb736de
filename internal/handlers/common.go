package handlers

import (
	"strconv"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/models"
	"checkinn/internal/utils"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("INVALID_ID", "Invalid "+name)
	}
	return uint(id), nil
}

// bind parses the JSON body into dst and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Validation("INVALID_BODY", "Invalid request body")
	}
	return v.Struct(dst)
}

func claimsFrom(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return nil, apperrors.Unauthorized("UNAUTHENTICATED", "Authentication required")
	}
	return claims, nil
}
