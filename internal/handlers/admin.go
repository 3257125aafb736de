package handlers

import (
	"checkinn/internal/models"
	"checkinn/internal/services/admin"
	"checkinn/internal/utils/pagination"
	"checkinn/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler runs the self-action guard before it reads a request body and
// leaves field checks to the service.
type AdminHandler struct {
	adminService admin.Service
}

func NewAdminHandler(adminService admin.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	users, total, err := h.adminService.ListUsers(c.UserContext(), admin.UserQuery{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Offset: p.Offset,
		Limit:  p.Limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	return response.JSON(c, fiber.Map{
		"users":      models.ToResponses(users),
		"pagination": pagination.Meta(p),
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	user, err := h.adminService.GetUser(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{"user": user.ToResponse()})
}

// UpdateStatus activates, deactivates or suspends an account other than the caller's.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.adminService.GuardSelf(admin.ActionUpdateStatus, claims.UserID, targetID); err != nil {
		return response.FromError(c, err)
	}

	var input admin.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.adminService.UpdateStatus(c.UserContext(), claims.UserID, targetID, input.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User status updated", fiber.Map{"user": user.ToResponse()})
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.adminService.GuardSelf(admin.ActionUpdateUser, claims.UserID, targetID); err != nil {
		return response.FromError(c, err)
	}

	var input admin.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.adminService.UpdateUser(c.UserContext(), claims.UserID, targetID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User updated", fiber.Map{"user": user.ToResponse()})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.adminService.DeleteUser(c.UserContext(), claims.UserID, targetID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User deleted", nil)
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", stats)
}
