package handlers

import (
	"net/url"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/models"
	"checkinn/internal/services/partner"
	"checkinn/internal/utils/pagination"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PartnerHandler serves the partner application review and onboarding endpoints.
type PartnerHandler struct {
	partnerService partner.Service
	validator      *validation.Validator
}

func NewPartnerHandler(partnerService partner.Service, v *validation.Validator) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
		validator:      v,
	}
}

// ListApplications lists partner applications with per-status counts.
func (h *PartnerHandler) ListApplications(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	list, err := h.partnerService.ListApplications(c.UserContext(), partner.ApplicationQuery{
		Status: c.Query("verificationStatus"),
		Search: c.Query("search"),
		Offset: p.Offset,
		Limit:  p.Limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = list.Total
	return response.JSON(c, fiber.Map{
		"partners":   models.ToResponses(list.Partners),
		"stats":      list.Stats,
		"pagination": pagination.Meta(p),
	})
}

func (h *PartnerHandler) GetApplication(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	user, err := h.partnerService.GetApplication(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.Map{"partner": user.ToResponse()})
}

// Approve moves a pending application to verified. The body is ignored.
func (h *PartnerHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, "Partner approved successfully", func(adminID, partnerID uint) (*models.User, error) {
		return h.partnerService.Approve(c.UserContext(), adminID, partnerID)
	})
}

func (h *PartnerHandler) Reject(c *fiber.Ctx) error {
	var input partner.RejectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return h.decide(c, "Partner application rejected", func(adminID, partnerID uint) (*models.User, error) {
		return h.partnerService.Reject(c.UserContext(), adminID, partnerID, input.RejectionReason)
	})
}

func (h *PartnerHandler) Suspend(c *fiber.Ctx) error {
	return h.decide(c, "Partner suspended", func(adminID, partnerID uint) (*models.User, error) {
		return h.partnerService.Suspend(c.UserContext(), adminID, partnerID)
	})
}

func (h *PartnerHandler) decide(c *fiber.Ctx, message string, apply func(adminID, partnerID uint) (*models.User, error)) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	partnerID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	user, err := apply(claims.UserID, partnerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.Map{
		"message": message,
		"partner": user.ToResponse(),
	})
}

// ApplicationStatus is public: applicants check their review state by email.
func (h *PartnerHandler) ApplicationStatus(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return response.FromError(c, apperrors.Validation("INVALID_EMAIL", "Invalid email"))
	}
	status, err := h.partnerService.ApplicationStatus(c.UserContext(), email)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", status)
}

func (h *PartnerHandler) Profile(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	user, err := h.partnerService.Profile(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{
		"partner":  user.ToResponse(),
		"progress": user.PartnerInfo.Progress(),
	})
}

func (h *PartnerHandler) UpdateBusinessInfo(c *fiber.Ctx) error {
	var input partner.BusinessInfoInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}
	return h.onboard(c, func(partnerID uint) (*models.User, error) {
		return h.partnerService.UpdateBusinessInfo(c.UserContext(), partnerID, input)
	})
}

func (h *PartnerHandler) UpdateBankInfo(c *fiber.Ctx) error {
	var input partner.BankInfoInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}
	return h.onboard(c, func(partnerID uint) (*models.User, error) {
		return h.partnerService.UpdateBankInfo(c.UserContext(), partnerID, input)
	})
}

func (h *PartnerHandler) UpdateDocuments(c *fiber.Ctx) error {
	var input partner.DocumentsInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}
	return h.onboard(c, func(partnerID uint) (*models.User, error) {
		return h.partnerService.UpdateDocuments(c.UserContext(), partnerID, input)
	})
}

func (h *PartnerHandler) onboard(c *fiber.Ctx, update func(partnerID uint) (*models.User, error)) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	user, err := update(claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Onboarding information saved", fiber.Map{
		"partner":  user.ToResponse(),
		"progress": user.PartnerInfo.Progress(),
	})
}
