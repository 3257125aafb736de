package handlers

import (
	"checkinn/internal/services/review"
	"checkinn/internal/utils/pagination"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService review.Service
	validator     *validation.Validator
}

func NewReviewHandler(reviewService review.Service, v *validation.Validator) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     v,
	}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	hotelID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input review.CreateInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	created, err := h.reviewService.Create(c.UserContext(), claims.UserID, hotelID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Review submitted", fiber.Map{"review": created})
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	hotelID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	p := pagination.ParseFromRequest(c)
	reviews, total, err := h.reviewService.List(c.UserContext(), hotelID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	return response.JSON(c, fiber.Map{
		"reviews":    reviews,
		"pagination": pagination.Meta(p),
	})
}
