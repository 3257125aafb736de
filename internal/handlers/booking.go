package handlers

import (
	"checkinn/internal/services/booking"
	"checkinn/internal/utils/pagination"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookingService booking.Service
	validator      *validation.Validator
}

func NewBookingHandler(bookingService booking.Service, v *validation.Validator) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      v,
	}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var input booking.CreateInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	created, err := h.bookingService.Create(c.UserContext(), claims.UserID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Booking confirmed", fiber.Map{"booking": created})
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	found, err := h.bookingService.Get(c.UserContext(), booking.Viewer{UserID: claims.UserID, Role: claims.Role}, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{"booking": found})
}

// ListMine lists the caller's own bookings.
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p := pagination.ParseFromRequest(c)
	bookings, total, err := h.bookingService.ListMine(c.UserContext(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	return response.JSON(c, fiber.Map{
		"bookings":   bookings,
		"pagination": pagination.Meta(p),
	})
}

// ListForPartner lists bookings made at the caller's hotels.
func (h *BookingHandler) ListForPartner(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p := pagination.ParseFromRequest(c)
	bookings, total, err := h.bookingService.ListForPartner(c.UserContext(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	return response.JSON(c, fiber.Map{
		"bookings":   bookings,
		"pagination": pagination.Meta(p),
	})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	cancelled, err := h.bookingService.Cancel(c.UserContext(), claims.UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Booking cancelled", fiber.Map{"booking": cancelled})
}

func (h *BookingHandler) Availability(c *fiber.Ctx) error {
	roomID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	availability, err := h.bookingService.Availability(c.UserContext(), roomID, c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", availability)
}
