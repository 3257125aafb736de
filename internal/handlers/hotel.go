package handlers

import (
	"strconv"

	"checkinn/internal/models"
	"checkinn/internal/services/hotel"
	"checkinn/internal/utils/pagination"
	"checkinn/internal/utils/response"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// HotelHandler serves public hotel search and the partner's hotel management.
type HotelHandler struct {
	hotelService hotel.Service
	validator    *validation.Validator
}

func NewHotelHandler(hotelService hotel.Service, v *validation.Validator) *HotelHandler {
	return &HotelHandler{
		hotelService: hotelService,
		validator:    v,
	}
}

func (h *HotelHandler) ListHotels(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)

	hotels, total, err := h.hotelService.ListHotels(c.UserContext(), models.HotelFilter{
		City:      c.Query("city"),
		Search:    c.Query("search"),
		MinRating: minRating,
		Offset:    p.Offset,
		Limit:     p.Limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	return response.JSON(c, fiber.Map{
		"hotels":     hotels,
		"pagination": pagination.Meta(p),
	})
}

func (h *HotelHandler) GetHotel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	found, err := h.hotelService.GetHotel(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{"hotel": found})
}

func (h *HotelHandler) ListRooms(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	rooms, err := h.hotelService.ListRooms(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{"rooms": rooms})
}

func (h *HotelHandler) ListMyHotels(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p := pagination.ParseFromRequest(c)
	hotels, total, err := h.hotelService.ListPartnerHotels(c.UserContext(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	return response.JSON(c, fiber.Map{
		"hotels":     hotels,
		"pagination": pagination.Meta(p),
	})
}

func (h *HotelHandler) CreateHotel(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var input hotel.HotelInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	created, err := h.hotelService.CreateHotel(c.UserContext(), claims.UserID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Hotel created", fiber.Map{"hotel": created})
}

func (h *HotelHandler) UpdateHotel(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input hotel.HotelInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	updated, err := h.hotelService.UpdateHotel(c.UserContext(), claims.UserID, id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Hotel updated", fiber.Map{"hotel": updated})
}

func (h *HotelHandler) DeleteHotel(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.hotelService.DeleteHotel(c.UserContext(), claims.UserID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Hotel deleted", nil)
}

func (h *HotelHandler) CreateRoom(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	hotelID, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input hotel.RoomInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	room, err := h.hotelService.CreateRoom(c.UserContext(), claims.UserID, hotelID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Room created", fiber.Map{"room": room})
}

func (h *HotelHandler) UpdateRoom(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return response.FromError(c, err)
	}
	var input hotel.RoomInput
	if err := bind(c, h.validator, &input); err != nil {
		return response.FromError(c, err)
	}

	room, err := h.hotelService.UpdateRoom(c.UserContext(), claims.UserID, roomID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Room updated", fiber.Map{"room": room})
}

func (h *HotelHandler) DeleteRoom(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.hotelService.DeleteRoom(c.UserContext(), claims.UserID, roomID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Room deleted", nil)
}
