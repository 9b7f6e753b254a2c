package server

import (
	"secretguest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetHotels handles GET /api/hotels
func (s *Server) GetHotels(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	city := c.Query("city")

	hotels, err := s.hotelService.List(c.Context(), city, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"hotels": hotels,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetHotel handles GET /api/hotels/:id
func (s *Server) GetHotel(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	hotel, err := s.hotelService.Get(c.Context(), hotelID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(hotel)
}

// GetHotelCard handles GET /api/hotels/:id/card with report aggregates and
// open date windows.
func (s *Server) GetHotelCard(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	card, err := s.hotelService.Card(c.Context(), hotelID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(card)
}

// CreateHotel handles POST /api/admin/hotels
func (s *Server) CreateHotel(c *fiber.Ctx) error {
	var hotel models.Hotel
	if err := c.BodyParser(&hotel); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.hotelService.Create(c.Context(), &hotel); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hotel)
}

// UpdateHotel handles PUT /api/admin/hotels/:id
func (s *Server) UpdateHotel(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	hotel, err := s.hotelService.Get(c.Context(), hotelID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := c.BodyParser(hotel); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	hotel.ID = hotelID

	if err := s.hotelService.Update(c.Context(), hotel); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(hotel)
}

// DeleteHotel handles DELETE /api/admin/hotels/:id
func (s *Server) DeleteHotel(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.hotelService.Delete(c.Context(), hotelID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHotelWindows handles GET /api/admin/hotels/:id/windows
func (s *Server) GetHotelWindows(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	windows, err := s.hotelService.ListWindows(c.Context(), hotelID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"windows": windows,
	})
}

// CreateHotelWindow handles POST /api/admin/hotels/:id/windows
func (s *Server) CreateHotelWindow(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var window models.ProgramHotel
	if err := c.BodyParser(&window); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	window.HotelID = hotelID

	if err := s.hotelService.CreateWindow(c.Context(), &window); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(window)
}

// UpdateHotelWindow handles PUT /api/admin/hotels/:id/windows/:windowId
func (s *Server) UpdateHotelWindow(c *fiber.Ctx) error {
	hotelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	windowID, err := s.parseID(c, "windowId")
	if err != nil {
		return nil
	}

	var window models.ProgramHotel
	if err := c.BodyParser(&window); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	window.ID = windowID
	window.HotelID = hotelID

	if err := s.hotelService.UpdateWindow(c.Context(), &window); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(window)
}
