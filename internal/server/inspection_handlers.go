package server

import (
	"secretguest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAvailability handles GET /api/availability. The matcher applies the
// guest's rating tier and party size against the published inventory.
func (s *Server) GetAvailability(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	city := c.Query("city")
	limit := c.QueryInt("limit", 20)

	hotels, err := s.inspectionService.FindHotels(c.Context(), userID, city, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"hotels": hotels,
	})
}

// SelectHotel handles POST /api/availability/:hotelId/select, reserving slots
// for the guest's party and opening an inspection.
func (s *Server) SelectHotel(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	hotelID, err := s.parseID(c, "hotelId")
	if err != nil {
		return nil
	}

	inspection, err := s.inspectionService.Select(c.Context(), userID, hotelID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inspection)
}

// GetMyInspections handles GET /api/inspections/me
func (s *Server) GetMyInspections(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	inspections, err := s.inspectionService.ListMine(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"inspections": inspections,
		"limit":       p.Limit,
		"offset":      p.Offset,
	})
}

// GetInspection handles GET /api/inspections/:id
func (s *Server) GetInspection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	inspectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	inspection, err := s.inspectionService.Get(c.Context(), inspectionID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(inspection)
}

// ApplyPromoCode handles POST /api/inspections/:id/promo
func (s *Server) ApplyPromoCode(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	inspectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A promo code is required"))
	}

	inspection, err := s.inspectionService.AttachPromoCode(c.Context(), inspectionID, userID, req.Code)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(inspection)
}

// MarkInspectionBooked handles POST /api/inspections/:id/booked
func (s *Server) MarkInspectionBooked(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	inspectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		BookingRef string `json:"booking_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	inspection, err := s.inspectionService.MarkBooked(c.Context(), inspectionID, userID, req.BookingRef)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(inspection)
}

// GetAdminInspections handles GET /api/admin/inspections
func (s *Server) GetAdminInspections(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	status := models.InspectionStatus(c.Query("status"))

	inspections, err := s.inspectionService.List(c.Context(), status, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"inspections": inspections,
		"limit":       p.Limit,
		"offset":      p.Offset,
	})
}
