package server

import (
	"secretguest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPromoCodes handles GET /api/admin/promo-codes
func (s *Server) GetPromoCodes(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	promos, err := s.promoCodeService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"promo_codes": promos,
		"limit":       p.Limit,
		"offset":      p.Offset,
	})
}

// CreatePromoCode handles POST /api/admin/promo-codes
func (s *Server) CreatePromoCode(c *fiber.Ctx) error {
	var promo models.PromoCode
	if err := c.BodyParser(&promo); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.promoCodeService.Create(c.Context(), &promo); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(promo)
}

// UpdatePromoCode handles PUT /api/admin/promo-codes/:id
func (s *Server) UpdatePromoCode(c *fiber.Ctx) error {
	promoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var promo models.PromoCode
	if err := c.BodyParser(&promo); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	promo.ID = promoID

	if err := s.promoCodeService.Update(c.Context(), &promo); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(promo)
}
