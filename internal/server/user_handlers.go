package server

import (
	"time"

	"secretguest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me. Only the self-service fields are
// writable; role, rating and verification flags are managed by the program.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		FirstName   *string            `json:"first_name"`
		LastName    *string            `json:"last_name"`
		Cities      *models.StringList `json:"cities"`
		PartySize   *int               `json:"party_size"`
		DateOfBirth *time.Time         `json:"date_of_birth"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Cities != nil {
		user.Cities = *req.Cities
	}
	if req.PartySize != nil {
		if *req.PartySize < 1 || *req.PartySize > 10 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Party size must be between 1 and 10"))
		}
		user.PartySize = *req.PartySize
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
