package server

import (
	"secretguest/internal/models"
	"secretguest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateApplication handles POST /api/applications. Anonymous submissions are
// accepted; an authenticated candidate is bound to the application and runs
// through the eligibility gates.
func (s *Server) CreateApplication(c *fiber.Ctx) error {
	var input service.CreateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var userID *uint
	if uid, ok := s.optionalUserID(c); ok {
		userID = &uid
	}

	app, err := s.applicationService.Create(c.Context(), userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// CheckEligibility handles GET /api/eligibility for the authenticated user.
func (s *Server) CheckEligibility(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.applicationService.CheckEligibility(c.Context(), userID); err != nil {
		return c.JSON(fiber.Map{
			"eligible": false,
			"reason":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"eligible": true,
	})
}

// UploadApplicationPhoto handles POST /api/applications/:id/photos
func (s *Server) UploadApplicationPhoto(c *fiber.Ctx) error {
	applicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	files, err := readUploadedFiles(c, "photo")
	if err != nil {
		return nil
	}

	var userID *uint
	if uid, ok := s.optionalUserID(c); ok {
		userID = &uid
	}

	photos := make([]models.ApplicationPhoto, 0, len(files))
	for _, f := range files {
		photo, err := s.applicationService.AttachPhoto(c.Context(), applicationID, userID, f.Filename, f.Mime, f.Data)
		if err != nil {
			return respondServiceError(c, err)
		}
		photos = append(photos, *photo)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"photos": photos,
	})
}

// SubmitApplication handles POST /api/applications/:id/submit. Submission
// scores the questionnaire and decides the application in one step.
func (s *Server) SubmitApplication(c *fiber.Ctx) error {
	applicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var userID *uint
	if uid, ok := s.optionalUserID(c); ok {
		userID = &uid
	}

	app, err := s.applicationService.Submit(c.Context(), applicationID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(app)
}

// GetApplication handles GET /api/applications/:id. Authenticated users only
// see their own application; anonymous callers only reach unbound ones.
func (s *Server) GetApplication(c *fiber.Ctx) error {
	applicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	app, err := s.applicationService.Get(c.Context(), applicationID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if uid, ok := s.optionalUserID(c); ok {
		admin, err := s.isAdmin(c, uid)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin && (app.UserID == nil || *app.UserID != uid) {
			return respondServiceError(c, models.NewNotFoundError("Application", applicationID))
		}
	} else if app.UserID != nil {
		return respondServiceError(c, models.NewNotFoundError("Application", applicationID))
	}

	return c.JSON(app)
}

// GetMyApplication handles GET /api/applications/me/latest
func (s *Server) GetMyApplication(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	app, err := s.applicationService.GetMine(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(app)
}

// GetAdminApplications handles GET /api/admin/applications
func (s *Server) GetAdminApplications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	status := models.ApplicationStatus(c.Query("status"))

	apps, err := s.applicationService.List(c.Context(), status, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"applications": apps,
		"limit":        p.Limit,
		"offset":       p.Offset,
	})
}

// SetApplicationStatus handles POST /api/admin/applications/:id/status
func (s *Server) SetApplicationStatus(c *fiber.Ctx) error {
	applicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status  models.ApplicationStatus `json:"status"`
		Comment string                   `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	app, err := s.applicationService.SetStatus(c.Context(), applicationID, req.Status, req.Comment)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(app)
}
