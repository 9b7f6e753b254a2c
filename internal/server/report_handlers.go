package server

import (
	"encoding/json"

	"secretguest/internal/models"
	"secretguest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// reportID extracts the UUID route parameter of a report.
func reportID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if len(id) != 36 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid report ID"))
		return "", errResponseWritten
	}
	return id, nil
}

// CreateReport handles POST /api/inspections/:id/report, opening the draft
// report for a booked stay.
func (s *Server) CreateReport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	inspectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	report, err := s.reportService.Create(c.Context(), userID, inspectionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReport handles GET /api/reports/:id
func (s *Server) GetReport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := reportID(c)
	if err != nil {
		return nil
	}

	report, err := s.reportService.Get(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

// SaveReportStep handles PUT /api/reports/:id/steps/:stepId
func (s *Server) SaveReportStep(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := reportID(c)
	if err != nil {
		return nil
	}
	stepID := c.Params("stepId")

	payload := json.RawMessage(c.Body())
	if len(payload) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A step payload is required"))
	}

	report, err := s.reportService.SaveStep(c.Context(), id, userID, stepID, payload)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

// UploadReportPhotos handles POST /api/reports/:id/photos/:section
func (s *Server) UploadReportPhotos(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := reportID(c)
	if err != nil {
		return nil
	}
	section := c.Params("section")

	files, err := readUploadedFiles(c, "photos")
	if err != nil {
		return nil
	}

	uploads := make([]service.ReportPhotoUpload, 0, len(files))
	for _, f := range files {
		uploads = append(uploads, service.ReportPhotoUpload{
			Filename: f.Filename,
			Mime:     f.Mime,
			Data:     f.Data,
		})
	}

	photos, err := s.reportService.AddPhotos(c.Context(), id, userID, section, uploads)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"photos": photos,
	})
}

// SubmitReport handles POST /api/reports/:id/submit
func (s *Server) SubmitReport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := reportID(c)
	if err != nil {
		return nil
	}

	report, err := s.reportService.Submit(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

// GetMyReports handles GET /api/reports/me
func (s *Server) GetMyReports(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	reports, err := s.reportService.ListMine(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetAdminReports handles GET /api/admin/reports
func (s *Server) GetAdminReports(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	status := models.ReportStatus(c.Query("status"))

	reports, err := s.reportService.List(c.Context(), status, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// ModerateReport handles POST /api/admin/reports/:id/moderate
func (s *Server) ModerateReport(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.SetModerationResult(c.Context(), id, req.Approved)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}
