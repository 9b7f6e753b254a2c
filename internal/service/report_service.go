package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"secretguest/internal/middleware"
	"secretguest/internal/models"
	"secretguest/internal/observability"
	"secretguest/internal/repository"
	"secretguest/internal/storage"
)

// EditWindowBefore is how long before checkout a draft report opens for editing.
const EditWindowBefore = 24 * time.Hour

// Free-text bounds for the closing feedback step.
const (
	feedbackMinLen = 50
	feedbackMaxLen = 2000
)

// ReportPhotoUpload is one file of a photo batch.
type ReportPhotoUpload struct {
	Filename string
	Mime     string
	Data     []byte
}

// ReportService manages the multi-step inspection report lifecycle.
type ReportService interface {
	Create(ctx context.Context, userID, inspectionID uint) (*models.Report, error)
	Get(ctx context.Context, reportID string, userID uint) (*models.Report, error)
	SaveStep(ctx context.Context, reportID string, userID uint, stepID string, payload json.RawMessage) (*models.Report, error)
	AddPhotos(ctx context.Context, reportID string, userID uint, section string, files []ReportPhotoUpload) ([]models.ReportPhoto, error)
	Submit(ctx context.Context, reportID string, userID uint) (*models.Report, error)
	SetModerationResult(ctx context.Context, reportID string, approved bool) (*models.Report, error)
	ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.Report, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
}

type reportService struct {
	reports     repository.ReportRepository
	inspections InspectionService
	blobs       storage.BlobStore
	now         func() time.Time
}

// NewReportService returns a new ReportService implementation.
func NewReportService(reports repository.ReportRepository, inspections InspectionService, blobs storage.BlobStore) ReportService {
	return &reportService{reports: reports, inspections: inspections, blobs: blobs, now: time.Now}
}

func (s *reportService) Create(ctx context.Context, userID, inspectionID uint) (*models.Report, error) {
	inspection, err := s.inspections.Get(ctx, inspectionID, userID)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusAwaitingReport {
		return nil, models.NewStateConflictError("the inspection is not awaiting a report")
	}
	if inspection.ReportID != nil {
		return nil, models.NewStateConflictError("a report already exists for this inspection")
	}
	if inspection.ProgramHotel == nil {
		return nil, models.NewInternalError(fmt.Errorf("inspection %d has no inventory window", inspectionID))
	}

	report := &models.Report{
		UserID:       &userID,
		HotelID:      inspection.HotelID,
		CheckoutDate: inspection.ProgramHotel.CheckOutDate,
		Status:       models.ReportStatusDraft,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if _, err := s.inspections.AttachReport(ctx, inspectionID, report.ID); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Get(ctx context.Context, reportID string, userID uint) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && (report.UserID == nil || *report.UserID != userID) {
		return nil, models.NewNotFoundError("Report", reportID)
	}
	return report, nil
}

// editableAt reports whether the draft edit window is open: from one day
// before checkout, while the report is still a draft.
func editableAt(report *models.Report, now time.Time) error {
	if report.Status != models.ReportStatusDraft {
		return models.NewStateConflictError("only draft reports can be edited")
	}
	opensAt := report.CheckoutDate.Add(-EditWindowBefore)
	if now.Before(opensAt) {
		return models.NewStateConflictError("the report opens for editing one day before checkout")
	}
	return nil
}

func (s *reportService) SaveStep(ctx context.Context, reportID string, userID uint, stepID string, payload json.RawMessage) (*models.Report, error) {
	report, err := s.Get(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}
	if err := editableAt(report, s.now()); err != nil {
		return nil, err
	}

	switch stepID {
	case models.ReportStepStay:
		var step models.ReportStep1
		if err := json.Unmarshal(payload, &step); err != nil {
			return nil, models.NewValidationError("malformed step payload")
		}
		if err := validateStep1(&step); err != nil {
			return nil, err
		}
		report.Answers.Step1 = &step
	case models.ReportStepService:
		var step models.ReportStep2
		if err := json.Unmarshal(payload, &step); err != nil {
			return nil, models.NewValidationError("malformed step payload")
		}
		if err := validateStep2(&step); err != nil {
			return nil, err
		}
		report.Answers.Step2 = &step
	case models.ReportStepFeedback:
		var step models.ReportStep6
		if err := json.Unmarshal(payload, &step); err != nil {
			return nil, models.NewValidationError("malformed step payload")
		}
		if err := validateStep6(&step); err != nil {
			return nil, err
		}
		report.Answers.Step6 = &step
	default:
		return nil, models.NewValidationError("unknown report step " + stepID)
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) AddPhotos(ctx context.Context, reportID string, userID uint, section string, files []ReportPhotoUpload) ([]models.ReportPhoto, error) {
	report, err := s.Get(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}
	if err := editableAt(report, s.now()); err != nil {
		return nil, err
	}

	if !validPhotoSection(section) {
		return nil, models.NewValidationError("unknown photo section " + section)
	}
	if len(files) == 0 {
		return nil, models.NewValidationError("no photo files provided")
	}

	photos := make([]models.ReportPhoto, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, models.NewValidationError("photo file is empty")
		}
		path := storage.ReportPhotoPath(report.ID, section, f.Filename)
		if err := s.blobs.Write(path, f.Data); err != nil {
			return nil, models.NewInternalError(err)
		}
		photos = append(photos, models.ReportPhoto{
			ReportID: report.ID,
			Section:  section,
			Filename: f.Filename,
			Path:     path,
			Mime:     f.Mime,
			Size:     int64(len(f.Data)),
		})
	}

	if err := s.reports.AddPhotos(ctx, photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// Submit re-validates the complete report, enforces the per-section photo
// minimums, computes the overall score and transitions the draft to
// moderation in one guarded update.
func (s *reportService) Submit(ctx context.Context, reportID string, userID uint) (*models.Report, error) {
	report, err := s.Get(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}
	if err := editableAt(report, s.now()); err != nil {
		return nil, err
	}

	if report.Answers.Step1 == nil || report.Answers.Step2 == nil || report.Answers.Step6 == nil {
		return nil, models.NewValidationError("all report steps must be completed before submission")
	}
	if err := validateStep1(report.Answers.Step1); err != nil {
		return nil, err
	}
	if err := validateStep2(report.Answers.Step2); err != nil {
		return nil, err
	}
	if err := validateStep6(report.Answers.Step6); err != nil {
		return nil, err
	}
	if !report.Answers.Step6.Confirmed {
		return nil, models.NewValidationError("the report must be explicitly confirmed before submission")
	}

	counts, err := s.reports.CountPhotosBySection(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	for section, minimum := range models.RequiredPhotoCounts {
		if counts[section] < minimum {
			return nil, models.NewValidationError(
				fmt.Sprintf("section %s needs at least %d photos, has %d", section, minimum, counts[section]))
		}
	}

	score := OverallScore(&report.Answers)
	submittedAt := s.now()

	ok, err := s.reports.Submit(ctx, report.ID, score, submittedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewStateConflictError("the report has already been submitted")
	}

	report.Status = models.ReportStatusOnModeration
	report.OverallScore = &score
	report.SubmittedAt = &submittedAt

	if _, err := s.inspections.CompleteByReport(ctx, report.ID); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to complete inspection after report submission",
			slog.String("report_id", report.ID),
			slog.String("error", err.Error()),
		)
	}

	observability.ReportsSubmitted.Inc()
	middleware.Logger.InfoContext(ctx, "report submitted",
		slog.String("report_id", report.ID),
		slog.Float64("overall_score", score),
	)
	return report, nil
}

func (s *reportService) SetModerationResult(ctx context.Context, reportID string, approved bool) (*models.Report, error) {
	status := models.ReportStatusRejected
	if approved {
		status = models.ReportStatusApproved
	}

	ok, err := s.reports.SetModerationResult(ctx, reportID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewStateConflictError("only reports on moderation can be decided")
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reports.ListByUser(ctx, userID, limit, offset)
}

func (s *reportService) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reports.List(ctx, status, limit, offset)
}

// OverallScore averages the seven sub-ratings of the stay and service steps,
// rounded to one decimal.
func OverallScore(answers *models.ReportAnswers) float64 {
	ratings := []int{
		answers.Step1.RoomCleanliness,
		answers.Step1.BathroomSanitation,
		answers.Step1.LinenFreshness,
		answers.Step1.PublicAreaClean,
		answers.Step2.Politeness,
		answers.Step2.ResponseSpeed,
		answers.Step2.FoodQuality,
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Floor(mean*10+0.5) / 10
}

// ScoreLabel buckets an overall score into the verdict shown on public hotel
// cards.
func ScoreLabel(score *float64) string {
	switch {
	case score == nil:
		return "no score"
	case *score >= 9.5:
		return "exceptional"
	case *score >= 8.0:
		return "excellent"
	case *score >= 6.5:
		return "good"
	case *score >= 5.0:
		return "satisfactory"
	default:
		return "below expectations"
	}
}

// ReportTags turns the categorical step answers into the tag lines shown on
// public hotel cards.
func ReportTags(answers *models.ReportAnswers) []string {
	var tags []string
	if answers == nil {
		return tags
	}
	if step := answers.Step2; step != nil {
		if label, ok := wifiTags[step.WifiQuality]; ok {
			tags = append(tags, label)
		}
		if label, ok := waitTimeTags[step.WaitTime]; ok {
			tags = append(tags, label)
		}
		if label, ok := foodMatchTags[step.FoodMatch]; ok {
			tags = append(tags, label)
		}
		if label, ok := foodAssortmentTags[step.FoodAssortment]; ok {
			tags = append(tags, label)
		}
	}
	if step := answers.Step1; step != nil {
		if label, ok := amenitiesTags[step.AmenitiesState]; ok {
			tags = append(tags, label)
		}
	}
	return tags
}

var wifiTags = map[string]string{
	models.WifiStableFast:   "Wi-Fi: stable and fast",
	models.WifiIntermittent: "Wi-Fi: intermittent",
	models.WifiVerySlow:     "Wi-Fi: very slow",
	models.WifiAbsent:       "Wi-Fi: absent",
}

var waitTimeTags = map[string]string{
	models.WaitInstant:    "Service: instant responses",
	models.WaitUpTo10:     "Service: replies within 10 minutes",
	models.WaitFrom10To30: "Service: replies within 10-30 minutes",
	models.WaitOver30:     "Service: replies take over 30 minutes",
}

var foodMatchTags = map[string]string{
	models.MatchFull:     "Kitchen: matches the listing",
	models.MatchPartial:  "Kitchen: partly matches the listing",
	models.MatchNotMatch: "Kitchen: does not match the listing",
}

var foodAssortmentTags = map[string]string{
	models.AssortmentRich:     "Breakfast: rich assortment",
	models.AssortmentStandard: "Breakfast: standard assortment",
	models.AssortmentModest:   "Breakfast: modest assortment",
}

var amenitiesTags = map[string]string{
	models.AmenitiesAllWork:        "Amenities: everything works",
	models.AmenitiesSomeNotWorking: "Amenities: some are out of order",
	models.AmenitiesExtraNotListed: "Amenities: extras beyond the listing",
}

func validRating(v int) bool { return v >= 1 && v <= 10 }

func validateStep1(step *models.ReportStep1) error {
	switch step.PhotosMatch {
	case models.MatchFull, models.MatchPartial, models.MatchNotMatch:
	default:
		return models.NewValidationError("invalid photos_match value")
	}
	if step.PhotosMatch != models.MatchFull && step.PhotosMatchComment == "" {
		return models.NewValidationError("a comment is required when the photos do not fully match")
	}
	switch step.AmenitiesState {
	case models.AmenitiesAllWork, models.AmenitiesSomeNotWorking, models.AmenitiesExtraNotListed:
	default:
		return models.NewValidationError("invalid amenities_state value")
	}
	if step.AmenitiesState != models.AmenitiesAllWork && step.AmenitiesComment == "" {
		return models.NewValidationError("a comment is required when amenities deviate from the listing")
	}
	for name, v := range map[string]int{
		"room_cleanliness":        step.RoomCleanliness,
		"bathroom_sanitation":     step.BathroomSanitation,
		"linen_freshness":         step.LinenFreshness,
		"public_area_cleanliness": step.PublicAreaClean,
	} {
		if !validRating(v) {
			return models.NewValidationError(name + " must be between 1 and 10")
		}
	}
	return nil
}

func validateStep2(step *models.ReportStep2) error {
	for name, v := range map[string]int{
		"politeness":     step.Politeness,
		"response_speed": step.ResponseSpeed,
		"food_quality":   step.FoodQuality,
	} {
		if !validRating(v) {
			return models.NewValidationError(name + " must be between 1 and 10")
		}
	}
	switch step.WifiQuality {
	case models.WifiStableFast, models.WifiIntermittent, models.WifiVerySlow, models.WifiAbsent:
	default:
		return models.NewValidationError("invalid wifi_quality value")
	}
	switch step.WaitTime {
	case models.WaitInstant, models.WaitUpTo10, models.WaitFrom10To30, models.WaitOver30:
	default:
		return models.NewValidationError("invalid wait_time value")
	}
	switch step.FoodMatch {
	case models.MatchFull, models.MatchPartial, models.MatchNotMatch:
	default:
		return models.NewValidationError("invalid food_match value")
	}
	switch step.FoodAssortment {
	case models.AssortmentRich, models.AssortmentStandard, models.AssortmentModest:
	default:
		return models.NewValidationError("invalid food_assortment value")
	}
	return nil
}

func validateStep6(step *models.ReportStep6) error {
	for name, text := range map[string]string{
		"liked":      step.Liked,
		"to_improve": step.ToImprove,
		"advantages": step.Advantages,
	} {
		n := utf8.RuneCountInString(text)
		if n < feedbackMinLen || n > feedbackMaxLen {
			return models.NewValidationError(
				fmt.Sprintf("%s must be between %d and %d characters", name, feedbackMinLen, feedbackMaxLen))
		}
	}
	return nil
}

func validPhotoSection(section string) bool {
	for _, s := range models.PhotoSections {
		if s == section {
			return true
		}
	}
	return false
}
