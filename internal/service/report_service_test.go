package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"secretguest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	getByIDFn              func(context.Context, string) (*models.Report, error)
	createFn               func(context.Context, *models.Report) error
	updateFn               func(context.Context, *models.Report) error
	addPhotosFn            func(context.Context, []models.ReportPhoto) error
	countPhotosBySectionFn func(context.Context, string) (map[string]int, error)
	submitFn               func(context.Context, string, float64, time.Time) (bool, error)
	setModerationResultFn  func(context.Context, string, models.ReportStatus) (bool, error)
	listByUserFn           func(context.Context, uint, int, int) ([]models.Report, error)
	listFn                 func(context.Context, models.ReportStatus, int, int) ([]models.Report, error)
	approvedByHotelFn      func(context.Context, uint) ([]models.Report, error)
}

func (s *reportRepoStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) Create(ctx context.Context, r *models.Report) error {
	return s.createFn(ctx, r)
}
func (s *reportRepoStub) Update(ctx context.Context, r *models.Report) error {
	return s.updateFn(ctx, r)
}
func (s *reportRepoStub) AddPhotos(ctx context.Context, photos []models.ReportPhoto) error {
	return s.addPhotosFn(ctx, photos)
}
func (s *reportRepoStub) CountPhotosBySection(ctx context.Context, reportID string) (map[string]int, error) {
	return s.countPhotosBySectionFn(ctx, reportID)
}
func (s *reportRepoStub) Submit(ctx context.Context, reportID string, score float64, submittedAt time.Time) (bool, error) {
	return s.submitFn(ctx, reportID, score, submittedAt)
}
func (s *reportRepoStub) SetModerationResult(ctx context.Context, reportID string, status models.ReportStatus) (bool, error) {
	return s.setModerationResultFn(ctx, reportID, status)
}
func (s *reportRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Report, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *reportRepoStub) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	return s.listFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) ApprovedByHotel(ctx context.Context, hotelID uint) ([]models.Report, error) {
	return s.approvedByHotelFn(ctx, hotelID)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		getByIDFn:   func(_ context.Context, id string) (*models.Report, error) { return &models.Report{ID: id}, nil },
		createFn:    func(_ context.Context, _ *models.Report) error { return nil },
		updateFn:    func(_ context.Context, _ *models.Report) error { return nil },
		addPhotosFn: func(_ context.Context, _ []models.ReportPhoto) error { return nil },
		countPhotosBySectionFn: func(_ context.Context, _ string) (map[string]int, error) {
			return map[string]int{
				models.PhotoSectionPhotosMatch: 5,
				models.PhotoSectionCleanliness: 5,
			}, nil
		},
		submitFn: func(_ context.Context, _ string, _ float64, _ time.Time) (bool, error) { return true, nil },
		setModerationResultFn: func(_ context.Context, _ string, _ models.ReportStatus) (bool, error) {
			return true, nil
		},
		listByUserFn:      func(_ context.Context, _ uint, _, _ int) ([]models.Report, error) { return nil, nil },
		listFn:            func(_ context.Context, _ models.ReportStatus, _, _ int) ([]models.Report, error) { return nil, nil },
		approvedByHotelFn: func(_ context.Context, _ uint) ([]models.Report, error) { return nil, nil },
	}
}

// inspectionServiceStub is a stub for InspectionService.
type inspectionServiceStub struct {
	getFn              func(context.Context, uint, uint) (*models.Inspection, error)
	attachReportFn     func(context.Context, uint, string) (*models.Inspection, error)
	completeByReportFn func(context.Context, string) (*models.Inspection, error)
}

func (s *inspectionServiceStub) FindHotels(context.Context, uint, string, int) ([]models.HotelAvailability, error) {
	return nil, nil
}
func (s *inspectionServiceStub) Select(context.Context, uint, uint) (*models.Inspection, error) {
	return nil, nil
}
func (s *inspectionServiceStub) Get(ctx context.Context, inspectionID, userID uint) (*models.Inspection, error) {
	if s.getFn != nil {
		return s.getFn(ctx, inspectionID, userID)
	}
	return &models.Inspection{ID: inspectionID}, nil
}
func (s *inspectionServiceStub) ListMine(context.Context, uint, int, int) ([]models.Inspection, error) {
	return nil, nil
}
func (s *inspectionServiceStub) List(context.Context, models.InspectionStatus, int, int) ([]models.Inspection, error) {
	return nil, nil
}
func (s *inspectionServiceStub) AttachPromoCode(context.Context, uint, uint, string) (*models.Inspection, error) {
	return nil, nil
}
func (s *inspectionServiceStub) MarkBooked(context.Context, uint, uint, string) (*models.Inspection, error) {
	return nil, nil
}
func (s *inspectionServiceStub) AttachReport(ctx context.Context, inspectionID uint, reportID string) (*models.Inspection, error) {
	if s.attachReportFn != nil {
		return s.attachReportFn(ctx, inspectionID, reportID)
	}
	return &models.Inspection{ID: inspectionID}, nil
}
func (s *inspectionServiceStub) Complete(context.Context, uint) (*models.Inspection, error) {
	return nil, nil
}
func (s *inspectionServiceStub) CompleteByReport(ctx context.Context, reportID string) (*models.Inspection, error) {
	if s.completeByReportFn != nil {
		return s.completeByReportFn(ctx, reportID)
	}
	return nil, nil
}

func validStep1() *models.ReportStep1 {
	return &models.ReportStep1{
		PhotosMatch:        models.MatchFull,
		AmenitiesState:     models.AmenitiesAllWork,
		RoomCleanliness:    5,
		BathroomSanitation: 4,
		LinenFreshness:     5,
		PublicAreaClean:    4,
	}
}

func validStep2() *models.ReportStep2 {
	return &models.ReportStep2{
		Politeness:     5,
		ResponseSpeed:  4,
		FoodQuality:    3,
		WifiQuality:    models.WifiStableFast,
		WaitTime:       models.WaitUpTo10,
		FoodMatch:      models.MatchFull,
		FoodAssortment: models.AssortmentStandard,
	}
}

func validStep6() *models.ReportStep6 {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'x'
	}
	text := string(long)
	return &models.ReportStep6{
		Liked:      text,
		ToImprove:  text,
		Advantages: text,
		Confirmed:  true,
	}
}

func uid(v uint) *uint { return &v }

// draftReport is editable: checkout was yesterday relative to fixedNow.
func draftReport(userID uint) *models.Report {
	return &models.Report{
		ID:           "r-1",
		UserID:       uid(userID),
		HotelID:      3,
		CheckoutDate: fixedNow().AddDate(0, 0, -1),
		Status:       models.ReportStatusDraft,
		Answers: models.ReportAnswers{
			Step1: validStep1(),
			Step2: validStep2(),
			Step6: validStep6(),
		},
	}
}

func newReportService(reports *reportRepoStub, inspections *inspectionServiceStub) *reportService {
	if inspections == nil {
		inspections = &inspectionServiceStub{}
	}
	svc := NewReportService(reports, inspections, newBlobStoreStub()).(*reportService)
	svc.now = fixedNow
	return svc
}

func TestReportCreateRequiresAwaitingReport(t *testing.T) {
	inspections := &inspectionServiceStub{
		getFn: func(_ context.Context, id, _ uint) (*models.Inspection, error) {
			return &models.Inspection{ID: id, Status: models.InspectionStatusAwaitingBooking}, nil
		},
	}
	svc := newReportService(noopReportRepo(), inspections)

	_, err := svc.Create(context.Background(), 7, 1)
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
}

func TestReportCreateAttachesToInspection(t *testing.T) {
	window := &models.ProgramHotel{
		CheckInDate:  fixedNow().AddDate(0, 0, 2),
		CheckOutDate: fixedNow().AddDate(0, 0, 4),
	}
	var attachedReport string
	inspections := &inspectionServiceStub{
		getFn: func(_ context.Context, id, _ uint) (*models.Inspection, error) {
			return &models.Inspection{
				ID:           id,
				HotelID:      3,
				Status:       models.InspectionStatusAwaitingReport,
				ProgramHotel: window,
			}, nil
		},
		attachReportFn: func(_ context.Context, id uint, reportID string) (*models.Inspection, error) {
			attachedReport = reportID
			return &models.Inspection{ID: id}, nil
		},
	}
	reports := noopReportRepo()
	reports.createFn = func(_ context.Context, r *models.Report) error {
		r.ID = "r-new"
		return nil
	}
	svc := newReportService(reports, inspections)

	report, err := svc.Create(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "r-new", attachedReport)
	assert.Equal(t, uint(3), report.HotelID)
	assert.Equal(t, window.CheckOutDate, report.CheckoutDate)
	assert.Equal(t, models.ReportStatusDraft, report.Status)
}

func TestSaveStepClosedBeforeEditWindow(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, id string) (*models.Report, error) {
		report := draftReport(7)
		// Checkout two days out: the window opens tomorrow.
		report.CheckoutDate = fixedNow().AddDate(0, 0, 2)
		return report, nil
	}
	svc := newReportService(reports, nil)

	payload, _ := json.Marshal(validStep1())
	_, err := svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
}

func TestSaveStepOpenFromDayBeforeCheckout(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, id string) (*models.Report, error) {
		report := draftReport(7)
		// Exactly one day before checkout: editable.
		report.CheckoutDate = fixedNow().Add(24 * time.Hour)
		return report, nil
	}
	svc := newReportService(reports, nil)

	payload, _ := json.Marshal(validStep1())
	report, err := svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	require.NoError(t, err)
	require.NotNil(t, report.Answers.Step1)
	assert.Equal(t, models.MatchFull, report.Answers.Step1.PhotosMatch)
}

func TestSaveStepRejectsUnknownStep(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	svc := newReportService(reports, nil)

	_, err := svc.SaveStep(context.Background(), "r-1", 7, "step3", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestSaveStepConditionalComments(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	svc := newReportService(reports, nil)

	step := validStep1()
	step.PhotosMatch = models.MatchPartial
	step.PhotosMatchComment = ""
	payload, _ := json.Marshal(step)

	_, err := svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))

	step.PhotosMatchComment = "lobby photos show a renovated wing that does not exist"
	payload, _ = json.Marshal(step)
	_, err = svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	assert.NoError(t, err)
}

func TestSaveStepRatingsOnTenPointScale(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	svc := newReportService(reports, nil)

	step := validStep1()
	step.LinenFreshness = 8
	payload, _ := json.Marshal(step)
	report, err := svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Answers.Step1.LinenFreshness)

	step.LinenFreshness = 11
	payload, _ = json.Marshal(step)
	_, err = svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))

	step.LinenFreshness = 0
	payload, _ = json.Marshal(step)
	_, err = svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepStay, payload)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestSaveStepFeedbackLengthBounds(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	svc := newReportService(reports, nil)

	step := validStep6()
	step.Liked = "too short"
	payload, _ := json.Marshal(step)

	_, err := svc.SaveStep(context.Background(), "r-1", 7, models.ReportStepFeedback, payload)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestAddPhotosRejectsUnknownSection(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	svc := newReportService(reports, nil)

	_, err := svc.AddPhotos(context.Background(), "r-1", 7, "selfies", []ReportPhotoUpload{
		{Filename: "a.jpg", Data: []byte("x")},
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestSubmitEnforcesPhotoMinimums(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	reports.countPhotosBySectionFn = func(_ context.Context, _ string) (map[string]int, error) {
		return map[string]int{
			models.PhotoSectionPhotosMatch: 4,
			models.PhotoSectionCleanliness: 5,
		}, nil
	}
	svc := newReportService(reports, nil)

	_, err := svc.Submit(context.Background(), "r-1", 7)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestSubmitComputesOverallScore(t *testing.T) {
	var submittedScore float64
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	reports.submitFn = func(_ context.Context, _ string, score float64, _ time.Time) (bool, error) {
		submittedScore = score
		return true, nil
	}
	svc := newReportService(reports, nil)

	report, err := svc.Submit(context.Background(), "r-1", 7)
	require.NoError(t, err)

	// (5+4+5+4+5+4+3)/7 = 4.2857 -> 4.3
	assert.InDelta(t, 4.3, submittedScore, 0.0001)
	assert.Equal(t, models.ReportStatusOnModeration, report.Status)
	require.NotNil(t, report.SubmittedAt)
}

func TestSubmitRequiresConfirmation(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) {
		report := draftReport(7)
		report.Answers.Step6.Confirmed = false
		return report, nil
	}
	svc := newReportService(reports, nil)

	_, err := svc.Submit(context.Background(), "r-1", 7)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestSubmitRequiresAllSteps(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) {
		report := draftReport(7)
		report.Answers.Step2 = nil
		return report, nil
	}
	svc := newReportService(reports, nil)

	_, err := svc.Submit(context.Background(), "r-1", 7)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

// A raced duplicate submit loses the guarded update and reports a conflict.
func TestSubmitDoubleSubmitConflicts(t *testing.T) {
	reports := noopReportRepo()
	reports.getByIDFn = func(_ context.Context, _ string) (*models.Report, error) { return draftReport(7), nil }
	reports.submitFn = func(_ context.Context, _ string, _ float64, _ time.Time) (bool, error) {
		return false, nil
	}
	svc := newReportService(reports, nil)

	_, err := svc.Submit(context.Background(), "r-1", 7)
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
}

func TestModerationRequiresOnModeration(t *testing.T) {
	reports := noopReportRepo()
	reports.setModerationResultFn = func(_ context.Context, _ string, _ models.ReportStatus) (bool, error) {
		return false, nil
	}
	svc := newReportService(reports, nil)

	_, err := svc.SetModerationResult(context.Background(), "r-1", true)
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
}

func TestScoreLabelThresholds(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	assert.Equal(t, "no score", ScoreLabel(nil))
	assert.Equal(t, "exceptional", ScoreLabel(score(9.5)))
	assert.Equal(t, "excellent", ScoreLabel(score(8.0)))
	assert.Equal(t, "good", ScoreLabel(score(6.5)))
	assert.Equal(t, "satisfactory", ScoreLabel(score(5.0)))
	assert.Equal(t, "below expectations", ScoreLabel(score(4.9)))
}

func TestReportTagsFromStepAnswers(t *testing.T) {
	answers := &models.ReportAnswers{Step1: validStep1(), Step2: validStep2()}
	assert.Equal(t, []string{
		"Wi-Fi: stable and fast",
		"Service: replies within 10 minutes",
		"Kitchen: matches the listing",
		"Breakfast: standard assortment",
		"Amenities: everything works",
	}, ReportTags(answers))

	assert.Empty(t, ReportTags(nil))
	assert.Empty(t, ReportTags(&models.ReportAnswers{}))
}

func TestOverallScoreRoundsToOneDecimal(t *testing.T) {
	answers := &models.ReportAnswers{Step1: validStep1(), Step2: validStep2()}
	assert.InDelta(t, 4.3, OverallScore(answers), 0.0001)

	answers.Step2.FoodQuality = 5
	// (5+4+5+4+5+4+5)/7 = 4.5714 -> 4.6
	assert.InDelta(t, 4.6, OverallScore(answers), 0.0001)
}
