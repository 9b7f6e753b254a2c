// Package service implements the business rules of the secret guest program
// on top of the repository layer.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"secretguest/internal/middleware"
	"secretguest/internal/models"
	"secretguest/internal/observability"
	"secretguest/internal/repository"
	"secretguest/internal/scoring"
	"secretguest/internal/storage"
	"secretguest/internal/validation"
)

// CreateApplicationInput carries the candidate questionnaire payload.
type CreateApplicationInput struct {
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	HomeCity    string           `json:"home_city"`
	DesiredCity string           `json:"desired_city"`
	TravelParty string           `json:"travel_party"`
	Answers     models.AnswerSet `json:"answers"`
	Review      string           `json:"review"`
}

// ApplicationService manages the candidate application lifecycle.
type ApplicationService interface {
	CheckEligibility(ctx context.Context, userID uint) error
	Create(ctx context.Context, userID *uint, input CreateApplicationInput) (*models.Application, error)
	AttachPhoto(ctx context.Context, applicationID uint, userID *uint, filename, mime string, data []byte) (*models.ApplicationPhoto, error)
	Submit(ctx context.Context, applicationID uint, userID *uint) (*models.Application, error)
	SetStatus(ctx context.Context, applicationID uint, status models.ApplicationStatus, comment string) (*models.Application, error)
	Get(ctx context.Context, applicationID uint) (*models.Application, error)
	GetMine(ctx context.Context, userID uint) (*models.Application, error)
	List(ctx context.Context, status models.ApplicationStatus, limit, offset int) ([]models.Application, error)
}

type applicationService struct {
	apps  repository.ApplicationRepository
	users repository.UserRepository
	blobs storage.BlobStore
	now   func() time.Time
}

// NewApplicationService returns a new ApplicationService implementation.
func NewApplicationService(apps repository.ApplicationRepository, users repository.UserRepository, blobs storage.BlobStore) ApplicationService {
	return &applicationService{apps: apps, users: users, blobs: blobs, now: time.Now}
}

func (s *applicationService) CheckEligibility(ctx context.Context, userID uint) error {
	candidate, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	mostRecent, err := s.apps.GetMostRecentByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := scoring.EvaluateEligibility(candidate, mostRecent, s.now()); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func (s *applicationService) Create(ctx context.Context, userID *uint, input CreateApplicationInput) (*models.Application, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, models.NewValidationError("a valid email address is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, models.NewValidationError("a phone number is required")
	}
	for _, q := range models.ApplicationQuestions {
		answer, ok := input.Answers[q]
		if !ok {
			return nil, models.NewValidationError("Missing answer for question " + q)
		}
		if answer != "a" && answer != "b" && answer != "c" {
			return nil, models.NewValidationError("Invalid answer for question " + q)
		}
	}

	if userID != nil {
		if err := s.CheckEligibility(ctx, *userID); err != nil {
			return nil, err
		}
	} else {
		// Anonymous applicants are deduplicated by email.
		mostRecent, err := s.apps.GetMostRecentByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if mostRecent != nil && !mostRecent.Status.IsTerminal() &&
			s.now().Sub(mostRecent.CreatedAt) < scoring.ReapplyCooldown {
			return nil, models.NewStateConflictError("an application for this email is already open")
		}
	}

	app := &models.Application{
		UserID:      userID,
		Email:       input.Email,
		Phone:       input.Phone,
		HomeCity:    input.HomeCity,
		DesiredCity: input.DesiredCity,
		TravelParty: input.TravelParty,
		Answers:     input.Answers,
		Review:      input.Review,
		Status:      models.ApplicationStatusDraft,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "application created",
		slog.Any("application_id", app.ID),
		slog.String("desired_city", app.DesiredCity),
	)
	return app, nil
}

func (s *applicationService) AttachPhoto(ctx context.Context, applicationID uint, userID *uint, filename, mime string, data []byte) (*models.ApplicationPhoto, error) {
	app, err := s.getOwned(ctx, applicationID, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusDraft {
		return nil, models.NewStateConflictError("photos can only be attached to a draft application")
	}
	if len(data) == 0 {
		return nil, models.NewValidationError("photo file is empty")
	}

	count, err := s.apps.CountPhotos(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if count >= models.ApplicationPhotosMax {
		return nil, models.NewValidationError("an application can carry at most 4 photos")
	}

	path := storage.ApplicationPhotoPath(applicationID, filename)
	if err := s.blobs.Write(path, data); err != nil {
		return nil, models.NewInternalError(err)
	}

	photo := &models.ApplicationPhoto{
		ApplicationID: applicationID,
		Filename:      filename,
		Path:          path,
		Mime:          mime,
		Size:          int64(len(data)),
	}
	if err := s.apps.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// Submit scores the application and moves it to its decided status. An
// accepted decision promotes the bound user to the secret guest role.
func (s *applicationService) Submit(ctx context.Context, applicationID uint, userID *uint) (*models.Application, error) {
	app, err := s.getOwned(ctx, applicationID, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusDraft {
		return nil, models.NewStateConflictError("application has already been submitted")
	}

	count, err := s.apps.CountPhotos(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if count < models.ApplicationPhotosMin {
		return nil, models.NewValidationError("an application needs at least 2 photos before submission")
	}

	var candidate *models.User
	if app.UserID != nil {
		candidate, err = s.users.GetByID(ctx, *app.UserID)
		if err != nil {
			return nil, err
		}
	}

	score, err := scoring.Score(app, candidate, s.now())
	if err != nil {
		return nil, err
	}

	status := scoring.StatusForScore(score)
	app.Score = &score
	app.Status = status
	app.ReviewerComment = scoring.CommentForStatus(status)
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if status == models.ApplicationStatusAccepted && candidate != nil && candidate.Role == models.RoleCandidate {
		candidate.Role = models.RoleAccepted
		if err := s.users.Update(ctx, candidate); err != nil {
			return nil, err
		}
	}

	observability.ApplicationsScored.WithLabelValues(string(status)).Inc()
	middleware.Logger.InfoContext(ctx, "application scored",
		slog.Any("application_id", app.ID),
		slog.Int("score", score),
		slog.String("status", string(status)),
	)
	return app, nil
}

func (s *applicationService) SetStatus(ctx context.Context, applicationID uint, status models.ApplicationStatus, comment string) (*models.Application, error) {
	switch status {
	case models.ApplicationStatusInReview, models.ApplicationStatusShortlisted,
		models.ApplicationStatusRejected, models.ApplicationStatusAccepted:
	default:
		return nil, models.NewValidationError("invalid application status")
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status == models.ApplicationStatusDraft {
		return nil, models.NewStateConflictError("a draft application cannot be decided")
	}

	app.Status = status
	if comment != "" {
		app.ReviewerComment = comment
	}
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	if status == models.ApplicationStatusAccepted && app.UserID != nil {
		candidate, err := s.users.GetByID(ctx, *app.UserID)
		if err != nil {
			return nil, err
		}
		if candidate.Role == models.RoleCandidate {
			candidate.Role = models.RoleAccepted
			if err := s.users.Update(ctx, candidate); err != nil {
				return nil, err
			}
		}
	}
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, applicationID uint) (*models.Application, error) {
	return s.apps.GetByID(ctx, applicationID)
}

func (s *applicationService) GetMine(ctx context.Context, userID uint) (*models.Application, error) {
	app, err := s.apps.GetMostRecentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, models.NewNotFoundError("Application", userID)
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, status models.ApplicationStatus, limit, offset int) ([]models.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.apps.List(ctx, status, limit, offset)
}

func (s *applicationService) getOwned(ctx context.Context, applicationID uint, userID *uint) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if userID != nil && (app.UserID == nil || *app.UserID != *userID) {
		return nil, models.NewNotFoundError("Application", applicationID)
	}
	return app, nil
}
