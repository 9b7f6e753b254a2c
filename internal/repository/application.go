package repository

import (
	"context"
	"errors"

	"secretguest/internal/models"

	"gorm.io/gorm"
)

// ApplicationRepository defines persistence operations for candidate applications.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	GetMostRecentByUser(ctx context.Context, userID uint) (*models.Application, error)
	GetMostRecentByEmail(ctx context.Context, email string) (*models.Application, error)
	Create(ctx context.Context, app *models.Application) error
	Update(ctx context.Context, app *models.Application) error
	AddPhoto(ctx context.Context, photo *models.ApplicationPhoto) error
	CountPhotos(ctx context.Context, applicationID uint) (int64, error)
	List(ctx context.Context, status models.ApplicationStatus, limit, offset int) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository returns a new ApplicationRepository implementation.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Preload("Photos").First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Application", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &app, nil
}

func (r *applicationRepository) GetMostRecentByUser(ctx context.Context, userID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &app, nil
}

func (r *applicationRepository) GetMostRecentByEmail(ctx context.Context, email string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Save(app).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicationRepository) AddPhoto(ctx context.Context, photo *models.ApplicationPhoto) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicationRepository) CountPhotos(ctx context.Context, applicationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationPhoto{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *applicationRepository) List(ctx context.Context, status models.ApplicationStatus, limit, offset int) ([]models.Application, error) {
	var apps []models.Application
	q := r.db.WithContext(ctx).Preload("Photos")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return apps, nil
}
