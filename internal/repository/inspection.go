package repository

import (
	"context"
	"errors"

	"secretguest/internal/models"

	"gorm.io/gorm"
)

// InspectionRepository defines persistence operations for inspections.
type InspectionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Inspection, error)
	GetByReportID(ctx context.Context, reportID string) (*models.Inspection, error)
	Update(ctx context.Context, inspection *models.Inspection) error
	ListByGuest(ctx context.Context, guestID uint, limit, offset int) ([]models.Inspection, error)
	List(ctx context.Context, status models.InspectionStatus, limit, offset int) ([]models.Inspection, error)
}

type inspectionRepository struct {
	db *gorm.DB
}

// NewInspectionRepository returns a new InspectionRepository implementation.
func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) GetByID(ctx context.Context, id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		Preload("ProgramHotel").
		Preload("PromoCode").
		First(&inspection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Inspection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &inspection, nil
}

func (r *inspectionRepository) GetByReportID(ctx context.Context, reportID string) (*models.Inspection, error) {
	var inspection models.Inspection
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &inspection, nil
}

func (r *inspectionRepository) Update(ctx context.Context, inspection *models.Inspection) error {
	if err := r.db.WithContext(ctx).Save(inspection).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewStateConflictError("a report is already attached to this inspection")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inspectionRepository) ListByGuest(ctx context.Context, guestID uint, limit, offset int) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		Preload("ProgramHotel").
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&inspections).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return inspections, nil
}

func (r *inspectionRepository) List(ctx context.Context, status models.InspectionStatus, limit, offset int) ([]models.Inspection, error) {
	var inspections []models.Inspection
	q := r.db.WithContext(ctx).Preload("Hotel").Preload("ProgramHotel")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&inspections).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return inspections, nil
}
