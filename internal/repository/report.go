package repository

import (
	"context"
	"errors"
	"time"

	"secretguest/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for inspection reports.
type ReportRepository interface {
	GetByID(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	AddPhotos(ctx context.Context, photos []models.ReportPhoto) error
	CountPhotosBySection(ctx context.Context, reportID string) (map[string]int, error)
	// Submit transitions a draft report to on_moderation with the final score
	// in one guarded UPDATE. Returns false when the report was not in draft.
	Submit(ctx context.Context, reportID string, score float64, submittedAt time.Time) (bool, error)
	SetModerationResult(ctx context.Context, reportID string, status models.ReportStatus) (bool, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Report, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
	ApprovedByHotel(ctx context.Context, hotelID uint) ([]models.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Save(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) AddPhotos(ctx context.Context, photos []models.ReportPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&photos).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) CountPhotosBySection(ctx context.Context, reportID string) (map[string]int, error) {
	type row struct {
		Section string
		N       int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.ReportPhoto{}).
		Select("section, COUNT(*) as n").
		Where("report_id = ?", reportID).
		Group("section").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Section] = r.N
	}
	return counts, nil
}

func (r *reportRepository) Submit(ctx context.Context, reportID string, score float64, submittedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusDraft).
		Updates(map[string]interface{}{
			"status":        models.ReportStatusOnModeration,
			"overall_score": score,
			"submitted_at":  submittedAt,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *reportRepository) SetModerationResult(ctx context.Context, reportID string, status models.ReportStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusOnModeration).
		Update("status", status)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *reportRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	var reports []models.Report
	q := r.db.WithContext(ctx).Preload("Photos")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

// ApprovedByHotel returns the approved reports feeding the hotel's public
// card, newest submission first.
func (r *reportRepository) ApprovedByHotel(ctx context.Context, hotelID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ?", hotelID, models.ReportStatusApproved).
		Order("submitted_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}
