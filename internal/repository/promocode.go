package repository

import (
	"context"
	"errors"

	"secretguest/internal/cache"
	"secretguest/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository defines persistence operations for promo codes.
type PromoCodeRepository interface {
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Create(ctx context.Context, promo *models.PromoCode) error
	Update(ctx context.Context, promo *models.PromoCode) error
	List(ctx context.Context, limit, offset int) ([]models.PromoCode, error)
}

type promoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository returns a new PromoCodeRepository implementation.
func NewPromoCodeRepository(db *gorm.DB) PromoCodeRepository {
	return &promoCodeRepository{db: db}
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	key := cache.PromoKey(code)

	err := cache.Aside(ctx, key, &promo, cache.PromoTTL, func() error {
		if err := r.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("PromoCode", code)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *promoCodeRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("promo code already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *promoCodeRepository) Update(ctx context.Context, promo *models.PromoCode) error {
	if err := r.db.WithContext(ctx).Save(promo).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePromo(ctx, promo.Code)
	return nil
}

func (r *promoCodeRepository) List(ctx context.Context, limit, offset int) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&promos).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return promos, nil
}
