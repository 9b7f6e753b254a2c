package service

import (
	"context"
	"strings"

	"secretguest/internal/models"
	"secretguest/internal/repository"
)

// PromoCodeService manages the discount codes issued to admitted guests.
type PromoCodeService interface {
	Create(ctx context.Context, promo *models.PromoCode) error
	Update(ctx context.Context, promo *models.PromoCode) error
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	List(ctx context.Context, limit, offset int) ([]models.PromoCode, error)
}

type promoCodeService struct {
	promos repository.PromoCodeRepository
}

// NewPromoCodeService returns a new PromoCodeService implementation.
func NewPromoCodeService(promos repository.PromoCodeRepository) PromoCodeService {
	return &promoCodeService{promos: promos}
}

func (s *promoCodeService) Create(ctx context.Context, promo *models.PromoCode) error {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	if promo.Code == "" {
		return models.NewValidationError("a promo code is required")
	}
	if promo.Discount <= 0 || promo.Discount > 1 {
		return models.NewValidationError("discount must be a fraction in (0,1]")
	}
	if promo.ValidFrom != nil && promo.ValidUntil != nil && promo.ValidUntil.Before(*promo.ValidFrom) {
		return models.NewValidationError("the validity window is inverted")
	}
	return s.promos.Create(ctx, promo)
}

func (s *promoCodeService) Update(ctx context.Context, promo *models.PromoCode) error {
	if promo.Discount <= 0 || promo.Discount > 1 {
		return models.NewValidationError("discount must be a fraction in (0,1]")
	}
	return s.promos.Update(ctx, promo)
}

func (s *promoCodeService) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	return s.promos.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *promoCodeService) List(ctx context.Context, limit, offset int) ([]models.PromoCode, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.promos.List(ctx, limit, offset)
}
