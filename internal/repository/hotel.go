package repository

import (
	"context"
	"errors"

	"secretguest/internal/cache"
	"secretguest/internal/models"

	"gorm.io/gorm"
)

// HotelRepository defines persistence operations for hotels.
type HotelRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Hotel, error)
	Create(ctx context.Context, hotel *models.Hotel) error
	Update(ctx context.Context, hotel *models.Hotel) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, city string, limit, offset int) ([]models.Hotel, error)
}

type hotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository returns a new HotelRepository implementation.
func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) GetByID(ctx context.Context, id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	key := cache.HotelKey(id)

	err := cache.Aside(ctx, key, &hotel, cache.HotelTTL, func() error {
		if err := r.db.WithContext(ctx).First(&hotel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Hotel", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *hotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	if err := r.db.WithContext(ctx).Create(hotel).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *hotelRepository) Update(ctx context.Context, hotel *models.Hotel) error {
	if err := r.db.WithContext(ctx).Save(hotel).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateHotel(ctx, hotel.ID)
	return nil
}

func (r *hotelRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Hotel{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateHotel(ctx, id)
	return nil
}

func (r *hotelRepository) List(ctx context.Context, city string, limit, offset int) ([]models.Hotel, error) {
	var hotels []models.Hotel
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	if err := q.Order("rating DESC").Limit(limit).Offset(offset).Find(&hotels).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return hotels, nil
}
