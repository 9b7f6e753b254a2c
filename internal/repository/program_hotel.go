package repository

import (
	"context"
	"errors"

	"secretguest/internal/cache"
	"secretguest/internal/matching"
	"secretguest/internal/models"
	"secretguest/internal/observability"

	"gorm.io/gorm"
)

// ProgramHotelRepository defines persistence operations for the inspection
// inventory: published hotel date windows with finite slot pools.
type ProgramHotelRepository interface {
	GetByID(ctx context.Context, id uint) (*models.ProgramHotel, error)
	Create(ctx context.Context, entry *models.ProgramHotel) error
	Update(ctx context.Context, entry *models.ProgramHotel) error
	ListByHotel(ctx context.Context, hotelID uint) ([]models.ProgramHotel, error)
	FindAvailable(ctx context.Context, cities []string, partySize int, candidateRating float64, limit int) ([]models.HotelAvailability, error)
	IsAvailableForCandidate(ctx context.Context, hotelID uint, partySize int, candidateRating float64, cities []string) (bool, error)
	HasOpenSlots(ctx context.Context, hotelID uint, partySize int) (bool, error)
	Reserve(ctx context.Context, hotelID, guestID uint, partySize int) (*models.Inspection, error)
}

type programHotelRepository struct {
	db *gorm.DB
}

// NewProgramHotelRepository returns a new ProgramHotelRepository implementation.
func NewProgramHotelRepository(db *gorm.DB) ProgramHotelRepository {
	return &programHotelRepository{db: db}
}

func (r *programHotelRepository) GetByID(ctx context.Context, id uint) (*models.ProgramHotel, error) {
	var entry models.ProgramHotel
	if err := r.db.WithContext(ctx).Preload("Hotel").First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ProgramHotel", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *programHotelRepository) Create(ctx context.Context, entry *models.ProgramHotel) error {
	if entry.SlotsAvailable == 0 && entry.SlotsTotal > 0 {
		entry.SlotsAvailable = entry.SlotsTotal
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAvailability(ctx)
	return nil
}

func (r *programHotelRepository) Update(ctx context.Context, entry *models.ProgramHotel) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAvailability(ctx)
	return nil
}

func (r *programHotelRepository) ListByHotel(ctx context.Context, hotelID uint) ([]models.ProgramHotel, error) {
	var entries []models.ProgramHotel
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("check_in_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// FindAvailable returns hotels in the candidate's cities with at least one
// published window whose remaining slots cover the party size and whose rooms
// can hold the party. The candidate's rating selects a tier policy that caps
// hotel class and sets the sort direction. Hotels are deduplicated; each
// carries all of its open windows.
func (r *programHotelRepository) FindAvailable(ctx context.Context, cities []string, partySize int, candidateRating float64, limit int) ([]models.HotelAvailability, error) {
	tier := matching.TierFor(candidateRating)

	q := r.db.WithContext(ctx).
		Preload("Hotel").
		Joins("JOIN hotels ON hotels.id = program_hotels.hotel_id").
		Where("hotels.is_active = ?", true).
		Where("hotels.capacity >= ?", partySize).
		Where("program_hotels.is_published = ?", true).
		Where("program_hotels.slots_available >= ?", partySize)

	if len(cities) > 0 {
		q = q.Where("hotels.city IN ?", cities)
	}
	if tier.MaxHotelRating != nil {
		q = q.Where("hotels.rating <= ?", *tier.MaxHotelRating)
	}

	orderDir := "DESC"
	if tier.Order == matching.SortAsc {
		orderDir = "ASC"
	}

	var entries []models.ProgramHotel
	err := q.Order("hotels.rating " + orderDir).
		Order("program_hotels.created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Group windows by hotel preserving query order.
	var results []models.HotelAvailability
	index := make(map[uint]int)
	for _, entry := range entries {
		if entry.Hotel == nil {
			continue
		}
		i, seen := index[entry.HotelID]
		if !seen {
			if limit > 0 && len(results) >= limit {
				continue
			}
			results = append(results, models.HotelAvailability{Hotel: *entry.Hotel})
			i = len(results) - 1
			index[entry.HotelID] = i
		}
		results[i].AvailableDates = append(results[i].AvailableDates, models.AvailableDate{
			CheckInDate:    entry.CheckInDate,
			CheckOutDate:   entry.CheckOutDate,
			SlotsAvailable: entry.SlotsAvailable,
		})
	}

	return results, nil
}

// IsAvailableForCandidate reports whether the hotel itself admits the
// candidate: active, roomy enough for the party, within the candidate's tier
// cap, and in one of the candidate's cities. Slot supply is checked
// separately so callers can tell a mismatched hotel from a full one.
func (r *programHotelRepository) IsAvailableForCandidate(ctx context.Context, hotelID uint, partySize int, candidateRating float64, cities []string) (bool, error) {
	tier := matching.TierFor(candidateRating)

	q := r.db.WithContext(ctx).
		Model(&models.Hotel{}).
		Where("id = ?", hotelID).
		Where("is_active = ?", true).
		Where("capacity >= ?", partySize)

	if len(cities) > 0 {
		q = q.Where("city IN ?", cities)
	}
	if tier.MaxHotelRating != nil {
		q = q.Where("rating <= ?", *tier.MaxHotelRating)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *programHotelRepository) HasOpenSlots(ctx context.Context, hotelID uint, partySize int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgramHotel{}).
		Joins("JOIN hotels ON hotels.id = program_hotels.hotel_id").
		Where("program_hotels.hotel_id = ? AND program_hotels.is_published = ? AND program_hotels.slots_available >= ?", hotelID, true, partySize).
		Where("hotels.capacity >= ?", partySize).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Reserve atomically claims partySize slots on the earliest open window of the
// hotel and records the resulting inspection. The decrement uses a guarded
// UPDATE so concurrent reservations can never drive slots_available negative;
// a raced-out window falls through to the next candidate window.
func (r *programHotelRepository) Reserve(ctx context.Context, hotelID, guestID uint, partySize int) (*models.Inspection, error) {
	var inspection *models.Inspection

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var windows []models.ProgramHotel
		err := tx.
			Where("hotel_id = ? AND is_published = ? AND slots_available >= ?", hotelID, true, partySize).
			Order("check_in_date ASC").
			Find(&windows).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		if len(windows) == 0 {
			return models.NewResourceExhaustedError("no slots available for the requested hotel")
		}

		var claimed *models.ProgramHotel
		for i := range windows {
			res := tx.Model(&models.ProgramHotel{}).
				Where("id = ? AND is_published = ? AND slots_available >= ?", windows[i].ID, true, partySize).
				UpdateColumn("slots_available", gorm.Expr("slots_available - ?", partySize))
			if res.Error != nil {
				return models.NewInternalError(res.Error)
			}
			if res.RowsAffected > 0 {
				claimed = &windows[i]
				break
			}
		}
		if claimed == nil {
			return models.NewResourceExhaustedError("no slots available for the requested hotel")
		}

		inspection = &models.Inspection{
			HotelID:        hotelID,
			ProgramHotelID: claimed.ID,
			GuestID:        guestID,
			Status:         models.InspectionStatusAwaitingBooking,
		}
		if err := tx.Create(inspection).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		observability.SlotReservations.WithLabelValues("rejected").Inc()
		return nil, err
	}

	observability.SlotReservations.WithLabelValues("reserved").Inc()
	cache.InvalidateAvailability(ctx)
	return inspection, nil
}
