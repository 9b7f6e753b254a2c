package service

import (
	"context"
	"log/slog"
	"time"

	"secretguest/internal/cache"
	"secretguest/internal/matching"
	"secretguest/internal/middleware"
	"secretguest/internal/models"
	"secretguest/internal/repository"
)

// InspectionService manages hotel matching and the inspection stay lifecycle.
type InspectionService interface {
	// FindHotels returns hotels in the guest's cities that a guest of this
	// rating may be offered, with their open date windows. A non-empty city
	// narrows the search but must be one of the guest's cities.
	FindHotels(ctx context.Context, userID uint, city string, limit int) ([]models.HotelAvailability, error)
	// Select reserves slots for the guest's party at the chosen hotel.
	Select(ctx context.Context, userID, hotelID uint) (*models.Inspection, error)
	Get(ctx context.Context, inspectionID, userID uint) (*models.Inspection, error)
	ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.Inspection, error)
	List(ctx context.Context, status models.InspectionStatus, limit, offset int) ([]models.Inspection, error)
	AttachPromoCode(ctx context.Context, inspectionID, userID uint, code string) (*models.Inspection, error)
	MarkBooked(ctx context.Context, inspectionID, userID uint, bookingRef string) (*models.Inspection, error)
	AttachReport(ctx context.Context, inspectionID uint, reportID string) (*models.Inspection, error)
	Complete(ctx context.Context, inspectionID uint) (*models.Inspection, error)
	CompleteByReport(ctx context.Context, reportID string) (*models.Inspection, error)
}

type inspectionService struct {
	inventory   repository.ProgramHotelRepository
	inspections repository.InspectionRepository
	users       repository.UserRepository
	promos      repository.PromoCodeRepository
	now         func() time.Time
}

// NewInspectionService returns a new InspectionService implementation.
func NewInspectionService(
	inventory repository.ProgramHotelRepository,
	inspections repository.InspectionRepository,
	users repository.UserRepository,
	promos repository.PromoCodeRepository,
) InspectionService {
	return &inspectionService{
		inventory:   inventory,
		inspections: inspections,
		users:       users,
		promos:      promos,
		now:         time.Now,
	}
}

func (s *inspectionService) FindHotels(ctx context.Context, userID uint, city string, limit int) ([]models.HotelAvailability, error) {
	guest, err := s.guest(ctx, userID)
	if err != nil {
		return nil, err
	}
	cities := guest.Cities
	if city != "" {
		if len(guest.Cities) > 0 && !containsCity(guest.Cities, city) {
			return nil, models.NewValidationError("the city is not on your list of cities")
		}
		cities = []string{city}
	}
	if len(cities) == 0 {
		return nil, models.NewValidationError("a city is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	rating := matching.NormalizeRating(guest.Rating)
	tier := matching.TierFor(rating)

	var result []models.HotelAvailability
	key := cache.AvailabilityKey(cities, tier.Name, guest.PartySize, limit)
	err = cache.Aside(ctx, key, &result, cache.AvailabilityTTL, func() error {
		var loadErr error
		result, loadErr = s.inventory.FindAvailable(ctx, cities, guest.PartySize, rating, limit)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *inspectionService) Select(ctx context.Context, userID, hotelID uint) (*models.Inspection, error) {
	guest, err := s.guest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if guest.PartySize < 1 {
		return nil, models.NewValidationError("party size must be at least 1")
	}

	available, err := s.inventory.IsAvailableForCandidate(ctx, hotelID, guest.PartySize,
		matching.NormalizeRating(guest.Rating), guest.Cities)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, models.NewStateConflictError("the hotel is not available for this guest")
	}

	open, err := s.inventory.HasOpenSlots(ctx, hotelID, guest.PartySize)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, models.NewResourceExhaustedError("the hotel has no open slots for this party size")
	}

	inspection, err := s.inventory.Reserve(ctx, hotelID, userID, guest.PartySize)
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "inspection slot reserved",
		slog.Any("inspection_id", inspection.ID),
		slog.Any("hotel_id", hotelID),
		slog.Int("party_size", guest.PartySize),
	)
	return inspection, nil
}

func (s *inspectionService) Get(ctx context.Context, inspectionID, userID uint) (*models.Inspection, error) {
	inspection, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && inspection.GuestID != userID {
		return nil, models.NewNotFoundError("Inspection", inspectionID)
	}
	return inspection, nil
}

func (s *inspectionService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.Inspection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.inspections.ListByGuest(ctx, userID, limit, offset)
}

func (s *inspectionService) List(ctx context.Context, status models.InspectionStatus, limit, offset int) ([]models.Inspection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.inspections.List(ctx, status, limit, offset)
}

func (s *inspectionService) AttachPromoCode(ctx context.Context, inspectionID, userID uint, code string) (*models.Inspection, error) {
	inspection, err := s.Get(ctx, inspectionID, userID)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusAwaitingBooking {
		return nil, models.NewStateConflictError("promo codes apply before booking only")
	}

	promo, err := s.promos.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !promo.ValidAt(s.now()) {
		return nil, models.NewValidationError("the promo code is not currently valid")
	}

	inspection.PromoCodeID = &promo.ID
	if err := s.inspections.Update(ctx, inspection); err != nil {
		return nil, err
	}
	return inspection, nil
}

func (s *inspectionService) MarkBooked(ctx context.Context, inspectionID, userID uint, bookingRef string) (*models.Inspection, error) {
	inspection, err := s.Get(ctx, inspectionID, userID)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusAwaitingBooking {
		return nil, models.NewStateConflictError("the inspection is not awaiting a booking")
	}
	if bookingRef == "" {
		return nil, models.NewValidationError("a booking reference is required")
	}

	inspection.BookingRef = bookingRef
	inspection.Status = models.InspectionStatusAwaitingReport
	if err := s.inspections.Update(ctx, inspection); err != nil {
		return nil, err
	}
	return inspection, nil
}

// AttachReport binds the report to the inspection. The unique index on
// report_id enforces the one-report-per-inspection rule.
func (s *inspectionService) AttachReport(ctx context.Context, inspectionID uint, reportID string) (*models.Inspection, error) {
	inspection, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.Status != models.InspectionStatusAwaitingReport {
		return nil, models.NewStateConflictError("the inspection is not awaiting a report")
	}
	if inspection.ReportID != nil {
		return nil, models.NewStateConflictError("a report is already attached to this inspection")
	}

	inspection.ReportID = &reportID
	if err := s.inspections.Update(ctx, inspection); err != nil {
		return nil, err
	}
	return inspection, nil
}

// Complete closes the inspection once its report has been submitted.
func (s *inspectionService) Complete(ctx context.Context, inspectionID uint) (*models.Inspection, error) {
	inspection, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.ReportID == nil {
		return nil, models.NewStateConflictError("the inspection has no report attached")
	}

	inspection.Status = models.InspectionStatusCompleted
	if err := s.inspections.Update(ctx, inspection); err != nil {
		return nil, err
	}
	return inspection, nil
}

// CompleteByReport closes the inspection bound to the given report, if any.
func (s *inspectionService) CompleteByReport(ctx context.Context, reportID string) (*models.Inspection, error) {
	inspection, err := s.inspections.GetByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if inspection == nil {
		return nil, nil
	}
	return s.Complete(ctx, inspection.ID)
}

func containsCity(cities []string, city string) bool {
	for _, c := range cities {
		if c == city {
			return true
		}
	}
	return false
}

func (s *inspectionService) guest(ctx context.Context, userID uint) (*models.User, error) {
	guest, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if guest.Role != models.RoleAccepted && guest.Role != models.RoleAdmin {
		return nil, models.NewUnauthorizedError("only admitted secret guests can browse the inventory")
	}
	return guest, nil
}
