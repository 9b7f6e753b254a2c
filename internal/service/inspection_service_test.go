package service

import (
	"context"
	"testing"

	"secretguest/internal/cache"
	"secretguest/internal/matching"
	"secretguest/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// programHotelRepoStub is a stub for repository.ProgramHotelRepository.
type programHotelRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.ProgramHotel, error)
	createFn        func(context.Context, *models.ProgramHotel) error
	updateFn        func(context.Context, *models.ProgramHotel) error
	listByHotelFn   func(context.Context, uint) ([]models.ProgramHotel, error)
	findAvailableFn func(context.Context, []string, int, float64, int) ([]models.HotelAvailability, error)
	isAvailableFn   func(context.Context, uint, int, float64, []string) (bool, error)
	hasOpenSlotsFn  func(context.Context, uint, int) (bool, error)
	reserveFn       func(context.Context, uint, uint, int) (*models.Inspection, error)
}

func (s *programHotelRepoStub) GetByID(ctx context.Context, id uint) (*models.ProgramHotel, error) {
	return s.getByIDFn(ctx, id)
}
func (s *programHotelRepoStub) Create(ctx context.Context, e *models.ProgramHotel) error {
	return s.createFn(ctx, e)
}
func (s *programHotelRepoStub) Update(ctx context.Context, e *models.ProgramHotel) error {
	return s.updateFn(ctx, e)
}
func (s *programHotelRepoStub) ListByHotel(ctx context.Context, hotelID uint) ([]models.ProgramHotel, error) {
	return s.listByHotelFn(ctx, hotelID)
}
func (s *programHotelRepoStub) FindAvailable(ctx context.Context, cities []string, partySize int, rating float64, limit int) ([]models.HotelAvailability, error) {
	return s.findAvailableFn(ctx, cities, partySize, rating, limit)
}
func (s *programHotelRepoStub) IsAvailableForCandidate(ctx context.Context, hotelID uint, partySize int, rating float64, cities []string) (bool, error) {
	return s.isAvailableFn(ctx, hotelID, partySize, rating, cities)
}
func (s *programHotelRepoStub) HasOpenSlots(ctx context.Context, hotelID uint, partySize int) (bool, error) {
	return s.hasOpenSlotsFn(ctx, hotelID, partySize)
}
func (s *programHotelRepoStub) Reserve(ctx context.Context, hotelID, guestID uint, partySize int) (*models.Inspection, error) {
	return s.reserveFn(ctx, hotelID, guestID, partySize)
}

func noopProgramHotelRepo() *programHotelRepoStub {
	return &programHotelRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.ProgramHotel, error) {
			return &models.ProgramHotel{ID: id}, nil
		},
		createFn:      func(_ context.Context, _ *models.ProgramHotel) error { return nil },
		updateFn:      func(_ context.Context, _ *models.ProgramHotel) error { return nil },
		listByHotelFn: func(_ context.Context, _ uint) ([]models.ProgramHotel, error) { return nil, nil },
		findAvailableFn: func(_ context.Context, _ []string, _ int, _ float64, _ int) ([]models.HotelAvailability, error) {
			return nil, nil
		},
		isAvailableFn:  func(_ context.Context, _ uint, _ int, _ float64, _ []string) (bool, error) { return true, nil },
		hasOpenSlotsFn: func(_ context.Context, _ uint, _ int) (bool, error) { return true, nil },
		reserveFn: func(_ context.Context, hotelID, guestID uint, _ int) (*models.Inspection, error) {
			return &models.Inspection{ID: 1, HotelID: hotelID, GuestID: guestID, Status: models.InspectionStatusAwaitingBooking}, nil
		},
	}
}

// inspectionRepoStub is a stub for repository.InspectionRepository.
type inspectionRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.Inspection, error)
	getByReportIDFn func(context.Context, string) (*models.Inspection, error)
	updateFn        func(context.Context, *models.Inspection) error
	listByGuestFn   func(context.Context, uint, int, int) ([]models.Inspection, error)
	listFn          func(context.Context, models.InspectionStatus, int, int) ([]models.Inspection, error)
}

func (s *inspectionRepoStub) GetByID(ctx context.Context, id uint) (*models.Inspection, error) {
	return s.getByIDFn(ctx, id)
}
func (s *inspectionRepoStub) GetByReportID(ctx context.Context, reportID string) (*models.Inspection, error) {
	return s.getByReportIDFn(ctx, reportID)
}
func (s *inspectionRepoStub) Update(ctx context.Context, i *models.Inspection) error {
	return s.updateFn(ctx, i)
}
func (s *inspectionRepoStub) ListByGuest(ctx context.Context, guestID uint, limit, offset int) ([]models.Inspection, error) {
	return s.listByGuestFn(ctx, guestID, limit, offset)
}
func (s *inspectionRepoStub) List(ctx context.Context, status models.InspectionStatus, limit, offset int) ([]models.Inspection, error) {
	return s.listFn(ctx, status, limit, offset)
}

func noopInspectionRepo() *inspectionRepoStub {
	return &inspectionRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.Inspection, error) { return &models.Inspection{ID: id}, nil },
		getByReportIDFn: func(_ context.Context, _ string) (*models.Inspection, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Inspection) error { return nil },
		listByGuestFn:   func(_ context.Context, _ uint, _, _ int) ([]models.Inspection, error) { return nil, nil },
		listFn: func(_ context.Context, _ models.InspectionStatus, _, _ int) ([]models.Inspection, error) {
			return nil, nil
		},
	}
}

// promoCodeRepoStub is a stub for repository.PromoCodeRepository.
type promoCodeRepoStub struct {
	getByCodeFn func(context.Context, string) (*models.PromoCode, error)
	createFn    func(context.Context, *models.PromoCode) error
	updateFn    func(context.Context, *models.PromoCode) error
	listFn      func(context.Context, int, int) ([]models.PromoCode, error)
}

func (s *promoCodeRepoStub) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	return s.getByCodeFn(ctx, code)
}
func (s *promoCodeRepoStub) Create(ctx context.Context, p *models.PromoCode) error {
	return s.createFn(ctx, p)
}
func (s *promoCodeRepoStub) Update(ctx context.Context, p *models.PromoCode) error {
	return s.updateFn(ctx, p)
}
func (s *promoCodeRepoStub) List(ctx context.Context, limit, offset int) ([]models.PromoCode, error) {
	return s.listFn(ctx, limit, offset)
}

func noopPromoCodeRepo() *promoCodeRepoStub {
	return &promoCodeRepoStub{
		getByCodeFn: func(_ context.Context, code string) (*models.PromoCode, error) {
			return &models.PromoCode{ID: 1, Code: code, Discount: 0.2, IsActive: true}, nil
		},
		createFn: func(_ context.Context, _ *models.PromoCode) error { return nil },
		updateFn: func(_ context.Context, _ *models.PromoCode) error { return nil },
		listFn:   func(_ context.Context, _, _ int) ([]models.PromoCode, error) { return nil, nil },
	}
}

func acceptedGuest(id uint) *models.User {
	return &models.User{
		ID:        id,
		Role:      models.RoleAccepted,
		Rating:    5,
		PartySize: 2,
		Cities:    models.StringList{"Lisbon"},
	}
}

func newInspectionService(inventory *programHotelRepoStub, inspections *inspectionRepoStub, users *userRepoStub, promos *promoCodeRepoStub) *inspectionService {
	if inventory == nil {
		inventory = noopProgramHotelRepo()
	}
	if inspections == nil {
		inspections = noopInspectionRepo()
	}
	if users == nil {
		users = noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return acceptedGuest(id), nil }
	}
	if promos == nil {
		promos = noopPromoCodeRepo()
	}
	svc := NewInspectionService(inventory, inspections, users, promos).(*inspectionService)
	svc.now = fixedNow
	return svc
}

func TestFindHotelsRequiresAdmission(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Role: models.RoleCandidate}, nil
	}
	svc := newInspectionService(nil, nil, users, nil)

	_, err := svc.FindHotels(context.Background(), 7, "Lisbon", 10)
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.CodeForError(err))
}

func TestFindHotelsMatchesAllGuestCities(t *testing.T) {
	var queriedCities []string
	var queriedParty int
	inventory := noopProgramHotelRepo()
	inventory.findAvailableFn = func(_ context.Context, cities []string, partySize int, _ float64, _ int) ([]models.HotelAvailability, error) {
		queriedCities = cities
		queriedParty = partySize
		return []models.HotelAvailability{{Hotel: models.Hotel{ID: 9}}}, nil
	}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		guest := acceptedGuest(id)
		guest.Cities = models.StringList{"Lisbon", "Porto"}
		return guest, nil
	}
	svc := newInspectionService(inventory, nil, users, nil)

	got, err := svc.FindHotels(context.Background(), 7, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lisbon", "Porto"}, queriedCities)
	assert.Equal(t, 2, queriedParty)
	require.Len(t, got, 1)
}

func TestFindHotelsNarrowsToRequestedCity(t *testing.T) {
	var queriedCities []string
	inventory := noopProgramHotelRepo()
	inventory.findAvailableFn = func(_ context.Context, cities []string, _ int, _ float64, _ int) ([]models.HotelAvailability, error) {
		queriedCities = cities
		return nil, nil
	}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		guest := acceptedGuest(id)
		guest.Cities = models.StringList{"Lisbon", "Porto"}
		return guest, nil
	}
	svc := newInspectionService(inventory, nil, users, nil)

	_, err := svc.FindHotels(context.Background(), 7, "Porto", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Porto"}, queriedCities)
}

func TestFindHotelsRejectsCityOffGuestList(t *testing.T) {
	svc := newInspectionService(nil, nil, nil, nil)

	_, err := svc.FindHotels(context.Background(), 7, "Madrid", 10)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

// Listings cached for a top-tier guest must never be served to a lower tier:
// the tier cap changes which hotels the query may return.
func TestFindHotelsCacheScopedByTier(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	inventory := noopProgramHotelRepo()
	inventory.findAvailableFn = func(_ context.Context, _ []string, _ int, rating float64, _ int) ([]models.HotelAvailability, error) {
		if matching.TierFor(rating).MaxHotelRating == nil {
			return []models.HotelAvailability{{Hotel: models.Hotel{ID: 1, Name: "Lux", Rating: 5}}}, nil
		}
		return nil, nil
	}
	users := noopUserRepo()
	ratings := map[uint]int{1: 9, 2: 2}
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		guest := acceptedGuest(id)
		guest.Rating = ratings[id]
		return guest, nil
	}
	svc := newInspectionService(inventory, nil, users, nil)

	warm, err := svc.FindHotels(context.Background(), 1, "", 10)
	require.NoError(t, err)
	require.Len(t, warm, 1)

	// Same city and party size, lower rating tier: must miss the warmed
	// entry and load its own, empty, listing.
	got, err := svc.FindHotels(context.Background(), 2, "", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectRejectsWhenNoOpenSlots(t *testing.T) {
	inventory := noopProgramHotelRepo()
	inventory.hasOpenSlotsFn = func(_ context.Context, _ uint, _ int) (bool, error) { return false, nil }
	svc := newInspectionService(inventory, nil, nil, nil)

	_, err := svc.Select(context.Background(), 7, 3)
	require.Error(t, err)
	assert.Equal(t, models.CodeResourceExhausted, models.CodeForError(err))
}

// An inactive hotel, or one outside the guest's cities or tier, must be
// turned away as unavailable before slot supply is even considered.
func TestSelectRejectsHotelUnavailableForGuest(t *testing.T) {
	var checkedRating float64
	var checkedCities []string
	inventory := noopProgramHotelRepo()
	inventory.isAvailableFn = func(_ context.Context, _ uint, _ int, rating float64, cities []string) (bool, error) {
		checkedRating = rating
		checkedCities = cities
		return false, nil
	}
	inventory.reserveFn = func(_ context.Context, _, _ uint, _ int) (*models.Inspection, error) {
		t.Fatal("reserve must not run for an unavailable hotel")
		return nil, nil
	}
	svc := newInspectionService(inventory, nil, nil, nil)

	_, err := svc.Select(context.Background(), 7, 3)
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
	assert.Equal(t, 5.0, checkedRating)
	assert.Equal(t, []string{"Lisbon"}, checkedCities)
}

func TestSelectReservesForGuestParty(t *testing.T) {
	var reservedParty int
	inventory := noopProgramHotelRepo()
	inventory.reserveFn = func(_ context.Context, hotelID, guestID uint, partySize int) (*models.Inspection, error) {
		reservedParty = partySize
		return &models.Inspection{ID: 5, HotelID: hotelID, GuestID: guestID}, nil
	}
	svc := newInspectionService(inventory, nil, nil, nil)

	inspection, err := svc.Select(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, reservedParty)
	assert.Equal(t, uint(7), inspection.GuestID)
}

func TestGetHidesForeignInspections(t *testing.T) {
	inspections := noopInspectionRepo()
	inspections.getByIDFn = func(_ context.Context, id uint) (*models.Inspection, error) {
		return &models.Inspection{ID: id, GuestID: 1}, nil
	}
	svc := newInspectionService(nil, inspections, nil, nil)

	_, err := svc.Get(context.Background(), 5, 2)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeForError(err))
}

func TestAttachPromoCodeValidatesWindow(t *testing.T) {
	inspections := noopInspectionRepo()
	inspections.getByIDFn = func(_ context.Context, id uint) (*models.Inspection, error) {
		return &models.Inspection{ID: id, GuestID: 7, Status: models.InspectionStatusAwaitingBooking}, nil
	}
	promos := noopPromoCodeRepo()
	promos.getByCodeFn = func(_ context.Context, code string) (*models.PromoCode, error) {
		expired := fixedNow().AddDate(0, -1, 0)
		return &models.PromoCode{ID: 1, Code: code, Discount: 0.2, IsActive: true, ValidUntil: &expired}, nil
	}
	svc := newInspectionService(nil, inspections, nil, promos)

	_, err := svc.AttachPromoCode(context.Background(), 5, 7, "STAY20")
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeForError(err))
}

func TestMarkBookedTransitionsToAwaitingReport(t *testing.T) {
	var saved *models.Inspection
	inspections := noopInspectionRepo()
	inspections.getByIDFn = func(_ context.Context, id uint) (*models.Inspection, error) {
		return &models.Inspection{ID: id, GuestID: 7, Status: models.InspectionStatusAwaitingBooking}, nil
	}
	inspections.updateFn = func(_ context.Context, i *models.Inspection) error {
		saved = i
		return nil
	}
	svc := newInspectionService(nil, inspections, nil, nil)

	inspection, err := svc.MarkBooked(context.Background(), 5, 7, "BK-1234")
	require.NoError(t, err)
	assert.Equal(t, models.InspectionStatusAwaitingReport, inspection.Status)
	require.NotNil(t, saved)
	assert.Equal(t, "BK-1234", saved.BookingRef)
}

func TestMarkBookedRequiresAwaitingBooking(t *testing.T) {
	inspections := noopInspectionRepo()
	inspections.getByIDFn = func(_ context.Context, id uint) (*models.Inspection, error) {
		return &models.Inspection{ID: id, GuestID: 7, Status: models.InspectionStatusAwaitingReport}, nil
	}
	svc := newInspectionService(nil, inspections, nil, nil)

	_, err := svc.MarkBooked(context.Background(), 5, 7, "BK-1234")
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
}

func TestAttachReportOncePerInspection(t *testing.T) {
	existing := "r-existing"
	inspections := noopInspectionRepo()
	inspections.getByIDFn = func(_ context.Context, id uint) (*models.Inspection, error) {
		return &models.Inspection{ID: id, Status: models.InspectionStatusAwaitingReport, ReportID: &existing}, nil
	}
	svc := newInspectionService(nil, inspections, nil, nil)

	_, err := svc.AttachReport(context.Background(), 5, "r-new")
	require.Error(t, err)
	assert.Equal(t, models.CodeStateConflict, models.CodeForError(err))
}

func TestCompleteByReportClosesInspection(t *testing.T) {
	reportID := "r-1"
	var saved *models.Inspection
	inspections := noopInspectionRepo()
	inspections.getByReportIDFn = func(_ context.Context, _ string) (*models.Inspection, error) {
		return &models.Inspection{ID: 5, ReportID: &reportID, Status: models.InspectionStatusAwaitingReport}, nil
	}
	inspections.getByIDFn = func(_ context.Context, id uint) (*models.Inspection, error) {
		return &models.Inspection{ID: id, ReportID: &reportID, Status: models.InspectionStatusAwaitingReport}, nil
	}
	inspections.updateFn = func(_ context.Context, i *models.Inspection) error {
		saved = i
		return nil
	}
	svc := newInspectionService(nil, inspections, nil, nil)

	inspection, err := svc.CompleteByReport(context.Background(), reportID)
	require.NoError(t, err)
	require.NotNil(t, inspection)
	assert.Equal(t, models.InspectionStatusCompleted, inspection.Status)
	require.NotNil(t, saved)
}
