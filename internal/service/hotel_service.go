package service

import (
	"context"
	"math"
	"time"

	"secretguest/internal/cache"
	"secretguest/internal/models"
	"secretguest/internal/repository"
)

// HotelCard is the public profile of a hotel enriched with aggregates from
// approved inspection reports.
type HotelCard struct {
	Hotel          models.Hotel           `json:"hotel"`
	ReportsCount   int                    `json:"reports_count"`
	AvgReportScore *float64               `json:"avg_report_score,omitempty"`
	ScoreLabel     string                 `json:"score_label"`
	Reports        []HotelCardReport      `json:"reports,omitempty"`
	AvailableDates []models.AvailableDate `json:"available_dates,omitempty"`
}

// HotelCardReport is one approved report as shown on the public card.
type HotelCardReport struct {
	Score       *float64   `json:"score,omitempty"`
	ScoreLabel  string     `json:"score_label"`
	Tags        []string   `json:"tags,omitempty"`
	Liked       string     `json:"liked,omitempty"`
	ToImprove   string     `json:"to_improve,omitempty"`
	Advantages  string     `json:"advantages,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// HotelService manages hotels and their inventory windows.
type HotelService interface {
	Get(ctx context.Context, hotelID uint) (*models.Hotel, error)
	Card(ctx context.Context, hotelID uint) (*HotelCard, error)
	Create(ctx context.Context, hotel *models.Hotel) error
	Update(ctx context.Context, hotel *models.Hotel) error
	Delete(ctx context.Context, hotelID uint) error
	List(ctx context.Context, city string, limit, offset int) ([]models.Hotel, error)
	CreateWindow(ctx context.Context, entry *models.ProgramHotel) error
	UpdateWindow(ctx context.Context, entry *models.ProgramHotel) error
	ListWindows(ctx context.Context, hotelID uint) ([]models.ProgramHotel, error)
}

type hotelService struct {
	hotels    repository.HotelRepository
	inventory repository.ProgramHotelRepository
	reports   repository.ReportRepository
}

// NewHotelService returns a new HotelService implementation.
func NewHotelService(hotels repository.HotelRepository, inventory repository.ProgramHotelRepository, reports repository.ReportRepository) HotelService {
	return &hotelService{hotels: hotels, inventory: inventory, reports: reports}
}

func (s *hotelService) Get(ctx context.Context, hotelID uint) (*models.Hotel, error) {
	return s.hotels.GetByID(ctx, hotelID)
}

func (s *hotelService) Card(ctx context.Context, hotelID uint) (*HotelCard, error) {
	var card HotelCard
	key := cache.HotelCardKey(hotelID)

	err := cache.Aside(ctx, key, &card, cache.HotelTTL, func() error {
		hotel, err := s.hotels.GetByID(ctx, hotelID)
		if err != nil {
			return err
		}
		card.Hotel = *hotel

		reports, err := s.reports.ApprovedByHotel(ctx, hotelID)
		if err != nil {
			return err
		}
		card.ReportsCount = len(reports)

		sum, scored := 0.0, 0
		for _, r := range reports {
			entry := HotelCardReport{
				Score:       r.OverallScore,
				ScoreLabel:  ScoreLabel(r.OverallScore),
				Tags:        ReportTags(&r.Answers),
				SubmittedAt: r.SubmittedAt,
			}
			if step := r.Answers.Step6; step != nil {
				entry.Liked = step.Liked
				entry.ToImprove = step.ToImprove
				entry.Advantages = step.Advantages
			}
			card.Reports = append(card.Reports, entry)

			if r.OverallScore != nil {
				sum += *r.OverallScore
				scored++
			}
		}
		if scored > 0 {
			avg := math.Floor(sum/float64(scored)*10+0.5) / 10
			card.AvgReportScore = &avg
		}
		card.ScoreLabel = ScoreLabel(card.AvgReportScore)

		windows, err := s.inventory.ListByHotel(ctx, hotelID)
		if err != nil {
			return err
		}
		for _, w := range windows {
			if w.IsPublished && w.SlotsAvailable > 0 {
				card.AvailableDates = append(card.AvailableDates, models.AvailableDate{
					CheckInDate:    w.CheckInDate,
					CheckOutDate:   w.CheckOutDate,
					SlotsAvailable: w.SlotsAvailable,
				})
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *hotelService) Create(ctx context.Context, hotel *models.Hotel) error {
	if hotel.Name == "" || hotel.City == "" {
		return models.NewValidationError("a hotel needs a name and a city")
	}
	if hotel.Rating < 0 || hotel.Rating > models.HotelRatingMax {
		return models.NewValidationError("hotel rating must be between 0 and 5")
	}
	hotel.IsActive = true
	return s.hotels.Create(ctx, hotel)
}

func (s *hotelService) Update(ctx context.Context, hotel *models.Hotel) error {
	if hotel.Rating < 0 || hotel.Rating > models.HotelRatingMax {
		return models.NewValidationError("hotel rating must be between 0 and 5")
	}
	return s.hotels.Update(ctx, hotel)
}

func (s *hotelService) Delete(ctx context.Context, hotelID uint) error {
	return s.hotels.Delete(ctx, hotelID)
}

func (s *hotelService) List(ctx context.Context, city string, limit, offset int) ([]models.Hotel, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.hotels.List(ctx, city, limit, offset)
}

func (s *hotelService) CreateWindow(ctx context.Context, entry *models.ProgramHotel) error {
	if err := validateWindow(entry); err != nil {
		return err
	}
	if _, err := s.hotels.GetByID(ctx, entry.HotelID); err != nil {
		return err
	}
	return s.inventory.Create(ctx, entry)
}

func (s *hotelService) UpdateWindow(ctx context.Context, entry *models.ProgramHotel) error {
	if err := validateWindow(entry); err != nil {
		return err
	}
	if entry.SlotsAvailable < 0 || entry.SlotsAvailable > entry.SlotsTotal {
		return models.NewValidationError("available slots must stay within the total pool")
	}
	return s.inventory.Update(ctx, entry)
}

func (s *hotelService) ListWindows(ctx context.Context, hotelID uint) ([]models.ProgramHotel, error) {
	return s.inventory.ListByHotel(ctx, hotelID)
}

func validateWindow(entry *models.ProgramHotel) error {
	if entry.SlotsTotal < 1 {
		return models.NewValidationError("a window needs at least one slot")
	}
	if entry.CheckInDate.IsZero() {
		return models.NewValidationError("a check-in date is required")
	}
	if !entry.CheckOutDate.After(entry.CheckInDate) {
		return models.NewValidationError("checkout must come after check-in")
	}
	return nil
}
