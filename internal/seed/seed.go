// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"secretguest/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumCandidates int
	NumGuests     int
	NumHotels     int
	ShouldClean   bool
}

// Seeder populates the database with development data.
type Seeder struct {
	factory *Factory
	db      *gorm.DB
}

// NewSeeder creates a Seeder over the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{factory: NewFactory(db), db: db}
}

// ClearAll wipes every seeded table. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"report_photos", "reports", "inspections", "program_hotels",
		"promo_codes", "application_photos", "applications", "hotels", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run populates the database according to the options.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d candidates, %d guests and %d hotels...",
		opts.NumCandidates, opts.NumGuests, opts.NumHotels)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Email = "admin@secretguest.local"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("admin user %s created", admin.Email)

	for i := 0; i < opts.NumCandidates; i++ {
		if _, err := s.factory.CreateUser(); err != nil {
			return fmt.Errorf("create candidate: %w", err)
		}
	}

	guests := make([]*models.User, 0, opts.NumGuests)
	for i := 0; i < opts.NumGuests; i++ {
		guest, err := s.factory.CreateAdmittedGuest()
		if err != nil {
			return fmt.Errorf("create guest: %w", err)
		}
		guests = append(guests, guest)
	}

	hotels := make([]*models.Hotel, 0, opts.NumHotels)
	for i := 0; i < opts.NumHotels; i++ {
		hotel, err := s.factory.CreateHotelWithWindows()
		if err != nil {
			return fmt.Errorf("create hotel: %w", err)
		}
		hotels = append(hotels, hotel)
	}

	if err := s.factory.CreatePromoCodes(); err != nil {
		return fmt.Errorf("create promo codes: %w", err)
	}

	// A handful of booked inspections so moderation queues are not empty.
	for i := 0; i < len(guests) && i < len(hotels); i += 2 {
		if err := s.factory.CreateInspection(guests[i], hotels[i]); err != nil {
			return fmt.Errorf("create inspection: %w", err)
		}
	}

	log.Printf("seeding complete: %d guests, %d hotels", len(guests), len(hotels))
	return nil
}
