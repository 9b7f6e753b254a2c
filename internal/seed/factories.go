package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"secretguest/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCities = []string{"Lisbon", "Porto", "Madrid", "Barcelona", "Rome"}

// Factory creates realistic domain entities for seeding.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a Factory over the given database.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

func hashedPassword() string {
	// One shared hash keeps large seeds fast; every seeded login is "password".
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	return string(hash)
}

var sharedPassword = hashedPassword()

// CreateUser creates a candidate account with believable profile data.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	dob := gofakeit.DateRange(
		time.Now().AddDate(-60, 0, 0),
		time.Now().AddDate(-18, 0, 0),
	)

	user := &models.User{
		Email:          strings.ToLower(gofakeit.Email()),
		Password:       sharedPassword,
		FirstName:      gofakeit.FirstName(),
		LastName:       gofakeit.LastName(),
		Role:           models.RoleCandidate,
		Cities:         models.StringList{seedCities[rand.Intn(len(seedCities))]},
		PartySize:      1 + rand.Intn(3),
		DateOfBirth:    &dob,
		EmailVerified:  gofakeit.Bool(),
		PhoneVerified:  gofakeit.Bool(),
		BookingsInYear: rand.Intn(10),
		GuruLevel:      rand.Intn(6),
		IsActive:       true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdmittedGuest creates a verified user already admitted to the program.
func (f *Factory) CreateAdmittedGuest(overrides ...func(*models.User)) (*models.User, error) {
	return f.CreateUser(append([]func(*models.User){func(u *models.User) {
		u.Role = models.RoleAccepted
		u.EmailVerified = true
		u.PhoneVerified = true
		u.BookingsInYear = 4 + rand.Intn(8)
		u.Rating = 3 + rand.Intn(8) // 3..10
	}}, overrides...)...)
}

// CreateHotelWithWindows creates an active hotel with two published windows.
func (f *Factory) CreateHotelWithWindows(overrides ...func(*models.Hotel)) (*models.Hotel, error) {
	hotel := &models.Hotel{
		Name:        gofakeit.Company() + " Hotel",
		City:        seedCities[rand.Intn(len(seedCities))],
		Address:     gofakeit.Street(),
		Capacity:    2 + rand.Intn(6),
		Cost:        60 + rand.Intn(240),
		Rating:      1 + rand.Intn(5),
		Description: gofakeit.Paragraph(1, 3, 8, " "),
		IsActive:    true,
	}
	for _, override := range overrides {
		override(hotel)
	}
	if err := f.db.Create(hotel).Error; err != nil {
		return nil, err
	}

	for i := 0; i < 2; i++ {
		checkIn := time.Now().AddDate(0, 0, 7+14*i)
		slots := 2 + rand.Intn(5)
		window := &models.ProgramHotel{
			HotelID:        hotel.ID,
			CheckInDate:    checkIn,
			CheckOutDate:   checkIn.AddDate(0, 0, 2),
			SlotsTotal:     slots,
			SlotsAvailable: slots,
			IsPublished:    true,
		}
		if err := f.db.Create(window).Error; err != nil {
			return nil, err
		}
	}
	return hotel, nil
}

// CreatePromoCodes creates a small fixed set of active discount codes.
func (f *Factory) CreatePromoCodes() error {
	until := time.Now().AddDate(0, 3, 0)
	codes := []models.PromoCode{
		{Code: "WELCOME10", Description: "First inspection stay", Discount: 0.10, IsActive: true, ValidUntil: &until},
		{Code: "SPRING20", Description: "Seasonal campaign", Discount: 0.20, IsActive: true, ValidUntil: &until},
		{Code: "GURU25", Description: "Top reviewer reward", Discount: 0.25, IsActive: true, ValidUntil: &until},
	}
	for i := range codes {
		if err := f.db.Create(&codes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateInspection books a stay for the guest at the hotel's first window.
func (f *Factory) CreateInspection(guest *models.User, hotel *models.Hotel) error {
	var window models.ProgramHotel
	if err := f.db.Where("hotel_id = ?", hotel.ID).Order("check_in_date ASC").First(&window).Error; err != nil {
		return err
	}
	if window.SlotsAvailable < guest.PartySize {
		return nil
	}

	inspection := &models.Inspection{
		HotelID:        hotel.ID,
		ProgramHotelID: window.ID,
		GuestID:        guest.ID,
		BookingRef:     fmt.Sprintf("BK-%06d", rand.Intn(1000000)),
		Status:         models.InspectionStatusAwaitingReport,
	}
	if err := f.db.Create(inspection).Error; err != nil {
		return err
	}

	return f.db.Model(&window).
		Update("slots_available", window.SlotsAvailable-guest.PartySize).Error
}
