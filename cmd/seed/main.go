// Command seed runs the database seeder for the secret guest program.
package main

import (
	"flag"
	"log"

	"secretguest/internal/config"
	"secretguest/internal/database"
	"secretguest/internal/seed"
)

func main() {
	numCandidates := flag.Int("candidates", 30, "Number of candidate accounts to create")
	numGuests := flag.Int("guests", 10, "Number of admitted guests to create")
	numHotels := flag.Int("hotels", 15, "Number of hotels to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumCandidates: *numCandidates,
		NumGuests:     *numGuests,
		NumHotels:     *numHotels,
		ShouldClean:   *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
