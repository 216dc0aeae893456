package main

import (
	"fmt"
	"log"
	"time"

	"github.com/reipand/TripGo-sub000/internal/promotions"
	"github.com/reipand/TripGo-sub000/internal/shared/config"
	"github.com/reipand/TripGo-sub000/internal/shared/database"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting TripGo Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedPromotions(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"promo_usages",
		"promotions",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedPromotions inserts the launch promotion catalog.
func (s *Seeder) SeedPromotions() error {
	now := time.Now()
	cap100k := 100000.0

	promos := []promotions.Promotion{
		{
			ID:             uuid.New(),
			Code:           "DISKON50",
			Name:           "Diskon Langsung Rp50.000",
			Description:    "Potongan tetap Rp50.000 untuk transaksi minimal Rp250.000",
			DiscountType:   promotions.DiscountTypeFixed,
			DiscountValue:  50000,
			MinOrderAmount: 250000,
			StartDate:      now.AddDate(0, -1, 0),
			EndDate:        now.AddDate(0, 3, 0),
			Active:         true,
		},
		{
			ID:             uuid.New(),
			Code:           "FAMILY30",
			Name:           "Promo Keluarga 30%",
			Description:    "Diskon 30% untuk pemesanan minimal 3 penumpang, maksimal Rp100.000",
			DiscountType:   promotions.DiscountTypePercentage,
			DiscountValue:  30,
			MaxDiscount:    &cap100k,
			MinPassengers:  3,
			StartDate:      now.AddDate(0, -1, 0),
			EndDate:        now.AddDate(0, 6, 0),
			Active:         true,
		},
		{
			ID:            uuid.New(),
			Code:          "ARGODEAL",
			Name:          "Promo Kereta Argo",
			Description:   "Diskon 15% khusus kereta Eksekutif",
			DiscountType:  promotions.DiscountTypePercentage,
			DiscountValue: 15,
			TrainTypes:    []string{"Eksekutif"},
			StartDate:     now.AddDate(0, -1, 0),
			EndDate:       now.AddDate(0, 2, 0),
			Active:        true,
		},
	}

	for _, promo := range promos {
		if err := s.db.GetPostgreSQL().Create(&promo).Error; err != nil {
			return fmt.Errorf("failed to create promotion %s: %w", promo.Code, err)
		}
		fmt.Printf("  ✅ Created promotion: %s (%s)\n", promo.Code, promo.Name)
	}
	return nil
}
