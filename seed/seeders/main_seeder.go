package seeders

import (
	"context"
	"log"

	"github.com/avvalues/trade-hub/services/repositories"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll provisions the schema and then seeds banned words. With no words
// supplied the default list is used.
func (s *MainSeeder) SeedAll(ctx context.Context, words []string) error {
	log.Println("Starting database seeding...")

	if err := repositories.Migrate(s.db); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	if len(words) == 0 {
		words = DefaultBannedWords
	}

	bannedWordSeeder := NewBannedWordSeeder(s.db)
	added, err := bannedWordSeeder.SeedBannedWords(ctx, words)
	if err != nil {
		log.Printf("Banned word seeding failed: %v", err)
		return err
	}

	log.Printf("Database seeding completed successfully! %d new banned words", added)
	return nil
}
