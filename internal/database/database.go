package database

import (
	"fmt"
	"log"

	"world-events/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Account models first; everything else references them
	accountModels := []interface{}{
		&models.User{},
		&models.Character{},
	}

	for _, model := range accountModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// World state models
	worldModels := []interface{}{
		&models.WorldSetting{},
		&models.Zone{},
		&models.ZoneOverride{},
	}

	for _, model := range worldModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Event and ledger models
	eventModels := []interface{}{
		&models.Event{},
		&models.EventModifier{},
		&models.Contribution{},
		&models.LedgerEntry{},
	}

	for _, model := range eventModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
