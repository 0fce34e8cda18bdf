package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormModels "flightdeck/watchtower/internal/models/gorm"
)

var PgDB *gorm.DB

// InitPostgresORM connects GORM and migrates the state_blobs table
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&gormModels.StateBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state blobs: %w", err)
	}

	PgDB = db
	return db, nil
}
