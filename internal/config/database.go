package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection and applies the pool settings.
// Every write is a single statement, so gorm's implicit transaction is skipped.
func InitDB(c *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DatabaseUri), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.DatabaseMaxConns)
	sqlDB.SetMaxIdleConns(c.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(c.DatabaseConnMaxLifetime) * time.Second)

	return db, nil
}
