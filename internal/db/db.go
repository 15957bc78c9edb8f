package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"booking-scheduler-backend/config"
	"booking-scheduler-backend/internal/model"
)

// Init opens the configured database, tunes the pool and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Driver == "postgres" && cfg.EnableExclusionConstraint {
		log.Println("Exclusion constraint is enabled, applying booking overlap DDL...")
		if err := applyExclusionDDL(db); err != nil {
			log.Printf("Warning: failed to apply booking overlap DDL: %v. Continuing with transactional checks only.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Open connects without migrating.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Host{},
		&model.BookingLink{},
		&model.AvailabilityWindow{},
		&model.Booking{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// exclusionDDL makes postgres reject any second non-cancelled booking whose
// [start_time, end_time) intersects another on the same link and date.
var exclusionDDL = []string{
	"CREATE EXTENSION IF NOT EXISTS btree_gist;",

	"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_interval_valid;",
	"ALTER TABLE bookings " +
		"ADD CONSTRAINT bookings_interval_valid CHECK (start_time < end_time);",

	"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap;",
	"ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap " +
		"EXCLUDE USING GIST (booking_link_id WITH =, date WITH =, int8range(start_time, end_time, '[)') WITH &&) " +
		"WHERE (status <> 'cancelled');",

	"ALTER TABLE availability_windows DROP CONSTRAINT IF EXISTS availability_windows_interval_valid;",
	"ALTER TABLE availability_windows " +
		"ADD CONSTRAINT availability_windows_interval_valid CHECK (start_time < end_time);",
}

func applyExclusionDDL(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, ddl := range exclusionDDL {
			if err := tx.Exec(ddl).Error; err != nil {
				return fmt.Errorf("DDL failed on %q: %w", ddl, err)
			}
		}
		return nil
	})
}
