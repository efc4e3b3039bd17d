package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sangkips/retail-ledger/internal/config"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPriceListName is the list the POS reads selling prices from
const DefaultPriceListName = "Default"

// Open connects to the store selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLiteDB(cfg.SQLitePath, debug)
	case config.DriverPostgres, "":
		return NewPostgresDB(cfg, debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	slog.Info("Successfully connected to PostgreSQL database")
	return db, nil
}

func gormConfig(debug bool) *gorm.Config {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	slog.Info("Running database migrations...")

	err := db.AutoMigrate(
		// Catalogue
		&entity.Product{},
		&entity.PriceList{},
		&entity.PriceListItem{},

		// Sales ledger
		&entity.POSSession{},
		&entity.Receipt{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Payment{},
		&entity.CreditAccount{},

		// Inventory ledger
		&entity.StockMovement{},
		&entity.POSStockMovement{},
		&entity.StockReconciliation{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultData makes sure the default price list exists
func SeedDefaultData(db *gorm.DB) error {
	var existing entity.PriceList
	err := db.Where("is_default = ?", true).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up default price list: %w", err)
	}

	list := entity.PriceList{Name: DefaultPriceListName, IsDefault: true}
	if err := db.Omit("Items").Create(&list).Error; err != nil {
		return fmt.Errorf("failed to create default price list: %w", err)
	}
	slog.Info("Default price list created", slog.String("price_list_id", list.ID.String()))
	return nil
}
