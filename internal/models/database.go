package models

import (
	"fmt"

	"github.com/taskhive/taskhive/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return MigrateAll(DB)
}

// MigrateAll runs schema migration on the given connection. Split out from
// AutoMigrate so tests can migrate an in-memory database.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&Team{},
		&Position{},
		&Tag{},
		&TaskType{},
		&Permission{},
		&Worker{},
		&Project{},
		&Task{},
		&Comment{},
		&Activity{},
		&Session{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the sentinel team and the coarse permission rows
// if they do not exist. Idempotent; runs at every startup.
func SeedDefaultData() error {
	return SeedAll(DB)
}

// SeedAll seeds the given connection.
func SeedAll(db *gorm.DB) error {
	if _, err := EnsureDefaultTeam(db); err != nil {
		return err
	}

	for _, codename := range AllPermissionCodenames {
		var count int64
		db.Model(&Permission{}).Where("codename = ?", codename).Count(&count)
		if count == 0 {
			if err := db.Create(&Permission{Codename: codename}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
