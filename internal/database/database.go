package database

import (
	"errors"
	"fmt"

	"github.com/yukikurage/crewdesk-api/internal/config"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DriverMemory keeps workspaces in process memory without a database.
const DriverMemory = "memory"

var ErrUnknownDriver = errors.New("unknown database driver")

var DB *gorm.DB

// Dialector builds the GORM dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DBDriver)
	}
}

func Connect(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	logMode := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		logMode = gormlogger.Info
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.GetLogger().Info("Database connection established", zap.String("driver", cfg.DBDriver))
	return nil
}

// AutoMigrate creates or updates the tables of every persisted model.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Teammate{},
		&models.Task{},
		&models.TaskStep{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
