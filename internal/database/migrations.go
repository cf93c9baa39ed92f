package database

import (
	"fmt"

	"github.com/yukikurage/crewdesk-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

var indexes = []index{
	// Workspace loads filter every collection by tenant and order by position
	{"users", "idx_users_tenant_position", "tenant_id, position"},
	{"teammates", "idx_teammates_tenant_position", "tenant_id, position"},
	{"tasks", "idx_tasks_tenant_position", "tenant_id, position"},
	{"notifications", "idx_notifications_tenant_position", "tenant_id, position"},

	// Hierarchy lookups
	{"teammates", "idx_teammates_manager_id", "manager_id"},

	// Inbox queries
	{"notifications", "idx_notifications_user_read", "user_id, is_read"},
}

// AddIndexes adds composite indexes on PostgreSQL. Other dialects keep the
// indexes AutoMigrate declares from struct tags.
func AddIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	log := logger.GetLogger()
	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	log := logger.GetLogger()
	log.Info("Running database migrations...")

	if err := AutoMigrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}
