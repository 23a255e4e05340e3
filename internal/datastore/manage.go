// manage.go: database schema migration
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/planboard/planboard/internal/logging"
	"github.com/planboard/planboard/internal/workflow"
)

// performAutoMigration runs GORM auto-migration for all entities and then
// normalizes rows written by older application versions.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	migrationStart := time.Now()
	log := logging.ForService("datastore")

	if err := db.AutoMigrate(&ContentItem{}, &ContentRating{}, &AIUsage{}, &AIUsageDetail{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if err := migrateLegacyStatuses(db); err != nil {
		return fmt.Errorf("failed to migrate legacy statuses: %w", err)
	}

	if debug && log != nil {
		log.Debug("Database migration completed",
			"db_type", dbType,
			"connection", connectionInfo,
			"duration", time.Since(migrationStart))
	}

	return nil
}

// migrateLegacyStatuses rewrites deprecated status values (Idea, InProgress,
// Review) left behind by the old board layout. Latest wins, rows that cannot
// be mapped are left untouched.
func migrateLegacyStatuses(db *gorm.DB) error {
	var legacyRows []ContentItem
	currentStatuses := make([]string, len(workflow.AllStatuses))
	for i, s := range workflow.AllStatuses {
		currentStatuses[i] = string(s)
	}

	if err := db.Where("status NOT IN ?", currentStatuses).Find(&legacyRows).Error; err != nil {
		return err
	}

	for i := range legacyRows {
		item := &legacyRows[i]
		status, ok := workflow.NormalizeStatus(item.Status)
		if !ok {
			continue
		}
		if err := db.Model(&ContentItem{}).
			Where("id = ?", item.ID).
			Update("status", string(status)).Error; err != nil {
			return err
		}
	}

	return nil
}
