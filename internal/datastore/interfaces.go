// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/errors"
)

// Sentinel errors returned when a requested row does not exist.
var (
	ErrContentItemNotFound = errors.NewStd("content item not found")
	ErrRatingNotFound      = errors.NewStd("rating not found")
)

// ItemOrder is one entry of a bulk reorder request.
type ItemOrder struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// Interface abstracts the underlying database implementation and defines the
// operations available to the rest of the application.
type Interface interface {
	Open() error
	Close() error

	// Content items
	GetAllContentItems(department string) ([]ContentItem, error)
	GetContentItem(id string) (ContentItem, error)
	CreateContentItem(item *ContentItem) error
	UpdateContentItem(item *ContentItem) error
	DeleteContentItem(id string) error
	ReorderContentItems(orders []ItemOrder) error

	// Ratings
	GetRatingsForContent(contentID string) ([]ContentRating, error)
	GetUserRatingForWeek(contentID, userID string, week int) (*ContentRating, error)
	SaveRating(r *ContentRating) (*ContentRating, error)
	DeleteRating(id string) error
	GetPublicationQueue() ([]ContentItem, error)

	// AI usage accounting
	AddAIUsage(date, operation string, inputTokens, outputTokens int64, cost float64) error
	GetAIUsage(date string) (AIUsage, error)
	GetAIUsageDetails(date string) ([]AIUsageDetail, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
