// model.go: data model for the content board
package datastore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentItem is a unit of plannable content tracked through workflow stages.
type ContentItem struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Title             string    `gorm:"not null" json:"title"`
	Description       string    `gorm:"type:text;not null" json:"description"`
	Platform          []string  `gorm:"serializer:json" json:"platform"`
	Status            string    `gorm:"type:varchar(20);index;default:Inbox" json:"status"`
	PostURL           *string   `json:"post_url"`
	SuggestedPostTime *string   `json:"suggested_post_time"`
	PostDate          *string   `json:"post_date"`
	TargetDate        *string   `json:"target_date"`
	Department        *string   `gorm:"type:varchar(40);index" json:"department"`
	SortOrder         *int      `gorm:"index" json:"sort_order"`

	// Derived rating state, recomputed on every rating write or delete
	AverageRating       float64 `gorm:"default:0" json:"average_rating"`
	TotalRatings        int64   `gorm:"default:0" json:"total_ratings"`
	PublicationEligible bool    `gorm:"default:false" json:"publication_eligible"`

	Ratings []ContentRating `gorm:"foreignKey:ContentItemID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID primary key if none was supplied.
func (item *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return nil
}

// ContentRating is one user's rating of a content item within a calendar week.
// The (content_item_id, user_identifier, week_year) triple is unique: a
// resubmission within the same week updates the existing row.
type ContentRating struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContentItemID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_item_user_week" json:"content_item_id"`
	UserIdentifier string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_ratings_item_user_week" json:"user_identifier"`
	WeekYear       int       `gorm:"not null;uniqueIndex:idx_ratings_item_user_week" json:"week_year"`
	Rating         int       `gorm:"not null" json:"rating"`
	Comment        *string   `gorm:"type:text" json:"comment"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key if none was supplied.
func (r *ContentRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// AIUsage accumulates AI provider usage per calendar day.
type AIUsage struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Date          string  `gorm:"type:varchar(10);uniqueIndex" json:"date"` // YYYY-MM-DD
	RequestCount  int     `json:"request_count"`
	InputTokens   int64   `json:"input_tokens"`
	OutputTokens  int64   `json:"output_tokens"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// BeforeCreate assigns a UUID primary key if none was supplied.
func (u *AIUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AIUsageDetail records AI provider usage per day and operation.
type AIUsageDetail struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Date          string    `gorm:"type:varchar(10);index:idx_ai_usage_detail_date_op" json:"date"`
	Operation     string    `gorm:"type:varchar(40);index:idx_ai_usage_detail_date_op" json:"operation"`
	RequestCount  int       `json:"request_count"`
	InputTokens   int64     `json:"input_tokens"`
	OutputTokens  int64     `json:"output_tokens"`
	EstimatedCost float64   `json:"estimated_cost"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key if none was supplied.
func (u *AIUsageDetail) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
