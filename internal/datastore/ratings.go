// ratings.go: rating persistence and derived-field recomputation
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planboard/planboard/internal/errors"
	"github.com/planboard/planboard/internal/rating"
)

// GetRatingsForContent returns all ratings for a content item, newest first.
func (ds *DataStore) GetRatingsForContent(contentID string) ([]ContentRating, error) {
	var ratings []ContentRating
	if err := ds.DB.
		Where("content_item_id = ?", contentID).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_ratings_for_content").
			Context("item_id", contentID).
			Build()
	}
	return ratings, nil
}

// GetUserRatingForWeek returns the rating a user submitted for an item in the
// given week, or nil when none exists.
func (ds *DataStore) GetUserRatingForWeek(contentID, userID string, week int) (*ContentRating, error) {
	var r ContentRating
	err := ds.DB.
		Where("content_item_id = ? AND user_identifier = ? AND week_year = ?", contentID, userID, week).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_user_rating_for_week").
			Context("item_id", contentID).
			Build()
	}
	return &r, nil
}

// SaveRating upserts a rating keyed by (content item, user, week) and
// recomputes the parent item's derived fields within the same transaction.
// The transaction serializes concurrent rating writes for the same item, so
// the derived fields never drift from the rating rows.
func (ds *DataStore) SaveRating(r *ContentRating) (*ContentRating, error) {
	var saved ContentRating

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		// Verify the parent exists inside the transaction so a concurrent
		// delete cannot orphan the rating
		var parent ContentItem
		if err := tx.First(&parent, "id = ?", r.ContentItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentItemNotFound
			}
			return fmt.Errorf("loading content item: %w", err)
		}

		var existing ContentRating
		err := tx.Where(
			"content_item_id = ? AND user_identifier = ? AND week_year = ?",
			r.ContentItemID, r.UserIdentifier, r.WeekYear,
		).First(&existing).Error

		switch {
		case err == nil:
			// Resubmission within the same week updates the existing row
			existing.Rating = r.Rating
			existing.Comment = r.Comment
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("updating rating: %w", err)
			}
			saved = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(r).Error; err != nil {
				return fmt.Errorf("creating rating: %w", err)
			}
			saved = *r
		default:
			return fmt.Errorf("looking up existing rating: %w", err)
		}

		return recomputeContentRatings(tx, r.ContentItemID)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteRating removes a rating and recomputes the parent item's derived
// fields within the same transaction.
func (ds *DataStore) DeleteRating(id string) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		var r ContentRating
		if err := tx.First(&r, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRatingNotFound
			}
			return fmt.Errorf("loading rating: %w", err)
		}

		if err := tx.Delete(&ContentRating{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting rating: %w", err)
		}

		return recomputeContentRatings(tx, r.ContentItemID)
	})
}

// GetPublicationQueue returns items eligible for publication that are still
// awaiting review, best rated first.
func (ds *DataStore) GetPublicationQueue() ([]ContentItem, error) {
	var items []ContentItem
	if err := ds.DB.
		Where("publication_eligible = ? AND status = ?", true, "PendingReview").
		Order("average_rating DESC").
		Find(&items).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_publication_queue").
			Build()
	}
	return items, nil
}

// recomputeContentRatings refreshes the derived rating fields of a content
// item from its rating rows. Must run inside the transaction that modified
// the ratings.
func recomputeContentRatings(tx *gorm.DB, contentID string) error {
	var result struct {
		Average float64
		Total   int64
	}
	if err := tx.Model(&ContentRating{}).
		Where("content_item_id = ?", contentID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Scan(&result).Error; err != nil {
		return fmt.Errorf("aggregating ratings: %w", err)
	}

	summary := rating.Summary{Average: result.Average, Total: result.Total}

	if err := tx.Model(&ContentItem{}).
		Where("id = ?", contentID).
		Updates(map[string]any{
			"average_rating":       summary.Average,
			"total_ratings":        summary.Total,
			"publication_eligible": summary.Eligible(),
		}).Error; err != nil {
		return fmt.Errorf("updating derived rating fields: %w", err)
	}
	return nil
}
