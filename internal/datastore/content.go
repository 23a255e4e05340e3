// content.go: content item persistence operations
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planboard/planboard/internal/errors"
)

// boardOrder is the canonical intra-column read order: explicit sort keys
// first, items without a key after them in creation order.
const boardOrder = "sort_order IS NULL, sort_order ASC, created_at ASC"

// GetAllContentItems returns all content items in board order, optionally
// filtered by department.
func (ds *DataStore) GetAllContentItems(department string) ([]ContentItem, error) {
	var items []ContentItem

	query := ds.DB.Order(boardOrder)
	if department != "" {
		query = query.Where("department = ?", department)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_all_content_items").
			Build()
	}
	return items, nil
}

// GetContentItem retrieves a content item by its ID.
func (ds *DataStore) GetContentItem(id string) (ContentItem, error) {
	var item ContentItem
	if err := ds.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContentItem{}, ErrContentItemNotFound
		}
		return ContentItem{}, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_content_item").
			Context("item_id", id).
			Build()
	}
	return item, nil
}

// CreateContentItem persists a new content item.
func (ds *DataStore) CreateContentItem(item *ContentItem) error {
	if err := ds.DB.Create(item).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "create_content_item").
			Build()
	}
	return nil
}

// UpdateContentItem persists changes to an existing content item. The derived
// rating fields are never written here, they belong to the rating recompute.
func (ds *DataStore) UpdateContentItem(item *ContentItem) error {
	result := ds.DB.Model(&ContentItem{}).
		Where("id = ?", item.ID).
		Select("title", "description", "platform", "status", "post_url",
			"suggested_post_time", "post_date", "target_date", "department", "sort_order").
		Updates(item)
	if result.Error != nil {
		return errors.New(result.Error).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "update_content_item").
			Context("item_id", item.ID).
			Build()
	}
	if result.RowsAffected == 0 {
		return ErrContentItemNotFound
	}
	return nil
}

// DeleteContentItem removes a content item and its ratings in one transaction.
func (ds *DataStore) DeleteContentItem(id string) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&ContentItem{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("deleting content item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrContentItemNotFound
		}
		// Cascade the ratings explicitly, SQLite does not always enforce the
		// foreign key constraint
		if err := tx.Delete(&ContentRating{}, "content_item_id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting ratings for content item: %w", err)
		}
		return nil
	})
}

// ReorderContentItems bulk-assigns sort keys in one transaction. Concurrent
// reorders of the same column are not coordinated, last write wins.
func (ds *DataStore) ReorderContentItems(orders []ItemOrder) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			if err := tx.Model(&ContentItem{}).
				Where("id = ?", order.ID).
				Update("sort_order", order.SortOrder).Error; err != nil {
				return fmt.Errorf("updating sort order for item %s: %w", order.ID, err)
			}
		}
		return nil
	})
}
