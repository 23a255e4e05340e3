// internal/api/content.go - content item CRUD and board reordering
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/planboard/planboard/internal/datastore"
	"github.com/planboard/planboard/internal/errors"
	"github.com/planboard/planboard/internal/workflow"
)

// initContentRoutes registers the content item endpoints
func (c *Controller) initContentRoutes() {
	c.Group.GET("/content-items", c.GetContentItems)
	c.Group.POST("/content-items", c.CreateContentItem)
	// Reorder must be registered before the :id routes so "reorder" is not
	// captured as an item id.
	c.Group.PATCH("/content-items/reorder", c.ReorderContentItems)
	c.Group.GET("/content-items/:id", c.GetContentItem)
	c.Group.PUT("/content-items/:id", c.UpdateContentItem)
	c.Group.DELETE("/content-items/:id", c.DeleteContentItem)
}

// contentItemRequest is the request body for creating or updating an item.
type contentItemRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Platform          []string `json:"platform"`
	Status            string   `json:"status"`
	PostURL           *string  `json:"post_url"`
	SuggestedPostTime *string  `json:"suggested_post_time"`
	PostDate          *string  `json:"post_date"`
	TargetDate        *string  `json:"target_date"`
	Department        *string  `json:"department"`
	SortOrder         *int     `json:"sort_order"`
}

// validate collects every validation failure and, when valid, returns the
// normalized content item fields.
func (r *contentItemRequest) validate() (datastore.ContentItem, []string) {
	var errs []string
	var item datastore.ContentItem

	item.Title = strings.TrimSpace(r.Title)
	if item.Title == "" {
		errs = append(errs, "title is required")
	}
	item.Description = r.Description
	if strings.TrimSpace(item.Description) == "" {
		errs = append(errs, "description is required")
	}

	platforms, err := workflow.ParsePlatforms(r.Platform)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		item.Platform = make([]string, len(platforms))
		for i, p := range platforms {
			item.Platform[i] = string(p)
		}
	}

	status := r.Status
	if status == "" {
		status = string(workflow.StatusInbox)
	}
	parsedStatus, err := workflow.ParseStatus(status)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		item.Status = string(parsedStatus)
	}

	if r.Department != nil && *r.Department != "" {
		department, err := workflow.ParseDepartment(*r.Department)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			d := string(department)
			item.Department = &d
		}
	}

	item.PostURL = r.PostURL
	item.SuggestedPostTime = r.SuggestedPostTime
	item.PostDate = r.PostDate
	item.TargetDate = r.TargetDate
	item.SortOrder = r.SortOrder

	return item, errs
}

// GetContentItems returns all content items in board order, optionally
// filtered by department.
func (c *Controller) GetContentItems(ctx echo.Context) error {
	department := ctx.QueryParam("department")
	if department != "" {
		parsed, err := workflow.ParseDepartment(department)
		if err != nil {
			return c.HandleValidationErrors(ctx, []string{err.Error()})
		}
		department = string(parsed)
	}

	items, err := c.DS.GetAllContentItems(department)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get content items", http.StatusInternalServerError)
	}
	if c.metrics != nil {
		c.metrics.Board.RecordItemOperation("list", "success")
	}
	return ctx.JSON(http.StatusOK, items)
}

// GetContentItem returns a single content item by id.
func (c *Controller) GetContentItem(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.HandleError(ctx, err, "Invalid content item ID", http.StatusBadRequest)
	}

	item, err := c.DS.GetContentItem(id)
	if err != nil {
		if errors.Is(err, datastore.ErrContentItemNotFound) {
			return c.HandleError(ctx, err, "Content item not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get content item", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, item)
}

// CreateContentItem creates a new content item.
func (c *Controller) CreateContentItem(ctx echo.Context) error {
	var req contentItemRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	item, errs := req.validate()
	if len(errs) > 0 {
		return c.HandleValidationErrors(ctx, errs)
	}

	if err := c.DS.CreateContentItem(&item); err != nil {
		if c.metrics != nil {
			c.metrics.Board.RecordItemOperation("create", "error")
		}
		return c.HandleError(ctx, err, "Failed to create content item", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Board.RecordItemOperation("create", "success")
	}
	c.logAPIRequest(ctx, slog.LevelInfo, "Created content item", "item_id", item.ID, "status", item.Status)
	return ctx.JSON(http.StatusCreated, item)
}

// UpdateContentItem replaces the mutable fields of an existing item. Derived
// rating fields are never written through this endpoint.
func (c *Controller) UpdateContentItem(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.HandleError(ctx, err, "Invalid content item ID", http.StatusBadRequest)
	}

	var req contentItemRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	item, errs := req.validate()
	if len(errs) > 0 {
		return c.HandleValidationErrors(ctx, errs)
	}
	item.ID = id

	if err := c.DS.UpdateContentItem(&item); err != nil {
		if errors.Is(err, datastore.ErrContentItemNotFound) {
			return c.HandleError(ctx, err, "Content item not found", http.StatusNotFound)
		}
		if c.metrics != nil {
			c.metrics.Board.RecordItemOperation("update", "error")
		}
		return c.HandleError(ctx, err, "Failed to update content item", http.StatusInternalServerError)
	}

	updated, err := c.DS.GetContentItem(id)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get content item", http.StatusInternalServerError)
	}
	if c.metrics != nil {
		c.metrics.Board.RecordItemOperation("update", "success")
	}
	return ctx.JSON(http.StatusOK, updated)
}

// DeleteContentItem removes an item and its ratings.
func (c *Controller) DeleteContentItem(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.HandleError(ctx, err, "Invalid content item ID", http.StatusBadRequest)
	}

	if err := c.DS.DeleteContentItem(id); err != nil {
		if errors.Is(err, datastore.ErrContentItemNotFound) {
			return c.HandleError(ctx, err, "Content item not found", http.StatusNotFound)
		}
		if c.metrics != nil {
			c.metrics.Board.RecordItemOperation("delete", "error")
		}
		return c.HandleError(ctx, err, "Failed to delete content item", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Board.RecordItemOperation("delete", "success")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Content item deleted",
	})
}

// reorderRequest is the request body for a bulk column reorder. Items may be
// given as an ordered list of ids, in which case sparse sort keys are
// assigned server side, or as explicit id/sort_order pairs.
type reorderRequest struct {
	OrderedIDs []string              `json:"ordered_ids"`
	Items      []datastore.ItemOrder `json:"items"`
}

// ReorderContentItems bulk-updates sort_order for one column.
func (c *Controller) ReorderContentItems(ctx echo.Context) error {
	var req reorderRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	orders := req.Items
	if len(req.OrderedIDs) > 0 {
		keys := workflow.SortKeys(req.OrderedIDs)
		orders = make([]datastore.ItemOrder, len(req.OrderedIDs))
		for i, id := range req.OrderedIDs {
			orders[i] = datastore.ItemOrder{ID: id, SortOrder: keys[id]}
		}
	}
	if len(orders) == 0 {
		return c.HandleValidationErrors(ctx, []string{"ordered_ids or items is required"})
	}
	for i := range orders {
		if _, err := uuid.Parse(orders[i].ID); err != nil {
			return c.HandleValidationErrors(ctx, []string{fmt.Sprintf("invalid content item ID at position %d", i)})
		}
	}

	if err := c.DS.ReorderContentItems(orders); err != nil {
		if c.metrics != nil {
			c.metrics.Board.RecordItemOperation("reorder", "error")
		}
		return c.HandleError(ctx, err, "Failed to reorder content items", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Board.RecordItemOperation("reorder", "success")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"updated": len(orders),
	})
}
