// internal/api/ratings.go - rating submission and the publication queue
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
	"github.com/planboard/planboard/internal/rating"
	"github.com/planboard/planboard/internal/workflow"
)

// initRatingRoutes registers the rating endpoints
func (c *Controller) initRatingRoutes() {
	c.Group.GET("/ratings", c.GetRatings)
	c.Group.POST("/ratings", c.SaveRating)
	c.Group.GET("/ratings/user", c.GetUserRating)
	c.Group.GET("/ratings/publication-queue", c.GetPublicationQueue)
	c.Group.POST("/ratings/publication-queue", c.MarkForPublication)
	c.Group.DELETE("/ratings/:id", c.DeleteRating)
}

// GetRatings returns all ratings for one content item.
func (c *Controller) GetRatings(ctx echo.Context) error {
	contentID := ctx.QueryParam("contentId")
	if _, err := uuid.Parse(contentID); err != nil {
		return c.HandleError(ctx, err, "Invalid contentId parameter", http.StatusBadRequest)
	}

	ratings, err := c.DS.GetRatingsForContent(contentID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get ratings", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, ratings)
}

// ratingRequest is the request body for submitting a rating.
type ratingRequest struct {
	ContentItemID  string  `json:"content_item_id"`
	UserIdentifier string  `json:"user_identifier"`
	Rating         int     `json:"rating"`
	Comment        *string `json:"comment"`
}

// SaveRating submits a rating for the current week. A resubmission by the
// same user within the same week updates the existing rating. The parent
// item's average, total and eligibility are recomputed in the same
// transaction.
func (c *Controller) SaveRating(ctx echo.Context) error {
	var req ratingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	var errs []string
	if _, err := uuid.Parse(req.ContentItemID); err != nil {
		errs = append(errs, "content_item_id must be a valid UUID")
	}
	if strings.TrimSpace(req.UserIdentifier) == "" {
		errs = append(errs, "user_identifier is required")
	}
	if err := rating.Validate(req.Rating); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return c.HandleValidationErrors(ctx, errs)
	}

	r := datastore.ContentRating{
		ContentItemID:  req.ContentItemID,
		UserIdentifier: strings.TrimSpace(req.UserIdentifier),
		WeekYear:       rating.WeekNumber(c.clock.Now()),
		Rating:         req.Rating,
		Comment:        req.Comment,
	}

	saved, err := c.DS.SaveRating(&r)
	if err != nil {
		if errors.Is(err, datastore.ErrContentItemNotFound) {
			return c.HandleError(ctx, err, "Content item not found", http.StatusNotFound)
		}
		if c.metrics != nil {
			c.metrics.Board.RecordRatingOperation("save", "error")
		}
		return c.HandleError(ctx, err, "Failed to save rating", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Board.RecordRatingOperation("save", "success")
	}
	c.logAPIRequest(ctx, slog.LevelInfo, "Saved rating",
		"item_id", saved.ContentItemID, "week", saved.WeekYear, "rating", saved.Rating)
	return ctx.JSON(http.StatusOK, saved)
}

// DeleteRating removes a rating and recomputes the parent item's rating
// state. Deleting a rating that no longer exists is treated as success.
func (c *Controller) DeleteRating(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.HandleError(ctx, err, "Invalid rating ID", http.StatusBadRequest)
	}

	if err := c.DS.DeleteRating(id); err != nil && !errors.Is(err, datastore.ErrRatingNotFound) {
		if c.metrics != nil {
			c.metrics.Board.RecordRatingOperation("delete", "error")
		}
		return c.HandleError(ctx, err, "Failed to delete rating", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Board.RecordRatingOperation("delete", "success")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}

// GetUserRating returns the rating a user submitted for an item in the
// current week, or {"exists": false} when none was submitted yet.
func (c *Controller) GetUserRating(ctx echo.Context) error {
	contentID := ctx.QueryParam("contentId")
	userID := ctx.QueryParam("userId")

	var errs []string
	if _, err := uuid.Parse(contentID); err != nil {
		errs = append(errs, "contentId must be a valid UUID")
	}
	if strings.TrimSpace(userID) == "" {
		errs = append(errs, "userId is required")
	}
	if len(errs) > 0 {
		return c.HandleValidationErrors(ctx, errs)
	}

	week := rating.WeekNumber(c.clock.Now())
	r, err := c.DS.GetUserRatingForWeek(contentID, userID, week)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get user rating", http.StatusInternalServerError)
	}
	if r == nil {
		return ctx.JSON(http.StatusOK, map[string]any{"exists": false})
	}
	return ctx.JSON(http.StatusOK, map[string]any{"exists": true, "rating": r})
}

// GetPublicationQueue returns all publication eligible items still awaiting
// review, best rated first.
func (c *Controller) GetPublicationQueue(ctx echo.Context) error {
	items, err := c.DS.GetPublicationQueue()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get publication queue", http.StatusInternalServerError)
	}
	if c.metrics != nil {
		c.metrics.Board.SetPublicationQueueSize(len(items))
	}
	return ctx.JSON(http.StatusOK, items)
}

// markForPublicationRequest carries the item to advance to Scheduled.
type markForPublicationRequest struct {
	ContentItemID string `json:"content_item_id"`
}

// MarkForPublication advances an item from the publication queue to the
// Scheduled status. Ratings and eligibility are left untouched, the item
// drops out of the queue because its status is no longer PendingReview.
func (c *Controller) MarkForPublication(ctx echo.Context) error {
	var req markForPublicationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if _, err := uuid.Parse(req.ContentItemID); err != nil {
		return c.HandleValidationErrors(ctx, []string{"content_item_id must be a valid UUID"})
	}

	item, err := c.DS.GetContentItem(req.ContentItemID)
	if err != nil {
		if errors.Is(err, datastore.ErrContentItemNotFound) {
			return c.HandleError(ctx, err, "Content item not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get content item", http.StatusInternalServerError)
	}

	next, err := workflow.Transition(workflow.Status(item.Status), string(workflow.StatusScheduled))
	if err != nil {
		return c.HandleValidationErrors(ctx, []string{err.Error()})
	}
	item.Status = string(next)

	if err := c.DS.UpdateContentItem(&item); err != nil {
		return c.HandleError(ctx, err, "Failed to update content item", http.StatusInternalServerError)
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Marked item for publication",
		"item_id", item.ID, "average_rating", fmt.Sprintf("%.2f", item.AverageRating))
	return ctx.JSON(http.StatusOK, item)
}
