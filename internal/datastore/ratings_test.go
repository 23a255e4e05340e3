// ratings_test.go: integration tests for rating persistence and the
// derived-field recomputation that runs with every rating write.
package datastore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitRating(t *testing.T, ds Interface, itemID, user string, week, value int) *ContentRating {
	t.Helper()
	saved, err := ds.SaveRating(&ContentRating{
		ContentItemID:  itemID,
		UserIdentifier: user,
		WeekYear:       week,
		Rating:         value,
	})
	require.NoError(t, err)
	return saved
}

func TestSaveRatingRecomputesDerivedFields(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Rated post")
	require.NoError(t, ds.CreateContentItem(item))

	submitRating(t, ds, item.ID, "alice", 10, 5)
	submitRating(t, ds, item.ID, "bob", 10, 5)

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, loaded.AverageRating, 1e-9)
	assert.Equal(t, int64(2), loaded.TotalRatings)
	assert.False(t, loaded.PublicationEligible, "two ratings are below the count threshold")

	submitRating(t, ds, item.ID, "carol", 10, 3)

	loaded, err = ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, loaded.AverageRating, 1e-9)
	assert.Equal(t, int64(3), loaded.TotalRatings)
	assert.True(t, loaded.PublicationEligible)
}

func TestSaveRatingSameWeekUpdatesInPlace(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Weekly dedup")
	require.NoError(t, ds.CreateContentItem(item))

	first := submitRating(t, ds, item.ID, "alice", 7, 2)
	second := submitRating(t, ds, item.ID, "alice", 7, 5)

	assert.Equal(t, first.ID, second.ID, "resubmission in the same week updates the existing row")

	ratings, err := ds.GetRatingsForContent(item.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1, "total_ratings must not increase on resubmission")
	assert.Equal(t, 5, ratings[0].Rating)

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.TotalRatings)
	assert.InDelta(t, 5.0, loaded.AverageRating, 1e-9)
}

func TestSaveRatingDifferentWeekCreatesNewRow(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Weekly rows")
	require.NoError(t, ds.CreateContentItem(item))

	first := submitRating(t, ds, item.ID, "alice", 7, 4)
	second := submitRating(t, ds, item.ID, "alice", 8, 2)

	assert.NotEqual(t, first.ID, second.ID, "a new week creates an independent row")

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.TotalRatings)
	assert.InDelta(t, 3.0, loaded.AverageRating, 1e-9)
}

func TestSaveRatingUnknownItem(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	_, err := ds.SaveRating(&ContentRating{
		ContentItemID:  "11111111-2222-3333-4444-555555555555",
		UserIdentifier: "alice",
		WeekYear:       1,
		Rating:         5,
	})
	assert.ErrorIs(t, err, ErrContentItemNotFound)
}

func TestDeleteRatingRecomputes(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Recompute on delete")
	require.NoError(t, ds.CreateContentItem(item))

	submitRating(t, ds, item.ID, "alice", 10, 5)
	submitRating(t, ds, item.ID, "bob", 10, 5)
	low := submitRating(t, ds, item.ID, "carol", 10, 3)

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.True(t, loaded.PublicationEligible)

	require.NoError(t, ds.DeleteRating(low.ID))

	loaded, err = ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, loaded.AverageRating, 1e-9)
	assert.Equal(t, int64(2), loaded.TotalRatings)
	assert.False(t, loaded.PublicationEligible, "dropping below the count threshold revokes eligibility")
}

func TestDeleteRatingNotFound(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))
	assert.ErrorIs(t, ds.DeleteRating("11111111-2222-3333-4444-555555555555"), ErrRatingNotFound)
}

func TestGetUserRatingForWeek(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("User lookup")
	require.NoError(t, ds.CreateContentItem(item))

	submitRating(t, ds, item.ID, "alice", 12, 4)

	found, err := ds.GetUserRatingForWeek(item.ID, "alice", 12)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 4, found.Rating)

	missing, err := ds.GetUserRatingForWeek(item.ID, "alice", 13)
	require.NoError(t, err)
	assert.Nil(t, missing, "a different week has no rating")
}

func TestGetPublicationQueue(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	eligible := newTestItem("Eligible and pending")
	eligible.Status = "PendingReview"
	require.NoError(t, ds.CreateContentItem(eligible))

	best := newTestItem("Best rated")
	best.Status = "PendingReview"
	require.NoError(t, ds.CreateContentItem(best))

	scheduled := newTestItem("Eligible but scheduled")
	scheduled.Status = "Scheduled"
	require.NoError(t, ds.CreateContentItem(scheduled))

	for _, user := range []string{"alice", "bob", "carol"} {
		submitRating(t, ds, eligible.ID, user, 10, 4)
		submitRating(t, ds, best.ID, user, 10, 5)
		submitRating(t, ds, scheduled.ID, user, 10, 5)
	}

	queue, err := ds.GetPublicationQueue()
	require.NoError(t, err)
	require.Len(t, queue, 2, "items outside PendingReview never enter the queue")
	assert.Equal(t, best.ID, queue[0].ID, "queue is ordered by average rating descending")
	assert.Equal(t, eligible.ID, queue[1].ID)
}

func TestConcurrentRatingWritesStayConsistent(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Concurrent ratings")
	require.NoError(t, ds.CreateContentItem(item))

	users := []string{"u1", "u2", "u3", "u4", "u5"}
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := ds.SaveRating(&ContentRating{
				ContentItemID:  item.ID,
				UserIdentifier: user,
				WeekYear:       20,
				Rating:         4,
			})
			assert.NoError(t, err)
		}(user)
	}
	wg.Wait()

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(users)), loaded.TotalRatings)
	assert.InDelta(t, 4.0, loaded.AverageRating, 1e-9)
	assert.True(t, loaded.PublicationEligible)
}
