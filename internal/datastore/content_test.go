// content_test.go: integration tests for content item persistence.
//
// These tests use real SQLite databases (not mocks) to exercise actual GORM
// behavior, including the board read order and the reorder bulk write.
package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(title string) *ContentItem {
	return &ContentItem{
		Title:       title,
		Description: "test description",
		Platform:    []string{"LinkedIn"},
		Status:      "Inbox",
	}
}

func TestContentItemRoundTrip(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	original := newTestItem("Quarterly hiring update")
	require.NoError(t, ds.CreateContentItem(original))
	require.NotEmpty(t, original.ID, "ID should be generated on create")

	loaded, err := ds.GetContentItem(original.ID)
	require.NoError(t, err)

	assert.Equal(t, original.Title, loaded.Title)
	assert.Equal(t, original.Description, loaded.Description)
	assert.Equal(t, []string{"LinkedIn"}, loaded.Platform)
	assert.Equal(t, "Inbox", loaded.Status)
	assert.Nil(t, loaded.SortOrder, "sort_order starts unset")
	assert.Zero(t, loaded.AverageRating)
	assert.Zero(t, loaded.TotalRatings)
	assert.False(t, loaded.PublicationEligible)
}

func TestGetContentItemNotFound(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	_, err := ds.GetContentItem("11111111-2222-3333-4444-555555555555")
	assert.ErrorIs(t, err, ErrContentItemNotFound)
}

func TestUpdateContentItem(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Draft")
	require.NoError(t, ds.CreateContentItem(item))

	postURL := "https://example.com/post/1"
	item.Title = "Published draft"
	item.Status = "Done"
	item.PostURL = &postURL
	require.NoError(t, ds.UpdateContentItem(item))

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Published draft", loaded.Title)
	assert.Equal(t, "Done", loaded.Status)
	require.NotNil(t, loaded.PostURL)
	assert.Equal(t, postURL, *loaded.PostURL)
}

func TestUpdateContentItemClearsOptionalFields(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	postURL := "https://example.com/post/2"
	item := newTestItem("With URL")
	item.PostURL = &postURL
	require.NoError(t, ds.CreateContentItem(item))

	item.PostURL = nil
	require.NoError(t, ds.UpdateContentItem(item))

	loaded, err := ds.GetContentItem(item.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.PostURL, "nil optional field must be written back as NULL")
}

func TestUpdateContentItemNotFound(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	item := newTestItem("Ghost")
	item.ID = "11111111-2222-3333-4444-555555555555"
	assert.ErrorIs(t, ds.UpdateContentItem(item), ErrContentItemNotFound)
}

func TestDeleteContentItemCascadesRatings(t *testing.T) {
	t.Parallel()

	settings := createTestSettings(t)
	ds := createDatabase(t, settings)

	item := newTestItem("To delete")
	require.NoError(t, ds.CreateContentItem(item))

	_, err := ds.SaveRating(&ContentRating{
		ContentItemID:  item.ID,
		UserIdentifier: "alice",
		WeekYear:       10,
		Rating:         4,
	})
	require.NoError(t, err)

	require.NoError(t, ds.DeleteContentItem(item.ID))

	_, err = ds.GetContentItem(item.ID)
	assert.ErrorIs(t, err, ErrContentItemNotFound)

	ratings, err := ds.GetRatingsForContent(item.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings, "ratings must be deleted with their item")
}

func TestDeleteContentItemNotFound(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))
	assert.ErrorIs(t, ds.DeleteContentItem("11111111-2222-3333-4444-555555555555"), ErrContentItemNotFound)
}

func TestReorderContentItems(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	a := newTestItem("A")
	b := newTestItem("B")
	c := newTestItem("C")
	for _, item := range []*ContentItem{a, b, c} {
		require.NoError(t, ds.CreateContentItem(item))
	}

	// Reorder to C, A, B with sparse keys
	require.NoError(t, ds.ReorderContentItems([]ItemOrder{
		{ID: c.ID, SortOrder: 1000},
		{ID: a.ID, SortOrder: 2000},
		{ID: b.ID, SortOrder: 3000},
	}))

	items, err := ds.GetAllContentItems("")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, 1000, *items[0].SortOrder)
	assert.Equal(t, 2000, *items[1].SortOrder)
	assert.Equal(t, 3000, *items[2].SortOrder)
}

func TestBoardOrderUnkeyedItemsSortLast(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	keyed := newTestItem("Keyed")
	unkeyedFirst := newTestItem("Unkeyed first")
	unkeyedSecond := newTestItem("Unkeyed second")

	require.NoError(t, ds.CreateContentItem(unkeyedFirst))
	require.NoError(t, ds.CreateContentItem(unkeyedSecond))
	require.NoError(t, ds.CreateContentItem(keyed))
	require.NoError(t, ds.ReorderContentItems([]ItemOrder{{ID: keyed.ID, SortOrder: 1000}}))

	items, err := ds.GetAllContentItems("")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, keyed.ID, items[0].ID, "keyed item sorts before key-less items")
	assert.Equal(t, unkeyedFirst.ID, items[1].ID, "key-less items fall back to creation order")
	assert.Equal(t, unkeyedSecond.ID, items[2].ID)
}

func TestGetAllContentItemsDepartmentFilter(t *testing.T) {
	t.Parallel()

	ds := createDatabase(t, createTestSettings(t))

	tech := "Technology"
	ops := "Operations"

	a := newTestItem("Tech post")
	a.Department = &tech
	b := newTestItem("Ops post")
	b.Department = &ops
	require.NoError(t, ds.CreateContentItem(a))
	require.NoError(t, ds.CreateContentItem(b))

	items, err := ds.GetAllContentItems("Technology")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
}
