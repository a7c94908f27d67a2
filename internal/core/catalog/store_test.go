package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{
			ID:           "test-1",
			Name:         "Test Product 1",
			Description:  "Test Description 1",
			Logo:         "https://example.com/logo1.png",
			DateRelease:  "2026-09-01",
			DateRevision: "2027-09-01",
		},
		{
			ID:           "test-2",
			Name:         "Another Product",
			Description:  "Another Description",
			Logo:         "https://example.com/logo2.png",
			DateRelease:  "2026-10-01",
			DateRevision: "2027-10-01",
		},
	}
}

func TestStore_ReplaceAndSnapshot(t *testing.T) {
	store := NewStore()

	assert.Empty(t, store.Snapshot())

	store.Replace(testProducts())

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "test-1", snapshot[0].ID)

	// 返されたスナップショットの変更はストアへ波及しない
	snapshot[0].Name = "mutated"
	assert.Equal(t, "Test Product 1", store.Snapshot()[0].Name)
}

func TestStore_GetByID(t *testing.T) {
	store := NewStore()

	// 未取得のスナップショットはNotFound扱い
	assert.True(t, store.GetByID("test-1").IsAbsent())

	store.Replace(testProducts())

	product, ok := store.GetByID("test-2").Get()
	require.True(t, ok)
	assert.Equal(t, "Another Product", product.Name)

	assert.True(t, store.GetByID("missing").IsAbsent())
}

func TestStore_SubscribeNotifiesOnReplace(t *testing.T) {
	store := NewStore()

	var notified [][]Product
	cancel := store.Subscribe(func(products []Product) {
		notified = append(notified, products)
	})

	store.Replace(testProducts())
	require.Len(t, notified, 1)
	assert.Len(t, notified[0], 2)

	// 購読解除後は通知されない
	cancel()
	store.Replace(nil)
	assert.Len(t, notified, 1)
}
