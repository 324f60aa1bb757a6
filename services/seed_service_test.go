package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
)

func TestSeedMenuIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seeder := NewSeedService(store)

	res, err := seeder.SeedMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Inserted: 6}, res)

	res, err = seeder.SeedMenu(ctx)
	require.NoError(t, err)
	assert.True(t, res.AlreadySeeded)
	assert.Zero(t, res.Inserted)

	n, err := store.Collection(models.MenuCollection).CountDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

func TestSeedMenuContents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := NewSeedService(store).SeedMenu(ctx)
	require.NoError(t, err)

	cur, err := store.Collection(models.MenuCollection).Find(ctx, bson.M{"category": "Beverages"}, database.FindOptions{
		Sort: bson.D{{Key: "name", Value: 1}},
	})
	require.NoError(t, err)
	var items []models.MenuItem
	require.NoError(t, cur.All(ctx, &items))

	require.Len(t, items, 2)
	assert.Equal(t, "Masala Chai", items[0].Name)
	assert.Equal(t, "Sol Kadhi", items[1].Name)
	assert.Equal(t, 180.0, *items[1].Price)
	assert.True(t, items[1].Veg)
	assert.Equal(t, []string{"kokum", "refresh"}, items[1].Tags)
	assert.False(t, items[1].CreatedAt.IsZero())
}

func TestSeedMenuSkipsNonEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	item := models.MenuItem{Name: "House Special", Category: "Mains", Price: ptr(650.0)}
	item.Prepare(testNow)
	_, err := store.Collection(models.MenuCollection).InsertOne(ctx, &item)
	require.NoError(t, err)

	res, err := NewSeedService(store).SeedMenu(ctx)
	require.NoError(t, err)
	assert.True(t, res.AlreadySeeded)

	n, err := store.Collection(models.MenuCollection).CountDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSeedReviews(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seeder := NewSeedService(store)

	res, err := seeder.SeedReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)

	res, err = seeder.SeedReviews(ctx)
	require.NoError(t, err)
	assert.True(t, res.AlreadySeeded)

	// Reviews and menu are seeded independently.
	res, err = seeder.SeedMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Inserted)
}

func TestSampleDataPassesValidation(t *testing.T) {
	for _, item := range SampleMenu() {
		item := item
		assert.NoError(t, models.Validate(&item), item.Name)
	}
	for _, review := range SampleReviews() {
		review := review
		assert.NoError(t, models.Validate(&review), review.Name)
	}
}
