package controllers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/kokum-coast/controllers"
	"github.com/yeremiapane/kokum-coast/models"
)

func TestReviewsEndpoints(t *testing.T) {
	store := setupTestStore(t)
	r := newRouter()
	ctrl := controllers.NewReviewController(store)
	r.GET("/reviews", ctrl.GetReviews)
	r.POST("/reviews/seed", ctrl.SeedReviews)

	w := doJSON(t, r, http.MethodGet, "/reviews", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/reviews/seed", nil)
	assert.JSONEq(t, `{"inserted":3}`, w.Body.String())
	w = doJSON(t, r, http.MethodPost, "/reviews/seed", nil)
	assert.JSONEq(t, `{"message":"Reviews already exist"}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/reviews", nil)
	reviews := decodeList(t, w)
	require.Len(t, reviews, 3)
	for _, rv := range reviews {
		assert.Contains(t, rv, "id")
		assert.Contains(t, rv, "created_at")
	}
}

func TestGetReviewsReturnsLatestTwenty(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		rv := models.Review{Name: "Guest", Rating: 4, Comment: "Good"}
		rv.Prepare(base.Add(time.Duration(i) * time.Hour))
		_, err := store.Collection(models.ReviewCollection).InsertOne(ctx, &rv)
		require.NoError(t, err)
	}

	r := newRouter()
	r.GET("/reviews", controllers.NewReviewController(store).GetReviews)

	reviews := decodeList(t, doJSON(t, r, http.MethodGet, "/reviews", nil))
	require.Len(t, reviews, 20)
	assert.Equal(t, "2024-05-02T00:00:00Z", reviews[0]["created_at"])
	assert.Equal(t, "2024-05-01T05:00:00Z", reviews[19]["created_at"])
}

func TestInfoEndpoints(t *testing.T) {
	store := setupTestStore(t)
	r := newRouter()
	info := controllers.NewInfoController(store)
	r.GET("/", info.Root)
	r.GET("/api/info", info.GetInfo)
	r.GET("/api/health", info.Health)

	w := doJSON(t, r, http.MethodGet, "/", nil)
	assert.JSONEq(t, `{"message":"Kokum & Coast API running"}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "+91-22-4000-1234", body["phone"])
	assert.Len(t, body["hours"], 7)

	_, err := store.Collection(models.MenuCollection).InsertOne(context.Background(), map[string]interface{}{"name": "Chai"})
	require.NoError(t, err)
	w = doJSON(t, r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"kokum_test","collections":["menu_items"]}`, w.Body.String())

	require.NoError(t, store.Close(context.Background()))
	w = doJSON(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"database error`)
}
