package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/services"
	"github.com/yeremiapane/kokum-coast/utils"
)

const latestReviews = 20

type ReviewController struct {
	Store  database.Store
	Seeder *services.SeedService
}

func NewReviewController(store database.Store) *ReviewController {
	return &ReviewController{Store: store, Seeder: services.NewSeedService(store)}
}

func (rc *ReviewController) GetReviews(c *gin.Context) {
	ctx := c.Request.Context()
	cur, err := rc.Store.Collection(models.ReviewCollection).Find(ctx, bson.M{}, database.FindOptions{
		Sort:  bson.D{{Key: "created_at", Value: -1}},
		Limit: latestReviews,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	docs, err := database.DecodeAll(ctx, cur)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SerializeDocs(docs))
}

// SeedReviews (admin)
func (rc *ReviewController) SeedReviews(c *gin.Context) {
	res, err := rc.Seeder.SeedReviews(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if res.AlreadySeeded {
		c.JSON(http.StatusOK, gin.H{"message": "Reviews already exist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": res.Inserted})
}
