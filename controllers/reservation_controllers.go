package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/utils"
)

type ReservationController struct {
	Store database.Store
	now   func() time.Time
}

func NewReservationController(store database.Store) *ReservationController {
	return &ReservationController{Store: store, now: time.Now}
}

// CreateReservation is public. New reservations are always pending.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var r models.Reservation
	if !bindJSON(c, &r) {
		return
	}
	r.Prepare(rc.now())

	id, err := rc.Store.Collection(models.ReservationCollection).InsertOne(c.Request.Context(), &r)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": r.Status})
}

// GetReservations (admin), newest first.
func (rc *ReservationController) GetReservations(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cur, err := rc.Store.Collection(models.ReservationCollection).Find(ctx, bson.M{}, database.FindOptions{
		Sort:  bson.D{{Key: "created_at", Value: -1}},
		Limit: limit,
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

// UpdateReservationStatus (admin)
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	filter, ok := idFilter(c)
	if !ok {
		return
	}
	var body models.ReservationStatusUpdate
	if !bindJSON(c, &body) {
		return
	}

	update := bson.M{"$set": bson.M{
		"status":     body.Status,
		"updated_at": rc.now().UTC(),
	}}
	matched, err := rc.Store.Collection(models.ReservationCollection).UpdateOne(c.Request.Context(), filter, update)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if matched == 0 {
		utils.RespondAppError(c, utils.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
