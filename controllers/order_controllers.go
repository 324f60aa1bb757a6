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

type OrderController struct {
	Store database.Store
	now   func() time.Time
}

func NewOrderController(store database.Store) *OrderController {
	return &OrderController{Store: store, now: time.Now}
}

// CreateOrder is public. Subtotal, taxes and total are stored as sent.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var order models.Order
	if !bindJSON(c, &order) {
		return
	}
	order.Prepare(oc.now())

	id, err := oc.Store.Collection(models.OrderCollection).InsertOne(c.Request.Context(), &order)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.InfoLogger.WithField("order_id", id).Info("order received")
	c.JSON(http.StatusOK, gin.H{"id": id, "status": order.Status})
}

// GetOrders (admin), newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cur, err := oc.Store.Collection(models.OrderCollection).Find(ctx, bson.M{}, database.FindOptions{
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

// UpdateOrderStatus (admin). payment_status changes only when sent.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	filter, ok := idFilter(c)
	if !ok {
		return
	}
	var body models.OrderStatusUpdate
	if !bindJSON(c, &body) {
		return
	}

	set := bson.M{
		"status":     body.Status,
		"updated_at": oc.now().UTC(),
	}
	if body.PaymentStatus != nil {
		set["payment_status"] = *body.PaymentStatus
	}

	matched, err := oc.Store.Collection(models.OrderCollection).UpdateOne(c.Request.Context(), filter, bson.M{"$set": set})
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
