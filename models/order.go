package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OrderCollection = "orders"

const (
	OrderReceived  = "received"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// OrderItem is one line of an order. MenuItemID is an opaque reference;
// only its format is checked.
type OrderItem struct {
	MenuItemID *string  `bson:"menu_item_id" json:"menu_item_id" binding:"omitempty,objectid"`
	Name       string   `bson:"name" json:"name" binding:"required"`
	Qty        int      `bson:"qty" json:"qty" binding:"required,min=1"`
	Price      *float64 `bson:"price" json:"price" binding:"required,finite,gte=0"`
}

// Order totals are stored exactly as the client sends them.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Items         []OrderItem        `bson:"items" json:"items" binding:"required,dive"`
	Subtotal      *float64           `bson:"subtotal" json:"subtotal" binding:"required,finite,gte=0"`
	Taxes         *float64           `bson:"taxes" json:"taxes" binding:"required,finite,gte=0"`
	Total         *float64           `bson:"total" json:"total" binding:"required,finite,gte=0"`
	CustomerName  string             `bson:"customer_name" json:"customer_name" binding:"required"`
	CustomerPhone string             `bson:"customer_phone" json:"customer_phone" binding:"required"`
	CustomerEmail *string            `bson:"customer_email" json:"customer_email" binding:"omitempty,email"`
	Address       *string            `bson:"address" json:"address"`
	Notes         *string            `bson:"notes" json:"notes"`
	Status        string             `bson:"status" json:"status" binding:"omitempty,oneof=received preparing ready completed cancelled"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status" binding:"omitempty,oneof=pending paid refunded"`
	CreatedAt     time.Time          `bson:"created_at" json:"-"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"-"`
}

func (o *Order) Prepare(now time.Time) {
	if o.Status == "" {
		o.Status = OrderReceived
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	o.CreatedAt = now.UTC()
	o.UpdatedAt = o.CreatedAt
}

type OrderStatusUpdate struct {
	Status        string  `json:"status" binding:"required,oneof=received preparing ready completed cancelled"`
	PaymentStatus *string `json:"payment_status" binding:"omitempty,oneof=pending paid refunded"`
}
