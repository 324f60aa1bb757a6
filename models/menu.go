package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MenuCollection = "menu_items"

type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Category    string             `bson:"category" json:"category" binding:"required"`
	Description *string            `bson:"description" json:"description"`
	Price       *float64           `bson:"price" json:"price" binding:"required,finite,gte=0"`
	Veg         bool               `bson:"veg" json:"veg"`
	SpicyLevel  *int               `bson:"spicy_level" json:"spicy_level" binding:"omitempty,min=0,max=5"`
	Image       *string            `bson:"image" json:"image"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedAt   time.Time          `bson:"created_at" json:"-"`
}

// Prepare fills server-side fields before insert.
func (m *MenuItem) Prepare(now time.Time) {
	if m.Tags == nil {
		m.Tags = []string{}
	}
	m.CreatedAt = now.UTC()
}
