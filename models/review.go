package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ReviewCollection = "reviews"

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name      string             `bson:"name" json:"name" binding:"required"`
	Rating    int                `bson:"rating" json:"rating" binding:"required,min=1,max=5"`
	Comment   string             `bson:"comment" json:"comment" binding:"required"`
	City      *string            `bson:"city" json:"city"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}

func (r *Review) Prepare(now time.Time) {
	r.CreatedAt = now.UTC()
}
