package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ReservationCollection = "reservations"

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name            string             `bson:"name" json:"name" binding:"required"`
	Phone           string             `bson:"phone" json:"phone" binding:"required"`
	Email           *string            `bson:"email" json:"email" binding:"omitempty,email"`
	Date            string             `bson:"date" json:"date" binding:"required,calendar_date"`
	Time            string             `bson:"time" json:"time" binding:"required,clock_time"`
	Guests          int                `bson:"guests" json:"guests" binding:"required,min=1,max=20"`
	SpecialRequests *string            `bson:"special_requests" json:"special_requests"`
	Status          string             `bson:"status" json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	CreatedAt       time.Time          `bson:"created_at" json:"-"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"-"`
}

// Prepare sets timestamps. New reservations always start pending.
func (r *Reservation) Prepare(now time.Time) {
	r.Status = ReservationPending
	r.CreatedAt = now.UTC()
	r.UpdatedAt = r.CreatedAt
}

type ReservationStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}
