package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses. Payment capture is handled by an external provider,
// so this subsystem only moves bookings between these coarse states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking item kinds.
const (
	BookingKindTour = "tour"
	BookingKindStay = "stay"
)

// Booking links a profile to a tour or stay.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Reference string             `bson:"reference"` // human-facing, unique
	ProfileID primitive.ObjectID `bson:"profile_id"`

	Kind     string             `bson:"kind"` // tour | stay
	ItemID   primitive.ObjectID `bson:"item_id"`
	ItemName string             `bson:"item_name"` // denormalized for listings

	Travelers int       `bson:"travelers"`
	StartDate time.Time `bson:"start_date"`
	Status    string    `bson:"status"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
