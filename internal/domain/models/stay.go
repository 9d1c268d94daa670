package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stay is a bookable accommodation (lodge, camp, hotel).
type Stay struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Slug          string             `bson:"slug"`
	Name          string             `bson:"name"`
	NameCI        string             `bson:"name_ci"`
	Summary       string             `bson:"summary"`
	BodyHTML      string             `bson:"body_html"` // sanitized CMS content
	Region        string             `bson:"region"`
	NightlyUSD    int                `bson:"nightly_usd"`
	HeroURL       string             `bson:"hero_url,omitempty"`
	Status        string             `bson:"status"` // active | draft | retired

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
