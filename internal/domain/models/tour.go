package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tour is a bookable guided tour in the catalog.
type Tour struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Slug     string             `bson:"slug"`
	Title    string             `bson:"title"`
	TitleCI  string             `bson:"title_ci"`
	Summary  string             `bson:"summary"`
	BodyHTML string             `bson:"body_html"` // sanitized CMS content
	Region   string             `bson:"region"`
	Days     int                `bson:"days"`
	PriceUSD int                `bson:"price_usd"` // whole dollars; conversion is out of scope
	HeroURL  string             `bson:"hero_url,omitempty"`
	Status   string             `bson:"status"` // active | draft | retired

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
