package tours

import (
	"context"
	"errors"
	"time"

	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrBadHeroURL = errors.New("hero URL must be an absolute http(s) URL")
)

// sanitizer strips unsafe markup from CMS-sourced tour bodies. UGC
// policy: basic formatting survives, scripts and handlers do not.
var sanitizer = bluemonday.UGCPolicy()

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tours")}
}

// ListActive returns active tours sorted by title.
func (s *Store) ListActive(ctx context.Context) ([]models.Tour, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": "active"},
		options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Tour
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug loads a single active tour.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var t models.Tour
	if err := s.c.FindOne(ctx, bson.M{"slug": slug, "status": "active"}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID loads a tour regardless of status. Used by the booking flow.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	var t models.Tour
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert writes a tour record keyed by slug, sanitizing the body HTML
// and validating the hero URL. Used by the admin back office and seeds.
func (s *Store) Upsert(ctx context.Context, t models.Tour) error {
	if t.HeroURL != "" && !urlutil.IsValidAbsHTTPURL(t.HeroURL) {
		return ErrBadHeroURL
	}
	t.TitleCI = text.Fold(t.Title)
	t.BodyHTML = sanitizer.Sanitize(t.BodyHTML)
	if t.Status == "" {
		t.Status = "active"
	}
	now := time.Now().UTC()
	t.UpdatedAt = now

	_, err := s.c.UpdateOne(ctx,
		bson.M{"slug": t.Slug},
		bson.M{
			"$set": bson.M{
				"title":     t.Title,
				"title_ci":  t.TitleCI,
				"summary":   t.Summary,
				"body_html": t.BodyHTML,
				"region":    t.Region,
				"days":      t.Days,
				"price_usd": t.PriceUSD,
				"hero_url":  t.HeroURL,
				"status":    t.Status,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Count returns the number of active tours.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": "active"})
}
