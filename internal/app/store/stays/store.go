package stays

import (
	"context"
	"time"

	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sanitizer = bluemonday.UGCPolicy()

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("stays")}
}

// ListActive returns active stays sorted by name.
func (s *Store) ListActive(ctx context.Context) ([]models.Stay, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": "active"},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Stay
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug loads a single active stay.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Stay, error) {
	var st models.Stay
	if err := s.c.FindOne(ctx, bson.M{"slug": slug, "status": "active"}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetByID loads a stay regardless of status. Used by the booking flow.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Stay, error) {
	var st models.Stay
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Upsert writes a stay record keyed by slug, sanitizing the body HTML.
func (s *Store) Upsert(ctx context.Context, st models.Stay) error {
	st.NameCI = text.Fold(st.Name)
	st.BodyHTML = sanitizer.Sanitize(st.BodyHTML)
	if st.Status == "" {
		st.Status = "active"
	}
	now := time.Now().UTC()

	_, err := s.c.UpdateOne(ctx,
		bson.M{"slug": st.Slug},
		bson.M{
			"$set": bson.M{
				"name":        st.Name,
				"name_ci":     st.NameCI,
				"summary":     st.Summary,
				"body_html":   st.BodyHTML,
				"region":      st.Region,
				"nightly_usd": st.NightlyUSD,
				"hero_url":    st.HeroURL,
				"status":      st.Status,
				"updated_at":  now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Count returns the number of active stays.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": "active"})
}
