package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errBadKind     = errors.New(`kind must be "tour" or "stay"`)
	errNoTravelers = errors.New("travelers must be at least 1")
	errPastStart   = errors.New("start date must be in the future")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

// EnsureIndexes creates the unique reference index and the per-profile
// listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_booking_reference"),
		},
		{
			Keys:    bson.D{{Key: "profile_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_booking_profile"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a pending booking with a generated reference.
func (s *Store) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	switch b.Kind {
	case models.BookingKindTour, models.BookingKindStay:
	default:
		return models.Booking{}, errBadKind
	}
	if b.Travelers < 1 {
		return models.Booking{}, errNoTravelers
	}
	if !b.StartDate.After(time.Now()) {
		return models.Booking{}, errPastStart
	}

	b.ID = primitive.NewObjectID()
	b.Reference = newReference()
	b.Status = models.BookingPending
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// ListByProfile returns a profile's bookings, newest first.
func (s *Store) ListByProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.Booking, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"profile_id": profileID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByReference loads a booking by its human-facing reference.
func (s *Store) GetByReference(ctx context.Context, ref string) (*models.Booking, error) {
	var b models.Booking
	if err := s.c.FindOne(ctx, bson.M{"reference": ref}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Cancel marks a profile's booking cancelled. The profile filter keeps
// members from cancelling each other's bookings.
func (s *Store) Cancel(ctx context.Context, profileID primitive.ObjectID, ref string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"reference": ref, "profile_id": profileID, "status": bson.M{"$ne": models.BookingCancelled}},
		bson.M{"$set": bson.M{"status": models.BookingCancelled, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListRecent returns the most recent bookings across all profiles.
// Used by the admin dashboard.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Booking, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of bookings.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// newReference builds a short human-facing booking code like "SB-1A2B3C4D".
func newReference() string {
	id := uuid.New()
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "SB-" + hex[:8]
}
