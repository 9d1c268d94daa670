package profiles

import (
	"context"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher implements auth.ProfileFetcher so each request carries fresh
// profile data: role changes and deletions take effect immediately.
type Fetcher struct {
	c *mongo.Collection
}

// NewFetcher creates a ProfileFetcher backed by the profiles collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{c: db.Collection("profiles")}
}

// FetchUser returns the session user for a profile id, or nil if the
// profile is missing, the id is malformed, or the lookup fails. A nil
// return degrades the request to unauthenticated.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var p struct {
		Subject     string `bson:"subject"`
		Email       string `bson:"email"`
		DisplayName string `bson:"display_name"`
		Role        string `bson:"role"`
	}
	if err := f.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil
	}

	return &auth.SessionUser{
		ID:      userID,
		Subject: p.Subject,
		Name:    p.DisplayName,
		Email:   p.Email,
		Role:    p.Role,
	}
}
