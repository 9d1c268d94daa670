package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asilitravel/safarihub/internal/app/store/bookings"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/asilitravel/safarihub/internal/app/store/stays"
	"github.com/asilitravel/safarihub/internal/app/store/tours"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures creates test records through the real stores so test data
// goes through the same normalization as production writes.
type Fixtures struct {
	t        *testing.T
	Profiles *profiles.Store
	Tours    *tours.Store
	Stays    *stays.Store
	Bookings *bookings.Store
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:        t,
		Profiles: profiles.New(db),
		Tours:    tours.New(db),
		Stays:    stays.New(db),
		Bookings: bookings.New(db),
	}
}

// CreateMember inserts a member profile.
func (f *Fixtures) CreateMember(ctx context.Context, name, email string) models.Profile {
	f.t.Helper()
	p, err := f.Profiles.Create(ctx, models.Profile{
		Subject:     "test-sub-" + email,
		Email:       email,
		DisplayName: name,
		Role:        models.RoleMember,
	})
	if err != nil {
		f.t.Fatalf("CreateMember: %v", err)
	}
	return p
}

// CreateAdmin inserts a profile with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.Profile {
	f.t.Helper()
	p, err := f.Profiles.Create(ctx, models.Profile{
		Subject:     "test-sub-" + email,
		Email:       email,
		DisplayName: name,
		Role:        models.RoleAdmin,
	})
	if err != nil {
		f.t.Fatalf("CreateAdmin: %v", err)
	}
	return p
}

// CreateTour inserts an active tour and reads it back.
func (f *Fixtures) CreateTour(ctx context.Context, slug, title string) models.Tour {
	f.t.Helper()
	err := f.Tours.Upsert(ctx, models.Tour{
		Slug:     slug,
		Title:    title,
		Summary:  "A test tour",
		Region:   "serengeti",
		Days:     5,
		PriceUSD: 1200,
	})
	if err != nil {
		f.t.Fatalf("CreateTour: %v", err)
	}
	t, err := f.Tours.GetBySlug(ctx, slug)
	if err != nil {
		f.t.Fatalf("CreateTour read back: %v", err)
	}
	return *t
}

// CreateStay inserts an active stay and reads it back.
func (f *Fixtures) CreateStay(ctx context.Context, slug, name string) models.Stay {
	f.t.Helper()
	err := f.Stays.Upsert(ctx, models.Stay{
		Slug:       slug,
		Name:       name,
		Summary:    "A test stay",
		Region:     "ngorongoro",
		NightlyUSD: 300,
	})
	if err != nil {
		f.t.Fatalf("CreateStay: %v", err)
	}
	st, err := f.Stays.GetBySlug(ctx, slug)
	if err != nil {
		f.t.Fatalf("CreateStay read back: %v", err)
	}
	return *st
}

// CreateBooking inserts a pending booking for a profile and tour.
func (f *Fixtures) CreateBooking(ctx context.Context, profile models.Profile, tour models.Tour) models.Booking {
	f.t.Helper()
	b, err := f.Bookings.Create(ctx, models.Booking{
		ProfileID: profile.ID,
		Kind:      models.BookingKindTour,
		ItemID:    tour.ID,
		ItemName:  tour.Title,
		Travelers: 2,
		StartDate: time.Now().AddDate(0, 1, 0),
	})
	if err != nil {
		f.t.Fatalf("CreateBooking: %v", err)
	}
	return b
}

// UniqueEmail returns an email unlikely to collide across tests in the
// same database.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
