package bookings_test

import (
	"strings"
	"testing"
	"time"

	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/asilitravel/safarihub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_AssignsReferenceAndPendingStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Asha", "asha@example.com")
	tour := fixtures.CreateTour(ctx, "serengeti-classic", "Serengeti Classic")

	b, err := fixtures.Bookings.Create(ctx, models.Booking{
		ProfileID: member.ID,
		Kind:      models.BookingKindTour,
		ItemID:    tour.ID,
		ItemName:  tour.Title,
		Travelers: 2,
		StartDate: time.Now().AddDate(0, 2, 0),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(b.Reference, "SB-") {
		t.Errorf("reference: got %q, want SB- prefix", b.Reference)
	}
	if b.Status != models.BookingPending {
		t.Errorf("status: got %q, want %q", b.Status, models.BookingPending)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Asha", "asha@example.com")
	tour := fixtures.CreateTour(ctx, "serengeti-classic", "Serengeti Classic")

	base := models.Booking{
		ProfileID: member.ID,
		Kind:      models.BookingKindTour,
		ItemID:    tour.ID,
		ItemName:  tour.Title,
		Travelers: 2,
		StartDate: time.Now().AddDate(0, 2, 0),
	}

	bad := base
	bad.Kind = "cruise"
	if _, err := fixtures.Bookings.Create(ctx, bad); err == nil {
		t.Error("expected error for unknown kind")
	}

	bad = base
	bad.Travelers = 0
	if _, err := fixtures.Bookings.Create(ctx, bad); err == nil {
		t.Error("expected error for zero travelers")
	}

	bad = base
	bad.StartDate = time.Now().AddDate(0, 0, -1)
	if _, err := fixtures.Bookings.Create(ctx, bad); err == nil {
		t.Error("expected error for past start date")
	}
}

func TestListByProfile_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Asha", "asha@example.com")
	other := fixtures.CreateMember(ctx, "Juma", "juma@example.com")
	tour := fixtures.CreateTour(ctx, "serengeti-classic", "Serengeti Classic")

	first := fixtures.CreateBooking(ctx, member, tour)
	time.Sleep(5 * time.Millisecond)
	second := fixtures.CreateBooking(ctx, member, tour)
	fixtures.CreateBooking(ctx, other, tour)

	got, err := fixtures.Bookings.ListByProfile(ctx, member.ID)
	if err != nil {
		t.Fatalf("ListByProfile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bookings, want 2", len(got))
	}
	if got[0].Reference != second.Reference || got[1].Reference != first.Reference {
		t.Errorf("order: got [%s %s], want [%s %s]",
			got[0].Reference, got[1].Reference, second.Reference, first.Reference)
	}
}

func TestCancel_OwnBookingOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Asha", "asha@example.com")
	other := fixtures.CreateMember(ctx, "Juma", "juma@example.com")
	tour := fixtures.CreateTour(ctx, "serengeti-classic", "Serengeti Classic")
	b := fixtures.CreateBooking(ctx, member, tour)

	if err := fixtures.Bookings.Cancel(ctx, other.ID, b.Reference); err != mongo.ErrNoDocuments {
		t.Errorf("cancel by non-owner: got %v, want ErrNoDocuments", err)
	}

	if err := fixtures.Bookings.Cancel(ctx, member.ID, b.Reference); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	got, err := fixtures.Bookings.GetByReference(ctx, b.Reference)
	if err != nil {
		t.Fatalf("GetByReference: %v", err)
	}
	if got.Status != models.BookingCancelled {
		t.Errorf("status: got %q, want %q", got.Status, models.BookingCancelled)
	}
}
