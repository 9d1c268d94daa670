package oauthstate_test

import (
	"testing"
	"time"

	"github.com/asilitravel/safarihub/internal/app/store/oauthstate"
	"github.com/asilitravel/safarihub/internal/testutil"
)

func TestValidate_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Save(ctx, "state-abc", "/sw/tours/serengeti", "sw", time.Now().Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	dest, loc, ok, err := store.Validate(ctx, "state-abc")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !ok {
		t.Fatal("expected state to validate")
	}
	if dest != "/sw/tours/serengeti" {
		t.Errorf("destination: got %q", dest)
	}
	if loc != "sw" {
		t.Errorf("locale: got %q", loc)
	}
}

func TestValidate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-once", "/en/account/dashboard", "en", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, _, ok, err := store.Validate(ctx, "state-once")
	if err != nil || !ok {
		t.Fatalf("first Validate: ok=%v err=%v", ok, err)
	}

	_, _, ok, err = store.Validate(ctx, "state-once")
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if ok {
		t.Error("expected replayed state to be rejected")
	}
}

func TestValidate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-old", "/en", "en", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, _, ok, err := store.Validate(ctx, "state-old")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok {
		t.Error("expected expired state to be rejected")
	}
}

func TestValidate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _, ok, err := store.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok {
		t.Error("expected unknown state to be rejected")
	}
}

func TestCleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-live", "/en", "en", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save live: %v", err)
	}
	if err := store.Save(ctx, "state-dead", "/en", "en", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save dead: %v", err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("removed: got %d, want 1", n)
	}

	_, _, ok, err := store.Validate(ctx, "state-live")
	if err != nil || !ok {
		t.Errorf("live state should survive cleanup: ok=%v err=%v", ok, err)
	}
}
