package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos/testutil"
	"github.com/lunacare/lunacare-backend/internal/domain"
)

func TestProfileRepoEnsure(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProfileRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "profilerepo@example.com")
	defaults := domain.DefaultProfile()

	created, err := repo.Ensure(ctx, tx, u.Identity(), defaults)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if created == nil {
		t.Fatal("Ensure returned nil profile")
	}
	if created.UserID != u.ID {
		t.Fatalf("UserID = %s, want %s", created.UserID, u.ID)
	}
	if created.DisplayName != "Ada" {
		t.Fatalf("DisplayName = %q, want identity name", created.DisplayName)
	}
	if created.Email != u.Email {
		t.Fatalf("Email = %q, want %q", created.Email, u.Email)
	}
	if created.AverageCycleLength != 28 {
		t.Fatalf("AverageCycleLength = %d, want 28", created.AverageCycleLength)
	}
	if !created.Preferences.Notifications {
		t.Fatal("Notifications should default on")
	}
	if created.Preferences.ReminderDays != 3 {
		t.Fatalf("ReminderDays = %d, want 3", created.Preferences.ReminderDays)
	}

	// Second Ensure must not touch the row, even after an edit.
	name := "Changed"
	cycleLen := 31
	if err := repo.Update(ctx, tx, u.ID, ProfileChanges{DisplayName: &name, AverageCycleLength: &cycleLen}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := repo.Ensure(ctx, tx, u.Identity(), defaults)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if again.DisplayName != "Changed" || again.AverageCycleLength != 31 {
		t.Fatalf("second Ensure re-applied defaults: name=%q len=%d", again.DisplayName, again.AverageCycleLength)
	}
}

func TestProfileRepoEnsureFallsBackToDefaultName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProfileRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "profilenoname@example.com")
	identity := u.Identity()
	identity.DisplayName = ""

	created, err := repo.Ensure(ctx, tx, identity, domain.DefaultProfile())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if created.DisplayName != "Luna Care User" {
		t.Fatalf("DisplayName = %q, want default", created.DisplayName)
	}
}

func TestProfileRepoGetMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProfileRepo(db, testutil.Logger(t))

	got, err := repo.Get(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("Get = %+v, want nil for missing profile", got)
	}

	if _, err := repo.Get(ctx, tx, uuid.Nil); err != ErrMissingID {
		t.Fatalf("Get with nil id: err=%v, want ErrMissingID", err)
	}
}
