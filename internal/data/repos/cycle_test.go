package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos/testutil"
	"github.com/lunacare/lunacare-backend/internal/domain"
)

func TestCycleRepoRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCycleRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "cyclerepo@example.com")

	start := testutil.Date(t, "2026-03-01")
	end := testutil.Date(t, "2026-03-06")
	created, err := repo.Create(ctx, tx, u.ID, CycleInput{
		StartDate: start,
		EndDate:   testutil.PtrDate(end),
		Flow:      domain.FlowHeavy,
		Symptoms:  []string{"cramps", "headache"},
		Mood:      2,
		Notes:     "rough start",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.LengthDays == nil || *created.LengthDays != 5 {
		t.Fatalf("LengthDays = %v, want 5", created.LengthDays)
	}

	rows, err := repo.ListByOwner(ctx, tx, u.ID, 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListByOwner len = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.Flow != domain.FlowHeavy {
		t.Fatalf("Flow = %q, want %q", got.Flow, domain.FlowHeavy)
	}
	symptoms := []string(got.Symptoms)
	if len(symptoms) != 2 || symptoms[0] != "cramps" || symptoms[1] != "headache" {
		t.Fatalf("Symptoms = %v, order must survive the round trip", symptoms)
	}
	if got.Mood != 2 || got.Notes != "rough start" {
		t.Fatalf("Mood/Notes = %d/%q", got.Mood, got.Notes)
	}
}

func TestCycleRepoListOrderAndLimit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCycleRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "cycleorder@example.com")
	for _, day := range []string{"2026-01-05", "2026-03-02", "2026-02-01"} {
		if _, err := repo.Create(ctx, tx, u.ID, CycleInput{
			StartDate: testutil.Date(t, day),
			Flow:      domain.FlowMedium,
		}); err != nil {
			t.Fatalf("Create %s: %v", day, err)
		}
	}

	rows, err := repo.ListByOwner(ctx, tx, u.ID, 2)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListByOwner len = %d, want limit 2", len(rows))
	}
	first := time.Time(rows[0].StartDate)
	second := time.Time(rows[1].StartDate)
	if !first.After(second) {
		t.Fatalf("order = %v then %v, want newest first", first, second)
	}
	if first.Format("2006-01-02") != "2026-03-02" {
		t.Fatalf("newest = %v, want 2026-03-02", first)
	}
}

func TestCycleRepoEmptyOwner(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCycleRepo(db, testutil.Logger(t))

	rows, err := repo.ListByOwner(ctx, tx, uuid.Nil, 10)
	if err != nil {
		t.Fatalf("ListByOwner with nil owner: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("ListByOwner = %v, want empty non-nil slice", rows)
	}

	if _, err := repo.Create(ctx, tx, uuid.Nil, CycleInput{
		StartDate: testutil.Date(t, "2026-03-01"),
		Flow:      domain.FlowLight,
	}); err != ErrNoAuthenticatedUser {
		t.Fatalf("Create with nil owner: err=%v, want ErrNoAuthenticatedUser", err)
	}
}

func TestCycleRepoRejectsInvalidFlow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCycleRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "cycleflow@example.com")

	if _, err := repo.Create(ctx, tx, u.ID, CycleInput{
		StartDate: testutil.Date(t, "2026-03-01"),
		Flow:      domain.Flow("torrential"),
	}); err == nil {
		t.Fatal("Create accepted an invalid flow intensity")
	}
}
