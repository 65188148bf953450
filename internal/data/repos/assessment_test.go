package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos/testutil"
	"github.com/lunacare/lunacare-backend/internal/domain"
)

func TestAssessmentRepoCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssessmentRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "assessmentrepo@example.com")

	input := domain.AssessmentInput{
		Age:          29,
		Weight:       62,
		Height:       168,
		BMI:          21.97,
		CycleRegular: true,
		HairGrowth:   true,
		FastFood:     true,
	}
	result := domain.PredictionResult{
		Success:         true,
		RiskScore:       0.42,
		RiskLevel:       "moderate",
		Recommendations: []string{"see a specialist"},
	}

	created, err := repo.Create(ctx, tx, u.ID, input, result)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.RiskScore != 0.42 || created.RiskLevel != "moderate" {
		t.Fatalf("stored score/level = %v/%q", created.RiskScore, created.RiskLevel)
	}
	if created.Timestamp == 0 {
		t.Fatal("Timestamp not set")
	}

	rows, err := repo.ListByOwner(ctx, tx, u.ID, 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListByOwner len = %d, want 1", len(rows))
	}
	storedInput := rows[0].InputData.Data()
	if storedInput.Age != 29 || !storedInput.HairGrowth {
		t.Fatalf("input did not round trip: %+v", storedInput)
	}
	storedResult := rows[0].PredictionResult.Data()
	if !storedResult.Success || storedResult.RiskScore != 0.42 {
		t.Fatalf("result did not round trip: %+v", storedResult)
	}

	latest, err := repo.Latest(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.ID != created.ID {
		t.Fatalf("Latest = %+v, want the created record", latest)
	}
}

func TestAssessmentRepoRejectsEmptyOwner(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssessmentRepo(db, testutil.Logger(t))

	_, err := repo.Create(ctx, tx, uuid.Nil, domain.AssessmentInput{}, domain.PredictionResult{})
	if err != ErrNoAuthenticatedUser {
		t.Fatalf("Create with nil owner: err=%v, want ErrNoAuthenticatedUser", err)
	}

	rows, err := repo.ListByOwner(ctx, tx, uuid.Nil, 5)
	if err != nil {
		t.Fatalf("ListByOwner with nil owner: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("ListByOwner = %v, want empty", rows)
	}

	latest, err := repo.Latest(ctx, tx, uuid.Nil)
	if err != nil || latest != nil {
		t.Fatalf("Latest with nil owner = (%+v, %v), want (nil, nil)", latest, err)
	}
}
