package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

const (
	analyticsAssessmentLimit = 5
	analyticsCycleLimit      = 10
	analyticsHealthDays      = 30

	// Fallback cycle length used whenever a record has no measured length
	// and when a user has no cycles at all.
	fallbackCycleLength = 28
)

// Analytics is an all-or-nothing summary: it is either fully populated or
// absent, never partial.
type Analytics struct {
	TotalAssessments int      `json:"totalAssessments"`
	LatestRiskScore  *float64 `json:"latestRiskScore"`
	TotalCycles      int      `json:"totalCycles"`
	AvgCycleLength   float64  `json:"avgCycleLength"`
	HealthEntries    int      `json:"healthEntries"`
	// LastUpdated is the maximum creation instant across everything fetched,
	// in unix milliseconds. Zero when nothing has been recorded.
	LastUpdated int64 `json:"lastUpdated"`
}

type AnalyticsService interface {
	Compute(ctx context.Context, ownerID uuid.UUID) (*Analytics, error)
}

type analyticsService struct {
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	cycleRepo      repos.CycleRepo
	healthRepo     repos.HealthRepo
}

func NewAnalyticsService(
	log *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	cycleRepo repos.CycleRepo,
	healthRepo repos.HealthRepo,
) AnalyticsService {
	return &analyticsService{
		log:            log.With("service", "AnalyticsService"),
		assessmentRepo: assessmentRepo,
		cycleRepo:      cycleRepo,
		healthRepo:     healthRepo,
	}
}

// Compute fetches the three collections concurrently and combines them only
// after all three settle. Any fetch failure fails the whole computation.
func (s *analyticsService) Compute(ctx context.Context, ownerID uuid.UUID) (*Analytics, error) {
	var (
		assessments []*domain.AssessmentRecord
		cycles      []*domain.CycleRecord
		health      []*domain.DailyHealthRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assessments, err = s.assessmentRepo.ListByOwner(gctx, nil, ownerID, analyticsAssessmentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		cycles, err = s.cycleRepo.ListByOwner(gctx, nil, ownerID, analyticsCycleLimit)
		return err
	})
	g.Go(func() error {
		var err error
		health, err = s.healthRepo.ListSince(gctx, nil, ownerID, analyticsHealthDays)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("analytics fetch failed", "user_id", ownerID, "error", err)
		return nil, err
	}

	out := &Analytics{
		TotalAssessments: len(assessments),
		TotalCycles:      len(cycles),
		HealthEntries:    len(health),
		AvgCycleLength:   averageCycleLength(cycles),
	}
	if len(assessments) > 0 {
		score := assessments[0].RiskScore
		out.LatestRiskScore = &score
	}

	for _, a := range assessments {
		if a.Timestamp > out.LastUpdated {
			out.LastUpdated = a.Timestamp
		}
	}
	for _, c := range cycles {
		if ms := c.CreatedAt.UnixMilli(); ms > out.LastUpdated {
			out.LastUpdated = ms
		}
	}
	for _, h := range health {
		if ms := h.CreatedAt.UnixMilli(); ms > out.LastUpdated {
			out.LastUpdated = ms
		}
	}
	return out, nil
}

func averageCycleLength(cycles []*domain.CycleRecord) float64 {
	if len(cycles) == 0 {
		return fallbackCycleLength
	}
	total := 0
	for _, c := range cycles {
		if c.LengthDays != nil {
			total += *c.LengthDays
		} else {
			total += fallbackCycleLength
		}
	}
	return float64(total) / float64(len(cycles))
}
