package forecasts

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"forecast-backend/internal/depgraph"
	"forecast-backend/internal/forecasts/engine"
)

func testGraph() *depgraph.Provider {
	return depgraph.NewStaticProvider(depgraph.NewSnapshot(map[string][]string{
		"auth":          {},
		"database":      {},
		"api":           {"auth", "database"},
		"gateway":       {"api"},
		"billing":       {"api", "database"},
		"notifications": {"billing"},
		"web":           {"gateway", "auth"},
	}))
}

func testService() (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	return &Service{Graph: testGraph(), Repo: repo}, repo
}

func window(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	return &parsed
}

func validChange(t *testing.T) ChangeRequest {
	return ChangeRequest{
		ChangeID:        "CHG-1024",
		Title:           "Update auth service timeout settings",
		ChangeType:      engine.TypeConfig,
		Environment:     engine.EnvDev,
		WindowStart:     window(t, "2025-03-03 10:00"),
		ServicesTouched: []string{"web"},
		RollbackQuality: engine.RollbackTested,
		MonitoringPlan:  engine.MonitoringStrong,
	}
}

func TestAssessLowRiskChange(t *testing.T) {
	svc, _ := testService()

	result, err := svc.Assess(context.Background(), validChange(t))
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	if result.RiskScore != 0 {
		t.Fatalf("expected score 0, got %d", result.RiskScore)
	}
	if result.RiskLevel != engine.RiskLow {
		t.Fatalf("expected low risk, got %s", result.RiskLevel)
	}
	if result.Confidence != engine.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", result.Confidence)
	}
	if len(result.BlastRadius.Indirect) != 0 {
		t.Fatalf("expected no indirect impact, got %v", result.BlastRadius.Indirect)
	}
	if len(result.Assumptions) != 2 {
		t.Fatalf("expected 2 assumptions, got %d", len(result.Assumptions))
	}
}

func TestAssessIndirectBlastRadius(t *testing.T) {
	svc, _ := testService()

	change := validChange(t)
	change.ServicesTouched = []string{"api"}

	result, err := svc.Assess(context.Background(), change)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	want := []string{"billing", "gateway", "notifications", "web"}
	if !reflect.DeepEqual(result.BlastRadius.Indirect, want) {
		t.Fatalf("expected indirect %v, got %v", want, result.BlastRadius.Indirect)
	}
	for _, name := range result.BlastRadius.Indirect {
		if name == "api" {
			t.Fatalf("directly touched service leaked into indirect list")
		}
	}
}

func TestAssessUnknownService(t *testing.T) {
	svc, repo := testService()

	change := validChange(t)
	change.ServicesTouched = []string{"nonexistent-service"}

	_, err := svc.Assess(context.Background(), change)

	var unknownErr *UnknownServiceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownServiceError, got %v", err)
	}
	if !reflect.DeepEqual(unknownErr.Unknown, []string{"nonexistent-service"}) {
		t.Fatalf("expected unknown list, got %v", unknownErr.Unknown)
	}
	if len(unknownErr.Known) != 7 {
		t.Fatalf("expected full known universe, got %v", unknownErr.Known)
	}

	stored, err := repo.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("rejected assessment must not be recorded")
	}
}

func TestAssessValidationFailures(t *testing.T) {
	svc, repo := testService()

	manyServices := make([]string, 0, 11)
	graph := map[string][]string{}
	for i := 0; i < 11; i++ {
		name := fmt.Sprintf("svc-%02d", i)
		manyServices = append(manyServices, name)
		graph[name] = nil
	}
	svcMany := &Service{Graph: depgraph.NewStaticProvider(depgraph.NewSnapshot(graph)), Repo: repo}

	cases := []struct {
		name   string
		mutate func(*ChangeRequest)
		target *Service
	}{
		{
			name:   "empty services_touched",
			mutate: func(c *ChangeRequest) { c.ServicesTouched = nil },
			target: svc,
		},
		{
			name:   "more than 10 services",
			mutate: func(c *ChangeRequest) { c.ServicesTouched = manyServices },
			target: svcMany,
		},
		{
			name: "window_end before window_start",
			mutate: func(c *ChangeRequest) {
				c.WindowStart = window(t, "2025-03-03 10:00")
				c.WindowEnd = window(t, "2025-03-03 09:00")
			},
			target: svc,
		},
		{
			name: "window_end equal to window_start",
			mutate: func(c *ChangeRequest) {
				c.WindowStart = window(t, "2025-03-03 10:00")
				c.WindowEnd = window(t, "2025-03-03 10:00")
			},
			target: svc,
		},
		{
			name:   "invalid change_type",
			mutate: func(c *ChangeRequest) { c.ChangeType = "rollout" },
			target: svc,
		},
		{
			name:   "invalid environment",
			mutate: func(c *ChangeRequest) { c.Environment = "qa" },
			target: svc,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			change := validChange(t)
			tc.mutate(&change)

			_, err := tc.target.Assess(context.Background(), change)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	stored, err := repo.List(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("validation failures must never be partially scored or recorded")
	}
}

func TestAssessAppliesDefaults(t *testing.T) {
	svc, _ := testService()

	change := validChange(t)
	change.RollbackQuality = ""
	change.MonitoringPlan = ""

	result, err := svc.Assess(context.Background(), change)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	for _, f := range result.Factors {
		if f.Code == "RB_TESTED" || f.Code == "RB_NONE" || f.Code == "MON_STRONG" {
			t.Fatalf("defaulted fields must score as partial/basic, got factor %s", f.Code)
		}
	}
	found := false
	for _, note := range result.MissingInfo {
		if note == "monitoring plan is not strong" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected basic monitoring missing-info note, got %v", result.MissingInfo)
	}
}

func TestAssessDeterministic(t *testing.T) {
	svc, _ := testService()

	change := validChange(t)
	change.ServicesTouched = []string{"auth", "api", "gateway"}
	change.Environment = engine.EnvProd
	change.ChangeType = engine.TypeDatabase

	first, err := svc.Assess(context.Background(), change)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	second, err := svc.Assess(context.Background(), change)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical input")
	}
}

func TestAssessRecordsAssessment(t *testing.T) {
	svc, repo := testService()

	change := validChange(t)
	result, err := svc.Assess(context.Background(), change)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	stored, err := repo.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored assessment, got %d", len(stored))
	}
	record := stored[0]
	if record.ChangeID != change.ChangeID {
		t.Fatalf("expected change id %q, got %q", change.ChangeID, record.ChangeID)
	}
	if record.RiskScore != result.RiskScore || record.RiskLevel != result.RiskLevel {
		t.Fatalf("stored record does not match result")
	}

	fetched, err := svc.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Result == nil || fetched.Result.ChangeID != change.ChangeID {
		t.Fatalf("expected stored result document")
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssessEmptyGraphRejectsEverything(t *testing.T) {
	svc := &Service{Graph: depgraph.NewStaticProvider(depgraph.EmptySnapshot())}

	_, err := svc.Assess(context.Background(), validChange(t))

	var unknownErr *UnknownServiceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownServiceError on empty graph, got %v", err)
	}
	if len(unknownErr.Known) != 0 {
		t.Fatalf("expected empty known universe, got %v", unknownErr.Known)
	}
}
