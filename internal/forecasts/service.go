package forecasts

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"forecast-backend/internal/depgraph"
	"forecast-backend/internal/forecasts/engine"
	"forecast-backend/internal/shared/metrics"
	"forecast-backend/internal/shared/telemetry"
)

// Fixed assumptions included with every forecast.
var assessmentAssumptions = []string{
	"Service dependencies are loaded from the dependency graph file.",
	"Blast radius is estimated using direct + downstream dependencies.",
}

// Service contains the assessment business logic: validation against the
// graph snapshot, impact propagation, scoring, confidence, and assembly of
// the final result. Each call reads one immutable snapshot, so concurrent
// assessments never observe a half-reloaded graph.
type Service struct {
	Graph *depgraph.Provider
	Repo  Repo
}

// Assess validates the change, computes its blast radius over the current
// graph snapshot, and produces the forecast. Nothing is ever partially
// scored: validation and unknown-service checks run before any rule fires.
func (s *Service) Assess(ctx context.Context, change ChangeRequest) (ForecastResult, error) {
	change.Normalize()
	if err := change.Validate(); err != nil {
		metrics.IncAssessmentRejected()
		return ForecastResult{}, err
	}

	snapshot := s.Graph.Snapshot()

	var unknown []string
	for _, name := range change.ServicesTouched {
		if !snapshot.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		metrics.IncUnknownService()
		return ForecastResult{}, &UnknownServiceError{
			Unknown: unknown,
			Known:   snapshot.Known(),
		}
	}

	started := time.Now()
	indirect := snapshot.Propagate(change.ServicesTouched)
	scored := engine.Score(change.Engine(), indirect)
	confidence := engine.Confidence(change.Engine(), indirect)
	metrics.ObserveAssessmentDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)

	result := ForecastResult{
		ChangeID:   change.ChangeID,
		RiskScore:  scored.Score,
		RiskLevel:  scored.Level,
		Confidence: confidence.Level,
		BlastRadius: BlastRadius{
			Direct:   change.ServicesTouched,
			Indirect: indirect,
		},
		Factors:           scored.Factors,
		Mitigations:       scored.Mitigations,
		Assumptions:       append([]string(nil), assessmentAssumptions...),
		MissingInfo:       scored.MissingInfo,
		ConfidenceReasons: confidence.Reasons,
	}

	metrics.IncAssessmentCompleted()
	s.record(ctx, change, result)

	return result, nil
}

// record persists the assessment for later listing. Persistence is best
// effort: a storage failure must not fail an otherwise valid forecast.
func (s *Service) record(ctx context.Context, change ChangeRequest, result ForecastResult) {
	if s.Repo == nil {
		return
	}
	assessment := Assessment{
		ID:          uuid.NewString(),
		ChangeID:    change.ChangeID,
		Title:       change.Title,
		Environment: change.Environment,
		ChangeType:  change.ChangeType,
		RiskScore:   result.RiskScore,
		RiskLevel:   result.RiskLevel,
		Confidence:  result.Confidence,
		Result:      &result,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, assessment); err != nil {
		telemetry.Error("assessment.store_failed", map[string]any{
			"change_id": change.ChangeID,
			"error":     err.Error(),
		})
	}
}

// Get returns a stored assessment by its record ID.
func (s *Service) Get(ctx context.Context, id string) (Assessment, error) {
	if s.Repo == nil {
		return Assessment{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns stored assessments, most recent first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Assessment, error) {
	if s.Repo == nil {
		return []Assessment{}, nil
	}
	return s.Repo.List(ctx, limit, offset)
}
