package forecasts

import (
	"time"

	"forecast-backend/internal/forecasts/engine"
)

const maxServicesTouched = 10

// ChangeRequest is the inbound description of a proposed change.
// Required-field and shape checks ride on gin binding; range, window and
// enum checks live in Validate so nothing is ever partially scored.
type ChangeRequest struct {
	ChangeID         string                 `json:"change_id" binding:"required"`
	Title            string                 `json:"title" binding:"required"`
	ChangeType       engine.ChangeType      `json:"change_type" binding:"required"`
	Environment      engine.Environment     `json:"environment" binding:"required"`
	WindowStart      *time.Time             `json:"window_start"`
	WindowEnd        *time.Time             `json:"window_end"`
	ServicesTouched  []string               `json:"services_touched" binding:"required"`
	DeploymentMethod string                 `json:"deployment_method"`
	RollbackQuality  engine.RollbackQuality `json:"rollback_quality"`
	MonitoringPlan   engine.MonitoringPlan  `json:"monitoring_plan"`
	Notes            string                 `json:"notes"`
}

// Normalize applies field defaults for optional categorical inputs.
func (c *ChangeRequest) Normalize() {
	if c.RollbackQuality == "" {
		c.RollbackQuality = engine.RollbackPartial
	}
	if c.MonitoringPlan == "" {
		c.MonitoringPlan = engine.MonitoringBasic
	}
}

// Validate checks everything scoring depends on: enum membership, the
// services_touched size bounds, and window ordering.
func (c *ChangeRequest) Validate() error {
	var details []FieldIssue

	if !c.ChangeType.Valid() {
		details = append(details, FieldIssue{Field: "change_type", Issue: "must be one of config, deployment, infra, database, access"})
	}
	if !c.Environment.Valid() {
		details = append(details, FieldIssue{Field: "environment", Issue: "must be one of dev, staging, prod"})
	}
	if !c.RollbackQuality.Valid() {
		details = append(details, FieldIssue{Field: "rollback_quality", Issue: "must be one of none, partial, tested"})
	}
	if !c.MonitoringPlan.Valid() {
		details = append(details, FieldIssue{Field: "monitoring_plan", Issue: "must be one of basic, strong"})
	}
	if len(c.ServicesTouched) == 0 {
		details = append(details, FieldIssue{Field: "services_touched", Issue: "must not be empty"})
	}
	if len(c.ServicesTouched) > maxServicesTouched {
		details = append(details, FieldIssue{Field: "services_touched", Issue: "must not exceed 10 services"})
	}
	if c.WindowStart != nil && c.WindowEnd != nil && !c.WindowEnd.After(*c.WindowStart) {
		details = append(details, FieldIssue{Field: "window_end", Issue: "must be after window_start"})
	}

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

// Engine maps the request to the slice of fields the scoring engine reads.
func (c *ChangeRequest) Engine() engine.Change {
	return engine.Change{
		Environment:     c.Environment,
		ChangeType:      c.ChangeType,
		WindowStart:     c.WindowStart,
		ServicesTouched: c.ServicesTouched,
		RollbackQuality: c.RollbackQuality,
		MonitoringPlan:  c.MonitoringPlan,
	}
}

// BlastRadius splits affected services into directly touched and
// downstream-dependency affected.
type BlastRadius struct {
	Direct   []string `json:"direct"`
	Indirect []string `json:"indirect"`
}

// ForecastResult is the assessment output returned to the caller.
type ForecastResult struct {
	ChangeID          string                 `json:"change_id"`
	RiskScore         int                    `json:"risk_score"`
	RiskLevel         engine.RiskLevel       `json:"risk_level"`
	Confidence        engine.ConfidenceLevel `json:"confidence"`
	BlastRadius       BlastRadius            `json:"blast_radius"`
	Factors           []engine.Factor        `json:"factors"`
	Mitigations       []string               `json:"mitigations"`
	Assumptions       []string               `json:"assumptions"`
	MissingInfo       []string               `json:"missing_info"`
	ConfidenceReasons []string               `json:"confidence_reasons"`
}

// Assessment is a stored record of one completed assessment.
type Assessment struct {
	ID          string                 `json:"id"`
	ChangeID    string                 `json:"change_id"`
	Title       string                 `json:"title"`
	Environment engine.Environment     `json:"environment"`
	ChangeType  engine.ChangeType      `json:"change_type"`
	RiskScore   int                    `json:"risk_score"`
	RiskLevel   engine.RiskLevel       `json:"risk_level"`
	Confidence  engine.ConfidenceLevel `json:"confidence"`
	Result      *ForecastResult        `json:"result,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
