package engine

import "time"

// Environment is where the change lands.
type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Valid reports whether the environment is one of the closed set.
func (e Environment) Valid() bool {
	switch e {
	case EnvDev, EnvStaging, EnvProd:
		return true
	default:
		return false
	}
}

// ChangeType categorizes the kind of change being made.
type ChangeType string

const (
	TypeConfig     ChangeType = "config"
	TypeDeployment ChangeType = "deployment"
	TypeInfra      ChangeType = "infra"
	TypeDatabase   ChangeType = "database"
	TypeAccess     ChangeType = "access"
)

// Valid reports whether the change type is one of the closed set.
func (t ChangeType) Valid() bool {
	switch t {
	case TypeConfig, TypeDeployment, TypeInfra, TypeDatabase, TypeAccess:
		return true
	default:
		return false
	}
}

// RollbackQuality describes how well prepared the rollback is.
type RollbackQuality string

const (
	RollbackNone    RollbackQuality = "none"
	RollbackPartial RollbackQuality = "partial"
	RollbackTested  RollbackQuality = "tested"
)

// Valid reports whether the rollback quality is one of the closed set.
func (r RollbackQuality) Valid() bool {
	switch r {
	case RollbackNone, RollbackPartial, RollbackTested:
		return true
	default:
		return false
	}
}

// MonitoringPlan describes the monitoring posture during the change.
type MonitoringPlan string

const (
	MonitoringBasic  MonitoringPlan = "basic"
	MonitoringStrong MonitoringPlan = "strong"
)

// Valid reports whether the monitoring plan is one of the closed set.
func (m MonitoringPlan) Valid() bool {
	switch m {
	case MonitoringBasic, MonitoringStrong:
		return true
	default:
		return false
	}
}

// RiskLevel buckets the clamped risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ConfidenceLevel buckets the information-completeness points.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Change is the slice of a change request the engine scores on.
type Change struct {
	Environment     Environment
	ChangeType      ChangeType
	WindowStart     *time.Time
	ServicesTouched []string
	RollbackQuality RollbackQuality
	MonitoringPlan  MonitoringPlan
}

// Factor records one fired rule: its code, a human message, and the signed
// score delta it contributed before clamping.
type Factor struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Weight  int    `json:"weight"`
}

// ScoreResult is the risk scorer output.
type ScoreResult struct {
	Score       int
	Level       RiskLevel
	Factors     []Factor
	Mitigations []string
	MissingInfo []string
}

// ConfidenceResult is the confidence estimator output.
type ConfidenceResult struct {
	Level   ConfidenceLevel
	Reasons []string
}
