package engine

import (
	"fmt"
	"time"
)

const (
	scoreFloor = 0
	scoreCeil  = 100

	riskHighThreshold   = 70
	riskMediumThreshold = 35
)

// rule is one row of the risk table. Rules are evaluated in declaration
// order; each fires independently based on a pure predicate over the change
// and the propagated indirect set. A fired rule with a non-zero weight
// contributes a Factor; zero-weight rows exist only to surface mitigations
// and missing-info notes.
type rule struct {
	code        string
	applies     func(Change, []string) bool
	weight      func(Change, []string) int
	message     func(Change, []string) string
	mitigation  string
	missingInfo string
}

func fixed(w int) func(Change, []string) int {
	return func(Change, []string) int { return w }
}

func text(msg string) func(Change, []string) string {
	return func(Change, []string) string { return msg }
}

var typeWeights = map[ChangeType]int{
	TypeConfig:     10,
	TypeDeployment: 15,
	TypeInfra:      25,
	TypeDatabase:   30,
	TypeAccess:     20,
}

const defaultTypeWeight = 10

// riskRules is the fixed, auditable rule table. Order determines the
// sequence of emitted factors, mitigations, and missing-info notes; the
// score itself is a commutative sum.
var riskRules = []rule{
	{
		code:       "ENV_PROD",
		applies:    func(c Change, _ []string) bool { return c.Environment == EnvProd },
		weight:     fixed(30),
		message:    text("Production change"),
		mitigation: "Make sure rollback steps are written and tested before starting.",
	},
	{
		code: "RISKY_WINDOW",
		applies: func(c Change, _ []string) bool {
			return isRiskyWindow(c)
		},
		weight:     fixed(10),
		message:    text("Scheduled out-of-hours or on a weekend"),
		mitigation: "If possible, schedule during staffed hours or add extra on-call cover.",
	},
	{
		code:        "WINDOW_UNKNOWN",
		applies:     func(c Change, _ []string) bool { return c.WindowStart == nil },
		weight:      fixed(0),
		missingInfo: "window_start not provided",
	},
	{
		code:    "TYPE",
		applies: func(Change, []string) bool { return true },
		weight: func(c Change, _ []string) int {
			if w, ok := typeWeights[c.ChangeType]; ok {
				return w
			}
			return defaultTypeWeight
		},
		message: func(c Change, _ []string) string {
			return fmt.Sprintf("Change type: %s", c.ChangeType)
		},
	},
	{
		code:       "SVC_MANY",
		applies:    func(c Change, _ []string) bool { return len(c.ServicesTouched) >= 3 },
		weight:     fixed(15),
		message:    text("Touches 3+ services"),
		mitigation: "Consider splitting the change into smaller steps.",
	},
	{
		code:    "BLAST_INDIRECT",
		applies: func(_ Change, indirect []string) bool { return len(indirect) > 0 },
		weight:  fixed(10),
		message: func(_ Change, indirect []string) string {
			return fmt.Sprintf("Indirectly impacts %d additional service(s)", len(indirect))
		},
	},
	{
		code:    "RB_TESTED",
		applies: func(c Change, _ []string) bool { return c.RollbackQuality == RollbackTested },
		weight:  fixed(-15),
		message: text("Rollback is tested"),
	},
	{
		code:        "RB_NONE",
		applies:     func(c Change, _ []string) bool { return c.RollbackQuality == RollbackNone },
		weight:      fixed(15),
		message:     text("No rollback plan"),
		mitigation:  "Add at least a basic rollback plan (and validate it).",
		missingInfo: "no rollback plan",
	},
	{
		code:    "MON_STRONG",
		applies: func(c Change, _ []string) bool { return c.MonitoringPlan == MonitoringStrong },
		weight:  fixed(-10),
		message: text("Strong monitoring plan"),
	},
	{
		code:        "MON_BASIC",
		applies:     func(c Change, _ []string) bool { return c.MonitoringPlan != MonitoringStrong },
		weight:      fixed(0),
		mitigation:  "Add extra monitoring (dashboards/alerts) for the change window.",
		missingInfo: "monitoring plan is not strong",
	},
}

// isRiskyWindow reports whether the change starts on a weekend or outside
// 08:00-18:00. Only production changes count, and the timestamp is taken as
// already being in the relevant local time; no timezone conversion happens.
func isRiskyWindow(c Change) bool {
	if c.Environment != EnvProd || c.WindowStart == nil {
		return false
	}
	switch c.WindowStart.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	hour := c.WindowStart.Hour()
	return hour < 8 || hour >= 18
}

// Score evaluates the rule table against the change and its indirect blast
// radius. The returned score is clamped to [0, 100]; factors, mitigations
// and missing-info notes come out in rule order, with mitigations
// deduplicated preserving first occurrence.
func Score(change Change, indirect []string) ScoreResult {
	score := 0
	factors := make([]Factor, 0, len(riskRules))
	mitigations := make([]string, 0, 4)
	missingInfo := make([]string, 0, 3)

	for _, r := range riskRules {
		if !r.applies(change, indirect) {
			continue
		}
		if w := r.weight(change, indirect); w != 0 {
			score += w
			factors = append(factors, Factor{
				Code:    r.code,
				Message: r.message(change, indirect),
				Weight:  w,
			})
		}
		if r.mitigation != "" {
			mitigations = append(mitigations, r.mitigation)
		}
		if r.missingInfo != "" {
			missingInfo = append(missingInfo, r.missingInfo)
		}
	}

	if score < scoreFloor {
		score = scoreFloor
	}
	if score > scoreCeil {
		score = scoreCeil
	}

	return ScoreResult{
		Score:       score,
		Level:       riskLevel(score),
		Factors:     factors,
		Mitigations: dedupe(mitigations),
		MissingInfo: missingInfo,
	}
}

func riskLevel(score int) RiskLevel {
	switch {
	case score >= riskHighThreshold:
		return RiskHigh
	case score >= riskMediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// dedupe removes duplicate strings preserving first-occurrence order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
