package engine

const (
	confidenceHighThreshold   = 7
	confidenceMediumThreshold = 4
)

// Confidence scores how complete the supporting information is, on a scale
// independent of risk: a well-planned production database change can be
// both high confidence and high risk. Points:
//
//	window_start present        +1
//	rollback tested/partial     +2 / +1
//	monitoring strong/basic     +2 / +1 (basic earns a point silently)
//	indirect impact none / <=2  +2 / +1
func Confidence(change Change, indirect []string) ConfidenceResult {
	points := 0
	reasons := make([]string, 0, 4)

	if change.WindowStart != nil {
		points++
		reasons = append(reasons, "change window specified")
	}

	switch change.RollbackQuality {
	case RollbackTested:
		points += 2
		reasons = append(reasons, "rollback plan tested")
	case RollbackPartial:
		points++
		reasons = append(reasons, "rollback plan partially defined")
	}

	if change.MonitoringPlan == MonitoringStrong {
		points += 2
		reasons = append(reasons, "strong monitoring in place")
	} else {
		points++
	}

	switch n := len(indirect); {
	case n == 0:
		points += 2
		reasons = append(reasons, "no indirect service impact")
	case n <= 2:
		points++
		reasons = append(reasons, "limited indirect service impact")
	}

	return ConfidenceResult{
		Level:   confidenceLevel(points),
		Reasons: reasons,
	}
}

func confidenceLevel(points int) ConfidenceLevel {
	switch {
	case points >= confidenceHighThreshold:
		return ConfidenceHigh
	case points >= confidenceMediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
