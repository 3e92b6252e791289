package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfidenceLevels(t *testing.T) {
	window := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		change   Change
		indirect []string
		level    ConfidenceLevel
		reasons  []string
	}{
		{
			name: "fully specified change",
			change: Change{
				WindowStart:     &window,
				RollbackQuality: RollbackTested,
				MonitoringPlan:  MonitoringStrong,
			},
			indirect: nil,
			level:    ConfidenceHigh,
			reasons: []string{
				"change window specified",
				"rollback plan tested",
				"strong monitoring in place",
				"no indirect service impact",
			},
		},
		{
			name: "partially specified change",
			change: Change{
				WindowStart:     &window,
				RollbackQuality: RollbackPartial,
				MonitoringPlan:  MonitoringBasic,
			},
			indirect: []string{"billing", "web"},
			level:    ConfidenceMedium,
			reasons: []string{
				"change window specified",
				"rollback plan partially defined",
				"limited indirect service impact",
			},
		},
		{
			name: "bare change",
			change: Change{
				RollbackQuality: RollbackNone,
				MonitoringPlan:  MonitoringBasic,
			},
			indirect: []string{"a", "b", "c"},
			level:    ConfidenceLow,
			reasons:  []string{},
		},
		{
			name: "basic monitoring scores a silent point",
			change: Change{
				WindowStart:     &window,
				RollbackQuality: RollbackTested,
				MonitoringPlan:  MonitoringBasic,
			},
			indirect: nil,
			// 1 + 2 + 1 + 2 = 6, just under the high threshold.
			level: ConfidenceMedium,
			reasons: []string{
				"change window specified",
				"rollback plan tested",
				"no indirect service impact",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Confidence(tc.change, tc.indirect)
			require.Equal(t, tc.level, result.Level)
			require.Equal(t, tc.reasons, result.Reasons)
		})
	}
}

func TestConfidenceIndependentOfRisk(t *testing.T) {
	// A well-planned prod database change is high confidence AND high risk.
	window := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	change := Change{
		Environment:     EnvProd,
		ChangeType:      TypeDatabase,
		WindowStart:     &window,
		ServicesTouched: []string{"database", "api", "billing"},
		RollbackQuality: RollbackTested,
		MonitoringPlan:  MonitoringStrong,
	}

	scored := Score(change, nil)
	confidence := Confidence(change, nil)

	require.Equal(t, ConfidenceHigh, confidence.Level)
	// ENV_PROD 30 + TYPE 30 + SVC_MANY 15 - RB_TESTED 15 - MON_STRONG 10.
	require.Equal(t, 50, scored.Score)
	require.Equal(t, RiskMedium, scored.Level)
}

func TestConfidenceLevelThresholds(t *testing.T) {
	require.Equal(t, ConfidenceLow, confidenceLevel(3))
	require.Equal(t, ConfidenceMedium, confidenceLevel(4))
	require.Equal(t, ConfidenceMedium, confidenceLevel(6))
	require.Equal(t, ConfidenceHigh, confidenceLevel(7))
}
