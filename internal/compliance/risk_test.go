package compliance

import (
	"testing"

	"github.com/infracomply/compliance-backend/model"
	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestComputeRiskScoreScheduleComponent(t *testing.T) {
	tests := []struct {
		name string
		days int
		want int
	}{
		{"on time", 0, 0},
		{"early", -30, 0},
		{"half ramp", 45, 20},
		{"cap reached exactly at 90 days", 90, 40},
		{"beyond cap stays clamped", 180, 40},
		{"absurd deferment stays clamped", 900, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ComputeRiskScore(tt.days, 100, nil, 0)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestComputeRiskScoreCostComponent(t *testing.T) {
	tests := []struct {
		name       string
		actualCost *float64
		want       int
	}{
		{"no actual cost yet", nil, 0},
		{"under budget", f64(90), 0},
		{"on budget", f64(100), 0},
		{"5% overrun is half the cap", f64(105), 18}, // 17.5 rounds to 18
		{"cap reached exactly at 10% overrun", f64(110), 35},
		{"beyond cap stays clamped", f64(200), 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ComputeRiskScore(0, 100, tt.actualCost, 0)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestComputeRiskScoreAlertComponent(t *testing.T) {
	assert.Equal(t, 0, ComputeRiskScore(0, 100, nil, 0))
	assert.Equal(t, 10, ComputeRiskScore(0, 100, nil, 1))
	assert.Equal(t, 20, ComputeRiskScore(0, 100, nil, 2))
	assert.Equal(t, 25, ComputeRiskScore(0, 100, nil, 3)) // 30 clamps to 25
	assert.Equal(t, 25, ComputeRiskScore(0, 100, nil, 12))
}

func TestComputeRiskScoreZeroSanctionGuard(t *testing.T) {
	// Overrun percentage is incomputable against a zero sanction; the cost
	// component must score zero instead of dividing by zero.
	assert.Equal(t, 0, ComputeRiskScore(0, 0, f64(50), 0))
}

func TestComputeRiskScoreCombined(t *testing.T) {
	// All three components at their caps: 40 + 35 + 25 = 100.
	assert.Equal(t, 100, ComputeRiskScore(900, 100, f64(300), 5))

	// 45 days (20) + 5% overrun (17.5) + 1 critical alert (10) = 47.5 → 48.
	assert.Equal(t, 48, ComputeRiskScore(45, 100, f64(105), 1))
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  model.RiskTier
	}{
		{0, model.TierGreen},
		{39, model.TierGreen},
		{40, model.TierYellow},
		{74, model.TierYellow},
		{75, model.TierRed},
		{100, model.TierRed},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, TierForScore(tt.score), "score %d", tt.score)
	}
}

// Score 40 at exactly 90 days of deferment lands on the Yellow boundary,
// not Green.
func TestRiskScoreBoundaryTier(t *testing.T) {
	score := ComputeRiskScore(90, 100, nil, 0)
	assert.Equal(t, 40, score)
	assert.Equal(t, model.TierYellow, TierForScore(score))
}
