// Package compliance - portfolio risk scoring
package compliance

import (
	"math"

	"github.com/infracomply/compliance-backend/model"
)

// Risk score component caps. The three components are independent and
// additive, so the maximum attainable score is 100.
const (
	scheduleComponentCap = 40.0
	costComponentCap     = 35.0
	alertComponentCap    = 25.0
)

// ComputeRiskScore derives a project's risk score in [0, 100] from its
// schedule deferment, cost overrun and count of critical alerts.
//
// The schedule component ramps linearly to 40 at 90 days of deferment, the
// cost component to 35 at a 10% overrun, and each critical alert adds 10 up
// to a cap of 25. actualCost of nil (or not exceeding the sanction) scores
// zero on the cost component; a zero sanction amount makes the overrun
// incomputable and is treated the same way.
func ComputeRiskScore(dccoStatus int, sanctionAmount float64, actualCost *float64, criticalAlertsCount int) int {
	score := 0.0

	if dccoStatus > 0 {
		score += math.Min(float64(dccoStatus)/90.0*scheduleComponentCap, scheduleComponentCap)
	}

	if actualCost != nil && sanctionAmount > 0 && *actualCost > sanctionAmount {
		overrunPct := (*actualCost - sanctionAmount) / sanctionAmount * 100
		score += math.Min(overrunPct/10.0*costComponentCap, costComponentCap)
	}

	if criticalAlertsCount > 0 {
		score += math.Min(float64(criticalAlertsCount)*10, alertComponentCap)
	}

	rounded := int(math.Round(score))
	if rounded > 100 {
		return 100
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}

// TierForScore maps a risk score to its dashboard tier. This is the single
// tier-threshold function; anything deriving a tier from a score must go
// through it.
func TierForScore(score int) model.RiskTier {
	switch {
	case score >= 75:
		return model.TierRed
	case score >= 40:
		return model.TierYellow
	default:
		return model.TierGreen
	}
}
