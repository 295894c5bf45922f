// Package compliance - credit-event alert generation
package compliance

import (
	"context"
	"fmt"
	"math"

	"github.com/infracomply/compliance-backend/model"
)

// Policy holds the credit-event thresholds. The severity cutoffs (150 days,
// 15%) are business constants without a documented RBI citation, so they are
// kept configurable rather than hard-coded.
type Policy struct {
	// DCCOBreachDays is the deferment beyond which a DCCO alert is raised.
	DCCOBreachDays int `yaml:"dcco_breach_days"`
	// DCCOCriticalDays is the deferment beyond which the alert is Critical.
	DCCOCriticalDays int `yaml:"dcco_critical_days"`
	// CostOverrunTriggerPct is the overrun percentage beyond which a
	// Cost Overrun alert is raised.
	CostOverrunTriggerPct float64 `yaml:"cost_overrun_trigger_pct"`
	// CostOverrunCriticalPct is the overrun percentage beyond which the
	// alert is Critical.
	CostOverrunCriticalPct float64 `yaml:"cost_overrun_critical_pct"`
}

// DefaultPolicy returns the thresholds in force today: DCCO breach at 90
// days (Critical past 150), cost overrun at 10% (Critical past 15%).
func DefaultPolicy() Policy {
	return Policy{
		DCCOBreachDays:         90,
		DCCOCriticalDays:       150,
		CostOverrunTriggerPct:  10,
		CostOverrunCriticalPct: 15,
	}
}

// OpenAlertChecker is the de-duplication lookup the engine consults before
// emitting an alert. It must report true while an Open or Acknowledged alert
// of the given type exists for the project. The atomicity of
// check-then-insert is owned by the persistence layer's uniqueness
// constraint, not by the engine.
type OpenAlertChecker interface {
	HasOpenAlert(ctx context.Context, projectID string, alertType model.AlertType) (bool, error)
}

// Engine evaluates threshold rules against projects. A zero-dependency value
// type; construct with NewEngine.
type Engine struct {
	policy Policy
}

// NewEngine creates an alert engine with the given policy.
func NewEngine(policy Policy) Engine {
	return Engine{policy: policy}
}

// Policy returns the thresholds the engine evaluates with.
func (e Engine) Policy() Policy {
	return e.policy
}

// EvaluateProject applies every rule to a project and returns the candidate
// alerts, without de-duplication. A project can produce zero, one or two
// candidates per cycle (one per rule), always in Open status. The rules run
// independently: a suppressed DCCO alert never masks a cost-overrun breach.
func (e Engine) EvaluateProject(p model.Project) []model.Alert {
	var alerts []model.Alert

	if a, ok := e.checkDCCODeferment(p); ok {
		alerts = append(alerts, a)
	}
	if a, ok := e.checkCostOverrun(p); ok {
		alerts = append(alerts, a)
	}

	return alerts
}

// Evaluate runs EvaluateProject and drops candidates for which an unresolved
// alert of the same type already exists.
func (e Engine) Evaluate(ctx context.Context, p model.Project, checker OpenAlertChecker) ([]model.Alert, error) {
	var alerts []model.Alert

	for _, candidate := range e.EvaluateProject(p) {
		exists, err := checker.HasOpenAlert(ctx, p.Key, candidate.AlertType)
		if err != nil {
			return nil, fmt.Errorf("alert lookup for %s/%s: %w", p.Key, candidate.AlertType, err)
		}
		if exists {
			continue
		}
		alerts = append(alerts, candidate)
	}

	return alerts, nil
}

func (e Engine) checkDCCODeferment(p model.Project) (model.Alert, bool) {
	if p.DCCOStatus <= e.policy.DCCOBreachDays {
		return model.Alert{}, false
	}

	severity := model.SeverityHigh
	if p.DCCOStatus > e.policy.DCCOCriticalDays {
		severity = model.SeverityCritical
	}

	desc := fmt.Sprintf("DCCO deferred %d days (breach threshold: %d days)",
		p.DCCOStatus, e.policy.DCCOBreachDays)

	return model.NewAlert(p.Key, model.AlertDCCODeferment, severity, desc), true
}

func (e Engine) checkCostOverrun(p model.Project) (model.Alert, bool) {
	// A zero sanction amount makes the overrun percentage incomputable;
	// treated as no overrun rather than dividing by zero.
	if p.ActualCost == nil || p.SanctionAmount <= 0 {
		return model.Alert{}, false
	}
	if *p.ActualCost <= p.SanctionAmount*(1+e.policy.CostOverrunTriggerPct/100) {
		return model.Alert{}, false
	}

	// Severity is decided on the percentage rounded to two decimals, the
	// same value shown in the description.
	overrunPct := round2((*p.ActualCost - p.SanctionAmount) / p.SanctionAmount * 100)

	severity := model.SeverityHigh
	if overrunPct > e.policy.CostOverrunCriticalPct {
		severity = model.SeverityCritical
	}

	desc := fmt.Sprintf("Cost overrun %.2f%% (breach threshold: %g%%)",
		overrunPct, e.policy.CostOverrunTriggerPct)

	return model.NewAlert(p.Key, model.AlertCostOverrun, severity, desc), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
