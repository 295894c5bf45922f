// Package evaluation runs the periodic compliance evaluation cycle over the
// active project portfolio: risk score refresh, credit-event detection, audit
// logging and event publication.
package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/infracomply/compliance-backend/internal/compliance"
	"github.com/infracomply/compliance-backend/model"
	"go.uber.org/zap"
)

// ProjectSource lists the projects an evaluation cycle covers.
type ProjectSource interface {
	ActiveProjects(ctx context.Context) ([]model.Project, error)
}

// AlertStore persists alert candidates and answers the engine's
// de-duplication lookup.
type AlertStore interface {
	compliance.OpenAlertChecker
	InsertAlerts(ctx context.Context, alerts []model.Alert, now time.Time) ([]model.Alert, error)
	CountCriticalAlerts(ctx context.Context, projectID string) (int, error)
}

// RiskWriter persists recomputed risk scores.
type RiskWriter interface {
	UpdateProjectRisk(ctx context.Context, projectID string, score int, tier model.RiskTier, now time.Time) error
}

// AuditWriter appends records to the immutable audit trail.
type AuditWriter interface {
	InsertAuditEntry(ctx context.Context, entry model.AuditEntry) error
}

// EventPublisher emits credit-event messages for raised alerts. May be nil
// when no broker is configured.
type EventPublisher interface {
	PublishCreditEventRaised(ctx context.Context, project model.Project, alert model.Alert) error
}

// Cycle is the evaluation job. It owns no state between runs; each Run is a
// full pass over the active portfolio. The clock is injected so the
// compliance core itself stays time-free.
type Cycle struct {
	engine    compliance.Engine
	projects  ProjectSource
	alerts    AlertStore
	risk      RiskWriter
	audit     AuditWriter
	publisher EventPublisher
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewCycle wires an evaluation cycle.
func NewCycle(
	engine compliance.Engine,
	projects ProjectSource,
	alerts AlertStore,
	risk RiskWriter,
	audit AuditWriter,
	publisher EventPublisher,
	log *zap.SugaredLogger,
) *Cycle {
	return &Cycle{
		engine:    engine,
		projects:  projects,
		alerts:    alerts,
		risk:      risk,
		audit:     audit,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// WithClock overrides the cycle's clock, for tests.
func (c *Cycle) WithClock(now func() time.Time) *Cycle {
	c.now = now
	return c
}

// Name identifies the job to the scheduler.
func (c *Cycle) Name() string {
	return "compliance-evaluation-cycle"
}

// Run executes one full evaluation cycle as the scheduler's Job interface.
func (c *Cycle) Run() error {
	_, err := c.Execute(context.Background())
	return err
}

// Execute evaluates every active project and returns the run summary.
// Projects are independent; a failure on one is logged and the cycle moves
// on, so a single bad document cannot stall regulatory alerting for the
// whole portfolio.
func (c *Cycle) Execute(ctx context.Context) (model.EvaluationRunResult, error) {
	result := model.EvaluationRunResult{StartedAt: c.now()}

	projects, err := c.projects.ActiveProjects(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active projects: %w", err)
	}

	for _, p := range projects {
		result.ProjectsEvaluated++

		created, scored, err := c.evaluateOne(ctx, p)
		if err != nil {
			c.log.Errorw("project evaluation failed", "project", p.Key, "loan_id", p.LoanID, "error", err)
			continue
		}
		result.AlertsCreated += created
		if scored {
			result.RiskScoresUpdated++
		}
	}

	result.CompletedAt = c.now()
	c.log.Infow("evaluation cycle complete",
		"projects", result.ProjectsEvaluated,
		"alerts_created", result.AlertsCreated,
		"risk_scores_updated", result.RiskScoresUpdated,
		"duration", result.CompletedAt.Sub(result.StartedAt).String(),
	)

	// The cycle itself is an auditable action.
	entry := model.NewAuditEntry("system", "Ran Evaluation Cycle", result.CompletedAt)
	entry.EntityType = "evaluation"
	entry.NewValue = fmt.Sprintf("%d projects, %d alerts", result.ProjectsEvaluated, result.AlertsCreated)
	if err := c.audit.InsertAuditEntry(ctx, entry); err != nil {
		c.log.Errorw("failed to audit evaluation cycle", "error", err)
	}

	return result, nil
}

// EvaluateProject runs the cycle for a single project, used by the
// project-event consumer.
func (c *Cycle) EvaluateProject(ctx context.Context, p model.Project) error {
	if !p.IsActive() {
		return nil
	}
	_, _, err := c.evaluateOne(ctx, p)
	return err
}

func (c *Cycle) evaluateOne(ctx context.Context, p model.Project) (created int, scored bool, err error) {
	now := c.now()

	// Alert detection first: the engine consults the store for unresolved
	// duplicates, the unique active_key index closes the remaining race.
	candidates, err := c.engine.Evaluate(ctx, p, c.alerts)
	if err != nil {
		return 0, false, err
	}

	if len(candidates) > 0 {
		inserted, err := c.alerts.InsertAlerts(ctx, candidates, now)
		if err != nil {
			return len(inserted), false, err
		}
		created = len(inserted)

		for _, a := range inserted {
			entry := model.NewAuditEntry("system", "Created Alert", now)
			entry.ProjectID = p.Key
			entry.ProjectLoanID = p.LoanID
			entry.EntityType = "alert"
			entry.FieldChanged = "alert_type"
			entry.NewValue = string(a.AlertType)
			if err := c.audit.InsertAuditEntry(ctx, entry); err != nil {
				c.log.Errorw("failed to audit alert creation", "project", p.Key, "error", err)
			}

			if c.publisher != nil {
				if err := c.publisher.PublishCreditEventRaised(ctx, p, a); err != nil {
					c.log.Errorw("failed to publish credit event", "project", p.Key, "type", a.AlertType, "error", err)
				}
			}
		}
	}

	// Risk refresh uses the post-insert critical alert count so a newly
	// raised Critical alert is reflected in the same cycle.
	criticalCount, err := c.alerts.CountCriticalAlerts(ctx, p.Key)
	if err != nil {
		return created, false, err
	}

	score := compliance.ComputeRiskScore(p.DCCOStatus, p.SanctionAmount, p.ActualCost, criticalCount)
	tier := compliance.TierForScore(score)

	if score != p.RiskScore || tier != p.RiskTier {
		if err := c.risk.UpdateProjectRisk(ctx, p.Key, score, tier, now); err != nil {
			return created, false, err
		}
		scored = true
	}

	return created, scored, nil
}
