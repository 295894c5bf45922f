// Package database - shared AQL query helpers
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/infracomply/compliance-backend/model"
)

// ArangoDB error number for a unique constraint violation.
const errUniqueConstraintViolated = 1210

// ActiveProjects returns every project with Active status, in stable loan-id
// order so evaluation cycles and reports are reproducible.
func ActiveProjects(ctx context.Context, db arangodb.Database) ([]model.Project, error) {
	query := `
		FOR p IN project
			FILTER p.status == @status
			SORT p.loan_id ASC
			RETURN p
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"status": model.StatusActive,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var projects []model.Project
	for cursor.HasMore() {
		var p model.Project
		if _, err := cursor.ReadDocument(ctx, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, nil
}

// FindProjectByKey fetches a single project document, or nil when absent.
func FindProjectByKey(ctx context.Context, db arangodb.Database, key string) (*model.Project, error) {
	query := `
		FOR p IN project
			FILTER p._key == @key
			LIMIT 1
			RETURN p
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key": key,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var p model.Project
		if _, err := cursor.ReadDocument(ctx, &p); err != nil {
			return nil, err
		}
		return &p, nil
	}

	return nil, nil
}

// HasOpenAlert reports whether an Open or Acknowledged alert of the given
// type exists for the project. This is the de-duplication lookup consulted
// by the alert engine.
func HasOpenAlert(ctx context.Context, db arangodb.Database, projectID string, alertType model.AlertType) (bool, error) {
	query := `
		FOR a IN alert
			FILTER a.project_id == @project_id
			   AND a.alert_type == @alert_type
			   AND a.status IN [@open, @acknowledged]
			LIMIT 1
			RETURN a._key
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"project_id":   projectID,
			"alert_type":   alertType,
			"open":         model.StatusOpen,
			"acknowledged": model.StatusAcknowledged,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	return cursor.HasMore(), nil
}

// InsertAlerts persists a batch of alert candidates, stamping created_at,
// and returns the alerts that were actually inserted. The unique sparse
// index on active_key rejects a duplicate unresolved alert that raced past
// the engine's lookup; that conflict is skipped rather than treated as an
// error.
func InsertAlerts(ctx context.Context, db DBConnection, alerts []model.Alert, now time.Time) ([]model.Alert, error) {
	created := make([]model.Alert, 0, len(alerts))
	for _, a := range alerts {
		a.CreatedAt = now
		if _, err := db.Collections["alert"].CreateDocument(ctx, a); err != nil {
			if shared.IsArangoErrorWithErrorNum(err, errUniqueConstraintViolated) {
				continue
			}
			return created, fmt.Errorf("failed to insert alert %s for project %s: %w", a.AlertType, a.ProjectID, err)
		}
		created = append(created, a)
	}
	return created, nil
}

// InsertAuditEntry appends one record to the immutable audit trail.
func InsertAuditEntry(ctx context.Context, db DBConnection, entry model.AuditEntry) error {
	if _, err := db.Collections["audit_log"].CreateDocument(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// UpdateProjectRisk persists a recomputed risk score and tier.
func UpdateProjectRisk(ctx context.Context, db arangodb.Database, key string, score int, tier model.RiskTier, now time.Time) error {
	query := `
		UPDATE @key WITH {
			risk_score: @score,
			risk_tier: @tier,
			updated_at: @now
		} IN project
	`
	_, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key":   key,
			"score": score,
			"tier":  tier,
			"now":   now,
		},
	})
	return err
}

// CountCriticalAlerts returns the number of unresolved Critical alerts for a
// project, an input to the risk score's alert component.
func CountCriticalAlerts(ctx context.Context, db arangodb.Database, projectID string) (int, error) {
	query := `
		RETURN LENGTH(
			FOR a IN alert
				FILTER a.project_id == @project_id
				   AND a.severity == @critical
				   AND a.status IN [@open, @acknowledged]
				RETURN 1
		)
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"project_id":   projectID,
			"critical":     model.SeverityCritical,
			"open":         model.StatusOpen,
			"acknowledged": model.StatusAcknowledged,
		},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	count := 0
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &count); err != nil {
			return 0, err
		}
	}
	return count, nil
}
