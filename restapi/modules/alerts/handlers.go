// Package alerts implements the REST API handlers for credit-event alert
// operations: listing, lifecycle transitions and on-demand evaluation.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/internal/evaluation"
	"github.com/infracomply/compliance-backend/model"
	"github.com/infracomply/compliance-backend/restapi/modules/projects"
)

// ListAlerts returns a filtered, paginated alert listing joined with the
// identifying fields of each alert's project, newest first.
//
// Query params: status, severity, alert_type, project_id, from, to
// (YYYY-MM-DD on created_at), page, limit.
func ListAlerts(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		page, limit := projects.ParsePagination(c)

		filters := ""
		bindVars := map[string]interface{}{
			"offset": (page - 1) * limit,
			"limit":  limit,
		}

		if status := c.Query("status"); status != "" {
			filters += " FILTER a.status == @astatus"
			bindVars["astatus"] = status
		}
		if severity := c.Query("severity"); severity != "" {
			filters += " FILTER a.severity == @severity"
			bindVars["severity"] = severity
		}
		if alertType := c.Query("alert_type"); alertType != "" {
			filters += " FILTER a.alert_type == @alert_type"
			bindVars["alert_type"] = alertType
		}
		if projectID := c.Query("project_id"); projectID != "" {
			filters += " FILTER a.project_id == @project_id"
			bindVars["project_id"] = projectID
		}
		if from := c.Query("from"); from != "" {
			filters += " FILTER a.created_at >= @from"
			bindVars["from"] = from
		}
		if to := c.Query("to"); to != "" {
			filters += " FILTER a.created_at < @to"
			bindVars["to"] = to
		}

		query := fmt.Sprintf(`
			FOR a IN alert
				%s
				SORT a.created_at DESC
				LIMIT @offset, @limit
				LET p = DOCUMENT("project", a.project_id)
				RETURN MERGE(a, {
					loan_id: p != null ? p.loan_id : "",
					borrower_name: p != null ? p.borrower_name : "",
					sector: p != null ? p.sector : ""
				})
		`, filters)

		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		alerts := []model.AlertWithProject{}
		for cursor.HasMore() {
			var a model.AlertWithProject
			if _, err := cursor.ReadDocument(ctx, &a); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			alerts = append(alerts, a)
		}

		return c.JSON(model.AlertPage{
			Alerts: alerts,
			Count:  len(alerts),
			Page:   page,
			Limit:  limit,
		})
	}
}

// GetAlertCounts summarizes alerts by lifecycle status for the dashboard
// header badges.
func GetAlertCounts(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		query := `
			RETURN {
				open:         LENGTH(FOR a IN alert FILTER a.status == "Open" RETURN 1),
				acknowledged: LENGTH(FOR a IN alert FILTER a.status == "Acknowledged" RETURN 1),
				resolved:     LENGTH(FOR a IN alert FILTER a.status == "Resolved" RETURN 1),
				dismissed:    LENGTH(FOR a IN alert FILTER a.status == "Dismissed" RETURN 1)
			}
		`
		cursor, err := db.Database.Query(ctx, query, nil)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		var counts model.AlertCounts
		if cursor.HasMore() {
			if _, err := cursor.ReadDocument(ctx, &counts); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
		}
		counts.Total = counts.Open + counts.Acknowledged + counts.Resolved + counts.Dismissed

		return c.JSON(counts)
	}
}

// createRequest carries the fields of a manually raised alert.
type createRequest struct {
	ProjectID      string `json:"project_id"`
	AlertType      string `json:"alert_type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	ResolutionPlan string `json:"resolution_plan"`
}

// CreateAlert raises an alert by hand, for credit events the engine does not
// detect (milestone delays, document expiries and the like). The alert
// starts Open and carries active_key, so the same uniqueness constraint
// applies as for engine-raised alerts.
func CreateAlert(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		actor := projects.Actor(c)
		now := time.Now().UTC()

		var req createRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.ProjectID == "" || req.Description == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "project_id and description are required"})
		}
		alertType := model.AlertType(req.AlertType)
		if !alertType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid alert_type"})
		}
		severity := model.Severity(req.Severity)
		if !severity.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid severity"})
		}

		project, err := database.FindProjectByKey(ctx, db.Database, req.ProjectID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if project == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}

		alert := model.NewAlert(req.ProjectID, alertType, severity, req.Description)
		alert.ResolutionPlan = req.ResolutionPlan

		inserted, err := database.InsertAlerts(ctx, db, []model.Alert{alert}, now)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if len(inserted) == 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("an unresolved %s alert already exists for this project", alertType),
			})
		}

		entry := model.NewAuditEntry(actor, "Created Alert", now)
		entry.ProjectID = req.ProjectID
		entry.ProjectLoanID = project.LoanID
		entry.EntityType = "alert"
		entry.FieldChanged = "alert_type"
		entry.NewValue = string(alertType)
		if err := database.InsertAuditEntry(ctx, db, entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.Status(fiber.StatusCreated).JSON(inserted[0])
	}
}

// transitionRequest carries the optional fields of a lifecycle transition.
type transitionRequest struct {
	Note           string `json:"note"`
	ResolutionPlan string `json:"resolution_plan"`
}

// UpdateAlertStatus moves an alert to the target lifecycle status,
// enforcing the state machine. Resolving or dismissing clears active_key so
// a recurrence of the breach raises a fresh alert.
func UpdateAlertStatus(db database.DBConnection, target model.AlertStatus, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		key := c.Params("key")
		actor := projects.Actor(c)
		now := time.Now().UTC()

		var req transitionRequest
		// An empty body is fine; the note and plan are optional.
		_ = c.BodyParser(&req)

		alert, err := findAlertByKey(ctx, db, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if alert == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "alert not found"})
		}

		if !alert.Status.CanTransitionTo(target) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fmt.Sprintf("cannot move alert from %s to %s", alert.Status, target),
			})
		}

		patch := map[string]interface{}{"status": target}
		switch target {
		case model.StatusAcknowledged:
			patch["acknowledged_at"] = now
			patch["acknowledged_by"] = actor
			if req.Note != "" {
				patch["acknowledged_note"] = req.Note
			}
		case model.StatusResolved, model.StatusDismissed:
			patch["resolved_at"] = now
			patch["active_key"] = nil
			if req.ResolutionPlan != "" {
				patch["resolution_plan"] = req.ResolutionPlan
			}
		}

		query := `UPDATE @key WITH @patch IN alert OPTIONS { keepNull: false } RETURN NEW`
		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{"key": key, "patch": patch},
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		var updated model.Alert
		if cursor.HasMore() {
			if _, err := cursor.ReadDocument(ctx, &updated); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
		}

		entry := model.NewAuditEntry(actor, action, now)
		entry.ProjectID = alert.ProjectID
		entry.EntityType = "alert"
		entry.EntityID = key
		entry.FieldChanged = "status"
		entry.OldValue = string(alert.Status)
		entry.NewValue = string(target)
		if err := database.InsertAuditEntry(ctx, db, entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(updated)
	}
}

// TriggerEvaluation runs a full evaluation cycle on demand and returns the
// run summary.
func TriggerEvaluation(cycle *evaluation.Cycle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := cycle.Execute(context.Background())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	}
}

func findAlertByKey(ctx context.Context, db database.DBConnection, key string) (*model.Alert, error) {
	query := `
		FOR a IN alert
			FILTER a._key == @key
			LIMIT 1
			RETURN a
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}
	var a model.Alert
	if _, err := cursor.ReadDocument(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
