// Package audit implements the REST API handlers for reading the audit trail.
package audit

import (
	"context"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/model"
	"github.com/infracomply/compliance-backend/restapi/modules/projects"
)

// ListAuditLogs returns a filtered, paginated view of the audit trail,
// newest first. The trail itself is append-only; this surface is read-only.
//
// Query params: actor, action, entity_type, project_id, from, to
// (YYYY-MM-DD on timestamp), page, limit.
func ListAuditLogs(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		page, limit := projects.ParsePagination(c)

		filters := ""
		bindVars := map[string]interface{}{
			"offset": (page - 1) * limit,
			"limit":  limit,
		}

		if actor := c.Query("actor"); actor != "" {
			filters += " FILTER e.actor == @actor"
			bindVars["actor"] = actor
		}
		if action := c.Query("action"); action != "" {
			filters += " FILTER e.action == @action"
			bindVars["action"] = action
		}
		if entityType := c.Query("entity_type"); entityType != "" {
			filters += " FILTER e.entity_type == @entity_type"
			bindVars["entity_type"] = entityType
		}
		if projectID := c.Query("project_id"); projectID != "" {
			filters += " FILTER e.project_id == @project_id"
			bindVars["project_id"] = projectID
		}
		if from := c.Query("from"); from != "" {
			filters += " FILTER e.timestamp >= @from"
			bindVars["from"] = from
		}
		if to := c.Query("to"); to != "" {
			filters += " FILTER e.timestamp < @to"
			bindVars["to"] = to
		}

		query := fmt.Sprintf(`
			FOR e IN audit_log
				%s
				SORT e.timestamp DESC
				LIMIT @offset, @limit
				RETURN e
		`, filters)

		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		entries := []model.AuditEntry{}
		for cursor.HasMore() {
			var e model.AuditEntry
			if _, err := cursor.ReadDocument(ctx, &e); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			entries = append(entries, e)
		}

		return c.JSON(model.AuditPage{
			Entries: entries,
			Count:   len(entries),
			Page:    page,
			Limit:   limit,
		})
	}
}

// GetAuditActionTypes returns the distinct action names present in the
// trail, for filter dropdowns.
func GetAuditActionTypes(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		query := `
			FOR e IN audit_log
				COLLECT action = e.action
				SORT action ASC
				RETURN action
		`
		cursor, err := db.Database.Query(ctx, query, nil)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		actions := []string{}
		for cursor.HasMore() {
			var action string
			if _, err := cursor.ReadDocument(ctx, &action); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			if action != "" {
				actions = append(actions, action)
			}
		}

		return c.JSON(fiber.Map{"actions": actions})
	}
}
