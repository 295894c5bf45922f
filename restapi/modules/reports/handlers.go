// Package reports implements the REST API handlers for regulatory report
// extracts.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/model"
	"github.com/infracomply/compliance-backend/restapi/modules/projects"
)

// GetCRILCReport returns the credit events raised in a date range, joined
// with the borrower and exposure fields CRILC filings need. The report is
// returned as data; rendering to a filing format happens downstream.
//
// Query params: from, to (YYYY-MM-DD, to is exclusive; defaults to the
// last 90 days).
func GetCRILCReport(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		actor := projects.Actor(c)
		now := time.Now().UTC()

		to := now
		if s := c.Query("to"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
			}
			to = t
		}
		from := to.AddDate(0, 0, -90)
		if s := c.Query("from"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
			}
			from = t
		}
		if !from.Before(to) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be before to"})
		}

		query := `
			FOR a IN alert
				FILTER a.created_at >= @from AND a.created_at < @to
				SORT a.created_at ASC
				LET p = DOCUMENT("project", a.project_id)
				FILTER p != null
				RETURN {
					loan_id:          p.loan_id,
					borrower_name:    p.borrower_name,
					sector:           p.sector,
					event_type:       a.alert_type,
					event_date:       LEFT(a.created_at, 10),
					status:           a.status,
					resolution_plan:  a.resolution_plan != null ? a.resolution_plan : "",
					sanction_amount:  p.sanction_amount,
					disbursed_amount: p.disbursed_amount
				}
		`
		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{
				"from": from.Format(time.RFC3339),
				"to":   to.Format(time.RFC3339),
			},
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		entries := []model.CRILCReportEntry{}
		for cursor.HasMore() {
			var e model.CRILCReportEntry
			if _, err := cursor.ReadDocument(ctx, &e); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			entries = append(entries, e)
		}

		// Report generation itself is an auditable event for regulators.
		entry := model.NewAuditEntry(actor, "Generated CRILC Report", now)
		entry.EntityType = "report"
		entry.NewValue = fmt.Sprintf("%s to %s, %d entries", from.Format("2006-01-02"), to.Format("2006-01-02"), len(entries))
		if err := database.InsertAuditEntry(ctx, db, entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{
			"from":    from.Format("2006-01-02"),
			"to":      to.Format("2006-01-02"),
			"count":   len(entries),
			"entries": entries,
		})
	}
}
