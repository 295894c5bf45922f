// Package projects implements the REST API handlers for project loan operations.
package projects

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/internal/compliance"
	"github.com/infracomply/compliance-backend/model"
)

const defaultPageLimit = 25

// Actor resolves the acting user for audit attribution. Write endpoints
// record whoever the X-Actor header names, falling back to "system".
func Actor(c *fiber.Ctx) string {
	if actor := c.Get("X-Actor"); actor != "" {
		return actor
	}
	return "system"
}

// ParsePagination reads page/limit query params with sane bounds.
func ParsePagination(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if limit < 1 || limit > 200 {
		limit = defaultPageLimit
	}
	return page, limit
}

// ListProjects returns a filtered, paginated project listing ordered by
// risk score descending so the riskiest exposures surface first.
//
// Query params: sector, risk_tier, status, search (loan id or borrower,
// case-insensitive substring), page, limit.
func ListProjects(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		page, limit := ParsePagination(c)

		filters := ""
		bindVars := map[string]interface{}{
			"offset": (page - 1) * limit,
			"limit":  limit,
		}

		if sector := c.Query("sector"); sector != "" {
			filters += " FILTER p.sector == @sector"
			bindVars["sector"] = sector
		}
		if tier := c.Query("risk_tier"); tier != "" {
			filters += " FILTER p.risk_tier == @tier"
			bindVars["tier"] = tier
		}
		if status := c.Query("status"); status != "" {
			filters += " FILTER p.status == @pstatus"
			bindVars["pstatus"] = status
		}
		if search := c.Query("search"); search != "" {
			filters += " FILTER CONTAINS(LOWER(p.loan_id), @search) OR CONTAINS(LOWER(p.borrower_name), @search)"
			bindVars["search"] = strings.ToLower(search)
		}

		query := fmt.Sprintf(`
			FOR p IN project
				%s
				SORT p.risk_score DESC, p.loan_id ASC
				LIMIT @offset, @limit
				RETURN p
		`, filters)

		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		projects := []model.Project{}
		for cursor.HasMore() {
			var p model.Project
			if _, err := cursor.ReadDocument(ctx, &p); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			projects = append(projects, p)
		}

		return c.JSON(model.ProjectPage{
			Projects: projects,
			Count:    len(projects),
			Page:     page,
			Limit:    limit,
		})
	}
}

// GetProject returns one project with its full alert history, newest first.
func GetProject(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		key := c.Params("key")

		project, err := database.FindProjectByKey(ctx, db.Database, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if project == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}

		query := `
			FOR a IN alert
				FILTER a.project_id == @project_id
				SORT a.created_at DESC
				RETURN a
		`
		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{"project_id": key},
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		alerts := []model.Alert{}
		for cursor.HasMore() {
			var a model.Alert
			if _, err := cursor.ReadDocument(ctx, &a); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			alerts = append(alerts, a)
		}

		return c.JSON(model.ProjectWithAlerts{Project: *project, Alerts: alerts})
	}
}

// updateRequest carries the mutable project fields. Pointers distinguish
// "not sent" from a zero value.
type updateRequest struct {
	BorrowerName    *string  `json:"borrower_name"`
	SanctionAmount  *float64 `json:"sanction_amount"`
	DisbursedAmount *float64 `json:"disbursed_amount"`
	ActualCost      *float64 `json:"actual_cost"`
	DCCOActual      *string  `json:"dcco_actual"` // YYYY-MM-DD
	DCCOStatus      *int     `json:"dcco_status"`
	Status          *string  `json:"status"`
}

// UpdateProject applies a partial update, writes one audit entry per changed
// field, and recomputes the risk score so the new figures take effect
// immediately rather than on the next scheduled cycle.
func UpdateProject(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		key := c.Params("key")
		actor := Actor(c)
		now := time.Now().UTC()

		project, err := database.FindProjectByKey(ctx, db.Database, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if project == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}

		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		type change struct{ field, oldVal, newVal string }
		var changes []change
		patch := map[string]interface{}{}

		if req.BorrowerName != nil && *req.BorrowerName != project.BorrowerName {
			changes = append(changes, change{"borrower_name", project.BorrowerName, *req.BorrowerName})
			patch["borrower_name"] = *req.BorrowerName
			project.BorrowerName = *req.BorrowerName
		}
		if req.SanctionAmount != nil && *req.SanctionAmount != project.SanctionAmount {
			changes = append(changes, change{"sanction_amount", formatAmount(project.SanctionAmount), formatAmount(*req.SanctionAmount)})
			patch["sanction_amount"] = *req.SanctionAmount
			project.SanctionAmount = *req.SanctionAmount
		}
		if req.DisbursedAmount != nil && *req.DisbursedAmount != project.DisbursedAmount {
			changes = append(changes, change{"disbursed_amount", formatAmount(project.DisbursedAmount), formatAmount(*req.DisbursedAmount)})
			patch["disbursed_amount"] = *req.DisbursedAmount
			project.DisbursedAmount = *req.DisbursedAmount
		}
		if req.ActualCost != nil {
			oldVal := ""
			if project.ActualCost != nil {
				oldVal = formatAmount(*project.ActualCost)
			}
			if project.ActualCost == nil || *project.ActualCost != *req.ActualCost {
				changes = append(changes, change{"actual_cost", oldVal, formatAmount(*req.ActualCost)})
				patch["actual_cost"] = *req.ActualCost
				project.ActualCost = req.ActualCost
			}
		}
		if req.DCCOActual != nil {
			dcco, err := time.Parse("2006-01-02", *req.DCCOActual)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dcco_actual must be YYYY-MM-DD"})
			}
			oldVal := ""
			if project.DCCOActual != nil {
				oldVal = project.DCCOActual.Format("2006-01-02")
			}
			if project.DCCOActual == nil || !project.DCCOActual.Equal(dcco) {
				changes = append(changes, change{"dcco_actual", oldVal, *req.DCCOActual})
				patch["dcco_actual"] = dcco
				project.DCCOActual = &dcco
				// Keep the deferment figure consistent with the revised date.
				if !project.DCCOPlanned.IsZero() {
					days := int(dcco.Sub(project.DCCOPlanned).Hours() / 24)
					if days != project.DCCOStatus {
						changes = append(changes, change{"dcco_status", strconv.Itoa(project.DCCOStatus), strconv.Itoa(days)})
						patch["dcco_status"] = days
						project.DCCOStatus = days
					}
				}
			}
		}
		if req.DCCOStatus != nil && *req.DCCOStatus != project.DCCOStatus {
			changes = append(changes, change{"dcco_status", strconv.Itoa(project.DCCOStatus), strconv.Itoa(*req.DCCOStatus)})
			patch["dcco_status"] = *req.DCCOStatus
			project.DCCOStatus = *req.DCCOStatus
		}
		if req.Status != nil && model.ProjectStatus(*req.Status) != project.Status {
			next := model.ProjectStatus(*req.Status)
			switch next {
			case model.StatusActive, model.StatusCompleted, model.StatusNPA, model.StatusClosed:
			default:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
			}
			changes = append(changes, change{"status", string(project.Status), string(next)})
			patch["status"] = next
			project.Status = next
		}

		if len(changes) == 0 {
			return c.JSON(project)
		}

		// Recompute risk with the updated figures.
		criticalCount, err := database.CountCriticalAlerts(ctx, db.Database, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		score := compliance.ComputeRiskScore(project.DCCOStatus, project.SanctionAmount, project.ActualCost, criticalCount)
		tier := compliance.TierForScore(score)
		if score != project.RiskScore {
			patch["risk_score"] = score
			project.RiskScore = score
		}
		if tier != project.RiskTier {
			patch["risk_tier"] = tier
			project.RiskTier = tier
		}
		patch["updated_at"] = now
		project.UpdatedAt = now

		query := `UPDATE @key WITH @patch IN project`
		if _, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{"key": key, "patch": patch},
		}); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		for _, ch := range changes {
			entry := model.NewAuditEntry(actor, "Updated Project", now)
			entry.ProjectID = key
			entry.ProjectLoanID = project.LoanID
			entry.EntityType = "project"
			entry.FieldChanged = ch.field
			entry.OldValue = ch.oldVal
			entry.NewValue = ch.newVal
			if err := database.InsertAuditEntry(ctx, db, entry); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
		}

		return c.JSON(project)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

