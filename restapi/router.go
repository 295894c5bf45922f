// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/internal/evaluation"
	"github.com/infracomply/compliance-backend/model"
	"github.com/infracomply/compliance-backend/restapi/modules/alerts"
	"github.com/infracomply/compliance-backend/restapi/modules/audit"
	"github.com/infracomply/compliance-backend/restapi/modules/projects"
	"github.com/infracomply/compliance-backend/restapi/modules/provisions"
	"github.com/infracomply/compliance-backend/restapi/modules/reports"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema, cycle *evaluation.Cycle) {

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Projects
	projectGroup := api.Group("/projects")
	projectGroup.Get("/", projects.ListProjects(db))
	projectGroup.Get("/:key", projects.GetProject(db))
	projectGroup.Patch("/:key", projects.UpdateProject(db))
	projectGroup.Get("/:key/provision", provisions.GetProjectProvision(db))

	// Alerts
	alertGroup := api.Group("/alerts")
	alertGroup.Get("/", alerts.ListAlerts(db))
	alertGroup.Post("/", alerts.CreateAlert(db))
	alertGroup.Get("/counts", alerts.GetAlertCounts(db))
	alertGroup.Post("/:key/acknowledge", alerts.UpdateAlertStatus(db, model.StatusAcknowledged, "Acknowledged Alert"))
	alertGroup.Post("/:key/resolve", alerts.UpdateAlertStatus(db, model.StatusResolved, "Resolved Alert"))
	alertGroup.Post("/:key/dismiss", alerts.UpdateAlertStatus(db, model.StatusDismissed, "Dismissed Alert"))

	// On-demand evaluation
	api.Post("/evaluate", alerts.TriggerEvaluation(cycle))

	// Provisions & Reports
	api.Get("/provisions/portfolio", provisions.GetPortfolioProvisions(db))
	api.Get("/reports/crilc", reports.GetCRILCReport(db))

	// Audit trail (read-only)
	api.Get("/audit", audit.ListAuditLogs(db))
	api.Get("/audit/actions", audit.GetAuditActionTypes(db))

	log.Println("API routes initialized successfully")
}
