// Package provisions implements the REST API handlers for RBI provisioning
// calculations.
package provisions

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/internal/compliance"
	"github.com/infracomply/compliance-backend/model"
)

// GetProjectProvision returns the provision calculation for one project.
func GetProjectProvision(db database.DBConnection) fiber.Handler {
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

		return c.JSON(compliance.ProvisionForProject(*project))
	}
}

// GetPortfolioProvisions aggregates provision requirements across the
// active book, broken down by sector bucket.
func GetPortfolioProvisions(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		query := `FOR p IN project RETURN p`
		cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer cursor.Close()

		var all []model.Project
		for cursor.HasMore() {
			var p model.Project
			if _, err := cursor.ReadDocument(ctx, &p); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			all = append(all, p)
		}

		return c.JSON(compliance.AggregateActiveProvisions(all))
	}
}
