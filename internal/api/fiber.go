package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/graphql"
	"github.com/infracomply/compliance-backend/internal/evaluation"
	"github.com/infracomply/compliance-backend/restapi"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(db database.DBConnection, cycle *evaluation.Cycle) *fiber.App {
	// Initialize GraphQL schema
	graphql.InitDB(db)
	schema, err := graphql.CreateSchema()
	if err != nil {
		log.Fatalf("Failed to create GraphQL schema: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:     "compliance-backend API v1.0",
		BodyLimit:   10 * 1024 * 1024, // 10MB
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://127.0.0.1:3000",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Actor",
		AllowCredentials: true,
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(logger.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Setup REST and GraphQL routes
	restapi.SetupRoutes(app, db, schema, cycle)

	return app
}
