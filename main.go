// Package main boots the compliance backend: database, alert policy,
// evaluation scheduler, Kafka event processor and the HTTP API.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/events/modules/alerts"
	"github.com/infracomply/compliance-backend/internal/api"
	"github.com/infracomply/compliance-backend/internal/compliance"
	"github.com/infracomply/compliance-backend/internal/config"
	"github.com/infracomply/compliance-backend/internal/evaluation"
	"github.com/infracomply/compliance-backend/internal/kafka"
	"github.com/infracomply/compliance-backend/internal/scheduler"
)

func main() {
	logger := database.InitLogger()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Initialize database connection
	db := database.InitializeDatabase()

	// Load the alert policy (thresholds configurable per bank)
	policy, err := config.LoadPolicy(os.Getenv("POLICY_PATH"))
	if err != nil {
		sugar.Fatalf("Failed to load alert policy: %v", err)
	}
	engine := compliance.NewEngine(policy)

	// Wire the evaluation cycle
	store := evaluation.NewArangoStore(db)

	var publisher evaluation.EventPublisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer := alerts.NewAlertProducer(strings.Split(brokers, ","), "credit-events")
		defer producer.Close()
		publisher = producer
	}

	cycle := evaluation.NewCycle(engine, store, store, store, store, publisher, sugar)

	// Schedule the nightly evaluation run
	sched := scheduler.New(sugar)
	schedule := database.GetEnvDefault("EVALUATION_SCHEDULE", "0 2 * * *")
	if err := sched.AddJob(schedule, cycle); err != nil {
		sugar.Fatalf("Failed to schedule evaluation cycle: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start the Kafka event processor for on-change evaluation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := kafka.RunEventProcessor(ctx, db, cycle); err != nil {
		sugar.Errorf("Kafka event processor unavailable: %v", err)
	}

	// Create Fiber app
	app := api.NewFiberApp(db, cycle)

	// Get port from environment or default to 3000
	port := database.GetEnvDefault("MS_PORT", "3000")

	// Start server
	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		sugar.Fatalf("Failed to start server: %v", err)
	}
}
