// Package alerts handles Kafka event consumption for project-update events.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/infracomply/compliance-backend/model"
)

// ProjectFinder defines the interface for loading project documents.
type ProjectFinder interface {
	FindProjectByKey(ctx context.Context, key string) (*model.Project, error)
}

// ProjectEvaluator defines the interface for running a compliance
// evaluation against a single project.
type ProjectEvaluator interface {
	EvaluateProject(ctx context.Context, p model.Project) error
}

// HandleProjectUpdated processes project-update events from Kafka, running
// an immediate compliance evaluation for the affected project.
func HandleProjectUpdated(
	ctx context.Context,
	msg []byte,
	finder ProjectFinder,
	evaluator ProjectEvaluator,
) error {
	var event ProjectUpdatedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ProjectUpdatedEvent: %w", err)
	}

	if event.ProjectKey == "" {
		return fmt.Errorf("invalid event: missing project key")
	}

	log.Printf("Processing project update for %s", event.ProjectKey)

	project, err := finder.FindProjectByKey(ctx, event.ProjectKey)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", event.ProjectKey, err)
	}
	if project == nil {
		return fmt.Errorf("project %s not found", event.ProjectKey)
	}

	if err := evaluator.EvaluateProject(ctx, *project); err != nil {
		return fmt.Errorf("internal evaluation error: %w", err)
	}

	log.Printf("Successfully evaluated project %s", event.ProjectKey)
	return nil
}
