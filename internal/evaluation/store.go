package evaluation

import (
	"context"
	"time"

	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/model"
)

// ArangoStore adapts the database layer to the evaluation interfaces.
type ArangoStore struct {
	DB database.DBConnection
}

// NewArangoStore returns a store backed by the given connection.
func NewArangoStore(db database.DBConnection) *ArangoStore {
	return &ArangoStore{DB: db}
}

func (s *ArangoStore) ActiveProjects(ctx context.Context) ([]model.Project, error) {
	return database.ActiveProjects(ctx, s.DB.Database)
}

func (s *ArangoStore) HasOpenAlert(ctx context.Context, projectID string, alertType model.AlertType) (bool, error) {
	return database.HasOpenAlert(ctx, s.DB.Database, projectID, alertType)
}

func (s *ArangoStore) InsertAlerts(ctx context.Context, alerts []model.Alert, now time.Time) ([]model.Alert, error) {
	return database.InsertAlerts(ctx, s.DB, alerts, now)
}

func (s *ArangoStore) CountCriticalAlerts(ctx context.Context, projectID string) (int, error) {
	return database.CountCriticalAlerts(ctx, s.DB.Database, projectID)
}

func (s *ArangoStore) UpdateProjectRisk(ctx context.Context, projectID string, score int, tier model.RiskTier, now time.Time) error {
	return database.UpdateProjectRisk(ctx, s.DB.Database, projectID, score, tier, now)
}

func (s *ArangoStore) InsertAuditEntry(ctx context.Context, entry model.AuditEntry) error {
	return database.InsertAuditEntry(ctx, s.DB, entry)
}
