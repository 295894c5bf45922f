// Package alerts defines types for Kafka event processing of credit-event
// and project-update messages.
package alerts

import (
	"time"

	"github.com/infracomply/compliance-backend/model"
)

// CreditEventRaisedEvent is published to Kafka whenever the alert engine
// raises a new credit event for a project loan.
type CreditEventRaisedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Alert model.Alert `json:"alert"`

	Project ProjectReference `json:"project"`
}

// ProjectUpdatedEvent signals that a project document changed upstream and
// should be re-evaluated without waiting for the nightly cycle.
type ProjectUpdatedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	ProjectKey string `json:"project_key"`
}

// ProjectReference carries the identifying fields of a project so consumers
// do not need a database round trip to attribute the event.
type ProjectReference struct {
	Key            string       `json:"key"`
	LoanID         string       `json:"loan_id"`
	BorrowerName   string       `json:"borrower_name"`
	Sector         model.Sector `json:"sector"`
	SanctionAmount float64      `json:"sanction_amount"`
}
