// Package model - credit-event alert types and lifecycle rules
package model

import "time"

// AlertType represents the category of a credit-event alert
type AlertType string

const (
	// AlertDCCODeferment flags a DCCO schedule slip past the breach threshold.
	AlertDCCODeferment AlertType = "DCCO Deferment"
	// AlertCostOverrun flags project cost exceeding the sanctioned amount.
	AlertCostOverrun AlertType = "Cost Overrun"
	// AlertMilestoneDelay flags a delayed project milestone.
	AlertMilestoneDelay AlertType = "Milestone Delay"
	// AlertDocumentExpiry flags an expiring compliance document.
	AlertDocumentExpiry AlertType = "Document Expiry"
	// AlertOther covers manually raised alerts outside the fixed categories.
	AlertOther AlertType = "Other"
)

// Valid reports whether t is one of the defined alert types.
func (t AlertType) Valid() bool {
	switch t {
	case AlertDCCODeferment, AlertCostOverrun, AlertMilestoneDelay, AlertDocumentExpiry, AlertOther:
		return true
	}
	return false
}

// Severity represents the urgency of an alert
type Severity string

const (
	// SeverityCritical requires immediate escalation.
	SeverityCritical Severity = "Critical"
	// SeverityHigh requires action within the reporting cycle.
	SeverityHigh Severity = "High"
	// SeverityMedium requires tracking.
	SeverityMedium Severity = "Medium"
	// SeverityLow is informational.
	SeverityLow Severity = "Low"
)

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// AlertStatus represents the position of an alert in its lifecycle
type AlertStatus string

const (
	// StatusOpen is the initial status of every generated alert.
	StatusOpen AlertStatus = "Open"
	// StatusAcknowledged means a reviewer has seen the alert.
	StatusAcknowledged AlertStatus = "Acknowledged"
	// StatusResolved is terminal: the underlying breach was addressed.
	StatusResolved AlertStatus = "Resolved"
	// StatusDismissed is terminal: the alert was judged a non-issue.
	StatusDismissed AlertStatus = "Dismissed"
)

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition. Resolved and Dismissed are terminal; an acknowledged alert can
// only be resolved.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case StatusOpen:
		return next == StatusAcknowledged || next == StatusResolved || next == StatusDismissed
	case StatusAcknowledged:
		return next == StatusResolved
	default:
		return false
	}
}

// Unresolved reports whether the alert still suppresses new alerts of the
// same type for its project.
func (s AlertStatus) Unresolved() bool {
	return s == StatusOpen || s == StatusAcknowledged
}

// Alert represents a credit-event alert raised against a project.
// Closure is exclusively a human action; the evaluation engine only ever
// creates alerts in Open status.
type Alert struct {
	Key              string      `json:"_key,omitempty"`
	ObjType          string      `json:"objtype,omitempty"`
	ProjectID        string      `json:"project_id"`
	AlertType        AlertType   `json:"alert_type"`
	Severity         Severity    `json:"severity"`
	Status           AlertStatus `json:"status"`
	Description      string      `json:"description"`
	ResolutionPlan   string      `json:"resolution_plan,omitempty"`
	AcknowledgedAt   *time.Time  `json:"acknowledged_at,omitempty"`
	AcknowledgedBy   string      `json:"acknowledged_by,omitempty"`
	AcknowledgedNote string      `json:"acknowledged_note,omitempty"`
	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at,omitempty"`

	// ActiveKey backs the unique sparse index that prevents duplicate
	// unresolved alerts of the same type for one project. Set while the
	// alert is Open or Acknowledged, cleared on Resolve/Dismiss.
	ActiveKey string `json:"active_key,omitempty"`
}

// NewAlert creates an Open alert candidate for a project. CreatedAt is left
// zero; the persistence layer stamps it at insert time.
func NewAlert(projectID string, alertType AlertType, severity Severity, description string) Alert {
	a := Alert{
		ObjType:     "Alert",
		ProjectID:   projectID,
		AlertType:   alertType,
		Severity:    severity,
		Status:      StatusOpen,
		Description: description,
	}
	a.ActiveKey = ActiveAlertKey(projectID, alertType)
	return a
}

// ActiveAlertKey builds the uniqueness key for an unresolved alert.
func ActiveAlertKey(projectID string, alertType AlertType) string {
	return projectID + "|" + string(alertType)
}
