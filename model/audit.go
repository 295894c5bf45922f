// Package model - immutable audit trail records
package model

import "time"

// AuditEntry is an append-only record of a compliance-relevant action.
// Entries are never updated or deleted once written.
type AuditEntry struct {
	Key           string    `json:"_key,omitempty"`
	ObjType       string    `json:"objtype,omitempty"`
	Actor         string    `json:"actor"` // user identifier or "system"
	Action        string    `json:"action"`
	ProjectID     string    `json:"project_id,omitempty"`
	ProjectLoanID string    `json:"project_loan_id,omitempty"`
	EntityType    string    `json:"entity_type,omitempty"` // "project", "alert", "report"
	EntityID      string    `json:"entity_id,omitempty"`
	FieldChanged  string    `json:"field_changed,omitempty"`
	OldValue      string    `json:"old_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewAuditEntry creates an audit record stamped with the given time.
func NewAuditEntry(actor, action string, at time.Time) AuditEntry {
	return AuditEntry{
		ObjType:   "AuditEntry",
		Actor:     actor,
		Action:    action,
		Timestamp: at,
	}
}
