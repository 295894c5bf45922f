// Package model - API types for combining models in API requests/responses
package model

import "time"

// ProjectPage is a paginated project listing response
type ProjectPage struct {
	Projects []Project `json:"projects"`
	Count    int       `json:"count"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// ProjectWithAlerts combines a project with its alert history for the detail view
type ProjectWithAlerts struct {
	Project
	Alerts []Alert `json:"alerts"`
}

// AlertPage is a paginated alert listing response
type AlertPage struct {
	Alerts []AlertWithProject `json:"alerts"`
	Count  int                `json:"count"`
	Page   int                `json:"page"`
	Limit  int                `json:"limit"`
}

// AlertWithProject joins an alert with identifying fields of its project
type AlertWithProject struct {
	Alert
	LoanID       string `json:"loan_id"`
	BorrowerName string `json:"borrower_name"`
	Sector       Sector `json:"sector"`
}

// AlertCounts summarizes alerts by lifecycle status
type AlertCounts struct {
	Open         int `json:"open"`
	Acknowledged int `json:"acknowledged"`
	Resolved     int `json:"resolved"`
	Dismissed    int `json:"dismissed"`
	Total        int `json:"total"`
}

// AuditPage is a paginated audit trail listing response
type AuditPage struct {
	Entries []AuditEntry `json:"entries"`
	Count   int          `json:"count"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

// EvaluationRunResult reports the outcome of one evaluation cycle
type EvaluationRunResult struct {
	ProjectsEvaluated int       `json:"projects_evaluated"`
	AlertsCreated     int       `json:"alerts_created"`
	RiskScoresUpdated int       `json:"risk_scores_updated"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
}

// CRILCReportEntry is one row of the CRILC credit-event report
type CRILCReportEntry struct {
	LoanID          string      `json:"loan_id"`
	BorrowerName    string      `json:"borrower_name"`
	Sector          Sector      `json:"sector"`
	EventType       AlertType   `json:"event_type"`
	EventDate       string      `json:"event_date"` // YYYY-MM-DD
	Status          AlertStatus `json:"status"`
	ResolutionPlan  string      `json:"resolution_plan"`
	SanctionAmount  float64     `json:"sanction_amount"`
	DisbursedAmount float64     `json:"disbursed_amount"`
}
