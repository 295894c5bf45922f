// Package model defines the data structures used by the compliance-backend,
// including projects, alerts, and audit entries.
package model

import "time"

// Sector represents the industry sector of a financed project
type Sector string

const (
	// SectorHighway represents road and highway infrastructure projects.
	SectorHighway Sector = "Highway"
	// SectorPower represents power generation and transmission projects.
	SectorPower Sector = "Power"
	// SectorResidential represents residential real-estate projects.
	SectorResidential Sector = "Residential"
	// SectorCRE represents commercial real-estate projects.
	SectorCRE Sector = "CRE"
	// SectorOther represents infrastructure projects outside the named sectors.
	SectorOther Sector = "Other"
)

// SectorBucket is the RBI provisioning classification of a sector
type SectorBucket string

const (
	// BucketInfrastructure carries the 1% base provision rate.
	BucketInfrastructure SectorBucket = "Infrastructure"
	// BucketCRE carries the 1.25% base provision rate.
	BucketCRE SectorBucket = "CRE"
)

// Bucket classifies the sector for provisioning purposes. Highway, Power and
// Other fall under Infrastructure; Residential and CRE under CRE.
func (s Sector) Bucket() SectorBucket {
	switch s {
	case SectorResidential, SectorCRE:
		return BucketCRE
	default:
		return BucketInfrastructure
	}
}

// ProjectStatus represents the lifecycle status of a project loan
type ProjectStatus string

const (
	// StatusActive marks a project participating in alerting and provisioning.
	StatusActive ProjectStatus = "Active"
	// StatusCompleted marks a project that reached commercial operations.
	StatusCompleted ProjectStatus = "Completed"
	// StatusNPA marks a non-performing asset.
	StatusNPA ProjectStatus = "NPA"
	// StatusClosed marks a fully repaid or written-off loan.
	StatusClosed ProjectStatus = "Closed"
)

// RiskTier buckets a risk score for dashboard display
type RiskTier string

const (
	// TierGreen covers scores below 40.
	TierGreen RiskTier = "Green"
	// TierYellow covers scores from 40 to 74.
	TierYellow RiskTier = "Yellow"
	// TierRed covers scores of 75 and above.
	TierRed RiskTier = "Red"
)

// Project represents a financed infrastructure/CRE project stored in the database.
// Monetary amounts are in ₹ crores. DCCOStatus is the schedule deferment in
// days: positive = late, negative = early, zero = on time.
type Project struct {
	Key             string        `json:"_key,omitempty"`
	ObjType         string        `json:"objtype,omitempty"`
	LoanID          string        `json:"loan_id"`
	BorrowerName    string        `json:"borrower_name"`
	Sector          Sector        `json:"sector"`
	SanctionAmount  float64       `json:"sanction_amount"`
	DisbursedAmount float64       `json:"disbursed_amount"`
	ActualCost      *float64      `json:"actual_cost,omitempty"` // nil = not yet known
	DCCOPlanned     time.Time     `json:"dcco_planned,omitempty"`
	DCCOActual      *time.Time    `json:"dcco_actual,omitempty"`
	DCCOStatus      int           `json:"dcco_status"`
	Status          ProjectStatus `json:"status"`
	RiskScore       int           `json:"risk_score"`
	RiskTier        RiskTier      `json:"risk_tier"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewProject creates a new Project with default values
func NewProject() *Project {
	now := time.Now().UTC()
	return &Project{
		ObjType:   "Project",
		Status:    StatusActive,
		RiskTier:  TierGreen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the project participates in alerting and
// provisioning aggregates.
func (p *Project) IsActive() bool {
	return p.Status == StatusActive
}
