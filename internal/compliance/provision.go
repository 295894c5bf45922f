// Package compliance implements the RBI provisioning, risk-scoring and
// credit-event rules for project loans. Every function in this package is
// pure: no I/O, no clock, no shared state, safe to call concurrently.
package compliance

import (
	"math"

	"github.com/infracomply/compliance-backend/model"
)

// RBI provisioning rates for standard restructured project loans.
// Base rates depend on the sector bucket; the additional rate accrues per
// quarter of DCCO deferment.
const (
	InfraBaseProvisionRate = 0.01
	CREBaseProvisionRate   = 0.0125
	DefermentQuarterRate   = 0.00375
	DaysPerQuarter         = 90
)

// ProvisionCalculation is the per-project provisioning breakdown. It is
// derived data, recomputed on every request and never persisted.
type ProvisionCalculation struct {
	ProjectID               string       `json:"project_id,omitempty"`
	LoanID                  string       `json:"loan_id,omitempty"`
	BorrowerName            string       `json:"borrower_name,omitempty"`
	Sector                  model.Sector `json:"sector"`
	SanctionAmount          float64      `json:"sanction_amount"`
	DCCODefermentDays       int          `json:"dcco_deferment_days"`
	DCCODefermentQuarters   int          `json:"dcco_deferment_quarters"`
	BaseProvisionRate       float64      `json:"base_provision_rate"`
	BaseProvisionAmount     float64      `json:"base_provision_amount"`
	AdditionalProvisionRate float64      `json:"additional_provision_rate"`
	AdditionalProvision     float64      `json:"additional_provision_amount"`
	TotalProvision          float64      `json:"total_provision"`
}

// PortfolioProvisionSummary aggregates provision calculations across a
// portfolio. Calculations preserve the input project order.
type PortfolioProvisionSummary struct {
	Calculations    []ProvisionCalculation   `json:"calculations"`
	TotalProvision  float64                  `json:"total_provision"`
	SectorBreakdown map[model.Sector]float64 `json:"sector_breakdown"`
	ProjectCount    int                      `json:"project_count"`
}

// CalculateProvision computes the RBI-mandated provision for a single loan.
// Infrastructure sectors (Highway, Power, Other) carry a 1% base rate, CRE
// sectors (Residential, CRE) 1.25%. Each started quarter of DCCO deferment
// adds 0.375% of the sanction amount; zero or negative deferment adds
// nothing. Inputs are assumed validated at the boundary.
func CalculateProvision(sanctionAmount float64, sector model.Sector, dccoDefermentDays int) ProvisionCalculation {
	baseRate := InfraBaseProvisionRate
	if sector.Bucket() == model.BucketCRE {
		baseRate = CREBaseProvisionRate
	}
	baseAmount := sanctionAmount * baseRate

	quarters := 0
	if dccoDefermentDays > 0 {
		quarters = int(math.Ceil(float64(dccoDefermentDays) / DaysPerQuarter))
	}
	additionalRate := float64(quarters) * DefermentQuarterRate
	additionalAmount := sanctionAmount * additionalRate

	return ProvisionCalculation{
		Sector:                  sector,
		SanctionAmount:          sanctionAmount,
		DCCODefermentDays:       dccoDefermentDays,
		DCCODefermentQuarters:   quarters,
		BaseProvisionRate:       baseRate,
		BaseProvisionAmount:     baseAmount,
		AdditionalProvisionRate: additionalRate,
		AdditionalProvision:     additionalAmount,
		TotalProvision:          baseAmount + additionalAmount,
	}
}

// ProvisionForProject computes the provision for a stored project, carrying
// its identifying fields into the calculation.
func ProvisionForProject(p model.Project) ProvisionCalculation {
	calc := CalculateProvision(p.SanctionAmount, p.Sector, p.DCCOStatus)
	calc.ProjectID = p.Key
	calc.LoanID = p.LoanID
	calc.BorrowerName = p.BorrowerName
	return calc
}

// AggregateProvisions computes per-project provisions for exactly the
// projects it is given (callers normally pass the active portfolio) and sums
// them overall and per sector.
func AggregateProvisions(projects []model.Project) PortfolioProvisionSummary {
	summary := PortfolioProvisionSummary{
		Calculations:    make([]ProvisionCalculation, 0, len(projects)),
		SectorBreakdown: make(map[model.Sector]float64),
	}

	for _, p := range projects {
		calc := ProvisionForProject(p)
		summary.Calculations = append(summary.Calculations, calc)
		summary.TotalProvision += calc.TotalProvision
		summary.SectorBreakdown[p.Sector] += calc.TotalProvision
	}
	summary.ProjectCount = len(summary.Calculations)

	return summary
}

// AggregateActiveProvisions aggregates the Active book only. Completed, NPA
// and Closed loans carry no provisioning requirement and must not inflate
// the portfolio total.
func AggregateActiveProvisions(projects []model.Project) PortfolioProvisionSummary {
	active := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return AggregateProvisions(active)
}
