package compliance

import (
	"testing"

	"github.com/infracomply/compliance-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateProvisionBaseRates(t *testing.T) {
	tests := []struct {
		name     string
		sector   model.Sector
		wantRate float64
	}{
		{"highway is infrastructure", model.SectorHighway, 0.01},
		{"power is infrastructure", model.SectorPower, 0.01},
		{"other is infrastructure", model.SectorOther, 0.01},
		{"residential is CRE", model.SectorResidential, 0.0125},
		{"CRE is CRE", model.SectorCRE, 0.0125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := CalculateProvision(200, tt.sector, 0)
			assert.Equal(t, tt.wantRate, calc.BaseProvisionRate)
			assert.Equal(t, 200*tt.wantRate, calc.BaseProvisionAmount)
			assert.Equal(t, 0, calc.DCCODefermentQuarters)
			assert.Equal(t, 0.0, calc.AdditionalProvision)
			assert.Equal(t, calc.BaseProvisionAmount, calc.TotalProvision)
		})
	}
}

func TestCalculateProvisionDefermentQuarters(t *testing.T) {
	tests := []struct {
		days     int
		quarters int
	}{
		{-30, 0},
		{0, 0},
		{1, 1},
		{89, 1},
		{90, 1},
		{91, 2},
		{180, 2},
		{181, 3},
	}

	for _, tt := range tests {
		calc := CalculateProvision(100, model.SectorPower, tt.days)
		assert.Equalf(t, tt.quarters, calc.DCCODefermentQuarters, "deferment of %d days", tt.days)
		assert.Equal(t, float64(tt.quarters)*0.00375, calc.AdditionalProvisionRate)
	}
}

// Worked RBI example: ₹100 Cr highway loan deferred 95 days.
func TestCalculateProvisionWorkedExample(t *testing.T) {
	calc := CalculateProvision(100, model.SectorHighway, 95)

	assert.Equal(t, 1.00, calc.BaseProvisionAmount)
	assert.Equal(t, 2, calc.DCCODefermentQuarters)
	assert.Equal(t, 0.0075, calc.AdditionalProvisionRate)
	assert.Equal(t, 0.75, calc.AdditionalProvision)
	assert.Equal(t, 1.75, calc.TotalProvision)
}

func TestCalculateProvisionInvariants(t *testing.T) {
	calc := CalculateProvision(347.5, model.SectorResidential, 123)

	assert.Equal(t, calc.BaseProvisionAmount+calc.AdditionalProvision, calc.TotalProvision)
	assert.Equal(t, calc.SanctionAmount*calc.BaseProvisionRate, calc.BaseProvisionAmount)
	assert.Equal(t, calc.SanctionAmount*calc.AdditionalProvisionRate, calc.AdditionalProvision)
}

func TestCalculateProvisionIdempotent(t *testing.T) {
	first := CalculateProvision(88.25, model.SectorCRE, 47)
	second := CalculateProvision(88.25, model.SectorCRE, 47)
	assert.Equal(t, first, second)
}

func TestCalculateProvisionNegativeDefermentEqualsZero(t *testing.T) {
	late := CalculateProvision(100, model.SectorPower, -45)
	onTime := CalculateProvision(100, model.SectorPower, 0)

	late.DCCODefermentDays = 0 // only the stored input differs
	assert.Equal(t, onTime, late)
}

func TestAggregateProvisions(t *testing.T) {
	cost := 120.0
	projects := []model.Project{
		{Key: "p1", LoanID: "INFRA-001", Sector: model.SectorHighway, SanctionAmount: 100, DCCOStatus: 0, Status: model.StatusActive},
		{Key: "p2", LoanID: "INFRA-002", Sector: model.SectorHighway, SanctionAmount: 200, DCCOStatus: 95, Status: model.StatusActive},
		{Key: "p3", LoanID: "CRE-001", Sector: model.SectorCRE, SanctionAmount: 80, DCCOStatus: 0, ActualCost: &cost, Status: model.StatusActive},
	}

	summary := AggregateProvisions(projects)

	require.Len(t, summary.Calculations, 3)
	assert.Equal(t, 3, summary.ProjectCount)

	// Stable ordering under fixed input order.
	assert.Equal(t, "p1", summary.Calculations[0].ProjectID)
	assert.Equal(t, "INFRA-002", summary.Calculations[1].LoanID)
	assert.Equal(t, "p3", summary.Calculations[2].ProjectID)

	// 100*0.01 + 200*(0.01+0.0075) + 80*0.0125
	assert.InDelta(t, 1.0+3.5+1.0, summary.TotalProvision, 1e-9)

	// Sector breakdown keys are exactly the sectors present, and the
	// per-sector sums add back up to the total.
	require.Len(t, summary.SectorBreakdown, 2)
	assert.InDelta(t, 4.5, summary.SectorBreakdown[model.SectorHighway], 1e-9)
	assert.InDelta(t, 1.0, summary.SectorBreakdown[model.SectorCRE], 1e-9)

	var sum float64
	for _, v := range summary.SectorBreakdown {
		sum += v
	}
	assert.InDelta(t, summary.TotalProvision, sum, 1e-9)
}

func TestAggregateProvisionsEmpty(t *testing.T) {
	summary := AggregateProvisions(nil)

	assert.Equal(t, 0, summary.ProjectCount)
	assert.Equal(t, 0.0, summary.TotalProvision)
	assert.Empty(t, summary.SectorBreakdown)
	assert.NotNil(t, summary.Calculations)
}

// The aggregator must not second-guess the caller's filtering: it aggregates
// exactly the projects it is given, Active or not.
func TestAggregateProvisionsDoesNotFilterByStatus(t *testing.T) {
	projects := []model.Project{
		{Key: "p1", Sector: model.SectorPower, SanctionAmount: 100, Status: model.StatusNPA},
	}

	summary := AggregateProvisions(projects)
	assert.Equal(t, 1, summary.ProjectCount)
	assert.InDelta(t, 1.0, summary.TotalProvision, 1e-9)
}

// Portfolio surfaces go through AggregateActiveProvisions: Completed, NPA
// and Closed loans must not inflate the regulatory provision total.
func TestAggregateActiveProvisionsExcludesInactive(t *testing.T) {
	projects := []model.Project{
		{Key: "p1", Sector: model.SectorHighway, SanctionAmount: 100, Status: model.StatusActive},
		{Key: "p2", Sector: model.SectorHighway, SanctionAmount: 100, Status: model.StatusNPA},
		{Key: "p3", Sector: model.SectorHighway, SanctionAmount: 80, Status: model.StatusClosed},
	}

	summary := AggregateActiveProvisions(projects)
	assert.Equal(t, 1, summary.ProjectCount)
	assert.InDelta(t, 1.0, summary.TotalProvision, 1e-9)
	assert.InDelta(t, 1.0, summary.SectorBreakdown[model.SectorHighway], 1e-9)

	// The unfiltered aggregate over the same mix is the inflated figure the
	// portfolio endpoints must never serve.
	assert.Equal(t, 3, AggregateProvisions(projects).ProjectCount)
}
