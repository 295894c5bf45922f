// Package provisions implements the resolvers for provisioning figures.
package provisions

import (
	"context"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/internal/compliance"
	"github.com/infracomply/compliance-backend/model"
)

// ResolvePortfolioProvisions aggregates provision requirements across the
// active book.
func ResolvePortfolioProvisions(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	query := `FOR p IN project RETURN p`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var all []model.Project
	for cursor.HasMore() {
		var p model.Project
		if _, err := cursor.ReadDocument(ctx, &p); err != nil {
			return nil, err
		}
		all = append(all, p)
	}

	summary := compliance.AggregateActiveProvisions(all)

	calculations := make([]map[string]interface{}, 0, len(summary.Calculations))
	for _, calc := range summary.Calculations {
		calculations = append(calculations, provisionToMap(calc))
	}

	breakdown := []map[string]interface{}{}
	for _, sector := range []model.Sector{model.SectorHighway, model.SectorPower, model.SectorResidential, model.SectorCRE, model.SectorOther} {
		if provision, ok := summary.SectorBreakdown[sector]; ok {
			breakdown = append(breakdown, map[string]interface{}{
				"sector":    string(sector),
				"provision": provision,
			})
		}
	}

	return map[string]interface{}{
		"total_provision":  summary.TotalProvision,
		"project_count":    summary.ProjectCount,
		"sector_breakdown": breakdown,
		"calculations":     calculations,
	}, nil
}

// ResolveProjectProvision computes the provision breakdown for one project.
func ResolveProjectProvision(db database.DBConnection, key string) (interface{}, error) {
	ctx := context.Background()

	project, err := database.FindProjectByKey(ctx, db.Database, key)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s not found", key)
	}

	return provisionToMap(compliance.ProvisionForProject(*project)), nil
}

func provisionToMap(calc compliance.ProvisionCalculation) map[string]interface{} {
	return map[string]interface{}{
		"project_id":                  calc.ProjectID,
		"loan_id":                     calc.LoanID,
		"borrower_name":               calc.BorrowerName,
		"sector":                      string(calc.Sector),
		"sanction_amount":             calc.SanctionAmount,
		"dcco_deferment_days":         calc.DCCODefermentDays,
		"dcco_deferment_quarters":     calc.DCCODefermentQuarters,
		"base_provision_rate":         calc.BaseProvisionRate,
		"base_provision_amount":       calc.BaseProvisionAmount,
		"additional_provision_rate":   calc.AdditionalProvisionRate,
		"additional_provision_amount": calc.AdditionalProvision,
		"total_provision":             calc.TotalProvision,
	}
}
