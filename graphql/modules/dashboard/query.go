// Package dashboard defines the GraphQL queries for the compliance dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
	"github.com/infracomply/compliance-backend/database"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Exposure Overview)
		"portfolioExposure": &graphql.Field{
			Type: PortfolioExposureType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolvePortfolioExposure(db)
			},
		},
		// Section 2: Charts (Risk Tier Distribution)
		"riskDistribution": &graphql.Field{
			Type: graphql.NewList(RiskTierSliceType),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveRiskDistribution(db)
			},
		},
		// Section 3: Tables (Top At-Risk Projects)
		"topRiskProjects": &graphql.Field{
			Type: graphql.NewList(TopRiskProjectType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				return ResolveTopRiskProjects(db, limit)
			},
		},
		// Section 4: Trend Line (Credit Events per Week)
		"creditEventTimeline": &graphql.Field{
			Type: graphql.NewList(CreditEventPointType),
			Args: graphql.FieldConfigArgument{
				"days": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 30},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				days := p.Args["days"].(int)
				return ResolveCreditEventTimeline(db, days)
			},
		},
		// Section 5: Alert Status Badges
		"alertCounts": &graphql.Field{
			Type: AlertCountsType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveAlertCounts(db)
			},
		},
	}
}
