// Package dashboard defines the GraphQL types for the compliance dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// PortfolioExposureType represents the high-level metrics for the top cards
var PortfolioExposureType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PortfolioExposure",
	Fields: graphql.Fields{
		"total_exposure":   &graphql.Field{Type: graphql.Float},
		"total_projects":   &graphql.Field{Type: graphql.Int},
		"sector_breakdown": &graphql.Field{Type: graphql.NewList(SectorExposureType)},
	},
})

// SectorExposureType represents one sector's share of the portfolio
var SectorExposureType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SectorExposure",
	Fields: graphql.Fields{
		"sector":   &graphql.Field{Type: graphql.String},
		"exposure": &graphql.Field{Type: graphql.Float},
	},
})

// RiskTierSliceType represents one tier of the risk distribution pie chart
var RiskTierSliceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RiskTierSlice",
	Fields: graphql.Fields{
		"tier":     &graphql.Field{Type: graphql.String},
		"count":    &graphql.Field{Type: graphql.Int},
		"exposure": &graphql.Field{Type: graphql.Float},
	},
})

// TopRiskProjectType represents rows for the "Top At-Risk Projects" table
var TopRiskProjectType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TopRiskProject",
	Fields: graphql.Fields{
		"key":             &graphql.Field{Type: graphql.String},
		"loan_id":         &graphql.Field{Type: graphql.String},
		"borrower_name":   &graphql.Field{Type: graphql.String},
		"sector":          &graphql.Field{Type: graphql.String},
		"sanction_amount": &graphql.Field{Type: graphql.Float},
		"risk_score":      &graphql.Field{Type: graphql.Int},
		"risk_tier":       &graphql.Field{Type: graphql.String},
		"key_issue":       &graphql.Field{Type: graphql.String},
	},
})

// CreditEventPointType represents the weekly count of credit events
var CreditEventPointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreditEventPoint",
	Fields: graphql.Fields{
		"week_start": &graphql.Field{Type: graphql.String},
		"count":      &graphql.Field{Type: graphql.Int},
	},
})

// AlertCountsType represents alert totals by lifecycle status
var AlertCountsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AlertCounts",
	Fields: graphql.Fields{
		"open":         &graphql.Field{Type: graphql.Int},
		"acknowledged": &graphql.Field{Type: graphql.Int},
		"resolved":     &graphql.Field{Type: graphql.Int},
		"dismissed":    &graphql.Field{Type: graphql.Int},
		"total":        &graphql.Field{Type: graphql.Int},
	},
})
