// Package provisions defines the GraphQL types for RBI provisioning figures.
package provisions

import (
	"github.com/graphql-go/graphql"
)

// ProvisionCalculationType represents the provision breakdown for one loan
var ProvisionCalculationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProvisionCalculation",
	Fields: graphql.Fields{
		"project_id":                  &graphql.Field{Type: graphql.String},
		"loan_id":                     &graphql.Field{Type: graphql.String},
		"borrower_name":               &graphql.Field{Type: graphql.String},
		"sector":                      &graphql.Field{Type: graphql.String},
		"sanction_amount":             &graphql.Field{Type: graphql.Float},
		"dcco_deferment_days":         &graphql.Field{Type: graphql.Int},
		"dcco_deferment_quarters":     &graphql.Field{Type: graphql.Int},
		"base_provision_rate":         &graphql.Field{Type: graphql.Float},
		"base_provision_amount":       &graphql.Field{Type: graphql.Float},
		"additional_provision_rate":   &graphql.Field{Type: graphql.Float},
		"additional_provision_amount": &graphql.Field{Type: graphql.Float},
		"total_provision":             &graphql.Field{Type: graphql.Float},
	},
})

// SectorProvisionType represents one sector's share of required provisions
var SectorProvisionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SectorProvision",
	Fields: graphql.Fields{
		"sector":    &graphql.Field{Type: graphql.String},
		"provision": &graphql.Field{Type: graphql.Float},
	},
})

// PortfolioProvisionsType represents the portfolio-level provision summary
var PortfolioProvisionsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PortfolioProvisions",
	Fields: graphql.Fields{
		"total_provision":  &graphql.Field{Type: graphql.Float},
		"project_count":    &graphql.Field{Type: graphql.Int},
		"sector_breakdown": &graphql.Field{Type: graphql.NewList(SectorProvisionType)},
		"calculations":     &graphql.Field{Type: graphql.NewList(ProvisionCalculationType)},
	},
})
