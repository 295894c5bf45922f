// Package provisions defines the GraphQL queries for RBI provisioning figures.
package provisions

import (
	"github.com/graphql-go/graphql"
	"github.com/infracomply/compliance-backend/database"
)

// GetQueryFields returns the provisioning queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		"portfolioProvisions": &graphql.Field{
			Type: PortfolioProvisionsType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolvePortfolioProvisions(db)
			},
		},
		"projectProvision": &graphql.Field{
			Type: ProvisionCalculationType,
			Args: graphql.FieldConfigArgument{
				"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				key := p.Args["key"].(string)
				return ResolveProjectProvision(db, key)
			},
		},
	}
}
