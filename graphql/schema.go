// Package graphql assembles the root schema from the per-domain query modules.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/graphql/modules/dashboard"
	"github.com/infracomply/compliance-backend/graphql/modules/provisions"
)

var dbConnection database.DBConnection

// InitDB stores the database connection for the resolvers.
func InitDB(db database.DBConnection) {
	dbConnection = db
}

// CreateSchema builds the root query schema from the module query fields.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}

	for name, field := range dashboard.GetQueryFields(dbConnection) {
		fields[name] = field
	}
	for name, field := range provisions.GetQueryFields(dbConnection) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
