// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = InitLogger() // setup the logger

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxFields  []string
	Unique     bool
	Sparse     bool
}

var initDone = false          // has the data been initialized
var dbConnection DBConnection // database connection definition

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase is the function for connecting to the db engine, creating the database and collections
func InitializeDatabase() DBConnection {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var db arangodb.Database
	var collections map[string]arangodb.Collection
	const databaseName = "compliance"

	ctx := context.Background()

	if initDone {
		return dbConnection
	}

	False := false
	True := true
	dbhost := GetEnvDefault("ARANGO_HOST", "localhost")
	dbport := GetEnvDefault("ARANGO_PORT", "8529")
	dbuser := GetEnvDefault("ARANGO_USER", "root")
	dbpass := GetEnvDefault("ARANGO_PASS", "mypassword")
	dburl := GetEnvDefault("ARANGO_URL", "http://"+dbhost+":"+dbport)

	var client arangodb.Client

	//
	// Database connection with backoff retry
	//

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // Set to 0 for indefinite retries

	err := backoff.RetryNotify(func() error {
		fmt.Println("Attempting to connect to ArangoDB")
		endpoint := connection.NewRoundRobinEndpoints([]string{dburl})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, dbuser, dbpass))

		client = arangodb.NewClient(conn)

		versionInfo, err := client.Version(context.Background())
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'\n", versionInfo.Version, versionInfo.License)
		return nil

	}, bo, func(err error, _ time.Duration) {
		fmt.Printf("Retrying connection to ArangoDB: %v\n", err)
	})

	if err != nil {
		logger.Sugar().Fatalf("Backoff Error %v\n", err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == databaseName {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, databaseName, &options); err != nil {
			logger.Sugar().Fatalf("Failed to get Database: %v", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, databaseName, nil); err != nil {
			logger.Sugar().Fatalf("Failed to create Database: %v", err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections = make(map[string]arangodb.Collection)
	collectionNames := []string{"project", "alert", "audit_log"}

	for _, collectionName := range collectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, collectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, collectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use collection: %v", err)
			}
		} else {
			if col, err = db.CreateCollection(ctx, collectionName, nil); err != nil {
				logger.Sugar().Fatalf("Failed to create collection: %v", err)
			}
		}

		collections[collectionName] = col
	}

	//
	// Index creation
	//

	idxList := []indexConfig{
		// Project collection indexes for dashboard filters and sorting
		{Collection: "project", IdxName: "project_loan_id", IdxFields: []string{"loan_id"}, Unique: true},
		{Collection: "project", IdxName: "project_status", IdxFields: []string{"status"}},
		{Collection: "project", IdxName: "project_sector", IdxFields: []string{"sector"}},
		{Collection: "project", IdxName: "project_risk_tier", IdxFields: []string{"risk_tier"}},
		{Collection: "project", IdxName: "project_risk_score", IdxFields: []string{"risk_score"}},
		{Collection: "project", IdxName: "project_status_risk", IdxFields: []string{"status", "risk_score"}},

		// Alert collection indexes for listing, timeline and CRILC reports
		{Collection: "alert", IdxName: "alert_project", IdxFields: []string{"project_id"}},
		{Collection: "alert", IdxName: "alert_status", IdxFields: []string{"status"}},
		{Collection: "alert", IdxName: "alert_severity", IdxFields: []string{"severity"}},
		{Collection: "alert", IdxName: "alert_created_at", IdxFields: []string{"created_at"}},
		{Collection: "alert", IdxName: "alert_project_type_status", IdxFields: []string{"project_id", "alert_type", "status"}},

		// The de-duplication constraint: active_key is present only while an
		// alert is Open or Acknowledged, so a unique sparse index guarantees
		// at most one unresolved alert per (project, alert type) even under
		// concurrent evaluation cycles.
		{Collection: "alert", IdxName: "alert_active_unique", IdxFields: []string{"active_key"}, Unique: true, Sparse: true},

		// Audit trail indexes - append-only, queried by time and entity
		{Collection: "audit_log", IdxName: "audit_timestamp", IdxFields: []string{"timestamp"}},
		{Collection: "audit_log", IdxName: "audit_entity", IdxFields: []string{"entity_type", "entity_id"}},
		{Collection: "audit_log", IdxName: "audit_actor", IdxFields: []string{"actor"}},
		{Collection: "audit_log", IdxName: "audit_project", IdxFields: []string{"project_id"}},
	}

	for _, idx := range idxList {
		found := false

		if indexes, err := collections[idx.Collection].Indexes(ctx); err == nil {
			for _, index := range indexes {
				if idx.IdxName == index.Name {
					found = true
					break
				}
			}
		}

		if !found {
			unique := &False
			if idx.Unique {
				unique = &True
			}
			sparse := &False
			if idx.Sparse {
				sparse = &True
			}

			indexOptions := arangodb.CreatePersistentIndexOptions{
				Unique: unique,
				Sparse: sparse,
				Name:   idx.IdxName,
			}

			_, _, err = collections[idx.Collection].EnsurePersistentIndex(ctx, idx.IdxFields, &indexOptions)
			if err != nil {
				logger.Sugar().Fatalln("Error creating index:", err)
			} else {
				logger.Sugar().Infof("Created index: %s on %s", idx.IdxName, idx.Collection)
			}
		}
	}

	initDone = true

	dbConnection = DBConnection{
		Database:    db,
		Collections: collections,
	}

	logger.Sugar().Infof("Database initialization complete with alert de-duplication constraint")

	return dbConnection
}
