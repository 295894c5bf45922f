package kafka

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strings"
	"time"

	"github.com/infracomply/compliance-backend/database"
	alerts "github.com/infracomply/compliance-backend/events/modules/alerts"
	"github.com/infracomply/compliance-backend/model"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// projectStore adapts the database layer to the handler's ProjectFinder.
type projectStore struct {
	db database.DBConnection
}

func (s *projectStore) FindProjectByKey(ctx context.Context, key string) (*model.Project, error) {
	return database.FindProjectByKey(ctx, s.db.Database, key)
}

// RunEventProcessor consumes project-update events and triggers an
// immediate compliance evaluation for the affected project.
func RunEventProcessor(ctx context.Context, db database.DBConnection, evaluator alerts.ProjectEvaluator) error {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	var brokers []string
	if brokersEnv != "" {
		brokers = strings.Split(brokersEnv, ",")
	} else {
		brokers = []string{"localhost:9092"}
	}

	// Configure SASL/PLAIN using environment variables
	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	var dialer *kafka.Dialer

	// Only configure SASL/TLS if credentials are provided
	if username != "" && password != "" {
		mechanism := plain.Mechanism{
			Username: username,
			Password: password,
		}

		dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	} else {
		// Default dialer for local development (no SASL/TLS)
		dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		}
	}

	topic := "project-events"
	var conn *kafka.Conn
	var err error

	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		log.Printf("Kafka connection attempt %d/3...", i)
		conn, err = dialer.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		return err
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "compliance-backend-worker",
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	}

	reader := kafka.NewReader(readerConfig)

	go func() {
		defer reader.Close()
		finder := &projectStore{db: db}

		log.Println("Kafka Event Processor started. Listening for project events...")

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				_ = alerts.HandleProjectUpdated(ctx, msg.Value, finder, evaluator)
			}
		}
	}()

	return nil
}
