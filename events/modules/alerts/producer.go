// Package alerts handles Kafka event production for credit events.
package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/infracomply/compliance-backend/model"
	"github.com/segmentio/kafka-go"
)

// AlertProducer handles sending credit-event messages to Kafka
type AlertProducer struct {
	Writer *kafka.Writer
}

// NewAlertProducer initializes a new Kafka writer for credit events
func NewAlertProducer(brokers []string, topic string) *AlertProducer {
	return &AlertProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishCreditEventRaised sends the event to the Kafka topic
func (p *AlertProducer) PublishCreditEventRaised(ctx context.Context, project model.Project, alert model.Alert) error {

	// Construct the Event Contract
	event := CreditEventRaisedEvent{
		EventType:     "credit.event.raised",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Alert:         alert,
		Project: ProjectReference{
			Key:            project.Key,
			LoanID:         project.LoanID,
			BorrowerName:   project.BorrowerName,
			Sector:         project.Sector,
			SanctionAmount: project.SanctionAmount,
		},
	}

	// Marshal to JSON
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Key by loan id so all events of one loan land on the same partition
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(project.LoanID),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *AlertProducer) Close() error {
	return p.Writer.Close()
}
