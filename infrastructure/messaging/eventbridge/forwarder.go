// Package eventbridge relays appended records to an AWS EventBridge bus so
// external consumers can react to them. The relay is a catch-all subscriber
// on the in-process dispatcher.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"eventbase/application/ports"
	"eventbase/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const source = "eventbase"

// Forwarder publishes records to EventBridge
type Forwarder struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewForwarder creates a new EventBridge forwarder
func NewForwarder(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Register attaches the forwarder to every event kind
func (f *Forwarder) Register(dispatcher ports.Dispatcher) {
	dispatcher.SubscribeAll(f.forward)
}

func (f *Forwarder) forward(ctx context.Context, aggregateID string, record events.Record) error {
	detail, err := json.Marshal(struct {
		AggregateID string         `json:"aggregateId"`
		Record      events.Record  `json:"record"`
	}{
		AggregateID: aggregateID,
		Record:      record,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	result, err := f.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(f.eventBusName),
				Source:       aws.String(source),
				DetailType:   aws.String(record.Name.String()),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(record.CreatedAt),
				Resources: []string{
					fmt.Sprintf("arn:aws:eventbase::%s", aggregateID),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish to EventBridge: %w", err)
	}
	if result.FailedEntryCount > 0 {
		entry := result.Entries[0]
		f.logger.Error("EventBridge rejected record",
			zap.String("aggregateId", aggregateID),
			zap.String("errorCode", aws.ToString(entry.ErrorCode)),
			zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
		)
		return fmt.Errorf("event failed to publish")
	}

	f.logger.Debug("Record forwarded to EventBridge",
		zap.String("aggregateId", aggregateID),
		zap.String("eventName", record.Name.String()),
	)
	return nil
}
