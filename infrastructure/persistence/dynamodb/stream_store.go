// Package dynamodb implements the stream store and read model repositories
// on DynamoDB. Each aggregate stream is one item whose Events attribute is
// the ordered list of records; appends are single UpdateItem calls so two
// concurrent writers can never lose each other's events.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/events"
	apperrors "eventbase/pkg/errors"
	"eventbase/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// StreamStore implements ports.StreamStore on a single-table layout:
// PK = STREAM#<aggregate_id>, SK = METADATA, Events = ordered record list.
type StreamStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewStreamStore creates a new DynamoDB stream store
func NewStreamStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *StreamStore {
	return &StreamStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.StreamStore = (*StreamStore)(nil)

func streamKey(aggregateID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("STREAM#%s", aggregateID)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// Append pushes one record onto the stream in a single UpdateItem. The
// list_append(if_not_exists(...)) expression creates the stream on first
// write and appends on every later one, so there is no read-modify-write
// window.
func (s *StreamStore) Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error) {
	if aggregateID == "" {
		return events.Record{}, apperrors.NewValidationError("aggregate id is required")
	}

	record := events.NewRecord(name, payload, time.Now().UTC())

	update := expression.Set(
		expression.Name("Events"),
		expression.ListAppend(
			expression.IfNotExists(expression.Name("Events"), expression.Value([]events.Record{})),
			expression.Value([]events.Record{record}),
		),
	).Set(
		expression.Name("AggregateId"),
		expression.Value(aggregateID),
	)

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return events.Record{}, apperrors.NewPersistenceError("append", err)
	}

	err = observability.Capture(ctx, "dynamodb.stream_append", func(ctx context.Context) error {
		_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.tableName),
			Key:                       streamKey(aggregateID),
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		return err
	})
	if err != nil {
		s.logger.Error("Stream append failed",
			zap.String("aggregateId", aggregateID),
			zap.String("eventName", name.String()),
			zap.Error(err),
		)
		return events.Record{}, apperrors.NewPersistenceError("append", err)
	}

	return record, nil
}

// FetchStream returns the full ordered event list for an aggregate. Absent
// items and items with an empty Events list both report ErrStreamNotFound.
func (s *StreamStore) FetchStream(ctx context.Context, aggregateID string) ([]events.Record, error) {
	if aggregateID == "" {
		return nil, apperrors.NewValidationError("aggregate id is required")
	}

	var out *dynamodb.GetItemOutput
	err := observability.Capture(ctx, "dynamodb.stream_fetch", func(ctx context.Context) error {
		var err error
		out, err = s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(s.tableName),
			Key:            streamKey(aggregateID),
			ConsistentRead: aws.Bool(true),
		})
		return err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("fetch_stream", err)
	}
	if out.Item == nil {
		return nil, ports.ErrStreamNotFound
	}

	var row struct {
		Events []events.Record `dynamodbav:"Events"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &row); err != nil {
		return nil, apperrors.NewPersistenceError("fetch_stream", err)
	}
	if len(row.Events) == 0 {
		return nil, ports.ErrStreamNotFound
	}
	return row.Events, nil
}
