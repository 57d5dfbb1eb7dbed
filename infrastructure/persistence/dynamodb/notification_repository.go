package dynamodb

import (
	"context"
	"errors"
	"sort"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/readmodel"
	apperrors "eventbase/pkg/errors"
	"eventbase/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// UserIndex is the GSI resolving notifications by recipient
const UserIndex = "UserIndex"

// NotificationRepository implements ports.NotificationRepository on
// DynamoDB. The table is keyed by Id with a UserIndex GSI for per-user
// listings.
type NotificationRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNotificationRepository creates a new DynamoDB notification repository
func NewNotificationRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func notificationKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"Id": &types.AttributeValueMemberS{Value: id},
	}
}

// Save writes the full notification row
func (r *NotificationRepository) Save(ctx context.Context, notification *readmodel.Notification) error {
	item, err := attributevalue.MarshalMap(notification)
	if err != nil {
		return apperrors.NewPersistenceError("save_notification", err)
	}

	err = observability.Capture(ctx, "dynamodb.notification_save", func(ctx context.Context) error {
		_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
		})
		return err
	})
	if err != nil {
		return apperrors.NewPersistenceError("save_notification", err)
	}
	return nil
}

// GetByID fetches one notification row
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*readmodel.Notification, error) {
	var out *dynamodb.GetItemOutput
	err := observability.Capture(ctx, "dynamodb.notification_get", func(ctx context.Context) error {
		var err error
		out, err = r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.tableName),
			Key:       notificationKey(id),
		})
		return err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("get_notification", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError("notification")
	}

	var notification readmodel.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &notification); err != nil {
		return nil, apperrors.NewPersistenceError("get_notification", err)
	}
	return &notification, nil
}

// List returns notifications newest first. With a UserID filter it queries
// the UserIndex GSI; without one it scans the table. UnreadOnly becomes a
// filter expression either way.
func (r *NotificationRepository) List(ctx context.Context, filter ports.NotificationFilter) ([]*readmodel.Notification, error) {
	var items []map[string]types.AttributeValue
	var err error
	if filter.UserID != "" {
		items, err = r.queryByUser(ctx, filter)
	} else {
		items, err = r.scanAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	notifications := make([]*readmodel.Notification, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, apperrors.NewPersistenceError("list_notifications", err)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *NotificationRepository) queryByUser(ctx context.Context, filter ports.NotificationFilter) ([]map[string]types.AttributeValue, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("UserId").Equal(expression.Value(filter.UserID)))
	if filter.UnreadOnly {
		builder = builder.WithFilter(expression.Name("Read").Equal(expression.Value(false)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, apperrors.NewPersistenceError("list_notifications", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		var out *dynamodb.QueryOutput
		err = observability.Capture(ctx, "dynamodb.notification_query", func(ctx context.Context) error {
			var err error
			out, err = r.client.Query(ctx, &dynamodb.QueryInput{
				TableName:                 aws.String(r.tableName),
				IndexName:                 aws.String(UserIndex),
				KeyConditionExpression:    expr.KeyCondition(),
				FilterExpression:          expr.Filter(),
				ExpressionAttributeNames:  expr.Names(),
				ExpressionAttributeValues: expr.Values(),
				ExclusiveStartKey:         startKey,
			})
			return err
		})
		if err != nil {
			return nil, apperrors.NewPersistenceError("list_notifications", err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

func (r *NotificationRepository) scanAll(ctx context.Context, filter ports.NotificationFilter) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if filter.UnreadOnly {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name("Read").Equal(expression.Value(false))).
			Build()
		if err != nil {
			return nil, apperrors.NewPersistenceError("list_notifications", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var items []map[string]types.AttributeValue
	for {
		var out *dynamodb.ScanOutput
		err := observability.Capture(ctx, "dynamodb.notification_scan", func(ctx context.Context) error {
			var err error
			out, err = r.client.Scan(ctx, input)
			return err
		})
		if err != nil {
			return nil, apperrors.NewPersistenceError("list_notifications", err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return items, nil
}

// MarkRead flips the Read flag in place. The condition keeps it from
// resurrecting a deleted row.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	update := expression.Set(expression.Name("Read"), expression.Value(true)).
		Set(expression.Name("ReadAt"), expression.Value(readAt))
	cond := expression.AttributeExists(expression.Name("Id"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return apperrors.NewPersistenceError("mark_notification_read", err)
	}

	err = observability.Capture(ctx, "dynamodb.notification_mark_read", func(ctx context.Context) error {
		_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(r.tableName),
			Key:                       notificationKey(id),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		return err
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return apperrors.NewNotFoundError("notification")
		}
		return apperrors.NewPersistenceError("mark_notification_read", err)
	}
	return nil
}

// Delete removes the read model row. The stream keeps its history.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	err := observability.Capture(ctx, "dynamodb.notification_delete", func(ctx context.Context) error {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       notificationKey(id),
		})
		return err
	})
	if err != nil {
		return apperrors.NewPersistenceError("delete_notification", err)
	}
	return nil
}
