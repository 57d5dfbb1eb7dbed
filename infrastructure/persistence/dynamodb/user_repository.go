package dynamodb

import (
	"context"

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

// EmailIndex is the GSI resolving users by email
const EmailIndex = "EmailIndex"

// UserRepository implements ports.UserRepository on DynamoDB. The table is
// keyed by Id with an EmailIndex GSI for the uniqueness check and sign-in.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new DynamoDB user repository
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// Save writes the full user row, overwriting any previous projection
func (r *UserRepository) Save(ctx context.Context, user *readmodel.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return apperrors.NewPersistenceError("save_user", err)
	}

	err = observability.Capture(ctx, "dynamodb.user_save", func(ctx context.Context) error {
		_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
		})
		return err
	})
	if err != nil {
		return apperrors.NewPersistenceError("save_user", err)
	}
	return nil
}

// GetByID fetches one user row
func (r *UserRepository) GetByID(ctx context.Context, id string) (*readmodel.User, error) {
	var out *dynamodb.GetItemOutput
	err := observability.Capture(ctx, "dynamodb.user_get", func(ctx context.Context) error {
		var err error
		out, err = r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"Id": &types.AttributeValueMemberS{Value: id},
			},
		})
		return err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("get_user", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	var user readmodel.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, apperrors.NewPersistenceError("get_user", err)
	}
	return &user, nil
}

// GetByEmail resolves a user through the EmailIndex GSI
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*readmodel.User, error) {
	keyCond := expression.Key("Email").Equal(expression.Value(email))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewPersistenceError("get_user_by_email", err)
	}

	var out *dynamodb.QueryOutput
	err = observability.Capture(ctx, "dynamodb.user_query_email", func(ctx context.Context) error {
		var err error
		out, err = r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(EmailIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     aws.Int32(1),
		})
		return err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("get_user_by_email", err)
	}
	if len(out.Items) == 0 {
		return nil, apperrors.NewNotFoundError("user")
	}

	var user readmodel.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &user); err != nil {
		return nil, apperrors.NewPersistenceError("get_user_by_email", err)
	}
	return &user, nil
}

// List scans the user table. The projection expression keeps password
// hashes out of the result set.
func (r *UserRepository) List(ctx context.Context) ([]*readmodel.User, error) {
	proj := expression.NamesList(
		expression.Name("Id"),
		expression.Name("Name"),
		expression.Name("Email"),
		expression.Name("DOB"),
		expression.Name("Role"),
	)
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, apperrors.NewPersistenceError("list_users", err)
	}

	users := make([]*readmodel.User, 0)
	var startKey map[string]types.AttributeValue
	for {
		var out *dynamodb.ScanOutput
		err = observability.Capture(ctx, "dynamodb.user_scan", func(ctx context.Context) error {
			var err error
			out, err = r.client.Scan(ctx, &dynamodb.ScanInput{
				TableName:                 aws.String(r.tableName),
				ProjectionExpression:      expr.Projection(),
				ExpressionAttributeNames:  expr.Names(),
				ExclusiveStartKey:         startKey,
			})
			return err
		})
		if err != nil {
			return nil, apperrors.NewPersistenceError("list_users", err)
		}

		var page []*readmodel.User
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, apperrors.NewPersistenceError("list_users", err)
		}
		users = append(users, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return users, nil
}
