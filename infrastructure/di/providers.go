package di

import (
	"context"
	"fmt"

	"eventbase/application/commands"
	"eventbase/application/commands/bus"
	cmdhandlers "eventbase/application/commands/handlers"
	"eventbase/application/ports"
	"eventbase/application/queries"
	querybus "eventbase/application/queries/bus"
	qryhandlers "eventbase/application/queries/handlers"
	"eventbase/application/services"
	"eventbase/application/subscribers"
	"eventbase/infrastructure/config"
	"eventbase/infrastructure/messaging"
	ebmessaging "eventbase/infrastructure/messaging/eventbridge"
	dynamopersistence "eventbase/infrastructure/persistence/dynamodb"
	"eventbase/infrastructure/persistence/memory"
	"eventbase/pkg/auth"
	"eventbase/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// devJWTSecret is only ever used outside production; LoadConfig rejects an
// empty secret in production.
const devJWTSecret = "development-secret-change-in-production"

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the AWS SDK configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics sink. Without the metrics flag the
// sink carries a nil client and publishes nothing.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Eventbase/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideStreamStore selects the stream store implementation by environment
func ProvideStreamStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.StreamStore {
	if cfg.IsDevelopment() {
		return memory.NewStreamStore()
	}
	return dynamopersistence.NewStreamStore(client, cfg.EventsTable, logger)
}

// ProvideUserRepository selects the user read model implementation
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	if cfg.IsDevelopment() {
		return memory.NewUserRepository()
	}
	return dynamopersistence.NewUserRepository(client, cfg.UsersTable, logger)
}

// ProvideNotificationRepository selects the notification read model implementation
func ProvideNotificationRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NotificationRepository {
	if cfg.IsDevelopment() {
		return memory.NewNotificationRepository()
	}
	return dynamopersistence.NewNotificationRepository(client, cfg.NotificationsTable, logger)
}

// ProvideDispatcher creates the in-process event dispatcher
func ProvideDispatcher(logger *zap.Logger) *messaging.Dispatcher {
	return messaging.NewDispatcher(logger)
}

// ProvideEventService creates the write-side event service
func ProvideEventService(store ports.StreamStore, dispatcher *messaging.Dispatcher, logger *zap.Logger) *services.EventService {
	return services.NewEventService(store, dispatcher, logger)
}

func jwtSecret(cfg *config.Config) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	return devJWTSecret
}

// ProvideJWTValidator creates the token validator used by the auth middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     jwtSecret(cfg),
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideTokenIssuer creates the token issuer used by sign-in
func ProvideTokenIssuer(cfg *config.Config) (*auth.TokenIssuer, error) {
	return auth.NewTokenIssuer(jwtSecret(cfg), cfg.JWTIssuer)
}

// Subscriptions marks that the dispatcher subscribers have been registered
type Subscriptions struct{}

// ProvideSubscriptions registers the projectors and, when enabled, the
// EventBridge forwarder on the dispatcher.
func ProvideSubscriptions(
	dispatcher *messaging.Dispatcher,
	eventService *services.EventService,
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	ebClient *awseventbridge.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *Subscriptions {
	subscribers.NewUserProjector(users, logger).Register(dispatcher)
	subscribers.NewNotificationProjector(notifications, eventService, logger).Register(dispatcher)
	if cfg.EnableEventBridge {
		ebmessaging.NewForwarder(ebClient, cfg.EventBusName, logger).Register(dispatcher)
	}
	return &Subscriptions{}
}

// zapLoggerAdapter exposes zap through the bus logging interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Sugar().Infow(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Sugar().Errorw(msg, fields...)
}

// commandMetricsAdapter exposes the metrics sink through the command bus interface
type commandMetricsAdapter struct {
	metrics *observability.Metrics
}

func (a commandMetricsAdapter) StartTimer(metric, label string) bus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a commandMetricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// queryMetricsAdapter exposes the metrics sink through the query bus interface
type queryMetricsAdapter struct {
	metrics *observability.Metrics
}

func (a queryMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a queryMetricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) (interface{}, error)
}

// Handle implements bus.CommandHandler
func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	eventService *services.EventService,
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	issuer *auth.TokenIssuer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	wrap := func(handler bus.CommandHandler) bus.CommandHandler {
		handler = bus.MetricsMiddleware(commandMetricsAdapter{metrics})(handler)
		return bus.LoggingMiddleware(&zapLoggerAdapter{logger})(handler)
	}

	createUser := cmdhandlers.NewCreateUserHandler(eventService, users, logger)
	commandBus.Register(commands.CreateUserCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.CreateUserCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return createUser.Handle(ctx, typed)
		},
	}))

	updateUser := cmdhandlers.NewUpdateUserHandler(eventService, users, logger)
	commandBus.Register(commands.UpdateUserCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.UpdateUserCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return updateUser.Handle(ctx, typed)
		},
	}))

	signIn := cmdhandlers.NewSignInHandler(users, issuer, logger)
	commandBus.Register(commands.SignInCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.SignInCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return signIn.Handle(ctx, typed)
		},
	}))

	createNotification := cmdhandlers.NewCreateNotificationHandler(eventService, logger)
	commandBus.Register(commands.CreateNotificationCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.CreateNotificationCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return createNotification.Handle(ctx, typed)
		},
	}))

	markRead := cmdhandlers.NewMarkNotificationReadHandler(eventService, notifications, logger)
	commandBus.Register(commands.MarkNotificationReadCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.MarkNotificationReadCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return markRead.Handle(ctx, typed)
		},
	}))

	markAllRead := cmdhandlers.NewMarkAllNotificationsReadHandler(eventService, notifications, logger)
	commandBus.Register(commands.MarkAllNotificationsReadCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.MarkAllNotificationsReadCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return markAllRead.Handle(ctx, typed)
		},
	}))

	deleteNotification := cmdhandlers.NewDeleteNotificationHandler(eventService, notifications, logger)
	commandBus.Register(commands.DeleteNotificationCommand{}, wrap(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			typed, ok := cmd.(commands.DeleteNotificationCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return deleteNotification.Handle(ctx, typed)
		},
	}))

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

// Handle implements querybus.QueryHandler
func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	store ports.StreamStore,
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	middleware := querybus.NewMetricsMiddleware(queryMetricsAdapter{metrics})

	register := func(query querybus.Query, handle func(context.Context, querybus.Query) (interface{}, error)) {
		queryBus.Register(query, middleware.Wrap(&QueryHandlerAdapter{handler: handle}))
	}

	replay := qryhandlers.NewReplayEventsHandler(store, logger)
	register(queries.ReplayEventsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return replay.Handle(ctx, q.(queries.ReplayEventsQuery))
	})

	stateAtTime := qryhandlers.NewStateAtTimeHandler(store, logger)
	register(queries.StateAtTimeQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return stateAtTime.Handle(ctx, q.(queries.StateAtTimeQuery))
	})

	stateAfterEvents := qryhandlers.NewStateAfterEventsHandler(store, logger)
	register(queries.StateAfterEventsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return stateAfterEvents.Handle(ctx, q.(queries.StateAfterEventsQuery))
	})

	timeline := qryhandlers.NewEventTimelineHandler(store, logger)
	register(queries.EventTimelineQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return timeline.Handle(ctx, q.(queries.EventTimelineQuery))
	})

	statistics := qryhandlers.NewEventStatisticsHandler(store, logger)
	register(queries.EventStatisticsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return statistics.Handle(ctx, q.(queries.EventStatisticsQuery))
	})

	entityEvents := qryhandlers.NewEntityEventsHandler(store, logger)
	register(queries.EntityEventsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return entityEvents.Handle(ctx, q.(queries.EntityEventsQuery))
	})

	compare := qryhandlers.NewCompareStatesHandler(store, logger)
	register(queries.CompareStatesQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return compare.Handle(ctx, q.(queries.CompareStatesQuery))
	})

	streamBatch := qryhandlers.NewStreamBatchHandler(store, logger)
	register(queries.StreamBatchQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return streamBatch.Handle(ctx, q.(queries.StreamBatchQuery))
	})

	listUsers := qryhandlers.NewListUsersHandler(users, logger)
	register(queries.ListUsersQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return listUsers.Handle(ctx, q.(queries.ListUsersQuery))
	})

	listNotifications := qryhandlers.NewListNotificationsHandler(notifications, logger)
	register(queries.ListNotificationsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return listNotifications.Handle(ctx, q.(queries.ListNotificationsQuery))
	})

	getNotification := qryhandlers.NewGetNotificationHandler(notifications, logger)
	register(queries.GetNotificationQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return getNotification.Handle(ctx, q.(queries.GetNotificationQuery))
	})

	notificationStats := qryhandlers.NewNotificationStatsHandler(notifications, logger)
	register(queries.NotificationStatsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return notificationStats.Handle(ctx, q.(queries.NotificationStatsQuery))
	})

	return queryBus
}
