// Package di wires the application together. Providers are consumed by
// wire to build the container used by both binaries.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"deepthinker-backend/application/commands"
	"deepthinker-backend/application/commands/bus"
	commandhandlers "deepthinker-backend/application/commands/handlers"
	"deepthinker-backend/application/ports"
	"deepthinker-backend/application/queries"
	querybus "deepthinker-backend/application/queries/bus"
	queryhandlers "deepthinker-backend/application/queries/handlers"
	"deepthinker-backend/application/services"
	"deepthinker-backend/domain/layout"
	"deepthinker-backend/infrastructure/ai"
	"deepthinker-backend/infrastructure/config"
	"deepthinker-backend/infrastructure/messaging/eventbridge"
	"deepthinker-backend/infrastructure/persistence/dynamodb"
	"deepthinker-backend/infrastructure/persistence/memory"
	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/observability"
	"deepthinker-backend/pkg/quota"
)

// queryCacheTTL bounds how stale cached canvas reads may get
const queryCacheTTL = 30 * time.Second

// ProvideLogger creates the process logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the AWS SDK configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
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

// ProvideThoughtRepository creates the thought repository
func ProvideThoughtRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ThoughtRepository {
	return dynamodb.NewThoughtRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCanvasRepository creates the canvas repository
func ProvideCanvasRepository(client *awsdynamodb.Client, thoughtRepo ports.ThoughtRepository, cfg *config.Config, logger *zap.Logger) ports.CanvasRepository {
	return dynamodb.NewCanvasRepository(client, cfg.DynamoDBTable, thoughtRepo, logger)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideCreditLedger creates the anonymous-session credit ledger
func ProvideCreditLedger() *quota.CreditLedger {
	return quota.NewCreditLedger()
}

// ProvideQuotaLedger creates the tiered quota ledger. Authenticated
// users charge the durable DynamoDB ledger; anonymous sessions charge
// the in-memory credit ledger.
func ProvideQuotaLedger(client *awsdynamodb.Client, credits *quota.CreditLedger, cfg *config.Config, logger *zap.Logger) ports.QuotaLedger {
	return &tieredLedger{
		users:    dynamodb.NewQuotaLedger(client, cfg.DynamoDBTable, logger),
		sessions: memory.NewSessionLedger(credits, logger),
	}
}

// tieredLedger routes quota operations by user ID tier
type tieredLedger struct {
	users    ports.QuotaLedger
	sessions ports.QuotaLedger
}

func (l *tieredLedger) Consume(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	if auth.IsSessionUser(userID) {
		return l.sessions.Consume(ctx, userID)
	}
	return l.users.Consume(ctx, userID)
}

func (l *tieredLedger) Status(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	if auth.IsSessionUser(userID) {
		return l.sessions.Status(ctx, userID)
	}
	return l.users.Status(ctx, userID)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideCompletionService creates the Gemini completion adapter
func ProvideCompletionService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.CompletionService, error) {
	return ai.NewGenAIService(ctx, cfg.GenAIAPIKey, cfg.GenAIModel, logger)
}

// ProvideMetrics creates the CloudWatch metrics sink
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("DeepThinker/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("deepthinker-backend")
}

// ProvideLayoutEngine creates the tree layout engine
func ProvideLayoutEngine() *layout.Engine {
	return layout.NewDefaultEngine()
}

// ProvideLayoutService creates the layout application service
func ProvideLayoutService(engine *layout.Engine, thoughtRepo ports.ThoughtRepository, logger *zap.Logger) *services.LayoutService {
	return services.NewLayoutService(engine, thoughtRepo, logger)
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) *auth.JWTValidator {
	return auth.NewJWTValidator(auth.JWTConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	})
}

// ProvideIPRateLimiter creates the per-IP request limiter
func ProvideIPRateLimiter(cfg *config.Config) *auth.IPRateLimiter {
	return auth.NewIPRateLimiter(cfg.RequestsPerMinute)
}

// ProvideUserRateLimiter creates the per-user generation limiter
func ProvideUserRateLimiter(cfg *config.Config) *auth.UserRateLimiter {
	return auth.NewUserRateLimiter(cfg.GenerationPerMinute)
}

// ProvideInMemoryCache creates the query cache
func ProvideInMemoryCache() *InMemoryCache {
	return NewInMemoryCache()
}

// Handlers bundles the typed command handlers the HTTP layer calls for
// operations that return bodies
type Handlers struct {
	RegisterUser     *commands.RegisterUserHandler
	UpdateOnboarding *commands.UpdateOnboardingHandler
	CreateCanvas     *commands.CreateCanvasHandler
	CreateThought    *commands.CreateThoughtHandler
	UpdateThought    *commands.UpdateThoughtHandler
	ConnectThoughts  *commands.ConnectThoughtsHandler
	RewriteThought   *commands.RewriteThoughtHandler
	Chat             *commands.ChatHandler
	GenerateThought  *commandhandlers.GenerateThoughtOrchestrator
}

// ProvideHandlers constructs every typed command handler
func ProvideHandlers(
	canvasRepo ports.CanvasRepository,
	thoughtRepo ports.ThoughtRepository,
	userRepo ports.UserRepository,
	quotaLedger ports.QuotaLedger,
	completions ports.CompletionService,
	layoutService *services.LayoutService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		RegisterUser:     commands.NewRegisterUserHandler(userRepo, canvasRepo, logger),
		UpdateOnboarding: commands.NewUpdateOnboardingHandler(userRepo, logger),
		CreateCanvas:     commands.NewCreateCanvasHandler(canvasRepo, eventPublisher, logger),
		CreateThought:    commands.NewCreateThoughtHandler(canvasRepo, thoughtRepo, layoutService, eventPublisher, logger),
		UpdateThought:    commands.NewUpdateThoughtHandler(thoughtRepo, eventPublisher, logger),
		ConnectThoughts:  commands.NewConnectThoughtsHandler(canvasRepo, thoughtRepo, layoutService, eventPublisher, logger),
		RewriteThought:   commands.NewRewriteThoughtHandler(thoughtRepo, quotaLedger, completions, eventPublisher, logger),
		Chat:             commands.NewChatHandler(thoughtRepo, quotaLedger, completions, logger),
		GenerateThought:  commandhandlers.NewGenerateThoughtOrchestrator(canvasRepo, thoughtRepo, quotaLedger, completions, layoutService, eventPublisher, logger),
	}
}

// commandHandlerAdapter adapts a typed handler to the bus interface
type commandHandlerAdapter struct {
	handle func(ctx context.Context, cmd bus.Command) error
}

func (a *commandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handle(ctx, cmd)
}

// ProvideCommandBus creates the command bus. Commands without response
// bodies dispatch through it so they pick up the logging pipeline.
func ProvideCommandBus(
	canvasRepo ports.CanvasRepository,
	thoughtRepo ports.ThoughtRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger))

	deleteHandler := commands.NewDeleteThoughtHandler(canvasRepo, thoughtRepo, eventPublisher, logger)
	commandBus.Register(commands.DeleteThoughtCommand{}, pipeline.Execute(&commandHandlerAdapter{
		handle: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeleteThoughtCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return deleteHandler.Handle(ctx, deleteCmd)
		},
	}))

	return commandBus
}

// queryHandlerAdapter adapts a typed query handler to the bus interface
type queryHandlerAdapter struct {
	handle func(ctx context.Context, query querybus.Query) (interface{}, error)
}

func (a *queryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handle(ctx, query)
}

// ProvideQueryBus creates the query bus with every read path registered
func ProvideQueryBus(
	thoughtRepo ports.ThoughtRepository,
	canvasRepo ports.CanvasRepository,
	userRepo ports.UserRepository,
	quotaLedger ports.QuotaLedger,
	cache *InMemoryCache,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	caching := querybus.NewCachingMiddleware(cache, queryCacheTTL)
	measured := querybus.NewMetricsMiddleware(metrics)

	getThought := queryhandlers.NewGetThoughtHandler(thoughtRepo)
	queryBus.Register(queries.GetThoughtQuery{}, measured.Wrap(&queryHandlerAdapter{
		handle: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetThoughtQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return getThought.Handle(ctx, q)
		},
	}))

	listThoughts := queryhandlers.NewListThoughtsHandler(thoughtRepo, logger)
	queryBus.Register(queries.ListThoughtsQuery{}, measured.Wrap(&queryHandlerAdapter{
		handle: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListThoughtsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return listThoughts.Handle(ctx, q)
		},
	}))

	getCanvas := queryhandlers.NewGetCanvasHandler(canvasRepo)
	queryBus.Register(queries.GetCanvasQuery{}, measured.Wrap(caching.Wrap(&queryHandlerAdapter{
		handle: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetCanvasQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return getCanvas.Handle(ctx, q)
		},
	})))

	listCanvases := queryhandlers.NewListCanvasesHandler(canvasRepo)
	queryBus.Register(queries.ListCanvasesQuery{}, measured.Wrap(caching.Wrap(&queryHandlerAdapter{
		handle: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListCanvasesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return listCanvases.Handle(ctx, q)
		},
	})))

	getUser := queryhandlers.NewGetUserHandler(userRepo)
	queryBus.Register(queries.GetUserQuery{}, measured.Wrap(&queryHandlerAdapter{
		handle: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetUserQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return getUser.Handle(ctx, q)
		},
	}))

	getTokenUsage := queryhandlers.NewGetTokenUsageHandler(quotaLedger)
	queryBus.Register(queries.GetTokenUsageQuery{}, measured.Wrap(&queryHandlerAdapter{
		handle: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetTokenUsageQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return getTokenUsage.Handle(ctx, q)
		},
	}))

	return queryBus
}
