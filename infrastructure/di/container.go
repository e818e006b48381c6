package di

import (
	"go.uber.org/zap"

	"deepthinker-backend/application/commands/bus"
	"deepthinker-backend/application/ports"
	querybus "deepthinker-backend/application/queries/bus"
	"deepthinker-backend/infrastructure/config"
	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/observability"
)

// Container holds every wired dependency the binaries need
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ThoughtRepo    ports.ThoughtRepository
	CanvasRepo     ports.CanvasRepository
	UserRepo       ports.UserRepository
	QuotaLedger    ports.QuotaLedger
	EventPublisher ports.EventPublisher
	Completions    ports.CompletionService
	Handlers       *Handlers
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	JWTValidator   *auth.JWTValidator
	IPLimiter      *auth.IPRateLimiter
	UserLimiter    *auth.UserRateLimiter
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
}
