package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
)

// RewriteThoughtCommand asks the assistant to rewrite a thought's text
type RewriteThoughtCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	CanvasID    string `json:"canvas_id" validate:"required,uuid"`
	ThoughtID   string `json:"thought_id" validate:"required,uuid"`
	Instruction string `json:"instruction" validate:"required,max=500"`
}

// Validate validates the command
func (cmd RewriteThoughtCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if cmd.ThoughtID == "" {
		return errors.New("thought ID is required")
	}
	if cmd.Instruction == "" {
		return errors.New("instruction is required")
	}
	return nil
}

// RewriteThoughtResult carries the rewritten thought and the quota left
type RewriteThoughtResult struct {
	Thought         *entities.Thought
	RemainingTokens int
}

// RewriteThoughtHandler handles the RewriteThoughtCommand
type RewriteThoughtHandler struct {
	thoughtRepo    ports.ThoughtRepository
	quotaLedger    ports.QuotaLedger
	completions    ports.CompletionService
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewRewriteThoughtHandler creates a new handler instance
func NewRewriteThoughtHandler(
	thoughtRepo ports.ThoughtRepository,
	quotaLedger ports.QuotaLedger,
	completions ports.CompletionService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *RewriteThoughtHandler {
	return &RewriteThoughtHandler{
		thoughtRepo:    thoughtRepo,
		quotaLedger:    quotaLedger,
		completions:    completions,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the rewrite. The quota is charged before the model
// call is made.
func (h *RewriteThoughtHandler) Handle(ctx context.Context, cmd RewriteThoughtCommand) (*RewriteThoughtResult, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	thoughtID, err := valueobjects.NewThoughtIDFromString(cmd.ThoughtID)
	if err != nil {
		return nil, err
	}

	thought, err := h.thoughtRepo.FindByID(ctx, canvasID, thoughtID)
	if err != nil {
		return nil, err
	}

	status, err := h.quotaLedger.Consume(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	result, err := h.completions.RewriteThought(ctx, thought.Content().Text(), cmd.Instruction)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewThoughtContent(result.Text)
	if err != nil {
		return nil, err
	}
	if err := thought.UpdateContent(content); err != nil {
		return nil, err
	}

	if err := h.thoughtRepo.Save(ctx, thought); err != nil {
		return nil, err
	}

	if err := h.eventPublisher.Publish(ctx, thought.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish rewrite events",
			zap.String("thoughtID", cmd.ThoughtID),
			zap.Error(err),
		)
	} else {
		thought.MarkEventsAsCommitted()
	}

	h.logger.Info("thought rewritten",
		zap.String("thoughtID", cmd.ThoughtID),
		zap.Int("outputTokens", result.OutputTokens),
		zap.Int("remainingTokens", status.Remaining),
	)

	return &RewriteThoughtResult{
		Thought:         thought,
		RemainingTokens: status.Remaining,
	}, nil
}
