package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/application/services"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/events"
	"deepthinker-backend/domain/quota"
)

// GenerateThoughtCommand asks the assistant for a new idea branching
// off an existing thought.
type GenerateThoughtCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	CanvasID string `json:"canvas_id" validate:"required,uuid"`
	ParentID string `json:"parent_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd GenerateThoughtCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if cmd.ParentID == "" {
		return errors.New("parent ID is required")
	}
	return nil
}

// GenerateThoughtResult carries the new thought, everything the layout
// pass moved, and the quota left after the charge.
type GenerateThoughtResult struct {
	Thought         *entities.Thought
	Moved           []*entities.Thought
	RemainingTokens int
}

// GenerateThoughtOrchestrator runs the whole generation pipeline:
// quota charge, completion, placement, and persistence.
type GenerateThoughtOrchestrator struct {
	canvasRepo     ports.CanvasRepository
	thoughtRepo    ports.ThoughtRepository
	quotaLedger    ports.QuotaLedger
	completions    ports.CompletionService
	layoutService  *services.LayoutService
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewGenerateThoughtOrchestrator creates a new orchestrator instance
func NewGenerateThoughtOrchestrator(
	canvasRepo ports.CanvasRepository,
	thoughtRepo ports.ThoughtRepository,
	quotaLedger ports.QuotaLedger,
	completions ports.CompletionService,
	layoutService *services.LayoutService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *GenerateThoughtOrchestrator {
	return &GenerateThoughtOrchestrator{
		canvasRepo:     canvasRepo,
		thoughtRepo:    thoughtRepo,
		quotaLedger:    quotaLedger,
		completions:    completions,
		layoutService:  layoutService,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle orchestrates the generation pipeline
func (o *GenerateThoughtOrchestrator) Handle(ctx context.Context, cmd GenerateThoughtCommand) (*GenerateThoughtResult, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	parentID, err := valueobjects.NewThoughtIDFromString(cmd.ParentID)
	if err != nil {
		return nil, err
	}

	// Step 1: load the canvas and verify the parent exists before any
	// charge is made
	canvas, err := o.canvasRepo.FindByID(ctx, cmd.UserID, canvasID)
	if err != nil {
		return nil, err
	}

	parent, err := canvas.GetThought(parentID)
	if err != nil {
		return nil, err
	}

	// Step 2: charge the quota atomically
	status, err := o.quotaLedger.Consume(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	// Step 3: generate the related thought with the canvas as context
	canvasTexts := make([]string, 0, canvas.ThoughtCount())
	for _, thought := range canvas.Thoughts() {
		canvasTexts = append(canvasTexts, thought.Content().Text())
	}

	completion, err := o.completions.GenerateRelatedThought(ctx, parent.Content().Text(), canvasTexts)
	if err != nil {
		return nil, fmt.Errorf("completion failed after quota charge: %w", err)
	}

	content, err := valueobjects.NewThoughtContent(completion.Text)
	if err != nil {
		return nil, err
	}

	// Step 4: place the new thought under its parent. The position is
	// provisional; the layout pass below assigns the real one.
	child, err := entities.NewThought(canvasID, cmd.UserID, content,
		parent.Position(), entities.OriginGenerated)
	if err != nil {
		return nil, err
	}

	if err := canvas.AddThought(child); err != nil {
		return nil, err
	}
	if err := o.thoughtRepo.Save(ctx, child); err != nil {
		return nil, err
	}

	if err := canvas.ConnectThoughts(parentID, child.ID()); err != nil {
		return nil, err
	}
	if err := o.thoughtRepo.Save(ctx, parent); err != nil {
		return nil, err
	}

	// Step 5: reposition the whole family around its anchored root
	moved, err := o.layoutService.RepositionFamily(ctx, canvas, parentID)
	if err != nil {
		return nil, err
	}

	// Step 6: publish events after all writes landed. The quota charge
	// rides along with the canvas events so downstream consumers see
	// the spend next to the thought it paid for.
	batch := append(canvas.GetUncommittedEvents(),
		events.NewTokensConsumed(cmd.UserID, quota.CostPerGeneration, status.Remaining, time.Now()))
	if err := o.eventPublisher.Publish(ctx, batch); err != nil {
		o.logger.Warn("failed to publish generation events",
			zap.String("thoughtID", child.ID().String()),
			zap.Error(err),
		)
	} else {
		canvas.MarkEventsAsCommitted()
	}

	o.logger.Info("thought generated",
		zap.String("thoughtID", child.ID().String()),
		zap.String("parentID", cmd.ParentID),
		zap.Int("inputTokens", completion.InputTokens),
		zap.Int("outputTokens", completion.OutputTokens),
		zap.Int("remainingTokens", status.Remaining),
		zap.Int("repositioned", len(moved)),
	)

	return &GenerateThoughtResult{
		Thought:         child,
		Moved:           moved,
		RemainingTokens: status.Remaining,
	}, nil
}
