package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/valueobjects"
)

// DeleteThoughtCommand removes a thought from its canvas
type DeleteThoughtCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	CanvasID  string `json:"canvas_id" validate:"required,uuid"`
	ThoughtID string `json:"thought_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd DeleteThoughtCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if cmd.ThoughtID == "" {
		return errors.New("thought ID is required")
	}
	return nil
}

// DeleteThoughtHandler handles the DeleteThoughtCommand
type DeleteThoughtHandler struct {
	canvasRepo     ports.CanvasRepository
	thoughtRepo    ports.ThoughtRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewDeleteThoughtHandler creates a new handler instance
func NewDeleteThoughtHandler(
	canvasRepo ports.CanvasRepository,
	thoughtRepo ports.ThoughtRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteThoughtHandler {
	return &DeleteThoughtHandler{
		canvasRepo:     canvasRepo,
		thoughtRepo:    thoughtRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the delete thought command. Links from surviving
// thoughts to the deleted one are severed so the connection graph
// never references a missing card.
func (h *DeleteThoughtHandler) Handle(ctx context.Context, cmd DeleteThoughtCommand) error {
	canvasID, err := valueobjects.NewCanvasIDFromString(cmd.CanvasID)
	if err != nil {
		return err
	}
	thoughtID, err := valueobjects.NewThoughtIDFromString(cmd.ThoughtID)
	if err != nil {
		return err
	}

	canvas, err := h.canvasRepo.FindByID(ctx, cmd.UserID, canvasID)
	if err != nil {
		return err
	}

	parent, hadParent := canvas.FindParent(thoughtID)

	if _, err := canvas.RemoveThought(thoughtID); err != nil {
		return err
	}

	if err := h.thoughtRepo.Delete(ctx, canvasID, thoughtID); err != nil {
		return err
	}

	if hadParent {
		if err := h.thoughtRepo.Save(ctx, parent); err != nil {
			return err
		}
	}

	if err := h.eventPublisher.Publish(ctx, canvas.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish deletion events",
			zap.String("thoughtID", cmd.ThoughtID),
			zap.Error(err),
		)
	} else {
		canvas.MarkEventsAsCommitted()
	}

	h.logger.Info("thought deleted",
		zap.String("thoughtID", cmd.ThoughtID),
		zap.String("canvasID", cmd.CanvasID),
	)

	return nil
}
