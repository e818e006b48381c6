package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/aggregates"
)

// CreateCanvasCommand creates a new empty mind map canvas
type CreateCanvasCommand struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=1,max=100"`
}

// Validate validates the command
func (cmd CreateCanvasCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Name == "" {
		return errors.New("canvas name is required")
	}
	if len(cmd.Name) > 100 {
		return errors.New("canvas name exceeds maximum length")
	}
	return nil
}

// CreateCanvasHandler handles the CreateCanvasCommand
type CreateCanvasHandler struct {
	canvasRepo     ports.CanvasRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewCreateCanvasHandler creates a new handler instance
func NewCreateCanvasHandler(
	canvasRepo ports.CanvasRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateCanvasHandler {
	return &CreateCanvasHandler{
		canvasRepo:     canvasRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the create canvas command
func (h *CreateCanvasHandler) Handle(ctx context.Context, cmd CreateCanvasCommand) (*aggregates.Canvas, error) {
	canvas, err := aggregates.NewCanvas(cmd.UserID, cmd.Name)
	if err != nil {
		return nil, err
	}

	if err := h.canvasRepo.Save(ctx, canvas); err != nil {
		return nil, err
	}

	if err := h.eventPublisher.Publish(ctx, canvas.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish canvas events",
			zap.String("canvasID", canvas.ID().String()),
			zap.Error(err),
		)
	} else {
		canvas.MarkEventsAsCommitted()
	}

	h.logger.Info("canvas created",
		zap.String("canvasID", canvas.ID().String()),
		zap.String("userID", cmd.UserID),
	)

	return canvas, nil
}
