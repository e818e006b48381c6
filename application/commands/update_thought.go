package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
)

// UpdateThoughtCommand edits a thought's text, its position, or both
type UpdateThoughtCommand struct {
	UserID    string   `json:"user_id" validate:"required"`
	CanvasID  string   `json:"canvas_id" validate:"required,uuid"`
	ThoughtID string   `json:"thought_id" validate:"required,uuid"`
	Content   *string  `json:"content,omitempty" validate:"omitempty,max=10000"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
}

// Validate validates the command
func (cmd UpdateThoughtCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if cmd.ThoughtID == "" {
		return errors.New("thought ID is required")
	}
	if cmd.Content == nil && (cmd.X == nil || cmd.Y == nil) {
		return errors.New("nothing to update")
	}
	if (cmd.X == nil) != (cmd.Y == nil) {
		return errors.New("both coordinates are required to move a thought")
	}
	return nil
}

// UpdateThoughtHandler handles the UpdateThoughtCommand
type UpdateThoughtHandler struct {
	thoughtRepo    ports.ThoughtRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewUpdateThoughtHandler creates a new handler instance
func NewUpdateThoughtHandler(
	thoughtRepo ports.ThoughtRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *UpdateThoughtHandler {
	return &UpdateThoughtHandler{
		thoughtRepo:    thoughtRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the update thought command
func (h *UpdateThoughtHandler) Handle(ctx context.Context, cmd UpdateThoughtCommand) (*entities.Thought, error) {
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

	if cmd.Content != nil {
		content, err := valueobjects.NewThoughtContent(*cmd.Content)
		if err != nil {
			return nil, err
		}
		if err := thought.UpdateContent(content); err != nil {
			return nil, err
		}
	}

	if cmd.X != nil && cmd.Y != nil {
		if err := thought.MoveTo(valueobjects.NewPosition(*cmd.X, *cmd.Y)); err != nil {
			return nil, err
		}
	}

	if err := h.thoughtRepo.Save(ctx, thought); err != nil {
		return nil, err
	}

	if err := h.eventPublisher.Publish(ctx, thought.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish thought events",
			zap.String("thoughtID", cmd.ThoughtID),
			zap.Error(err),
		)
	} else {
		thought.MarkEventsAsCommitted()
	}

	return thought, nil
}
