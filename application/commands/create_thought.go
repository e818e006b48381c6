package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/application/services"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
)

// CreateThoughtCommand places a new thought on a canvas, optionally
// linked under an existing parent.
type CreateThoughtCommand struct {
	UserID   string  `json:"user_id" validate:"required"`
	CanvasID string  `json:"canvas_id" validate:"required,uuid"`
	Content  string  `json:"content" validate:"required,max=10000"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ParentID string  `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

// Validate validates the command
func (cmd CreateThoughtCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if cmd.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

// CreateThoughtHandler handles the CreateThoughtCommand
type CreateThoughtHandler struct {
	canvasRepo     ports.CanvasRepository
	thoughtRepo    ports.ThoughtRepository
	layoutService  *services.LayoutService
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewCreateThoughtHandler creates a new handler instance
func NewCreateThoughtHandler(
	canvasRepo ports.CanvasRepository,
	thoughtRepo ports.ThoughtRepository,
	layoutService *services.LayoutService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateThoughtHandler {
	return &CreateThoughtHandler{
		canvasRepo:     canvasRepo,
		thoughtRepo:    thoughtRepo,
		layoutService:  layoutService,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the create thought command. When a parent is named,
// the new thought is linked beneath it and the whole family is laid
// out again so siblings make room.
func (h *CreateThoughtHandler) Handle(ctx context.Context, cmd CreateThoughtCommand) (*entities.Thought, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(cmd.CanvasID)
	if err != nil {
		return nil, err
	}

	canvas, err := h.canvasRepo.FindByID(ctx, cmd.UserID, canvasID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewThoughtContent(cmd.Content)
	if err != nil {
		return nil, err
	}

	thought, err := entities.NewThought(canvasID, cmd.UserID, content,
		valueobjects.NewPosition(cmd.X, cmd.Y), entities.OriginManual)
	if err != nil {
		return nil, err
	}

	if err := canvas.AddThought(thought); err != nil {
		return nil, err
	}

	if err := h.thoughtRepo.Save(ctx, thought); err != nil {
		return nil, err
	}

	if cmd.ParentID != "" {
		parentID, err := valueobjects.NewThoughtIDFromString(cmd.ParentID)
		if err != nil {
			return nil, err
		}

		if err := canvas.ConnectThoughts(parentID, thought.ID()); err != nil {
			return nil, err
		}

		parent, err := canvas.GetThought(parentID)
		if err != nil {
			return nil, err
		}
		if err := h.thoughtRepo.Save(ctx, parent); err != nil {
			return nil, err
		}

		if _, err := h.layoutService.RepositionFamily(ctx, canvas, parentID); err != nil {
			return nil, err
		}
	}

	if err := h.eventPublisher.Publish(ctx, canvas.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish thought events",
			zap.String("thoughtID", thought.ID().String()),
			zap.Error(err),
		)
	} else {
		canvas.MarkEventsAsCommitted()
	}

	h.logger.Info("thought created",
		zap.String("thoughtID", thought.ID().String()),
		zap.String("canvasID", cmd.CanvasID),
		zap.Bool("hasParent", cmd.ParentID != ""),
	)

	return thought, nil
}
