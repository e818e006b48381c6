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

// ConnectThoughtsCommand links an existing thought under a parent and
// repositions the affected family.
type ConnectThoughtsCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	CanvasID string `json:"canvas_id" validate:"required,uuid"`
	ParentID string `json:"parent_id" validate:"required,uuid"`
	ChildID  string `json:"child_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd ConnectThoughtsCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if cmd.ParentID == "" || cmd.ChildID == "" {
		return errors.New("parent and child IDs are required")
	}
	if cmd.ParentID == cmd.ChildID {
		return errors.New("cannot connect a thought to itself")
	}
	return nil
}

// ConnectThoughtsResult carries the updated parent and every thought
// the layout pass moved.
type ConnectThoughtsResult struct {
	Parent *entities.Thought
	Moved  []*entities.Thought
}

// ConnectThoughtsHandler handles the ConnectThoughtsCommand
type ConnectThoughtsHandler struct {
	canvasRepo     ports.CanvasRepository
	thoughtRepo    ports.ThoughtRepository
	layoutService  *services.LayoutService
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewConnectThoughtsHandler creates a new handler instance
func NewConnectThoughtsHandler(
	canvasRepo ports.CanvasRepository,
	thoughtRepo ports.ThoughtRepository,
	layoutService *services.LayoutService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *ConnectThoughtsHandler {
	return &ConnectThoughtsHandler{
		canvasRepo:     canvasRepo,
		thoughtRepo:    thoughtRepo,
		layoutService:  layoutService,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the connect thoughts command
func (h *ConnectThoughtsHandler) Handle(ctx context.Context, cmd ConnectThoughtsCommand) (*ConnectThoughtsResult, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	parentID, err := valueobjects.NewThoughtIDFromString(cmd.ParentID)
	if err != nil {
		return nil, err
	}
	childID, err := valueobjects.NewThoughtIDFromString(cmd.ChildID)
	if err != nil {
		return nil, err
	}

	canvas, err := h.canvasRepo.FindByID(ctx, cmd.UserID, canvasID)
	if err != nil {
		return nil, err
	}

	if err := canvas.ConnectThoughts(parentID, childID); err != nil {
		return nil, err
	}

	parent, err := canvas.GetThought(parentID)
	if err != nil {
		return nil, err
	}
	if err := h.thoughtRepo.Save(ctx, parent); err != nil {
		return nil, err
	}

	moved, err := h.layoutService.RepositionFamily(ctx, canvas, parentID)
	if err != nil {
		return nil, err
	}

	if err := h.eventPublisher.Publish(ctx, canvas.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish connection events",
			zap.String("parentID", cmd.ParentID),
			zap.Error(err),
		)
	} else {
		canvas.MarkEventsAsCommitted()
	}

	h.logger.Info("thoughts connected",
		zap.String("parentID", cmd.ParentID),
		zap.String("childID", cmd.ChildID),
		zap.Int("repositioned", len(moved)),
	)

	return &ConnectThoughtsResult{Parent: parent, Moved: moved}, nil
}
