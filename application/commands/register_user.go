package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	pkgerrors "deepthinker-backend/pkg/errors"
)

const initialCanvasName = "My First Canvas"

// RegisterUserCommand provisions a local account for an authenticated identity
type RegisterUserCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// Validate validates the command
func (cmd RegisterUserCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// RegisterUserHandler handles the RegisterUserCommand
type RegisterUserHandler struct {
	userRepo   ports.UserRepository
	canvasRepo ports.CanvasRepository
	logger     *zap.Logger
}

// NewRegisterUserHandler creates a new handler instance
func NewRegisterUserHandler(userRepo ports.UserRepository, canvasRepo ports.CanvasRepository, logger *zap.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo:   userRepo,
		canvasRepo: canvasRepo,
		logger:     logger,
	}
}

// Handle registers the user, or returns the existing account when the
// identity has signed in before. First registration also provisions a
// starter canvas and links it on the profile, so a fresh client always
// has somewhere to land.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*entities.User, error) {
	existing, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err == nil {
		return existing, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	user, err := entities.NewUser(cmd.UserID, cmd.Email, cmd.DisplayName)
	if err != nil {
		return nil, err
	}

	canvas, err := aggregates.NewCanvas(cmd.UserID, initialCanvasName)
	if err != nil {
		return nil, err
	}
	if err := h.canvasRepo.Save(ctx, canvas); err != nil {
		return nil, err
	}
	if err := user.AssignInitialCanvas(canvas.ID().String()); err != nil {
		return nil, err
	}

	if err := h.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	h.logger.Info("registered new user",
		zap.String("userID", cmd.UserID),
		zap.String("initialCanvasID", canvas.ID().String()),
	)

	return user, nil
}
