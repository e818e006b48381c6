package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/entities"
)

// UpdateOnboardingCommand records one or more onboarding answers on a
// user's profile. Nil fields are left untouched; answering the AI
// interaction question completes onboarding.
type UpdateOnboardingCommand struct {
	UserID        string   `json:"user_id" validate:"required"`
	Role          *string  `json:"role,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	ThinkingStyle *string  `json:"thinking_style,omitempty"`
	AIInteraction *string  `json:"ai_interaction,omitempty"`
}

// Validate validates the command
func (cmd UpdateOnboardingCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Role == nil && cmd.Interests == nil && cmd.ThinkingStyle == nil && cmd.AIInteraction == nil {
		return errors.New("at least one onboarding answer is required")
	}
	return nil
}

// UpdateOnboardingHandler handles the UpdateOnboardingCommand
type UpdateOnboardingHandler struct {
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewUpdateOnboardingHandler creates a new handler instance
func NewUpdateOnboardingHandler(userRepo ports.UserRepository, logger *zap.Logger) *UpdateOnboardingHandler {
	return &UpdateOnboardingHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Handle applies the submitted answers to the profile
func (h *UpdateOnboardingHandler) Handle(ctx context.Context, cmd UpdateOnboardingCommand) (*entities.User, error) {
	user, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Role != nil {
		if err := user.SetRole(*cmd.Role); err != nil {
			return nil, err
		}
	}
	if cmd.Interests != nil {
		if err := user.SetInterests(cmd.Interests); err != nil {
			return nil, err
		}
	}
	if cmd.ThinkingStyle != nil {
		if err := user.SetThinkingStyle(*cmd.ThinkingStyle); err != nil {
			return nil, err
		}
	}
	if cmd.AIInteraction != nil {
		if err := user.SetAIInteraction(*cmd.AIInteraction); err != nil {
			return nil, err
		}
	}

	if err := h.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	h.logger.Debug("onboarding updated",
		zap.String("userID", cmd.UserID),
		zap.Bool("completed", user.OnboardingCompleted()),
	)

	return user, nil
}
