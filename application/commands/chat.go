package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/valueobjects"
)

// ChatCommand continues a conversation with the assistant, grounded in
// the thoughts already on the canvas.
type ChatCommand struct {
	UserID   string              `json:"user_id" validate:"required"`
	CanvasID string              `json:"canvas_id" validate:"required,uuid"`
	History  []ports.ChatMessage `json:"history" validate:"required,min=1,max=50"`
}

// Validate validates the command
func (cmd ChatCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if len(cmd.History) == 0 {
		return errors.New("chat history is required")
	}
	if cmd.History[len(cmd.History)-1].Role != ports.RoleUser {
		return errors.New("last chat message must come from the user")
	}
	return nil
}

// ChatResult carries the assistant's reply and the quota left
type ChatResult struct {
	Reply           string
	RemainingTokens int
}

// ChatHandler handles the ChatCommand
type ChatHandler struct {
	thoughtRepo ports.ThoughtRepository
	quotaLedger ports.QuotaLedger
	completions ports.CompletionService
	logger      *zap.Logger
}

// NewChatHandler creates a new handler instance
func NewChatHandler(
	thoughtRepo ports.ThoughtRepository,
	quotaLedger ports.QuotaLedger,
	completions ports.CompletionService,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		thoughtRepo: thoughtRepo,
		quotaLedger: quotaLedger,
		completions: completions,
		logger:      logger,
	}
}

// Handle executes one chat turn. Replies are not persisted; the canvas
// stays the single source of truth and the client owns the transcript.
func (h *ChatHandler) Handle(ctx context.Context, cmd ChatCommand) (*ChatResult, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(cmd.CanvasID)
	if err != nil {
		return nil, err
	}

	status, err := h.quotaLedger.Consume(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	thoughts, err := h.thoughtRepo.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	canvasTexts := make([]string, 0, len(thoughts))
	for _, thought := range thoughts {
		canvasTexts = append(canvasTexts, thought.Content().Text())
	}

	result, err := h.completions.Chat(ctx, cmd.History, canvasTexts)
	if err != nil {
		return nil, err
	}

	h.logger.Info("chat turn completed",
		zap.String("canvasID", cmd.CanvasID),
		zap.Int("historyLength", len(cmd.History)),
		zap.Int("outputTokens", result.OutputTokens),
	)

	return &ChatResult{
		Reply:           result.Text,
		RemainingTokens: status.Remaining,
	}, nil
}
