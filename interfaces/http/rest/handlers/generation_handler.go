package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"deepthinker-backend/application/commands"
	commandhandlers "deepthinker-backend/application/commands/handlers"
	"deepthinker-backend/application/ports"
	"deepthinker-backend/application/queries"
	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/common"
	pkgerrors "deepthinker-backend/pkg/errors"
	"deepthinker-backend/pkg/observability"
)

// GenerationHandler handles the AI generation endpoints. These are the
// only quota-charged operations.
type GenerationHandler struct {
	generateThought *commandhandlers.GenerateThoughtOrchestrator
	rewriteThought  *commands.RewriteThoughtHandler
	chat            *commands.ChatHandler
	tracer          *observability.Tracer
	logger          *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(
	generateThought *commandhandlers.GenerateThoughtOrchestrator,
	rewriteThought *commands.RewriteThoughtHandler,
	chat *commands.ChatHandler,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		generateThought: generateThought,
		rewriteThought:  rewriteThought,
		chat:            chat,
		tracer:          tracer,
		logger:          logger,
	}
}

// GenerateRequest is the body for POST /thoughts/{thoughtID}/generate
type GenerateRequest struct {
	CanvasID string `json:"canvasId" validate:"required,uuid"`
}

// GenerateResponse reports the generated thought and layout changes
type GenerateResponse struct {
	Thought         queries.ThoughtView   `json:"thought"`
	Moved           []queries.ThoughtView `json:"moved"`
	RemainingTokens int                   `json:"remainingTokens"`
}

// RewriteRequest is the body for POST /thoughts/{thoughtID}/rewrite
type RewriteRequest struct {
	CanvasID    string `json:"canvasId" validate:"required,uuid"`
	Instruction string `json:"instruction" validate:"required,max=500"`
}

// RewriteResponse reports the rewritten thought
type RewriteResponse struct {
	Thought         queries.ThoughtView `json:"thought"`
	RemainingTokens int                 `json:"remainingTokens"`
}

// ChatRequest is the body for POST /chat
type ChatRequest struct {
	CanvasID string        `json:"canvasId" validate:"required,uuid"`
	History  []ChatMessage `json:"history" validate:"required,min=1,max=50,dive"`
}

// ChatMessage is one conversation turn in a chat request
type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user assistant"`
	Text string `json:"text" validate:"required,max=10000"`
}

// ChatResponse carries the assistant's reply
type ChatResponse struct {
	Reply           string `json:"reply"`
	RemainingTokens int    `json:"remainingTokens"`
}

// Generate handles POST /thoughts/{thoughtID}/generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req GenerateRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	ctx, seg := h.tracer.StartSegment(r.Context(), "generation.generate")
	result, err := h.generateThought.Handle(ctx, commandhandlers.GenerateThoughtCommand{
		UserID:   user.UserID,
		CanvasID: req.CanvasID,
		ParentID: chi.URLParam(r, "thoughtID"),
	})
	seg.Close(err)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, GenerateResponse{
		Thought:         toThoughtView(result.Thought),
		Moved:           toThoughtViews(result.Moved),
		RemainingTokens: result.RemainingTokens,
	})
}

// Rewrite handles POST /thoughts/{thoughtID}/rewrite
func (h *GenerationHandler) Rewrite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req RewriteRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	ctx, seg := h.tracer.StartSegment(r.Context(), "generation.rewrite")
	result, err := h.rewriteThought.Handle(ctx, commands.RewriteThoughtCommand{
		UserID:      user.UserID,
		CanvasID:    req.CanvasID,
		ThoughtID:   chi.URLParam(r, "thoughtID"),
		Instruction: req.Instruction,
	})
	seg.Close(err)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, RewriteResponse{
		Thought:         toThoughtView(result.Thought),
		RemainingTokens: result.RemainingTokens,
	})
}

// Chat handles POST /chat. Replies are not persisted.
func (h *GenerationHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req ChatRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	history := make([]ports.ChatMessage, len(req.History))
	for i, message := range req.History {
		history[i] = ports.ChatMessage{
			Role: ports.ChatRole(message.Role),
			Text: message.Text,
		}
	}

	ctx, seg := h.tracer.StartSegment(r.Context(), "generation.chat")
	result, err := h.chat.Handle(ctx, commands.ChatCommand{
		UserID:   user.UserID,
		CanvasID: req.CanvasID,
		History:  history,
	})
	seg.Close(err)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ChatResponse{
		Reply:           result.Reply,
		RemainingTokens: result.RemainingTokens,
	})
}
