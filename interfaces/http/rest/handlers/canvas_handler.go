package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"deepthinker-backend/application/commands"
	"deepthinker-backend/application/queries"
	querybus "deepthinker-backend/application/queries/bus"
	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/common"
	pkgerrors "deepthinker-backend/pkg/errors"
	"deepthinker-backend/pkg/utils"
)

// CanvasHandler handles canvas endpoints
type CanvasHandler struct {
	createCanvas *commands.CreateCanvasHandler
	queryBus     *querybus.QueryBus
	logger       *zap.Logger
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(createCanvas *commands.CreateCanvasHandler, queryBus *querybus.QueryBus, logger *zap.Logger) *CanvasHandler {
	return &CanvasHandler{
		createCanvas: createCanvas,
		queryBus:     queryBus,
		logger:       logger,
	}
}

// CreateCanvasRequest is the body for POST /canvases
type CreateCanvasRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Create handles POST /canvases
func (h *CanvasHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req CreateCanvasRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	canvas, err := h.createCanvas.Handle(r.Context(), commands.CreateCanvasCommand{
		UserID: user.UserID,
		Name:   req.Name,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.CanvasView{
		ID:        canvas.ID().String(),
		Name:      canvas.Name(),
		CreatedAt: utils.FormatRFC3339(canvas.CreatedAt()),
		UpdatedAt: utils.FormatRFC3339(canvas.UpdatedAt()),
	})
}

// List handles GET /canvases
func (h *CanvasHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListCanvasesQuery{UserID: user.UserID})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Get handles GET /canvases/{canvasID}
func (h *CanvasHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	canvasID := chi.URLParam(r, "canvasID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetCanvasQuery{
		UserID:   user.UserID,
		CanvasID: canvasID,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
