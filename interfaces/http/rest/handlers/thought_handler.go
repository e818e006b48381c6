package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"deepthinker-backend/application/commands"
	"deepthinker-backend/application/commands/bus"
	"deepthinker-backend/application/queries"
	querybus "deepthinker-backend/application/queries/bus"
	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/common"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// ThoughtHandler handles thought CRUD and connection endpoints
type ThoughtHandler struct {
	createThought   *commands.CreateThoughtHandler
	updateThought   *commands.UpdateThoughtHandler
	connectThoughts *commands.ConnectThoughtsHandler
	commandBus      *bus.CommandBus
	queryBus        *querybus.QueryBus
	logger          *zap.Logger
}

// NewThoughtHandler creates a new thought handler
func NewThoughtHandler(
	createThought *commands.CreateThoughtHandler,
	updateThought *commands.UpdateThoughtHandler,
	connectThoughts *commands.ConnectThoughtsHandler,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *ThoughtHandler {
	return &ThoughtHandler{
		createThought:   createThought,
		updateThought:   updateThought,
		connectThoughts: connectThoughts,
		commandBus:      commandBus,
		queryBus:        queryBus,
		logger:          logger,
	}
}

// CreateThoughtRequest is the body for POST /thoughts
type CreateThoughtRequest struct {
	CanvasID string  `json:"canvasId" validate:"required,uuid"`
	Content  string  `json:"content" validate:"required,max=10000"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ParentID string  `json:"parentId,omitempty" validate:"omitempty,uuid"`
}

// UpdateThoughtRequest is the body for PUT /thoughts/{thoughtID}
type UpdateThoughtRequest struct {
	CanvasID string   `json:"canvasId" validate:"required,uuid"`
	Content  *string  `json:"content,omitempty" validate:"omitempty,max=10000"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// ConnectRequest is the body for POST /thoughts/{thoughtID}/connect
type ConnectRequest struct {
	CanvasID string `json:"canvasId" validate:"required,uuid"`
	ChildID  string `json:"childId" validate:"required,uuid"`
}

// ConnectResponse reports the new link and any repositioned thoughts
type ConnectResponse struct {
	Parent queries.ThoughtView   `json:"parent"`
	Moved  []queries.ThoughtView `json:"moved"`
}

// Create handles POST /thoughts
func (h *ThoughtHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req CreateThoughtRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	thought, err := h.createThought.Handle(r.Context(), commands.CreateThoughtCommand{
		UserID:   user.UserID,
		CanvasID: req.CanvasID,
		Content:  req.Content,
		X:        req.X,
		Y:        req.Y,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, toThoughtView(thought))
}

// List handles GET /thoughts?canvas=<id>
func (h *ThoughtHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	canvasID := r.URL.Query().Get("canvas")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.queryBus.Ask(r.Context(), queries.ListThoughtsQuery{
		UserID:   user.UserID,
		CanvasID: canvasID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Get handles GET /thoughts/{thoughtID}?canvas=<id>
func (h *ThoughtHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetThoughtQuery{
		UserID:    user.UserID,
		CanvasID:  r.URL.Query().Get("canvas"),
		ThoughtID: chi.URLParam(r, "thoughtID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Update handles PUT /thoughts/{thoughtID}
func (h *ThoughtHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req UpdateThoughtRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	thought, err := h.updateThought.Handle(r.Context(), commands.UpdateThoughtCommand{
		UserID:    user.UserID,
		CanvasID:  req.CanvasID,
		ThoughtID: chi.URLParam(r, "thoughtID"),
		Content:   req.Content,
		X:         req.X,
		Y:         req.Y,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toThoughtView(thought))
}

// Delete handles DELETE /thoughts/{thoughtID}?canvas=<id>
func (h *ThoughtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	err := h.commandBus.Send(r.Context(), commands.DeleteThoughtCommand{
		UserID:    user.UserID,
		CanvasID:  r.URL.Query().Get("canvas"),
		ThoughtID: chi.URLParam(r, "thoughtID"),
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Connect handles POST /thoughts/{thoughtID}/connect
func (h *ThoughtHandler) Connect(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req ConnectRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	result, err := h.connectThoughts.Handle(r.Context(), commands.ConnectThoughtsCommand{
		UserID:   user.UserID,
		CanvasID: req.CanvasID,
		ParentID: chi.URLParam(r, "thoughtID"),
		ChildID:  req.ChildID,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ConnectResponse{
		Parent: toThoughtView(result.Parent),
		Moved:  toThoughtViews(result.Moved),
	})
}
