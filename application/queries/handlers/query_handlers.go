package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/application/queries"
	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/quota"
)

func thoughtToView(t *entities.Thought) queries.ThoughtView {
	connections := t.Connections()
	connectionIDs := make([]string, len(connections))
	for i, id := range connections {
		connectionIDs[i] = id.String()
	}

	return queries.ThoughtView{
		ID:          t.ID().String(),
		CanvasID:    t.CanvasID().String(),
		Content:     t.Content().Text(),
		Position:    queries.Position{X: t.Position().X, Y: t.Position().Y},
		Connections: connectionIDs,
		Origin:      string(t.Origin()),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt().Format(time.RFC3339),
	}
}

func canvasToView(c *aggregates.Canvas) queries.CanvasView {
	return queries.CanvasView{
		ID:           c.ID().String(),
		Name:         c.Name(),
		ThoughtCount: c.ThoughtCount(),
		CreatedAt:    c.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt().Format(time.RFC3339),
	}
}

// GetThoughtHandler answers GetThoughtQuery
type GetThoughtHandler struct {
	thoughtRepo ports.ThoughtRepository
}

// NewGetThoughtHandler creates a new handler instance
func NewGetThoughtHandler(thoughtRepo ports.ThoughtRepository) *GetThoughtHandler {
	return &GetThoughtHandler{thoughtRepo: thoughtRepo}
}

// Handle executes the query
func (h *GetThoughtHandler) Handle(ctx context.Context, q queries.GetThoughtQuery) (*queries.ThoughtView, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(q.CanvasID)
	if err != nil {
		return nil, err
	}
	thoughtID, err := valueobjects.NewThoughtIDFromString(q.ThoughtID)
	if err != nil {
		return nil, err
	}

	thought, err := h.thoughtRepo.FindByID(ctx, canvasID, thoughtID)
	if err != nil {
		return nil, err
	}

	view := thoughtToView(thought)
	return &view, nil
}

// ListThoughtsHandler answers ListThoughtsQuery
type ListThoughtsHandler struct {
	thoughtRepo ports.ThoughtRepository
	logger      *zap.Logger
}

// NewListThoughtsHandler creates a new handler instance
func NewListThoughtsHandler(thoughtRepo ports.ThoughtRepository, logger *zap.Logger) *ListThoughtsHandler {
	return &ListThoughtsHandler{thoughtRepo: thoughtRepo, logger: logger}
}

// Handle executes the query. Page size zero returns everything, which
// is what the canvas editor wants on first load.
func (h *ListThoughtsHandler) Handle(ctx context.Context, q queries.ListThoughtsQuery) (*queries.ListThoughtsResult, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(q.CanvasID)
	if err != nil {
		return nil, err
	}

	thoughts, err := h.thoughtRepo.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.ThoughtView, len(thoughts))
	for i, thought := range thoughts {
		views[i] = thoughtToView(thought)
	}

	total := len(views)
	page := q.Page
	pageSize := q.PageSize
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		start := (page - 1) * pageSize
		if start >= total {
			views = []queries.ThoughtView{}
		} else {
			end := start + pageSize
			if end > total {
				end = total
			}
			views = views[start:end]
		}
	}

	return &queries.ListThoughtsResult{
		Thoughts: views,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetCanvasHandler answers GetCanvasQuery
type GetCanvasHandler struct {
	canvasRepo ports.CanvasRepository
}

// NewGetCanvasHandler creates a new handler instance
func NewGetCanvasHandler(canvasRepo ports.CanvasRepository) *GetCanvasHandler {
	return &GetCanvasHandler{canvasRepo: canvasRepo}
}

// Handle executes the query
func (h *GetCanvasHandler) Handle(ctx context.Context, q queries.GetCanvasQuery) (*queries.GetCanvasResult, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(q.CanvasID)
	if err != nil {
		return nil, err
	}

	canvas, err := h.canvasRepo.FindByID(ctx, q.UserID, canvasID)
	if err != nil {
		return nil, err
	}

	thoughts := canvas.Thoughts()
	views := make([]queries.ThoughtView, len(thoughts))
	for i, thought := range thoughts {
		views[i] = thoughtToView(thought)
	}

	return &queries.GetCanvasResult{
		Canvas:   canvasToView(canvas),
		Thoughts: views,
	}, nil
}

// ListCanvasesHandler answers ListCanvasesQuery
type ListCanvasesHandler struct {
	canvasRepo ports.CanvasRepository
}

// NewListCanvasesHandler creates a new handler instance
func NewListCanvasesHandler(canvasRepo ports.CanvasRepository) *ListCanvasesHandler {
	return &ListCanvasesHandler{canvasRepo: canvasRepo}
}

// Handle executes the query
func (h *ListCanvasesHandler) Handle(ctx context.Context, q queries.ListCanvasesQuery) (*queries.ListCanvasesResult, error) {
	canvases, err := h.canvasRepo.FindByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.CanvasView, len(canvases))
	for i, canvas := range canvases {
		views[i] = canvasToView(canvas)
	}

	return &queries.ListCanvasesResult{Canvases: views}, nil
}

// GetUserHandler answers GetUserQuery
type GetUserHandler struct {
	userRepo ports.UserRepository
}

// NewGetUserHandler creates a new handler instance
func NewGetUserHandler(userRepo ports.UserRepository) *GetUserHandler {
	return &GetUserHandler{userRepo: userRepo}
}

// Handle executes the query
func (h *GetUserHandler) Handle(ctx context.Context, q queries.GetUserQuery) (*queries.UserView, error) {
	user, err := h.userRepo.FindByID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	view := queries.NewUserView(user)
	return &view, nil
}

// GetTokenUsageHandler answers GetTokenUsageQuery
type GetTokenUsageHandler struct {
	quotaLedger ports.QuotaLedger
}

// NewGetTokenUsageHandler creates a new handler instance
func NewGetTokenUsageHandler(quotaLedger ports.QuotaLedger) *GetTokenUsageHandler {
	return &GetTokenUsageHandler{quotaLedger: quotaLedger}
}

// Handle executes the query
func (h *GetTokenUsageHandler) Handle(ctx context.Context, q queries.GetTokenUsageQuery) (*queries.TokenUsageResult, error) {
	status, err := h.quotaLedger.Status(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	return &queries.TokenUsageResult{
		Usage:     status.Usage,
		Remaining: status.Remaining,
		Allowance: quota.MonthlyFreeAllowance,
		LastReset: status.LastReset.Format(time.RFC3339),
	}, nil
}
