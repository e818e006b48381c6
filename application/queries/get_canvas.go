package queries

import "errors"

// GetCanvasQuery represents a query for one canvas with its thoughts
type GetCanvasQuery struct {
	UserID   string
	CanvasID string
}

// Validate validates the GetCanvasQuery
func (q GetCanvasQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	return nil
}

// CanvasView is the read model for canvas metadata
type CanvasView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThoughtCount int    `json:"thoughtCount"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// GetCanvasResult represents a canvas together with its thoughts
type GetCanvasResult struct {
	Canvas   CanvasView    `json:"canvas"`
	Thoughts []ThoughtView `json:"thoughts"`
}
