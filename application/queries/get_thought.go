package queries

import "errors"

// GetThoughtQuery represents a query to get a single thought
type GetThoughtQuery struct {
	UserID    string
	CanvasID  string
	ThoughtID string
}

// Validate validates the GetThoughtQuery
func (q GetThoughtQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if q.ThoughtID == "" {
		return errors.New("thought ID is required")
	}
	return nil
}

// ThoughtView is the read model for a thought
type ThoughtView struct {
	ID          string   `json:"id"`
	CanvasID    string   `json:"canvasId"`
	Content     string   `json:"content"`
	Position    Position `json:"position"`
	Connections []string `json:"connections"`
	Origin      string   `json:"origin"`
	Version     int      `json:"version"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Position represents canvas coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
