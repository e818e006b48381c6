package queries

import "errors"

// ListCanvasesQuery represents a query for a user's canvases
type ListCanvasesQuery struct {
	UserID string
}

// Validate validates the ListCanvasesQuery
func (q ListCanvasesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ListCanvasesResult represents the user's canvases
type ListCanvasesResult struct {
	Canvases []CanvasView `json:"canvases"`
}
