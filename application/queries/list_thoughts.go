package queries

import "errors"

// ListThoughtsQuery represents a query for every thought on a canvas
type ListThoughtsQuery struct {
	UserID   string
	CanvasID string
	Page     int
	PageSize int
}

// Validate validates the ListThoughtsQuery
func (q ListThoughtsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.CanvasID == "" {
		return errors.New("canvas ID is required")
	}
	if q.Page < 0 || q.PageSize < 0 {
		return errors.New("pagination parameters cannot be negative")
	}
	return nil
}

// ListThoughtsResult represents a page of thoughts
type ListThoughtsResult struct {
	Thoughts []ThoughtView `json:"thoughts"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}
