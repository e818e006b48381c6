package queries

import "errors"

// GetTokenUsageQuery represents a query for a user's quota ledger
type GetTokenUsageQuery struct {
	UserID string
}

// Validate validates the GetTokenUsageQuery
func (q GetTokenUsageQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// TokenUsageResult is a snapshot of the monthly token ledger
type TokenUsageResult struct {
	Usage     int    `json:"usage"`
	Remaining int    `json:"remaining"`
	Allowance int    `json:"allowance"`
	LastReset string `json:"lastReset"`
}
