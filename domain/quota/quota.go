// Package quota implements the monthly token allowance rules for AI
// operations. The functions are pure so the same arithmetic backs the
// persistence layer, the HTTP responses, and the tests.
package quota

import "time"

const (
	// MonthlyFreeAllowance is the token budget each user receives per calendar month
	MonthlyFreeAllowance = 1000

	// CostPerGeneration is the flat token charge for one AI operation
	CostPerGeneration = 50
)

// Per-token prices used to meter anonymous sessions against their
// dollar credit. Input and output tokens are priced differently.
const (
	InputTokenPrice  = 0.15e-6
	OutputTokenPrice = 0.6e-6
)

// Remaining returns the unspent tokens for the given usage, never negative
func Remaining(usage int) int {
	remaining := MonthlyFreeAllowance - usage
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanGenerate reports whether one more AI operation fits in the allowance
func CanGenerate(usage int) bool {
	return Remaining(usage) >= CostPerGeneration
}

// SamePeriod reports whether two instants fall in the same billing
// period, which is a calendar month.
func SamePeriod(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// EstimateTokens approximates the token count of a text, using the
// usual four characters per token heuristic rounded up.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Cost returns the dollar cost of a completion given its token counts
func Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*InputTokenPrice + float64(outputTokens)*OutputTokenPrice
}
