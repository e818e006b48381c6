package ports

import (
	"context"
	"time"

	"deepthinker-backend/domain/events"
)

// QuotaStatus is a snapshot of a user's monthly token ledger
type QuotaStatus struct {
	Usage     int
	Remaining int
	LastReset time.Time
}

// QuotaLedger meters AI operations against the monthly allowance.
// Implementations must charge atomically so concurrent requests cannot
// overdraw the budget.
type QuotaLedger interface {
	// Consume charges one generation. It returns a quota exhausted
	// error when the allowance cannot cover it.
	Consume(ctx context.Context, userID string) (QuotaStatus, error)

	// Status reads the ledger without charging
	Status(ctx context.Context, userID string) (QuotaStatus, error)
}

// ChatRole identifies who authored a chat message
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation with the assistant
type ChatMessage struct {
	Role ChatRole
	Text string
}

// CompletionResult carries generated text and its measured token counts
type CompletionResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// CompletionService produces AI text for the generation features
type CompletionService interface {
	// GenerateRelatedThought produces a short new idea branching off
	// the parent, given the rest of the canvas for context.
	GenerateRelatedThought(ctx context.Context, parentText string, canvasThoughts []string) (CompletionResult, error)

	// RewriteThought rewrites a thought's text per the instruction
	RewriteThought(ctx context.Context, text, instruction string) (CompletionResult, error)

	// Chat continues a multi-turn conversation grounded in the canvas
	Chat(ctx context.Context, history []ChatMessage, canvasThoughts []string) (CompletionResult, error)
}

// EventPublisher delivers domain events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, batch []events.DomainEvent) error
}
