package events

import (
	"time"

	"deepthinker-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Thought Events

// ThoughtCreated is raised when a new thought is placed on a canvas
type ThoughtCreated struct {
	BaseEvent
	ThoughtID valueobjects.ThoughtID `json:"thought_id"`
	CanvasID  valueobjects.CanvasID  `json:"canvas_id"`
	UserID    string                 `json:"user_id"`
	Generated bool                   `json:"generated"`
}

// NewThoughtCreated creates a ThoughtCreated event
func NewThoughtCreated(thoughtID valueobjects.ThoughtID, canvasID valueobjects.CanvasID, userID string, generated bool, timestamp time.Time) ThoughtCreated {
	return ThoughtCreated{
		BaseEvent: BaseEvent{
			AggregateID: thoughtID.String(),
			EventType:   "thought.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		ThoughtID: thoughtID,
		CanvasID:  canvasID,
		UserID:    userID,
		Generated: generated,
	}
}

// ThoughtContentUpdated is raised when the text of a thought changes
type ThoughtContentUpdated struct {
	BaseEvent
	ThoughtID  valueobjects.ThoughtID      `json:"thought_id"`
	OldContent valueobjects.ThoughtContent `json:"old_content"`
	NewContent valueobjects.ThoughtContent `json:"new_content"`
}

// NewThoughtContentUpdated creates a ThoughtContentUpdated event
func NewThoughtContentUpdated(thoughtID valueobjects.ThoughtID, oldContent, newContent valueobjects.ThoughtContent, timestamp time.Time) ThoughtContentUpdated {
	return ThoughtContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: thoughtID.String(),
			EventType:   "thought.content_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		ThoughtID:  thoughtID,
		OldContent: oldContent,
		NewContent: newContent,
	}
}

// ThoughtMoved is raised when a thought is repositioned on the canvas
type ThoughtMoved struct {
	BaseEvent
	ThoughtID   valueobjects.ThoughtID `json:"thought_id"`
	OldPosition valueobjects.Position  `json:"old_position"`
	NewPosition valueobjects.Position  `json:"new_position"`
}

// NewThoughtMoved creates a ThoughtMoved event
func NewThoughtMoved(thoughtID valueobjects.ThoughtID, oldPos, newPos valueobjects.Position, timestamp time.Time) ThoughtMoved {
	return ThoughtMoved{
		BaseEvent: BaseEvent{
			AggregateID: thoughtID.String(),
			EventType:   "thought.moved",
			Timestamp:   timestamp,
			Version:     1,
		},
		ThoughtID:   thoughtID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// ThoughtsConnected is raised when a parent-child link is added
type ThoughtsConnected struct {
	BaseEvent
	ParentID valueobjects.ThoughtID `json:"parent_id"`
	ChildID  valueobjects.ThoughtID `json:"child_id"`
}

// NewThoughtsConnected creates a ThoughtsConnected event
func NewThoughtsConnected(parentID, childID valueobjects.ThoughtID, timestamp time.Time) ThoughtsConnected {
	return ThoughtsConnected{
		BaseEvent: BaseEvent{
			AggregateID: parentID.String(),
			EventType:   "thoughts.connected",
			Timestamp:   timestamp,
			Version:     1,
		},
		ParentID: parentID,
		ChildID:  childID,
	}
}

// ThoughtDeleted is raised when a thought is removed from its canvas
type ThoughtDeleted struct {
	BaseEvent
	ThoughtID valueobjects.ThoughtID `json:"thought_id"`
	CanvasID  valueobjects.CanvasID  `json:"canvas_id"`
	UserID    string                 `json:"user_id"`
}

// NewThoughtDeleted creates a ThoughtDeleted event
func NewThoughtDeleted(thoughtID valueobjects.ThoughtID, canvasID valueobjects.CanvasID, userID string, timestamp time.Time) ThoughtDeleted {
	return ThoughtDeleted{
		BaseEvent: BaseEvent{
			AggregateID: thoughtID.String(),
			EventType:   "thought.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		ThoughtID: thoughtID,
		CanvasID:  canvasID,
		UserID:    userID,
	}
}

// Canvas Events

// CanvasCreated is raised when a new canvas is created
type CanvasCreated struct {
	BaseEvent
	CanvasID valueobjects.CanvasID `json:"canvas_id"`
	UserID   string                `json:"user_id"`
	Name     string                `json:"name"`
}

// NewCanvasCreated creates a CanvasCreated event
func NewCanvasCreated(canvasID valueobjects.CanvasID, userID, name string, timestamp time.Time) CanvasCreated {
	return CanvasCreated{
		BaseEvent: BaseEvent{
			AggregateID: canvasID.String(),
			EventType:   "canvas.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		CanvasID: canvasID,
		UserID:   userID,
		Name:     name,
	}
}

// Quota Events

// TokensConsumed is raised when a user is charged for an AI operation
type TokensConsumed struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Cost      int    `json:"cost"`
	Remaining int    `json:"remaining"`
}

// NewTokensConsumed creates a TokensConsumed event
func NewTokensConsumed(userID string, cost, remaining int, timestamp time.Time) TokensConsumed {
	return TokensConsumed{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "quota.tokens_consumed",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:    userID,
		Cost:      cost,
		Remaining: remaining,
	}
}
