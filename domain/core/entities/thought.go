package entities

import (
	"time"

	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/events"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// ThoughtOrigin records how a thought came to exist
type ThoughtOrigin string

const (
	OriginManual    ThoughtOrigin = "manual"
	OriginGenerated ThoughtOrigin = "generated"
)

// Thought is the main entity representing one card on a mind map canvas.
// This is a rich domain model with encapsulated business logic.
type Thought struct {
	id          valueobjects.ThoughtID
	canvasID    valueobjects.CanvasID
	userID      string
	content     valueobjects.ThoughtContent
	position    valueobjects.Position
	connections []valueobjects.ThoughtID
	origin      ThoughtOrigin
	createdAt   time.Time
	updatedAt   time.Time
	version     int

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewThought creates a new thought with full business rule validation
func NewThought(canvasID valueobjects.CanvasID, userID string, content valueobjects.ThoughtContent, position valueobjects.Position, origin ThoughtOrigin) (*Thought, error) {
	if canvasID.IsZero() {
		return nil, pkgerrors.NewValidationError("canvasID cannot be empty")
	}

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	now := time.Now()
	thought := &Thought{
		id:          valueobjects.NewThoughtID(),
		canvasID:    canvasID,
		userID:      userID,
		content:     content,
		position:    position,
		connections: []valueobjects.ThoughtID{},
		origin:      origin,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		events:      []events.DomainEvent{},
	}

	thought.addEvent(events.NewThoughtCreated(
		thought.id,
		canvasID,
		userID,
		origin == OriginGenerated,
		now,
	))

	return thought, nil
}

// ReconstructThought rebuilds a thought from repository data with preserved timestamps
func ReconstructThought(
	id valueobjects.ThoughtID,
	canvasID valueobjects.CanvasID,
	userID string,
	content valueobjects.ThoughtContent,
	position valueobjects.Position,
	connections []valueobjects.ThoughtID,
	origin ThoughtOrigin,
	createdAt, updatedAt time.Time,
	version int,
) (*Thought, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	if connections == nil {
		connections = []valueobjects.ThoughtID{}
	}

	return &Thought{
		id:          id,
		canvasID:    canvasID,
		userID:      userID,
		content:     content,
		position:    position,
		connections: connections,
		origin:      origin,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
		events:      []events.DomainEvent{},
	}, nil
}

// ID returns the thought's unique identifier
func (t *Thought) ID() valueobjects.ThoughtID {
	return t.id
}

// CanvasID returns the canvas this thought belongs to
func (t *Thought) CanvasID() valueobjects.CanvasID {
	return t.canvasID
}

// UserID returns the owner's ID
func (t *Thought) UserID() string {
	return t.userID
}

// Content returns the thought's content
func (t *Thought) Content() valueobjects.ThoughtContent {
	return t.content
}

// Position returns the thought's position on the canvas
func (t *Thought) Position() valueobjects.Position {
	return t.position
}

// Origin reports whether the thought was typed or AI generated
func (t *Thought) Origin() ThoughtOrigin {
	return t.origin
}

// Version returns the thought's version for optimistic locking
func (t *Thought) Version() int {
	return t.version
}

// UpdateContent updates the thought's text with validation
func (t *Thought) UpdateContent(content valueobjects.ThoughtContent) error {
	if content.IsEmpty() {
		return pkgerrors.NewValidationError("content cannot be empty")
	}

	if content.Equals(t.content) {
		return nil
	}

	oldContent := t.content
	t.content = content
	t.updatedAt = time.Now()
	t.version++

	t.addEvent(events.NewThoughtContentUpdated(t.id, oldContent, content, t.updatedAt))

	return nil
}

// MoveTo moves the thought to a new position
func (t *Thought) MoveTo(position valueobjects.Position) error {
	if position.Equals(t.position) {
		return nil
	}

	oldPosition := t.position
	t.position = position
	t.updatedAt = time.Now()

	t.addEvent(events.NewThoughtMoved(t.id, oldPosition, position, t.updatedAt))

	return nil
}

// ConnectTo adds a child link to another thought. Connection order is
// preserved because it drives sibling ordering during layout.
func (t *Thought) ConnectTo(childID valueobjects.ThoughtID) error {
	if t.id.Equals(childID) {
		return pkgerrors.NewValidationError("cannot connect thought to itself")
	}

	for _, existing := range t.connections {
		if existing.Equals(childID) {
			return pkgerrors.NewConflictError("connection already exists")
		}
	}

	t.connections = append(t.connections, childID)
	t.updatedAt = time.Now()

	t.addEvent(events.NewThoughtsConnected(t.id, childID, t.updatedAt))

	return nil
}

// Disconnect removes a child link
func (t *Thought) Disconnect(childID valueobjects.ThoughtID) error {
	found := false
	newConnections := []valueobjects.ThoughtID{}

	for _, existing := range t.connections {
		if !existing.Equals(childID) {
			newConnections = append(newConnections, existing)
		} else {
			found = true
		}
	}

	if !found {
		return pkgerrors.NewNotFoundError("connection")
	}

	t.connections = newConnections
	t.updatedAt = time.Now()

	return nil
}

// Connections returns child thought IDs in connection order
func (t *Thought) Connections() []valueobjects.ThoughtID {
	// Return a copy to maintain encapsulation
	connections := make([]valueobjects.ThoughtID, len(t.connections))
	copy(connections, t.connections)
	return connections
}

// HasConnection reports whether a direct child link exists
func (t *Thought) HasConnection(childID valueobjects.ThoughtID) bool {
	for _, existing := range t.connections {
		if existing.Equals(childID) {
			return true
		}
	}
	return false
}

// CreatedAt returns when the thought was created
func (t *Thought) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns when the thought was last updated
func (t *Thought) UpdatedAt() time.Time {
	return t.updatedAt
}

// GetUncommittedEvents returns all uncommitted domain events
func (t *Thought) GetUncommittedEvents() []events.DomainEvent {
	return t.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (t *Thought) MarkEventsAsCommitted() {
	t.events = []events.DomainEvent{}
}

func (t *Thought) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}
