package aggregates

import (
	"time"

	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/events"
	"deepthinker-backend/domain/layout"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// Canvas is the aggregate root for one mind map. It owns the thoughts
// placed on it and enforces consistency of the connection graph.
type Canvas struct {
	id        valueobjects.CanvasID
	userID    string
	name      string
	thoughts  map[valueobjects.ThoughtID]*entities.Thought
	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// NewCanvas creates a new canvas aggregate
func NewCanvas(userID, name string) (*Canvas, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("canvas name cannot be empty")
	}

	now := time.Now()
	canvas := &Canvas{
		id:        valueobjects.NewCanvasID(),
		userID:    userID,
		name:      name,
		thoughts:  make(map[valueobjects.ThoughtID]*entities.Thought),
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}

	canvas.addEvent(events.NewCanvasCreated(canvas.id, userID, name, now))

	return canvas, nil
}

// ReconstructCanvas recreates a canvas from stored data
func ReconstructCanvas(
	id valueobjects.CanvasID,
	userID string,
	name string,
	thoughts []*entities.Thought,
	createdAt, updatedAt time.Time,
	version int,
) (*Canvas, error) {
	if id.IsZero() || userID == "" || name == "" {
		return nil, pkgerrors.NewValidationError("required fields missing for canvas reconstruction")
	}

	canvas := &Canvas{
		id:        id,
		userID:    userID,
		name:      name,
		thoughts:  make(map[valueobjects.ThoughtID]*entities.Thought, len(thoughts)),
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
		events:    []events.DomainEvent{},
	}

	for _, thought := range thoughts {
		canvas.thoughts[thought.ID()] = thought
	}

	return canvas, nil
}

// ID returns the canvas's unique identifier
func (c *Canvas) ID() valueobjects.CanvasID {
	return c.id
}

// UserID returns the owner's ID
func (c *Canvas) UserID() string {
	return c.userID
}

// Name returns the canvas's name
func (c *Canvas) Name() string {
	return c.name
}

// Rename changes the canvas name
func (c *Canvas) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidationError("canvas name cannot be empty")
	}
	c.name = name
	c.updatedAt = time.Now()
	c.version++
	return nil
}

// AddThought places a thought on the canvas
func (c *Canvas) AddThought(thought *entities.Thought) error {
	if thought == nil {
		return pkgerrors.NewValidationError("thought cannot be nil")
	}
	if !thought.CanvasID().Equals(c.id) {
		return pkgerrors.NewValidationError("thought belongs to a different canvas")
	}
	if _, exists := c.thoughts[thought.ID()]; exists {
		return pkgerrors.NewConflictError("thought already on canvas")
	}

	c.thoughts[thought.ID()] = thought
	c.updatedAt = time.Now()
	c.version++

	return nil
}

// RemoveThought deletes a thought and severs any links pointing at it
func (c *Canvas) RemoveThought(id valueobjects.ThoughtID) (*entities.Thought, error) {
	thought, exists := c.thoughts[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("thought")
	}

	delete(c.thoughts, id)

	for _, other := range c.thoughts {
		if other.HasConnection(id) {
			// Disconnect only fails when the link is absent, which
			// HasConnection just ruled out
			_ = other.Disconnect(id)
		}
	}

	c.updatedAt = time.Now()
	c.version++

	c.addEvent(events.NewThoughtDeleted(id, c.id, c.userID, c.updatedAt))

	return thought, nil
}

// ConnectThoughts links a parent thought to a child thought. Both must
// already be on the canvas.
func (c *Canvas) ConnectThoughts(parentID, childID valueobjects.ThoughtID) error {
	parent, exists := c.thoughts[parentID]
	if !exists {
		return pkgerrors.NewNotFoundError("parent thought")
	}
	if _, exists := c.thoughts[childID]; !exists {
		return pkgerrors.NewNotFoundError("child thought")
	}

	if err := parent.ConnectTo(childID); err != nil {
		return err
	}

	c.updatedAt = time.Now()
	c.version++

	return nil
}

// GetThought returns a thought by ID
func (c *Canvas) GetThought(id valueobjects.ThoughtID) (*entities.Thought, error) {
	thought, exists := c.thoughts[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("thought")
	}
	return thought, nil
}

// Thoughts returns all thoughts on the canvas
func (c *Canvas) Thoughts() []*entities.Thought {
	thoughts := make([]*entities.Thought, 0, len(c.thoughts))
	for _, thought := range c.thoughts {
		thoughts = append(thoughts, thought)
	}
	return thoughts
}

// ThoughtCount returns the number of thoughts on the canvas
func (c *Canvas) ThoughtCount() int {
	return len(c.thoughts)
}

// FindParent returns the thought holding a connection to childID, if any.
// The connection graph is parent-to-child, so this scans the canvas.
func (c *Canvas) FindParent(childID valueobjects.ThoughtID) (*entities.Thought, bool) {
	for _, thought := range c.thoughts {
		if thought.HasConnection(childID) {
			return thought, true
		}
	}
	return nil, false
}

// FamilyRoot ascends parent links from the given thought until it
// reaches a thought no one points at. Visited tracking keeps cyclic
// connection graphs from looping forever.
func (c *Canvas) FamilyRoot(id valueobjects.ThoughtID) (*entities.Thought, error) {
	current, exists := c.thoughts[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("thought")
	}

	visited := map[valueobjects.ThoughtID]bool{current.ID(): true}
	for {
		parent, ok := c.FindParent(current.ID())
		if !ok || visited[parent.ID()] {
			return current, nil
		}
		visited[parent.ID()] = true
		current = parent
	}
}

// LayoutCards projects the canvas into the layout engine's input shape
func (c *Canvas) LayoutCards() map[string]layout.Card {
	cards := make(map[string]layout.Card, len(c.thoughts))
	for id, thought := range c.thoughts {
		children := thought.Connections()
		childIDs := make([]string, len(children))
		for i, childID := range children {
			childIDs[i] = childID.String()
		}
		cards[id.String()] = layout.Card{ID: id.String(), Children: childIDs}
	}
	return cards
}

// CreatedAt returns when the canvas was created
func (c *Canvas) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the canvas was last modified
func (c *Canvas) UpdatedAt() time.Time {
	return c.updatedAt
}

// Version returns the aggregate version for optimistic locking
func (c *Canvas) Version() int {
	return c.version
}

// GetUncommittedEvents returns all uncommitted domain events, including
// those raised by thoughts on the canvas
func (c *Canvas) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, 0, len(c.events))
	all = append(all, c.events...)
	for _, thought := range c.thoughts {
		all = append(all, thought.GetUncommittedEvents()...)
	}
	return all
}

// MarkEventsAsCommitted clears the uncommitted events
func (c *Canvas) MarkEventsAsCommitted() {
	c.events = []events.DomainEvent{}
	for _, thought := range c.thoughts {
		thought.MarkEventsAsCommitted()
	}
}

func (c *Canvas) addEvent(event events.DomainEvent) {
	c.events = append(c.events, event)
}
