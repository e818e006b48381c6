package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepthinker-backend/domain/core/valueobjects"
	pkgerrors "deepthinker-backend/pkg/errors"
)

func mustContent(t *testing.T, text string) valueobjects.ThoughtContent {
	t.Helper()
	content, err := valueobjects.NewThoughtContent(text)
	require.NoError(t, err)
	return content
}

func newTestThought(t *testing.T) *Thought {
	t.Helper()
	thought, err := NewThought(
		valueobjects.NewCanvasID(),
		"user-123",
		mustContent(t, "initial idea"),
		valueobjects.NewPosition(100, 200),
		OriginManual,
	)
	require.NoError(t, err)
	return thought
}

func TestNewThought_Validation(t *testing.T) {
	canvasID := valueobjects.NewCanvasID()
	content := mustContent(t, "idea")
	pos := valueobjects.NewPosition(0, 0)

	_, err := NewThought(valueobjects.CanvasID{}, "user-123", content, pos, OriginManual)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewThought(canvasID, "", content, pos, OriginManual)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewThought_RaisesCreatedEvent(t *testing.T) {
	thought := newTestThought(t)

	uncommitted := thought.GetUncommittedEvents()
	require.Len(t, uncommitted, 1)
	assert.Equal(t, "thought.created", uncommitted[0].GetEventType())

	thought.MarkEventsAsCommitted()
	assert.Empty(t, thought.GetUncommittedEvents())
}

func TestThought_UpdateContent(t *testing.T) {
	thought := newTestThought(t)
	thought.MarkEventsAsCommitted()
	originalVersion := thought.Version()

	err := thought.UpdateContent(mustContent(t, "refined idea"))
	require.NoError(t, err)

	assert.Equal(t, "refined idea", thought.Content().Text())
	assert.Equal(t, originalVersion+1, thought.Version())
	require.Len(t, thought.GetUncommittedEvents(), 1)
	assert.Equal(t, "thought.content_updated", thought.GetUncommittedEvents()[0].GetEventType())
}

func TestThought_UpdateContent_NoOpWhenUnchanged(t *testing.T) {
	thought := newTestThought(t)
	thought.MarkEventsAsCommitted()

	err := thought.UpdateContent(mustContent(t, "initial idea"))
	require.NoError(t, err)
	assert.Empty(t, thought.GetUncommittedEvents())
}

func TestThought_MoveTo(t *testing.T) {
	thought := newTestThought(t)
	thought.MarkEventsAsCommitted()

	err := thought.MoveTo(valueobjects.NewPosition(500, 600))
	require.NoError(t, err)

	assert.Equal(t, valueobjects.NewPosition(500, 600), thought.Position())
	require.Len(t, thought.GetUncommittedEvents(), 1)
	assert.Equal(t, "thought.moved", thought.GetUncommittedEvents()[0].GetEventType())
}

func TestThought_ConnectTo(t *testing.T) {
	thought := newTestThought(t)
	childID := valueobjects.NewThoughtID()

	require.NoError(t, thought.ConnectTo(childID))
	assert.True(t, thought.HasConnection(childID))

	err := thought.ConnectTo(childID)
	assert.True(t, pkgerrors.IsConflict(err), "duplicate connection rejected")

	err = thought.ConnectTo(thought.ID())
	assert.True(t, pkgerrors.IsValidation(err), "self connection rejected")
}

func TestThought_ConnectionOrderPreserved(t *testing.T) {
	thought := newTestThought(t)
	first := valueobjects.NewThoughtID()
	second := valueobjects.NewThoughtID()
	third := valueobjects.NewThoughtID()

	require.NoError(t, thought.ConnectTo(first))
	require.NoError(t, thought.ConnectTo(second))
	require.NoError(t, thought.ConnectTo(third))

	connections := thought.Connections()
	require.Len(t, connections, 3)
	assert.True(t, connections[0].Equals(first))
	assert.True(t, connections[1].Equals(second))
	assert.True(t, connections[2].Equals(third))
}

func TestThought_Disconnect(t *testing.T) {
	thought := newTestThought(t)
	childID := valueobjects.NewThoughtID()
	require.NoError(t, thought.ConnectTo(childID))

	require.NoError(t, thought.Disconnect(childID))
	assert.False(t, thought.HasConnection(childID))

	err := thought.Disconnect(childID)
	assert.True(t, pkgerrors.IsNotFound(err))
}
