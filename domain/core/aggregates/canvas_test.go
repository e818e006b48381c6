package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	pkgerrors "deepthinker-backend/pkg/errors"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	canvas, err := NewCanvas("user-123", "Research")
	require.NoError(t, err)
	return canvas
}

func addThought(t *testing.T, canvas *Canvas, text string) *entities.Thought {
	t.Helper()
	content, err := valueobjects.NewThoughtContent(text)
	require.NoError(t, err)
	thought, err := entities.NewThought(canvas.ID(), canvas.UserID(), content,
		valueobjects.NewPosition(0, 0), entities.OriginManual)
	require.NoError(t, err)
	require.NoError(t, canvas.AddThought(thought))
	return thought
}

func TestNewCanvas(t *testing.T) {
	canvas := newTestCanvas(t)

	assert.Equal(t, "Research", canvas.Name())
	assert.Zero(t, canvas.ThoughtCount())

	uncommitted := canvas.GetUncommittedEvents()
	require.Len(t, uncommitted, 1)
	assert.Equal(t, "canvas.created", uncommitted[0].GetEventType())
}

func TestCanvas_AddThought(t *testing.T) {
	canvas := newTestCanvas(t)
	thought := addThought(t, canvas, "root idea")

	assert.Equal(t, 1, canvas.ThoughtCount())

	err := canvas.AddThought(thought)
	assert.True(t, pkgerrors.IsConflict(err))

	otherCanvasContent, err := valueobjects.NewThoughtContent("stray")
	require.NoError(t, err)
	stray, err := entities.NewThought(valueobjects.NewCanvasID(), "user-123",
		otherCanvasContent, valueobjects.NewPosition(0, 0), entities.OriginManual)
	require.NoError(t, err)

	err = canvas.AddThought(stray)
	assert.True(t, pkgerrors.IsValidation(err), "thought from another canvas rejected")
}

func TestCanvas_ConnectThoughts(t *testing.T) {
	canvas := newTestCanvas(t)
	parent := addThought(t, canvas, "parent")
	child := addThought(t, canvas, "child")

	require.NoError(t, canvas.ConnectThoughts(parent.ID(), child.ID()))
	assert.True(t, parent.HasConnection(child.ID()))

	err := canvas.ConnectThoughts(parent.ID(), child.ID())
	assert.True(t, pkgerrors.IsConflict(err))

	err = canvas.ConnectThoughts(parent.ID(), valueobjects.NewThoughtID())
	assert.True(t, pkgerrors.IsNotFound(err))

	err = canvas.ConnectThoughts(valueobjects.NewThoughtID(), child.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCanvas_RemoveThought_SeversIncomingLinks(t *testing.T) {
	canvas := newTestCanvas(t)
	parent := addThought(t, canvas, "parent")
	child := addThought(t, canvas, "child")
	require.NoError(t, canvas.ConnectThoughts(parent.ID(), child.ID()))

	removed, err := canvas.RemoveThought(child.ID())
	require.NoError(t, err)
	assert.True(t, removed.ID().Equals(child.ID()))

	assert.Equal(t, 1, canvas.ThoughtCount())
	assert.False(t, parent.HasConnection(child.ID()))

	_, err = canvas.RemoveThought(child.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCanvas_FamilyRoot(t *testing.T) {
	canvas := newTestCanvas(t)
	root := addThought(t, canvas, "root")
	mid := addThought(t, canvas, "mid")
	leaf := addThought(t, canvas, "leaf")
	require.NoError(t, canvas.ConnectThoughts(root.ID(), mid.ID()))
	require.NoError(t, canvas.ConnectThoughts(mid.ID(), leaf.ID()))

	found, err := canvas.FamilyRoot(leaf.ID())
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(root.ID()))

	found, err = canvas.FamilyRoot(root.ID())
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(root.ID()))

	_, err = canvas.FamilyRoot(valueobjects.NewThoughtID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCanvas_FamilyRoot_CyclicGraphTerminates(t *testing.T) {
	canvas := newTestCanvas(t)
	a := addThought(t, canvas, "a")
	b := addThought(t, canvas, "b")
	require.NoError(t, canvas.ConnectThoughts(a.ID(), b.ID()))
	require.NoError(t, canvas.ConnectThoughts(b.ID(), a.ID()))

	found, err := canvas.FamilyRoot(a.ID())
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestCanvas_LayoutCards(t *testing.T) {
	canvas := newTestCanvas(t)
	parent := addThought(t, canvas, "parent")
	child := addThought(t, canvas, "child")
	require.NoError(t, canvas.ConnectThoughts(parent.ID(), child.ID()))

	cards := canvas.LayoutCards()
	require.Len(t, cards, 2)
	require.Len(t, cards[parent.ID().String()].Children, 1)
	assert.Equal(t, child.ID().String(), cards[parent.ID().String()].Children[0])
	assert.Empty(t, cards[child.ID().String()].Children)
}

func TestCanvas_EventsIncludeThoughtEvents(t *testing.T) {
	canvas := newTestCanvas(t)
	thought := addThought(t, canvas, "idea")
	require.NoError(t, thought.MoveTo(valueobjects.NewPosition(10, 20)))

	types := make(map[string]bool)
	for _, event := range canvas.GetUncommittedEvents() {
		types[event.GetEventType()] = true
	}
	assert.True(t, types["canvas.created"])
	assert.True(t, types["thought.created"])
	assert.True(t, types["thought.moved"])

	canvas.MarkEventsAsCommitted()
	assert.Empty(t, canvas.GetUncommittedEvents())
}
