package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/layout"
	"deepthinker-backend/tests/mocks"
)

func newTestService(thoughtRepo *mocks.MockThoughtRepository) *LayoutService {
	return NewLayoutService(layout.NewDefaultEngine(), thoughtRepo, zap.NewNop())
}

func placeThought(t *testing.T, canvas *aggregates.Canvas, text string, pos valueobjects.Position) *entities.Thought {
	t.Helper()
	content, err := valueobjects.NewThoughtContent(text)
	require.NoError(t, err)
	thought, err := entities.NewThought(canvas.ID(), canvas.UserID(), content, pos, entities.OriginManual)
	require.NoError(t, err)
	require.NoError(t, canvas.AddThought(thought))
	return thought
}

// Builds root -> {a -> {c}, b} with the root anchored away from the origin.
func buildFamily(t *testing.T) (*aggregates.Canvas, *entities.Thought, *entities.Thought, *entities.Thought, *entities.Thought) {
	t.Helper()
	canvas, err := aggregates.NewCanvas("user123", "Research")
	require.NoError(t, err)

	root := placeThought(t, canvas, "root", valueobjects.NewPosition(400, 100))
	a := placeThought(t, canvas, "first child", valueobjects.NewPosition(0, 0))
	b := placeThought(t, canvas, "second child", valueobjects.NewPosition(0, 0))
	c := placeThought(t, canvas, "grandchild", valueobjects.NewPosition(0, 0))

	require.NoError(t, canvas.ConnectThoughts(root.ID(), a.ID()))
	require.NoError(t, canvas.ConnectThoughts(root.ID(), b.ID()))
	require.NoError(t, canvas.ConnectThoughts(a.ID(), c.ID()))
	canvas.MarkEventsAsCommitted()

	return canvas, root, a, b, c
}

func TestLayoutService_RepositionFamily(t *testing.T) {
	ctx := context.Background()
	thoughtRepo := new(mocks.MockThoughtRepository)
	thoughtRepo.On("SaveBatch", ctx, mock.AnythingOfType("[]*entities.Thought")).Return(nil)

	canvas, root, a, b, c := buildFamily(t)

	// Any family member resolves to the same root
	moved, err := newTestService(thoughtRepo).RepositionFamily(ctx, canvas, c.ID())
	require.NoError(t, err)

	// The root holds its anchor while the rows beneath it are rebuilt
	assert.Equal(t, valueobjects.NewPosition(400, 100), root.Position())
	assert.Equal(t, valueobjects.NewPosition(150, 350), a.Position())
	assert.Equal(t, valueobjects.NewPosition(650, 350), b.Position())
	assert.Equal(t, valueobjects.NewPosition(150, 600), c.Position())

	assert.Len(t, moved, 3)
	assert.NotContains(t, moved, root)
	thoughtRepo.AssertNumberOfCalls(t, "SaveBatch", 1)
}

func TestLayoutService_RepositionFamily_AlreadyTidy(t *testing.T) {
	ctx := context.Background()
	thoughtRepo := new(mocks.MockThoughtRepository)

	canvas, err := aggregates.NewCanvas("user123", "Research")
	require.NoError(t, err)
	lone := placeThought(t, canvas, "solo", valueobjects.NewPosition(1000, 50))
	canvas.MarkEventsAsCommitted()

	moved, err := newTestService(thoughtRepo).RepositionFamily(ctx, canvas, lone.ID())
	require.NoError(t, err)

	assert.Empty(t, moved)
	assert.Equal(t, valueobjects.NewPosition(1000, 50), lone.Position())
	thoughtRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestLayoutService_RepositionFamily_PersistFailure(t *testing.T) {
	ctx := context.Background()
	thoughtRepo := new(mocks.MockThoughtRepository)
	thoughtRepo.On("SaveBatch", ctx, mock.AnythingOfType("[]*entities.Thought")).
		Return(errors.New("throughput exceeded"))

	canvas, _, _, _, c := buildFamily(t)

	_, err := newTestService(thoughtRepo).RepositionFamily(ctx, canvas, c.ID())
	require.Error(t, err)
}

func TestLayoutService_RepositionFamily_UnknownMember(t *testing.T) {
	ctx := context.Background()
	thoughtRepo := new(mocks.MockThoughtRepository)

	canvas, _, _, _, _ := buildFamily(t)

	_, err := newTestService(thoughtRepo).RepositionFamily(ctx, canvas, valueobjects.NewThoughtID())
	require.Error(t, err)
	thoughtRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}
