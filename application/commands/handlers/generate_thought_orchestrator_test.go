package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/application/services"
	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/events"
	"deepthinker-backend/domain/layout"
	"deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
	"deepthinker-backend/tests/mocks"
)

func buildCanvasWithParent(t *testing.T) (*aggregates.Canvas, *entities.Thought) {
	t.Helper()
	canvas, err := aggregates.NewCanvas("user123", "Research")
	require.NoError(t, err)

	content, err := valueobjects.NewThoughtContent("climate change")
	require.NoError(t, err)
	parent, err := entities.NewThought(canvas.ID(), "user123", content,
		valueobjects.NewPosition(1000, 50), entities.OriginManual)
	require.NoError(t, err)
	require.NoError(t, canvas.AddThought(parent))
	canvas.MarkEventsAsCommitted()

	return canvas, parent
}

func newOrchestrator(
	canvasRepo *mocks.MockCanvasRepository,
	thoughtRepo *mocks.MockThoughtRepository,
	ledger *mocks.MockQuotaLedger,
	completions *mocks.MockCompletionService,
	publisher *mocks.MockEventPublisher,
) *GenerateThoughtOrchestrator {
	logger := zap.NewNop()
	layoutService := services.NewLayoutService(layout.NewDefaultEngine(), thoughtRepo, logger)
	return NewGenerateThoughtOrchestrator(canvasRepo, thoughtRepo, ledger, completions, layoutService, publisher, logger)
}

func TestGenerateThoughtOrchestrator_Success(t *testing.T) {
	ctx := context.Background()
	canvasRepo := new(mocks.MockCanvasRepository)
	thoughtRepo := new(mocks.MockThoughtRepository)
	ledger := new(mocks.MockQuotaLedger)
	completions := new(mocks.MockCompletionService)
	publisher := new(mocks.MockEventPublisher)

	canvas, parent := buildCanvasWithParent(t)

	cmd := GenerateThoughtCommand{
		UserID:   "user123",
		CanvasID: canvas.ID().String(),
		ParentID: parent.ID().String(),
	}

	canvasRepo.On("FindByID", ctx, "user123", canvas.ID()).Return(canvas, nil)
	ledger.On("Consume", ctx, "user123").
		Return(ports.QuotaStatus{Usage: 50, Remaining: 950}, nil)
	completions.On("GenerateRelatedThought", ctx, "climate change", []string{"climate change"}).
		Return(ports.CompletionResult{Text: "rising sea levels", InputTokens: 40, OutputTokens: 12}, nil)
	thoughtRepo.On("Save", ctx, mock.AnythingOfType("*entities.Thought")).Return(nil)
	thoughtRepo.On("SaveBatch", ctx, mock.AnythingOfType("[]*entities.Thought")).Return(nil)

	var published []events.DomainEvent
	publisher.On("Publish", ctx, mock.AnythingOfType("[]events.DomainEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).([]events.DomainEvent)
		}).
		Return(nil)

	orchestrator := newOrchestrator(canvasRepo, thoughtRepo, ledger, completions, publisher)

	result, err := orchestrator.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "rising sea levels", result.Thought.Content().Text())
	assert.Equal(t, entities.OriginGenerated, result.Thought.Origin())
	assert.Equal(t, 950, result.RemainingTokens)
	assert.True(t, parent.HasConnection(result.Thought.ID()))

	// Parent keeps its anchor while the child lands one row below
	assert.Equal(t, valueobjects.NewPosition(1000, 50), parent.Position())
	assert.Equal(t, valueobjects.NewPosition(1000, 300), result.Thought.Position())

	// The quota charge is announced alongside the canvas events
	var charge *events.TokensConsumed
	for i := range published {
		if consumed, ok := published[i].(events.TokensConsumed); ok {
			charge = &consumed
		}
	}
	require.NotNil(t, charge, "expected a quota.tokens_consumed event in the batch")
	assert.Equal(t, "user123", charge.UserID)
	assert.Equal(t, quota.CostPerGeneration, charge.Cost)
	assert.Equal(t, 950, charge.Remaining)

	canvasRepo.AssertExpectations(t)
	thoughtRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	completions.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestGenerateThoughtOrchestrator_ParentMissing(t *testing.T) {
	ctx := context.Background()
	canvasRepo := new(mocks.MockCanvasRepository)
	thoughtRepo := new(mocks.MockThoughtRepository)
	ledger := new(mocks.MockQuotaLedger)
	completions := new(mocks.MockCompletionService)
	publisher := new(mocks.MockEventPublisher)

	canvas, _ := buildCanvasWithParent(t)
	missingID := valueobjects.NewThoughtID()

	cmd := GenerateThoughtCommand{
		UserID:   "user123",
		CanvasID: canvas.ID().String(),
		ParentID: missingID.String(),
	}

	canvasRepo.On("FindByID", ctx, "user123", canvas.ID()).Return(canvas, nil)

	orchestrator := newOrchestrator(canvasRepo, thoughtRepo, ledger, completions, publisher)

	_, err := orchestrator.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	// No charge is made when the parent does not exist
	ledger.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
	completions.AssertNotCalled(t, "GenerateRelatedThought", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateThoughtOrchestrator_QuotaExhausted(t *testing.T) {
	ctx := context.Background()
	canvasRepo := new(mocks.MockCanvasRepository)
	thoughtRepo := new(mocks.MockThoughtRepository)
	ledger := new(mocks.MockQuotaLedger)
	completions := new(mocks.MockCompletionService)
	publisher := new(mocks.MockEventPublisher)

	canvas, parent := buildCanvasWithParent(t)

	cmd := GenerateThoughtCommand{
		UserID:   "user123",
		CanvasID: canvas.ID().String(),
		ParentID: parent.ID().String(),
	}

	canvasRepo.On("FindByID", ctx, "user123", canvas.ID()).Return(canvas, nil)
	ledger.On("Consume", ctx, "user123").
		Return(ports.QuotaStatus{}, pkgerrors.NewQuotaExhaustedError(10))

	orchestrator := newOrchestrator(canvasRepo, thoughtRepo, ledger, completions, publisher)

	_, err := orchestrator.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsQuotaExhausted(err))
	completions.AssertNotCalled(t, "GenerateRelatedThought", mock.Anything, mock.Anything, mock.Anything)
	thoughtRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGenerateThoughtOrchestrator_CompletionFailure(t *testing.T) {
	ctx := context.Background()
	canvasRepo := new(mocks.MockCanvasRepository)
	thoughtRepo := new(mocks.MockThoughtRepository)
	ledger := new(mocks.MockQuotaLedger)
	completions := new(mocks.MockCompletionService)
	publisher := new(mocks.MockEventPublisher)

	canvas, parent := buildCanvasWithParent(t)

	cmd := GenerateThoughtCommand{
		UserID:   "user123",
		CanvasID: canvas.ID().String(),
		ParentID: parent.ID().String(),
	}

	canvasRepo.On("FindByID", ctx, "user123", canvas.ID()).Return(canvas, nil)
	ledger.On("Consume", ctx, "user123").
		Return(ports.QuotaStatus{Usage: 50, Remaining: 950}, nil)
	completions.On("GenerateRelatedThought", ctx, mock.Anything, mock.Anything).
		Return(ports.CompletionResult{}, errors.New("model unavailable"))

	orchestrator := newOrchestrator(canvasRepo, thoughtRepo, ledger, completions, publisher)

	_, err := orchestrator.Handle(ctx, cmd)

	require.Error(t, err)
	thoughtRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Zero(t, len(parent.Connections()))
}

func TestGenerateThoughtOrchestrator_SiblingsMakeRoom(t *testing.T) {
	ctx := context.Background()
	canvasRepo := new(mocks.MockCanvasRepository)
	thoughtRepo := new(mocks.MockThoughtRepository)
	ledger := new(mocks.MockQuotaLedger)
	completions := new(mocks.MockCompletionService)
	publisher := new(mocks.MockEventPublisher)

	canvas, parent := buildCanvasWithParent(t)

	// An existing child occupies the slot under the parent
	content, err := valueobjects.NewThoughtContent("ocean acidification")
	require.NoError(t, err)
	sibling, err := entities.NewThought(canvas.ID(), "user123", content,
		valueobjects.NewPosition(1000, 300), entities.OriginManual)
	require.NoError(t, err)
	require.NoError(t, canvas.AddThought(sibling))
	require.NoError(t, canvas.ConnectThoughts(parent.ID(), sibling.ID()))
	canvas.MarkEventsAsCommitted()

	cmd := GenerateThoughtCommand{
		UserID:   "user123",
		CanvasID: canvas.ID().String(),
		ParentID: parent.ID().String(),
	}

	canvasRepo.On("FindByID", ctx, "user123", canvas.ID()).Return(canvas, nil)
	ledger.On("Consume", ctx, "user123").
		Return(ports.QuotaStatus{Usage: 100, Remaining: 900}, nil)
	completions.On("GenerateRelatedThought", ctx, "climate change", mock.Anything).
		Return(ports.CompletionResult{Text: "melting glaciers", OutputTokens: 8}, nil)
	thoughtRepo.On("Save", ctx, mock.AnythingOfType("*entities.Thought")).Return(nil)
	thoughtRepo.On("SaveBatch", ctx, mock.AnythingOfType("[]*entities.Thought")).Return(nil)
	publisher.On("Publish", ctx, mock.AnythingOfType("[]events.DomainEvent")).Return(nil)

	orchestrator := newOrchestrator(canvasRepo, thoughtRepo, ledger, completions, publisher)

	result, err := orchestrator.Handle(ctx, cmd)
	require.NoError(t, err)

	// Parent stays anchored; the two children flank it symmetrically
	assert.Equal(t, valueobjects.NewPosition(1000, 50), parent.Position())
	assert.Equal(t, valueobjects.NewPosition(750, 300), sibling.Position())
	assert.Equal(t, valueobjects.NewPosition(1250, 300), result.Thought.Position())
}
