// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/events"
)

// MockThoughtRepository mocks ports.ThoughtRepository
type MockThoughtRepository struct {
	mock.Mock
}

func (m *MockThoughtRepository) Save(ctx context.Context, thought *entities.Thought) error {
	args := m.Called(ctx, thought)
	return args.Error(0)
}

func (m *MockThoughtRepository) SaveBatch(ctx context.Context, thoughts []*entities.Thought) error {
	args := m.Called(ctx, thoughts)
	return args.Error(0)
}

func (m *MockThoughtRepository) FindByID(ctx context.Context, canvasID valueobjects.CanvasID, id valueobjects.ThoughtID) (*entities.Thought, error) {
	args := m.Called(ctx, canvasID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Thought), args.Error(1)
}

func (m *MockThoughtRepository) FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Thought, error) {
	args := m.Called(ctx, canvasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Thought), args.Error(1)
}

func (m *MockThoughtRepository) Delete(ctx context.Context, canvasID valueobjects.CanvasID, id valueobjects.ThoughtID) error {
	args := m.Called(ctx, canvasID, id)
	return args.Error(0)
}

// MockCanvasRepository mocks ports.CanvasRepository
type MockCanvasRepository struct {
	mock.Mock
}

func (m *MockCanvasRepository) Save(ctx context.Context, canvas *aggregates.Canvas) error {
	args := m.Called(ctx, canvas)
	return args.Error(0)
}

func (m *MockCanvasRepository) FindByID(ctx context.Context, userID string, id valueobjects.CanvasID) (*aggregates.Canvas, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregates.Canvas), args.Error(1)
}

func (m *MockCanvasRepository) FindByUser(ctx context.Context, userID string) ([]*aggregates.Canvas, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*aggregates.Canvas), args.Error(1)
}

func (m *MockCanvasRepository) Delete(ctx context.Context, userID string, id valueobjects.CanvasID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockUserRepository mocks ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// MockQuotaLedger mocks ports.QuotaLedger
type MockQuotaLedger struct {
	mock.Mock
}

func (m *MockQuotaLedger) Consume(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(ports.QuotaStatus), args.Error(1)
}

func (m *MockQuotaLedger) Status(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(ports.QuotaStatus), args.Error(1)
}

// MockCompletionService mocks ports.CompletionService
type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) GenerateRelatedThought(ctx context.Context, parentText string, canvasThoughts []string) (ports.CompletionResult, error) {
	args := m.Called(ctx, parentText, canvasThoughts)
	return args.Get(0).(ports.CompletionResult), args.Error(1)
}

func (m *MockCompletionService) RewriteThought(ctx context.Context, text, instruction string) (ports.CompletionResult, error) {
	args := m.Called(ctx, text, instruction)
	return args.Get(0).(ports.CompletionResult), args.Error(1)
}

func (m *MockCompletionService) Chat(ctx context.Context, history []ports.ChatMessage, canvasThoughts []string) (ports.CompletionResult, error) {
	args := m.Called(ctx, history, canvasThoughts)
	return args.Get(0).(ports.CompletionResult), args.Error(1)
}

// MockEventPublisher mocks ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, batch []events.DomainEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
