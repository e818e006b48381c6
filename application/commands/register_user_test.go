package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	pkgerrors "deepthinker-backend/pkg/errors"
	"deepthinker-backend/tests/mocks"
)

func TestRegisterUserHandler_FirstSignIn(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	canvasRepo := new(mocks.MockCanvasRepository)
	handler := NewRegisterUserHandler(userRepo, canvasRepo, zap.NewNop())
	ctx := context.Background()

	userRepo.On("FindByID", ctx, "auth0|abc").Return(nil, pkgerrors.NewNotFoundError("user"))

	var starter *aggregates.Canvas
	canvasRepo.On("Save", ctx, mock.AnythingOfType("*aggregates.Canvas")).
		Run(func(args mock.Arguments) {
			starter = args.Get(1).(*aggregates.Canvas)
		}).
		Return(nil)
	userRepo.On("Save", ctx, mock.AnythingOfType("*entities.User")).Return(nil)

	user, err := handler.Handle(ctx, RegisterUserCommand{
		UserID: "auth0|abc",
		Email:  "jo@example.com",
	})
	require.NoError(t, err)

	require.NotNil(t, starter)
	assert.Equal(t, "My First Canvas", starter.Name())
	assert.Equal(t, "auth0|abc", starter.UserID())
	assert.Equal(t, starter.ID().String(), user.InitialCanvasID())

	userRepo.AssertExpectations(t)
	canvasRepo.AssertExpectations(t)
}

func TestRegisterUserHandler_ExistingAccount(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	canvasRepo := new(mocks.MockCanvasRepository)
	handler := NewRegisterUserHandler(userRepo, canvasRepo, zap.NewNop())
	ctx := context.Background()

	existing, err := entities.NewUser("auth0|abc", "jo@example.com", "Jo")
	require.NoError(t, err)
	require.NoError(t, existing.AssignInitialCanvas("canvas-1"))

	userRepo.On("FindByID", ctx, "auth0|abc").Return(existing, nil)

	user, err := handler.Handle(ctx, RegisterUserCommand{
		UserID: "auth0|abc",
		Email:  "jo@example.com",
	})
	require.NoError(t, err)

	// A returning sign-in keeps the original profile and does not
	// provision a second starter canvas.
	assert.Same(t, existing, user)
	assert.Equal(t, "canvas-1", user.InitialCanvasID())
	canvasRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
