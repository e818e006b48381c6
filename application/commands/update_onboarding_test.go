package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/tests/mocks"
)

func strPtr(s string) *string { return &s }

func TestUpdateOnboardingHandler_PartialAnswers(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	handler := NewUpdateOnboardingHandler(userRepo, zap.NewNop())
	ctx := context.Background()

	user, err := entities.NewUser("auth0|abc", "jo@example.com", "Jo")
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, "auth0|abc").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	updated, err := handler.Handle(ctx, UpdateOnboardingCommand{
		UserID:    "auth0|abc",
		Role:      strPtr("researcher"),
		Interests: []string{"philosophy"},
	})
	require.NoError(t, err)

	assert.Equal(t, "researcher", updated.Role())
	assert.Equal(t, []string{"philosophy"}, updated.Interests())
	assert.False(t, updated.OnboardingCompleted())
	userRepo.AssertExpectations(t)
}

func TestUpdateOnboardingHandler_AIInteractionCompletes(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	handler := NewUpdateOnboardingHandler(userRepo, zap.NewNop())
	ctx := context.Background()

	user, err := entities.NewUser("auth0|abc", "jo@example.com", "Jo")
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, "auth0|abc").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	updated, err := handler.Handle(ctx, UpdateOnboardingCommand{
		UserID:        "auth0|abc",
		AIInteraction: strPtr("proactive"),
	})
	require.NoError(t, err)

	assert.Equal(t, "proactive", updated.AIInteraction())
	assert.True(t, updated.OnboardingCompleted())
}

func TestUpdateOnboardingCommand_Validate(t *testing.T) {
	err := UpdateOnboardingCommand{UserID: "auth0|abc"}.Validate()
	assert.Error(t, err, "an empty patch is rejected")

	err = UpdateOnboardingCommand{Role: strPtr("researcher")}.Validate()
	assert.Error(t, err)

	err = UpdateOnboardingCommand{UserID: "auth0|abc", Role: strPtr("researcher")}.Validate()
	assert.NoError(t, err)
}
