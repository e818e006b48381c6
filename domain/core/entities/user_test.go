package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("auth0|abc", "jo@example.com", "Jo")
	require.NoError(t, err)

	assert.Equal(t, "auth0|abc", user.ID())
	assert.False(t, user.OnboardingCompleted())
	assert.Empty(t, user.InitialCanvasID())
	assert.Equal(t, 0, user.TokenUsage(time.Now()))

	_, err = NewUser("", "jo@example.com", "Jo")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewUser("auth0|abc", "", "Jo")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_OnboardingAnswers(t *testing.T) {
	user, err := NewUser("auth0|abc", "jo@example.com", "Jo")
	require.NoError(t, err)

	require.NoError(t, user.SetRole("researcher"))
	require.NoError(t, user.SetInterests([]string{"philosophy", "systems"}))
	require.NoError(t, user.SetThinkingStyle("visual"))
	assert.False(t, user.OnboardingCompleted(), "profile answers alone do not finish onboarding")

	// The AI interaction preference is the last question
	require.NoError(t, user.SetAIInteraction("proactive"))
	assert.True(t, user.OnboardingCompleted())

	assert.Equal(t, "researcher", user.Role())
	assert.Equal(t, []string{"philosophy", "systems"}, user.Interests())
	assert.Equal(t, "visual", user.ThinkingStyle())
	assert.Equal(t, "proactive", user.AIInteraction())

	err = user.SetRole("")
	assert.True(t, pkgerrors.IsValidation(err))
	err = user.SetInterests(nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_AssignInitialCanvas(t *testing.T) {
	user, err := NewUser("auth0|abc", "jo@example.com", "Jo")
	require.NoError(t, err)

	require.NoError(t, user.AssignInitialCanvas("canvas-1"))
	assert.Equal(t, "canvas-1", user.InitialCanvasID())

	// The link is write-once
	require.NoError(t, user.AssignInitialCanvas("canvas-2"))
	assert.Equal(t, "canvas-1", user.InitialCanvasID())

	err = user.AssignInitialCanvas("")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_TokenUsage_MonthRollover(t *testing.T) {
	march := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC)

	user, err := ReconstructUser("auth0|abc", "jo@example.com", "Jo",
		"researcher", []string{"systems"}, "visual", "proactive", true, "canvas-1",
		quota.MonthlyFreeAllowance, march, march, march)
	require.NoError(t, err)

	assert.Equal(t, quota.MonthlyFreeAllowance, user.TokenUsage(march))

	// A new calendar month reads as a fresh allowance
	assert.Equal(t, 0, user.TokenUsage(april))
	assert.Equal(t, march, user.LastTokenReset())
}
