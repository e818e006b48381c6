package entities

import (
	"time"

	"deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// User represents a registered account together with its onboarding
// profile. The user record also carries the monthly token ledger, so
// quota reads never need a second lookup.
type User struct {
	id                  string
	email               string
	displayName         string
	role                string
	interests           []string
	thinkingStyle       string
	aiInteraction       string
	onboardingCompleted bool
	initialCanvasID     string
	tokenUsage          int
	lastTokenReset      time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// NewUser creates a user from an auth provider identity
func NewUser(id, email, displayName string) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user ID cannot be empty")
	}
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}

	now := time.Now()
	return &User{
		id:             id,
		email:          email,
		displayName:    displayName,
		tokenUsage:     0,
		lastTokenReset: now,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructUser rebuilds a user from repository data
func ReconstructUser(
	id, email, displayName string,
	role string,
	interests []string,
	thinkingStyle, aiInteraction string,
	onboardingCompleted bool,
	initialCanvasID string,
	tokenUsage int,
	lastTokenReset time.Time,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user ID cannot be empty")
	}

	return &User{
		id:                  id,
		email:               email,
		displayName:         displayName,
		role:                role,
		interests:           interests,
		thinkingStyle:       thinkingStyle,
		aiInteraction:       aiInteraction,
		onboardingCompleted: onboardingCompleted,
		initialCanvasID:     initialCanvasID,
		tokenUsage:          tokenUsage,
		lastTokenReset:      lastTokenReset,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

// ID returns the user's identifier
func (u *User) ID() string {
	return u.id
}

// Email returns the user's email address
func (u *User) Email() string {
	return u.email
}

// DisplayName returns the user's display name
func (u *User) DisplayName() string {
	return u.displayName
}

// Role returns the self-described role collected during onboarding
func (u *User) Role() string {
	return u.role
}

// Interests returns the topics the user picked during onboarding
func (u *User) Interests() []string {
	return u.interests
}

// ThinkingStyle returns the user's stated thinking style
func (u *User) ThinkingStyle() string {
	return u.thinkingStyle
}

// AIInteraction returns the user's assistant interaction preference
func (u *User) AIInteraction() string {
	return u.aiInteraction
}

// OnboardingCompleted reports whether first-run setup has finished
func (u *User) OnboardingCompleted() bool {
	return u.onboardingCompleted
}

// InitialCanvasID returns the canvas created for the user at
// registration, or empty for accounts predating that flow.
func (u *User) InitialCanvasID() string {
	return u.initialCanvasID
}

// SetRole records the role onboarding step
func (u *User) SetRole(role string) error {
	if role == "" {
		return pkgerrors.NewValidationError("role cannot be empty")
	}
	u.role = role
	u.updatedAt = time.Now()
	return nil
}

// SetInterests records the interests onboarding step
func (u *User) SetInterests(interests []string) error {
	if len(interests) == 0 {
		return pkgerrors.NewValidationError("interests cannot be empty")
	}
	u.interests = interests
	u.updatedAt = time.Now()
	return nil
}

// SetThinkingStyle records the thinking style onboarding step
func (u *User) SetThinkingStyle(style string) error {
	if style == "" {
		return pkgerrors.NewValidationError("thinking style cannot be empty")
	}
	u.thinkingStyle = style
	u.updatedAt = time.Now()
	return nil
}

// SetAIInteraction records the final onboarding step. Answering it is
// what marks onboarding as completed.
func (u *User) SetAIInteraction(preference string) error {
	if preference == "" {
		return pkgerrors.NewValidationError("AI interaction preference cannot be empty")
	}
	u.aiInteraction = preference
	u.onboardingCompleted = true
	u.updatedAt = time.Now()
	return nil
}

// AssignInitialCanvas links the starter canvas created at
// registration. The link is written once and never moves.
func (u *User) AssignInitialCanvas(canvasID string) error {
	if canvasID == "" {
		return pkgerrors.NewValidationError("canvas ID cannot be empty")
	}
	if u.initialCanvasID != "" {
		return nil
	}
	u.initialCanvasID = canvasID
	u.updatedAt = time.Now()
	return nil
}

// TokenUsage returns tokens spent in the current period, after
// accounting for a month boundary since the last spend.
func (u *User) TokenUsage(now time.Time) int {
	if !quota.SamePeriod(u.lastTokenReset, now) {
		return 0
	}
	return u.tokenUsage
}

// LastTokenReset returns when the usage counter last rolled over
func (u *User) LastTokenReset() time.Time {
	return u.lastTokenReset
}

// CreatedAt returns when the account was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the account was last modified
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}
