package queries

import (
	"errors"

	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/pkg/utils"
)

// GetUserQuery represents a query for a user's profile
type GetUserQuery struct {
	UserID string
}

// Validate validates the GetUserQuery
func (q GetUserQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// UserView is the read model for a user profile
type UserView struct {
	ID                  string   `json:"id"`
	Email               string   `json:"email"`
	DisplayName         string   `json:"displayName"`
	Role                string   `json:"role,omitempty"`
	Interests           []string `json:"interests,omitempty"`
	ThinkingStyle       string   `json:"thinkingStyle,omitempty"`
	AIInteraction       string   `json:"aiInteraction,omitempty"`
	OnboardingCompleted bool     `json:"onboardingCompleted"`
	InitialCanvasID     string   `json:"initialCanvasId,omitempty"`
	CreatedAt           string   `json:"createdAt"`
}

// NewUserView projects a user entity into its read model
func NewUserView(user *entities.User) UserView {
	return UserView{
		ID:                  user.ID(),
		Email:               user.Email(),
		DisplayName:         user.DisplayName(),
		Role:                user.Role(),
		Interests:           user.Interests(),
		ThinkingStyle:       user.ThinkingStyle(),
		AIInteraction:       user.AIInteraction(),
		OnboardingCompleted: user.OnboardingCompleted(),
		InitialCanvasID:     user.InitialCanvasID(),
		CreatedAt:           utils.FormatRFC3339(user.CreatedAt()),
	}
}
