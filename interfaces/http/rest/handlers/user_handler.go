package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"deepthinker-backend/application/commands"
	"deepthinker-backend/application/queries"
	querybus "deepthinker-backend/application/queries/bus"
	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/common"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// UserHandler handles user account endpoints
type UserHandler struct {
	registerUser     *commands.RegisterUserHandler
	updateOnboarding *commands.UpdateOnboardingHandler
	queryBus         *querybus.QueryBus
	logger           *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	registerUser *commands.RegisterUserHandler,
	updateOnboarding *commands.UpdateOnboardingHandler,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		registerUser:     registerUser,
		updateOnboarding: updateOnboarding,
		queryBus:         queryBus,
		logger:           logger,
	}
}

// RegisterUserRequest is the body for POST /users
type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

// UpdateOnboardingRequest is the body for PUT /users/me/onboarding.
// Each field is one onboarding answer; omitted fields stay unchanged.
type UpdateOnboardingRequest struct {
	Role          *string  `json:"role,omitempty" validate:"omitempty,max=100"`
	Interests     []string `json:"interests,omitempty" validate:"omitempty,max=20,dive,max=100"`
	ThinkingStyle *string  `json:"thinkingStyle,omitempty" validate:"omitempty,max=100"`
	AIInteraction *string  `json:"aiInteraction,omitempty" validate:"omitempty,max=100"`
}

// Register handles POST /users. Registration is idempotent: an
// existing profile is returned as-is.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req RegisterUserRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	account, err := h.registerUser.Handle(r.Context(), commands.RegisterUserCommand{
		UserID:      user.UserID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewUserView(account))
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetUserQuery{UserID: user.UserID})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateOnboarding handles PUT /users/me/onboarding
func (h *UserHandler) UpdateOnboarding(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req UpdateOnboardingRequest
	if err := parseBody(r, &req); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	account, err := h.updateOnboarding.Handle(r.Context(), commands.UpdateOnboardingCommand{
		UserID:        user.UserID,
		Role:          req.Role,
		Interests:     req.Interests,
		ThinkingStyle: req.ThinkingStyle,
		AIInteraction: req.AIInteraction,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, queries.NewUserView(account))
}

// Quota handles GET /users/me/quota
func (h *UserHandler) Quota(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondAppError(w, h.logger, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTokenUsageQuery{UserID: user.UserID})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
