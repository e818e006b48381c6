// Package handlers exposes the application's commands and queries over
// HTTP.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"deepthinker-backend/application/queries"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/pkg/common"
	pkgerrors "deepthinker-backend/pkg/errors"
	"deepthinker-backend/pkg/utils"
)

// maxBodyBytes caps request bodies; thought content tops out well below this
const maxBodyBytes = 1 << 20

// respondAppError maps an application error onto the HTTP response.
// Typed errors carry their own status and code; anything else is a 500.
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err))
		}
		common.RespondErrorWithDetails(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message, appErr.Details)
		return
	}

	logger.Error("request failed", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "internal server error")
}

// parseBody decodes and validates a JSON request body
func parseBody(r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(r, v, maxBodyBytes); err != nil {
		return pkgerrors.NewValidationError("invalid request body: " + err.Error())
	}
	if err := utils.ValidateStruct(v); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// toThoughtView converts a thought entity into its read model
func toThoughtView(thought *entities.Thought) queries.ThoughtView {
	connections := thought.Connections()
	connectionIDs := make([]string, len(connections))
	for i, id := range connections {
		connectionIDs[i] = id.String()
	}

	return queries.ThoughtView{
		ID:       thought.ID().String(),
		CanvasID: thought.CanvasID().String(),
		Content:  thought.Content().Text(),
		Position: queries.Position{
			X: thought.Position().X,
			Y: thought.Position().Y,
		},
		Connections: connectionIDs,
		Origin:      string(thought.Origin()),
		Version:     thought.Version(),
		CreatedAt:   utils.FormatRFC3339(thought.CreatedAt()),
		UpdatedAt:   utils.FormatRFC3339(thought.UpdatedAt()),
	}
}

// toThoughtViews converts a batch of thoughts
func toThoughtViews(thoughts []*entities.Thought) []queries.ThoughtView {
	views := make([]queries.ThoughtView, len(thoughts))
	for i, thought := range thoughts {
		views[i] = toThoughtView(thought)
	}
	return views
}
