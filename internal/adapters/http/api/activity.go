package api

import (
	"errors"
	"net/http"

	service "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/pkg/logger"
)

// ActivityHandler handles user activity requests.
type ActivityHandler struct {
	deps Dependencies
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps Dependencies) *ActivityHandler {
	return &ActivityHandler{deps: deps}
}

// HandleUserActivity handles POST /user-activity requests. Unknown users get
// an empty list.
func (h *ActivityHandler) HandleUserActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_activity"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error())
		return
	}
	userID, err := decodeUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrMissingUserID.Error())
		return
	}

	records, err := h.deps.Activity(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, ErrMissingUserID.Error())
			return
		}
		logger.Default().Error(r.Context(), "user activity failed",
			logger.String("op", op), logger.String("userId", userID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, msgActivityFailed+cause(err))
		return
	}
	writeSuccess(w, records)
}
