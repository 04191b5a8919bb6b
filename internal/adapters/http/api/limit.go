package api

import (
	"errors"
	"net/http"

	service "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/pkg/logger"
)

// LimitHandler handles limit increase requests.
type LimitHandler struct {
	deps Dependencies
}

// NewLimitHandler creates a new limit increase handler.
func NewLimitHandler(deps Dependencies) *LimitHandler {
	return &LimitHandler{deps: deps}
}

type scoreResponse struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// HandleLimitIncrease handles POST /limit-increase requests.
func (h *LimitHandler) HandleLimitIncrease(w http.ResponseWriter, r *http.Request) {
	const op = "api.limit_increase"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error())
		return
	}
	userID, err := decodeUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrMissingUserID.Error())
		return
	}

	d, err := h.deps.Score(r.Context(), userID)
	switch {
	case err == nil:
		writeSuccess(w, scoreResponse{Score: d.Score, Reason: d.Reason})
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, ErrMissingUserID.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		logger.Default().Error(r.Context(), "limit increase failed",
			logger.String("op", op), logger.String("userId", userID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, msgScoreFailed+cause(err))
	}
}

// cause returns the message without the service op prefix.
func cause(err error) string {
	var se *service.Error
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}
