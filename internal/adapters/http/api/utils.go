package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// decodeUserID reads {"userId": "..."} from the request body. An absent,
// blank or unparsable body is ErrMissingUserID.
func decodeUserID(r *http.Request) (string, error) {
	var req userRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingUserID, err)
	}
	if req.UserID == nil || strings.TrimSpace(*req.UserID) == "" {
		return "", ErrMissingUserID
	}
	return strings.TrimSpace(*req.UserID), nil
}
