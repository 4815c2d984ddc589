package cms

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionExpired means the CMS rejected the session token itself.
	// Callers drop the stored session and send the user back to login.
	ErrSessionExpired = errors.New("session expired or invalid")
	// ErrPermission means the token was accepted but the action is not
	// allowed for its role. Never retried; the session stays intact.
	ErrPermission = errors.New("permission denied")
)

// HTTPError is raised for any non-2xx CMS response that is not one of the
// session/permission cases above. Body keeps the raw payload for callers
// that want backend-provided validation messages.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cms: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("cms: http %d", e.StatusCode)
}

// errorMessage pulls a human-readable message out of a CMS error body.
// The CMS wraps errors as {"error": {"message": ...}}; older endpoints
// return {"message": ...} or plain text.
func errorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Name    string `json:"name"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// tokenRejected reports whether an error message describes a dead token
// rather than a missing permission.
func tokenRejected(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "expired") ||
		strings.Contains(m, "invalid token") ||
		strings.Contains(m, "invalid credentials") ||
		strings.Contains(m, "unauthorized")
}

// retryableStatus reports whether a response status is worth retrying.
// Only transient server-side failures qualify.
func retryableStatus(status int) bool {
	return status >= 500
}
