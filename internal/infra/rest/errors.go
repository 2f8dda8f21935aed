package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx answer carrying the backend's own message. Validation
// failures (400-class) include per-field messages which the console surfaces
// verbatim.
type APIError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func (e *APIError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// UserFacingMessage exposes the server's message for direct display.
func (e *APIError) UserFacingMessage() string { return e.Message }

func (e *APIError) Validation() bool { return e.Status >= 400 && e.Status < 500 && e.Status != 401 }

// decodeError turns an error response into *APIError. Bodies are expected as
// {"error": {"code": ..., "message": ..., "fields": ...}} with a flat
// {"message": ...} fallback for older endpoints.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var wrapped struct {
		Error   *APIError `json:"error"`
		Message string    `json:"message"`
	}
	if json.Unmarshal(body, &wrapped) == nil {
		if wrapped.Error != nil {
			wrapped.Error.Status = resp.StatusCode
			return wrapped.Error
		}
		if wrapped.Message != "" {
			apiErr.Message = wrapped.Message
		}
	}
	return apiErr
}
