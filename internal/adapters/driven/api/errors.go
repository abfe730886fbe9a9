package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
	Path       string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s returned %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api: %s returned %d: %s", e.Path, e.StatusCode, e.Message)
}

// Unwrap maps the status code to a domain sentinel, so callers can test
// with errors.Is(err, domain.ErrNotFound) and friends.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return domain.ErrAuthRequired
	case e.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return domain.ErrAlreadyExists
	case e.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return domain.ErrServiceUnavailable
	case e.StatusCode >= http.StatusBadRequest:
		return domain.ErrInvalidInput
	default:
		return nil
	}
}

// errorBody is the backend's error envelope. Either field may be set.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newStatusError(resp *http.Response, path string) *StatusError {
	e := &StatusError{StatusCode: resp.StatusCode, Path: path}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		e.Message = body.Error
		if e.Message == "" {
			e.Message = body.Message
		}
	}
	if e.Message == "" && !strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		e.Message = strings.TrimSpace(string(data))
	}
	return e
}

// Message returns the backend's explanation of err, or err's text when the
// backend gave none.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}
