package conquest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record lookup matches nothing. Field
	// searches also return it when the match is not unique, because the API
	// reports both cases the same way.
	ErrNotFound = errors.New("record not found")

	// ErrTokenDataMissing is returned when a refresh grant response does not
	// carry token data.
	ErrTokenDataMissing = errors.New("token response data missing")
)

// AuthError is returned when the token endpoint rejects a credential grant.
// Code and Description carry the server's error and error_description values.
type AuthError struct {
	Code        string
	Description string
}

func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("unable to generate access token - %s", e.Code)
	}
	return fmt.Sprintf("unable to generate access token - %s: %s", e.Code, e.Description)
}

// APIError is an error reported by the Conquest API. ErrorType and Message
// are filled when the server returned its structured error payload; Body
// always keeps the raw response text.
type APIError struct {
	StatusCode int
	ErrorType  string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.ErrorType != "" {
		return fmt.Sprintf("API error %d: %s (%s)", e.StatusCode, msg, e.ErrorType)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, msg)
}

// newAPIError builds an APIError from a response, decoding the server's
// error payload when the body contains one.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var payload struct {
		ErrorType string `json:"ErrorType"`
		Message   string `json:"Message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.ErrorType = payload.ErrorType
		apiErr.Message = payload.Message
	}
	return apiErr
}
