package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	msgRequestFailed = "Request failed"
	msgUploadFailed  = "Upload failed"
)

// APIError is a non-2xx response. Message is the server's text verbatim so
// it can be shown to the user as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether the server rejected the credential.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// TransportError means no HTTP response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means a 2xx response body did not match the expected shape.
type DecodeError struct {
	Path string
	Body string // truncated
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// parseError builds an APIError from an error response. notJSON is used when
// the body is not JSON at all, noMessage when it is JSON without a usable
// message.
func parseError(status int, body []byte, notJSON, noMessage string) *APIError {
	if !json.Valid(body) {
		return &APIError{Status: status, Message: notJSON}
	}
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	// Strings, arrays and null are valid JSON but carry no error field.
	if err := json.Unmarshal(body, &payload); err != nil {
		return &APIError{Status: status, Message: noMessage}
	}
	if text := errorText(payload.Error); text != "" {
		return &APIError{Status: status, Message: text}
	}
	return &APIError{Status: status, Message: noMessage}
}

// errorText reads the error field: a string, an object with a message, or a
// non-zero number or true printed as is.
func errorText(raw json.RawMessage) string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		msg, _ := e["message"].(string)
		return msg
	case float64:
		if e != 0 {
			return strconv.FormatFloat(e, 'f', -1, 64)
		}
	case bool:
		if e {
			return "true"
		}
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
