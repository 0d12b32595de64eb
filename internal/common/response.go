package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody represents a consistent error payload returned by the API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// envelope is the single response shape the API speaks; exactly one of Data
// or Err is set.
type envelope struct {
	Data any        `json:"data,omitempty"`
	Err  *ErrorBody `json:"error,omitempty"`
}

// JSON writes v verbatim. Handlers should prefer JSONData and JSONError,
// which wrap the payload in the response envelope.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONData renders a success response carrying v under the data key.
func JSONData(w http.ResponseWriter, status int, v any) {
	JSON(w, status, envelope{Data: v})
}

// JSONError renders an error response using the canonical error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, envelope{Err: &ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}
