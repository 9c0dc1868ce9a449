// Package httpx provides HTTP response utilities.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorDetail is the failure body shape: an HTTP error status with a
// descriptive message.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Detail sends a failure response carrying only a detail message.
func Detail(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, ErrorDetail{Detail: detail})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
