// Package httpjson holds the small JSON request/response helpers shared by
// the API feature handlers.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON structure for error responses.
type errorBody struct {
	Error string `json:"error"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error body with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, errorBody{Error: msg})
}

// Decode parses the request body into dst. Unknown fields are rejected so
// typos in client payloads fail loudly instead of silently dropping data.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
