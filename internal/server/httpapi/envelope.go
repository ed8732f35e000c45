// Package httpapi exposes the auth service over HTTP: the JSON endpoints,
// the route gate middleware that runs ahead of them, and the server loop.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// Every response carries a stable envelope: {success:true,data} on the happy
// path, {success:false,message,errors?} otherwise.

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, errs map[string][]string) {
	writeJSON(w, status, errorEnvelope{Success: false, Message: message, Errors: errs})
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal server error - please try again later.", nil)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
}
