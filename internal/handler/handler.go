package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Error is the message and http status code to return
type Error struct {
	Message string
	Code    int
}

// InternalServerError is a convenience function for returning an internal server error
func InternalServerError() *Error {
	return &Error{
		Message: "Something went wrong",
		Code:    http.StatusInternalServerError,
	}
}

// BadRequest is a convenience function for returning a bad request error
func BadRequest(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

// Conflict is returned when a newer request replaced this one
func Conflict(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusConflict,
	}
}

// UnprocessableEntity is returned when the request is well formed but its content can't be used
func UnprocessableEntity(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusUnprocessableEntity,
	}
}

// NotFound is a convenience function for returning a not found error
func NotFound(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusNotFound,
	}
}

const jsonMediaType = "application/json"

// Handler wraps a http handler and deals with responding to errors
type Handler func(w http.ResponseWriter, r *http.Request) *Error

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		writeError(w, r, err)
	}
}

// writeError responds with the error as plain text, or as JSON when the client accepts it
func writeError(w http.ResponseWriter, r *http.Request, err *Error) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if !acceptsJSON(r) {
		http.Error(w, err.Message, err.Code)
		return
	}

	var data = struct {
		Error string `json:"error"`
	}{err.Message}

	w.Header().Set("Content-Type", jsonMediaType)
	w.WriteHeader(err.Code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func acceptsJSON(r *http.Request) bool {
	for _, accept := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(accept), ";")
		if mediaType == jsonMediaType {
			return true
		}
	}
	return false
}
