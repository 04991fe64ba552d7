package handler

import (
	"encoding/json"
	"net/http"

	"github.com/DMarby/photo-strip/internal/health"
)

// Health is a handler for health check status
func Health(healthChecker *health.Checker) Handler {
	return Handler(newHandler(healthChecker))
}

func newHandler(healthChecker *health.Checker) func(w http.ResponseWriter, r *http.Request) *Error {
	return func(w http.ResponseWriter, r *http.Request) *Error {
		status := healthChecker.Status()

		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Content-Type", jsonMediaType)

		body, err := json.Marshal(status)
		if err != nil {
			return InternalServerError()
		}

		if !status.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		w.Write(body)
		return nil
	}
}
