package handler

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS is a handler for setting CORS headers, allowing the booth to post photos from any origin
func CORS(exposedHeaders []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: exposedHeaders,
		MaxAge:         3600,
	}).Handler(next)
}
