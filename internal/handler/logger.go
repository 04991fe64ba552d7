package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/felixge/httpsnoop"
)

// Logger is a handler that logs requests using Zap.
// The values of loggedHeaders are added from the response when set.
func Logger(log *logger.Logger, h http.Handler, loggedHeaders ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respMetrics := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
			h.ServeHTTP(ww, r)
		})

		logFields := LogFields(r,
			"http-method", r.Method,
			"remote-addr", r.RemoteAddr,
			"user-agent", r.UserAgent(),
			"uri", r.URL.String(),
			"content-length", r.ContentLength,
			"status-code", respMetrics.Code,
			"bytes-written", respMetrics.Written,
			"elapsed", fmt.Sprintf("%.9fs", respMetrics.Duration.Seconds()),
		)

		for _, header := range loggedHeaders {
			if v := w.Header().Get(header); v != "" {
				logFields = append(logFields, strings.ToLower(header), v)
			}
		}

		switch {
		case respMetrics.Code >= 500:
			log.Errorw("Request completed", logFields...)
		case respMetrics.Code == http.StatusConflict || respMetrics.Code == http.StatusUnprocessableEntity:
			// Superseded renders and undecodable photos
			log.Infow("Request completed", logFields...)
		default:
			log.Debugw("Request completed", logFields...)
		}
	})
}

// LogFields logs the given keys and values for a request
func LogFields(r *http.Request, keysAndValues ...interface{}) []interface{} {
	return append([]interface{}{"request-id", GetReqID(r.Context())}, keysAndValues...)
}
