package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/tracing"
)

// Recovery is a handler that turns panics into an internal server error and logs the stacktrace
func Recovery(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// Let net/http abort the connection
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := r.Context()
			traceID, spanID := tracing.TraceInfo(ctx)
			log.Errorw("panic handling request",
				"request-id", GetReqID(ctx),
				"method", r.Method,
				"uri", r.URL.String(),
				"panic", rec,
				"trace-id", traceID,
				"span-id", spanID,
				"stacktrace", string(debug.Stack()),
			)

			writeError(w, r, InternalServerError())
		}()

		next.ServeHTTP(w, r)
	})
}
