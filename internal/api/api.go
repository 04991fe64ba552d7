package api

import (
	"net/http"
	"time"

	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/DMarby/photo-strip/internal/database"
	"github.com/DMarby/photo-strip/internal/handler"
	"github.com/DMarby/photo-strip/internal/health"
	"github.com/DMarby/photo-strip/internal/hmac"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/tracing"
	"github.com/gorilla/mux"
)

// Headers returned with a rendered strip
const (
	StripKeyHeader          = "Strip-Key"
	StripURLHeader          = "Strip-URL"
	StripFailedPhotosHeader = "Strip-Failed-Photos"
)

// API is a http api
type API struct {
	Processor     image.Processor
	Strips        cache.Provider
	Database      database.Provider
	HealthChecker *health.Checker
	Log           *logger.Logger
	Tracer        *tracing.Tracer
	// RootURL prefixes the signed download URL of a rendered strip
	RootURL        string
	HandlerTimeout time.Duration
	HMAC           *hmac.HMAC
	// MaxUploadSize is the memory used for parsing a multipart request, MaxPhotoSize the limit of a single photo
	MaxUploadSize int64
	MaxPhotoSize  int64
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

func (a *API) logWarn(r *http.Request, message string, err error) {
	a.Log.Warnw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")

	// Strips
	router.Handle("/v1/strips", handler.Handler(a.renderHandler)).Methods("POST").Name("strips.render")
	router.Handle("/v1/strips/{key:[0-9a-f]{32}}{extension:\\.(?:png|jpg)}", handler.Handler(a.downloadHandler)).Methods("GET").Name("strips.download")

	// Multipart fields:
	// photo - One part per photo, in strip order
	// preset, intensity - Filter preset and its slider value
	// filter - Filter descriptor, e.g. "brightness(110%) sepia(20%)"
	// brightness, contrast, saturation, exposure, highlights, color_temperature, tone, sharpness, auto - Adjustments
	// photo.{index}.{field} - Filter fields for a single photo
	// background, decoration, stickers, text, date, text_position, bold, italic, font, font_size, radius, duplicate, design, mirror
	// format - png or jpg
	// session - Renders sharing a session supersede each other

	// Single photo filter
	router.Handle("/v1/filter", handler.Handler(a.filterHandler)).Methods("POST").Name("filter")

	// Catalog of the available options
	router.Handle("/v1/catalog", handler.Handler(a.catalogHandler)).Methods("GET").Name("catalog")

	// Visit counter
	router.Handle("/v1/counter", handler.Handler(a.counterHandler)).Methods("GET").Name("counter.get")
	router.Handle("/v1/counter", handler.Handler(a.recordHandler)).Methods("POST").Name("counter.record")

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, setting CORS headers, tracing, metrics and handler execution timeout
	return handler.AddRequestID(
		handler.Recovery(a.Log,
			handler.Logger(a.Log,
				handler.CORS([]string{StripKeyHeader, StripURLHeader, StripFailedPhotosHeader},
					handler.Tracer(a.Tracer,
						handler.Metrics(
							http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out."),
							routeMatcher,
						),
						routeMatcher,
					),
				),
				StripKeyHeader, StripFailedPhotosHeader,
			),
		),
	)
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
