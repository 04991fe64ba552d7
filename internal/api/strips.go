package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/DMarby/photo-strip/internal/handler"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/params"
	"github.com/DMarby/photo-strip/internal/strip"
	"github.com/gorilla/mux"
)

func (a *API) renderHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Get the photos and the form fields
	p, err := params.GetStripParams(r, a.MaxUploadSize, a.MaxPhotoSize)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	// Build the render task
	task := image.NewTask(p.Session, p.Options, p.Format)
	task.Photos = p.Photos

	// Render the strip
	rendered, err := a.Processor.Render(r.Context(), task)
	if err != nil {
		return a.renderError(r, err)
	}

	// Keep the strip around for the signed download URL
	name := rendered.Key + p.Format.Extension()
	if err := a.Strips.Set(r.Context(), name, rendered.Data); err != nil {
		a.logError(r, "error storing rendered strip", err)
	} else if signed, err := a.stripURL(name); err != nil {
		a.logError(r, "error signing strip url", err)
	} else {
		w.Header().Set(StripURLHeader, signed)
	}

	// Set the headers
	w.Header().Set(StripKeyHeader, rendered.Key)
	if len(rendered.Failed) > 0 {
		w.Header().Set(StripFailedPhotosHeader, joinInts(rendered.Failed))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"photostrip%s\"", p.Format.Extension()))
	w.Header().Set("Content-Type", p.Format.ContentType())
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	// Return the strip
	w.Write(rendered.Data)

	return nil
}

func (a *API) renderError(r *http.Request, err error) *handler.Error {
	var decodeErr *strip.DecodeError

	switch {
	case errors.Is(err, strip.ErrSuperseded):
		a.logWarn(r, "render superseded", err)
		return handler.Conflict(err.Error())
	case errors.As(err, &decodeErr):
		a.logWarn(r, "photo failed to decode", err)
		return handler.UnprocessableEntity(err.Error())
	case errors.Is(err, strip.ErrNoPhotos), errors.Is(err, strip.ErrTextTooLong), errors.Is(err, strip.ErrInvalidDimensions):
		return handler.BadRequest(err.Error())
	}

	a.logError(r, "error rendering strip", err)
	return handler.InternalServerError()
}

// stripURL returns the signed download URL of a stored strip
func (a *API) stripURL(name string) (string, error) {
	signed, err := params.HMAC(a.HMAC, "/v1/strips/"+name, url.Values{})
	if err != nil {
		return "", err
	}

	return a.RootURL + signed, nil
}

func (a *API) downloadHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	valid, err := params.ValidateHMAC(a.HMAC, r)
	if err != nil {
		a.logError(r, "error validating hmac", err)
		return handler.InternalServerError()
	}

	if !valid {
		return &handler.Error{Message: "invalid signature", Code: http.StatusUnauthorized}
	}

	vars := mux.Vars(r)
	format, err := image.ParseOutputFormat(vars["extension"])
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	data, err := a.Strips.Get(r.Context(), vars["key"]+format.Extension())
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return handler.NotFound("strip not found")
		}

		a.logError(r, "error getting rendered strip", err)
		return handler.InternalServerError()
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"photostrip%s\"", format.Extension()))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=3600")

	w.Write(data)

	return nil
}

func joinInts(values []int) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}
