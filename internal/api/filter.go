package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DMarby/photo-strip/internal/handler"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/params"
	"github.com/DMarby/photo-strip/internal/strip"
)

func (a *API) filterHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	p, err := params.GetFilterParams(r, a.MaxUploadSize, a.MaxPhotoSize)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	data, err := a.Processor.Filter(r.Context(), &image.FilterTask{
		Photo:        p.Photo,
		OutputFormat: p.Format,
	})
	if err != nil {
		var decodeErr *strip.DecodeError
		if errors.As(err, &decodeErr) {
			a.logWarn(r, "photo failed to decode", err)
			return handler.UnprocessableEntity(err.Error())
		}

		a.logError(r, "error filtering photo", err)
		return handler.InternalServerError()
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"photo%s\"", p.Format.Extension()))
	w.Header().Set("Content-Type", p.Format.ContentType())
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	w.Write(data)

	return nil
}
