package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DMarby/photo-strip/internal/database"
	"github.com/DMarby/photo-strip/internal/handler"
)

// Largest accepted counter request body
const maxCounterBody = 1024

type recordRequest struct {
	Type string `json:"type"`
}

func (a *API) counterHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	counter, err := a.Database.Get(r.Context())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return handler.NotFound(err.Error())
		}

		a.logError(r, "error getting counter from database", err)
		return handler.InternalServerError()
	}

	return a.writeCounter(w, r, counter)
}

func (a *API) recordHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	var req recordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCounterBody)).Decode(&req); err != nil {
		return handler.BadRequest("invalid request body")
	}

	t, err := database.ParseVisitType(req.Type)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	counter, err := a.Database.Record(r.Context(), t)
	if err != nil {
		a.logError(r, "error recording visit", err)
		return handler.InternalServerError()
	}

	return a.writeCounter(w, r, counter)
}

func (a *API) writeCounter(w http.ResponseWriter, r *http.Request, counter *database.Counter) *handler.Error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if err := json.NewEncoder(w).Encode(counter); err != nil {
		a.logError(r, "error encoding counter", err)
		return handler.InternalServerError()
	}

	return nil
}
