package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps an error to its curated JSON body. Anything outside the
// apperror taxonomy collapses to a generic 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Code, appErr)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, apperror.NotFound("not found"))
		return
	}

	writeJSON(w, http.StatusInternalServerError, apperror.Internal("an unknown error occurred"))
}
