package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/logger"
	"github.com/placedir/places-server/internal/model"
	"github.com/placedir/places-server/internal/api/http/middleware"
)

// PlaceService defines business operations for places.
type PlaceService interface {
	Create(ctx context.Context, params model.CreatePlaceParams) (model.Place, error)
	Get(ctx context.Context, placeID uuid.UUID) (model.Place, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error)
	Update(ctx context.Context, placeID, requesterID uuid.UUID, params model.UpdatePlaceParams) (model.Place, error)
	Delete(ctx context.Context, placeID, requesterID uuid.UUID) error
}

// Place handles HTTP endpoints for places.
type Place struct {
	placeService PlaceService
	storage      model.Storage
	logger       *logger.Logger
}

// NewPlace creates a new Place handler.
func NewPlace(placeService PlaceService, storage model.Storage, logger *logger.Logger) *Place {
	return &Place{
		placeService: placeService,
		storage:      storage,
		logger:       logger,
	}
}

type placeResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	Location    model.Location `json:"location"`
	Image       string         `json:"image"`
	Creator     string         `json:"creator"`
}

func toPlaceResponse(place model.Place) placeResponse {
	return placeResponse{
		ID:          place.ID.String(),
		Title:       place.Title,
		Description: place.Description,
		Address:     place.Address,
		Location:    place.Location,
		Image:       "/uploads/images/" + place.ImageKey,
		Creator:     place.CreatorID.String(),
	}
}

// GetPlace returns a single place by ID.
func (h *Place) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		WriteError(w, apperror.NotFound("could not find a place for the provided id"))
		return
	}

	place, err := h.placeService.Get(r.Context(), placeID)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceResponse(place)})
}

// ListUserPlaces returns the places owned by a user.
func (h *Place) ListUserPlaces(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		WriteError(w, apperror.NotFound("could not find a place for the provided user id"))
		return
	}

	places, err := h.placeService.ListByUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]placeResponse, 0, len(places))
	for _, place := range places {
		out = append(out, toPlaceResponse(place))
	}

	writeJSON(w, http.StatusOK, map[string]any{"places": out})
}

// CreatePlace creates a place from a multipart form carrying title,
// description, address and an image.
func (h *Place) CreatePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Forbidden("authentication failed, please try again"))
		return
	}

	imageKey, err := storeImage(r, h.storage, "image")
	if err != nil {
		WriteError(w, err)
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")
	address := r.FormValue("address")
	if title == "" || len(description) < 5 || address == "" {
		h.cleanupImage(r.Context(), imageKey)
		WriteError(w, apperror.Validation("invalid inputs passed, please check your data"))
		return
	}

	place, err := h.placeService.Create(r.Context(), model.CreatePlaceParams{
		Title:       title,
		Description: description,
		Address:     address,
		ImageKey:    imageKey,
		CreatorID:   userID,
	})
	if err != nil {
		h.cleanupImage(r.Context(), imageKey)
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"place": toPlaceResponse(place)})
}

// UpdatePlace patches title and description of an owned place.
func (h *Place) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Forbidden("authentication failed, please try again"))
		return
	}

	placeID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		WriteError(w, apperror.NotFound("could not find a place for the provided id"))
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperror.Validation("invalid inputs passed, please check your data"))
		return
	}

	place, err := h.placeService.Update(r.Context(), placeID, userID, model.UpdatePlaceParams{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceResponse(place)})
}

// DeletePlace removes an owned place.
func (h *Place) DeletePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Forbidden("authentication failed, please try again"))
		return
	}

	placeID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		WriteError(w, apperror.NotFound("could not find place for this id"))
		return
	}

	if err := h.placeService.Delete(r.Context(), placeID, userID); err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted place."})
}

// ServeImage streams a stored image by key.
func (h *Place) ServeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	exists, err := h.storage.Exists(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !exists {
		WriteError(w, apperror.NotFound("could not find this image"))
		return
	}

	reader, err := h.storage.Download(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer reader.Close()

	if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("failed to stream image", "key", key, "error", err.Error())
	}
}

func (h *Place) cleanupImage(ctx context.Context, key string) {
	if err := h.storage.Delete(ctx, key); err != nil {
		h.logger.Error("Failed to delete orphaned image", "key", key, "error", err.Error())
	}
}
