package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/logger"
	"github.com/placedir/places-server/internal/model"
)

const minDescriptionLength = 5

type Place struct {
	placeStore model.PlaceStore
	userStore  model.UserStore
	geocoder   model.Geocoder
	storage    model.Storage
	logger     *logger.Logger
}

func NewPlace(
	placeStore model.PlaceStore,
	userStore model.UserStore,
	geocoder model.Geocoder,
	storage model.Storage,
	logger *logger.Logger,
) *Place {
	return &Place{
		placeStore: placeStore,
		userStore:  userStore,
		geocoder:   geocoder,
		storage:    storage,
		logger:     logger,
	}
}

// Create resolves the address to coordinates and persists the place together
// with the creator's membership row in one transaction.
func (s *Place) Create(ctx context.Context, params model.CreatePlaceParams) (model.Place, error) {
	_, err := s.userStore.GetByID(ctx, params.CreatorID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apperror.NotFound("could not find user for provided id")
	}
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	location, err := s.geocoder.Resolve(ctx, params.Address)
	if err != nil {
		return model.Place{}, err
	}

	place := model.Place{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		Address:     params.Address,
		Location:    location,
		ImageKey:    params.ImageKey,
		CreatorID:   params.CreatorID,
	}

	saved, err := s.placeStore.Create(ctx, place)
	if err != nil {
		s.logger.Error("Place service: failed to create place",
			"creator_id", params.CreatorID,
			"error", err.Error())
		return model.Place{}, fmt.Errorf("failed to create place: %w", err)
	}

	s.logger.Info("Place service: place created", "place_id", saved.ID, "creator_id", saved.CreatorID)

	return saved, nil
}

func (s *Place) Get(ctx context.Context, placeID uuid.UUID) (model.Place, error) {
	place, err := s.placeStore.GetByID(ctx, placeID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apperror.NotFound("could not find a place for the provided id")
	}
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to get place by id: %w", err)
	}

	return place, nil
}

// ListByUser returns the places owned by userID. An unknown user is a
// not-found error; a known user with no places gets an empty list.
func (s *Place) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error) {
	_, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, apperror.NotFound("could not find a place for the provided user id")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	places, err := s.placeStore.GetByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get places by creator: %w", err)
	}

	return places, nil
}

// Update changes title and description only. Omitted or empty fields keep
// their stored values.
func (s *Place) Update(ctx context.Context, placeID, requesterID uuid.UUID, params model.UpdatePlaceParams) (model.Place, error) {
	if params.Description != nil && *params.Description != "" && len(*params.Description) < minDescriptionLength {
		return model.Place{}, apperror.Validation("description must be at least 5 characters long")
	}

	place, err := s.placeStore.GetByID(ctx, placeID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apperror.NotFound("could not find a place for the provided id")
	}
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to get place by id: %w", err)
	}

	if place.CreatorID != requesterID {
		return model.Place{}, apperror.Unauthorized("you are not allowed to edit this place")
	}

	if params.Title != nil && *params.Title != "" {
		place.Title = *params.Title
	}
	if params.Description != nil && *params.Description != "" {
		place.Description = *params.Description
	}

	saved, err := s.placeStore.Update(ctx, place)
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apperror.NotFound("could not find a place for the provided id")
	}
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to update place: %w", err)
	}

	return saved, nil
}

// Delete removes the place and its membership row transactionally, then
// deletes the stored image best-effort. Blob cleanup failure is logged, not
// escalated.
func (s *Place) Delete(ctx context.Context, placeID, requesterID uuid.UUID) error {
	deleted, err := s.placeStore.Delete(ctx, placeID, requesterID)
	if errors.Is(err, model.ErrNotFound) {
		return apperror.NotFound("could not find place for this id")
	}
	if errors.Is(err, model.ErrNotOwner) {
		return apperror.Unauthorized("you are not allowed to delete this place")
	}
	if err != nil {
		s.logger.Error("Place service: failed to delete place",
			"place_id", placeID,
			"error", err.Error())
		return fmt.Errorf("failed to delete place: %w", err)
	}

	if deleted.ImageKey != "" {
		if err := s.storage.Delete(ctx, deleted.ImageKey); err != nil {
			s.logger.Error("Failed to delete image from storage", "key", deleted.ImageKey, "error", err.Error())
		}
	}

	s.logger.Info("Place service: place deleted", "place_id", placeID)

	return nil
}
