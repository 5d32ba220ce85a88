package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlaceStore defines persistence operations for places. Create and Delete
// maintain the creator's place membership in the same transaction as the
// place row itself.
type PlaceStore interface {
	Create(ctx context.Context, place Place) (Place, error)
	GetByID(ctx context.Context, id uuid.UUID) (Place, error)
	GetByCreator(ctx context.Context, creatorID uuid.UUID) ([]Place, error)
	Update(ctx context.Context, place Place) (Place, error)
	Delete(ctx context.Context, id uuid.UUID, creatorID uuid.UUID) (Place, error)
}

// Place represents a geotagged record owned by exactly one user.
// CreatorID is immutable after creation.
type Place struct {
	ID          uuid.UUID
	Title       string
	Description string
	Address     string
	Location    Location
	ImageKey    string
	CreatorID   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location is a resolved coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreatePlaceParams contains parameters to create a place.
type CreatePlaceParams struct {
	Title       string
	Description string
	Address     string
	ImageKey    string
	CreatorID   uuid.UUID
}

// UpdatePlaceParams contains the mutable place fields. Nil means "keep the
// stored value".
type UpdatePlaceParams struct {
	Title       *string
	Description *string
}
