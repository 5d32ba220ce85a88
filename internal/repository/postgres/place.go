package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/placedir/places-server/internal/model"
)

var _ model.PlaceStore = (*PlaceRepository)(nil)

type PlaceRepository struct {
	db   *Connection
	link linkManager
}

func NewPlaceRepository(db *Connection) *PlaceRepository {
	return &PlaceRepository{
		db: db,
	}
}

// Create inserts the place row and the creator's membership row in one
// transaction. On any failure nothing is persisted.
func (r *PlaceRepository) Create(ctx context.Context, place model.Place) (model.Place, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO places (id, title, description, address, lat, lng, image_key, creator_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at`

	var saved model.Place
	err = tx.QueryRow(ctx, query,
		place.ID, place.Title, place.Description, place.Address,
		place.Location.Lat, place.Location.Lng, place.ImageKey, place.CreatorID,
	).Scan(
		&saved.ID, &saved.Title, &saved.Description, &saved.Address,
		&saved.Location.Lat, &saved.Location.Lng, &saved.ImageKey, &saved.CreatorID,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to insert place: %w", err)
	}

	if err := r.link.linkOnCreate(ctx, tx, saved.CreatorID, saved.ID); err != nil {
		return model.Place{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Place{}, fmt.Errorf("failed to commit place creation: %w", err)
	}

	return saved, nil
}

func (r *PlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Place, error) {
	query := `SELECT id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at
			  FROM places WHERE id = $1`

	var place model.Place
	err := r.db.QueryRow(ctx, query, id).Scan(
		&place.ID, &place.Title, &place.Description, &place.Address,
		&place.Location.Lat, &place.Location.Lng, &place.ImageKey, &place.CreatorID,
		&place.CreatedAt, &place.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Place{}, model.ErrNotFound
		}
		return model.Place{}, fmt.Errorf("failed to get place by id: %w", err)
	}

	return place, nil
}

// GetByCreator reads through the membership table so results reflect the
// same relation the link manager maintains.
func (r *PlaceRepository) GetByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Place, error) {
	query := `SELECT p.id, p.title, p.description, p.address, p.lat, p.lng, p.image_key, p.creator_id, p.created_at, p.updated_at
			  FROM places p
			  JOIN user_places up ON up.place_id = p.id
			  WHERE up.user_id = $1
			  ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get places by creator: %w", err)
	}
	defer rows.Close()

	var places []model.Place
	for rows.Next() {
		var place model.Place
		err := rows.Scan(
			&place.ID, &place.Title, &place.Description, &place.Address,
			&place.Location.Lat, &place.Location.Lng, &place.ImageKey, &place.CreatorID,
			&place.CreatedAt, &place.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return places, nil
}

// Update writes the mutable fields of a single place row. Ownership is
// unchanged so no membership write is needed.
func (r *PlaceRepository) Update(ctx context.Context, place model.Place) (model.Place, error) {
	query := `UPDATE places SET title = $2, description = $3, updated_at = now()
			  WHERE id = $1
			  RETURNING id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at`

	var saved model.Place
	err := r.db.QueryRow(ctx, query, place.ID, place.Title, place.Description).Scan(
		&saved.ID, &saved.Title, &saved.Description, &saved.Address,
		&saved.Location.Lat, &saved.Location.Lng, &saved.ImageKey, &saved.CreatorID,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Place{}, model.ErrNotFound
		}
		return model.Place{}, fmt.Errorf("failed to update place: %w", err)
	}

	return saved, nil
}

// Delete removes a place and its membership row in one transaction. The row
// is locked and ownership verified before anything destructive runs, so a
// non-owner request rolls back without observable effect. Returns the
// removed place so callers can clean up its stored image.
func (r *PlaceRepository) Delete(ctx context.Context, id uuid.UUID, creatorID uuid.UUID) (model.Place, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at
			  FROM places WHERE id = $1 FOR UPDATE`

	var place model.Place
	err = tx.QueryRow(ctx, query, id).Scan(
		&place.ID, &place.Title, &place.Description, &place.Address,
		&place.Location.Lat, &place.Location.Lng, &place.ImageKey, &place.CreatorID,
		&place.CreatedAt, &place.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Place{}, model.ErrNotFound
		}
		return model.Place{}, fmt.Errorf("failed to load place for deletion: %w", err)
	}

	if place.CreatorID != creatorID {
		return model.Place{}, model.ErrNotOwner
	}

	// Membership references the place row, so unlink first.
	if err := r.link.unlinkOnDelete(ctx, tx, place.CreatorID, place.ID); err != nil {
		return model.Place{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM places WHERE id = $1`, id); err != nil {
		return model.Place{}, fmt.Errorf("failed to delete place: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Place{}, fmt.Errorf("failed to commit place deletion: %w", err)
	}

	return place, nil
}
