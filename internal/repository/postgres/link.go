package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// linkManager maintains the user_places membership rows. It is the only
// writer of that table and always runs inside the transaction that mutates
// the corresponding place row, so place existence and membership change
// together or not at all.
type linkManager struct{}

func (linkManager) linkOnCreate(ctx context.Context, tx pgx.Tx, userID, placeID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO user_places (user_id, place_id) VALUES ($1, $2)`,
		userID, placeID,
	)
	if err != nil {
		return fmt.Errorf("failed to link place to user: %w", err)
	}
	return nil
}

func (linkManager) unlinkOnDelete(ctx context.Context, tx pgx.Tx, userID, placeID uuid.UUID) error {
	cmd, err := tx.Exec(ctx,
		`DELETE FROM user_places WHERE user_id = $1 AND place_id = $2`,
		userID, placeID,
	)
	if err != nil {
		return fmt.Errorf("failed to unlink place from user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("no membership row for user %s and place %s", userID, placeID)
	}
	return nil
}
