package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Oddscorp-AI/banking-transfer/repository"
)

// inSerializableTx runs fn inside one serializable transaction bound to ctx.
// Any error from fn, a cancelled ctx or a failed commit leaves nothing behind.
func inSerializableTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", repository.TranslateError(err))
	}
	return nil
}
