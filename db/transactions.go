package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thatsimonsguy/homenode/internal/model"
)

// StartTransaction starts a new database transaction.
func StartTransaction(db *sql.DB) (*sql.Tx, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return tx, nil
}

// CommitTransaction commits the given transaction.
func CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the given transaction.
func RollbackTransaction(tx *sql.Tx) {
	tx.Rollback()
}

// InsertArmEvent stores an event, filling in ID and CreatedAt when empty.
func InsertArmEvent(db *sql.DB, ev *model.ArmEvent) error {
	tx, err := StartTransaction(db)
	if err != nil {
		return err
	}
	if err := InsertArmEventWithTx(tx, ev); err != nil {
		RollbackTransaction(tx)
		return err
	}
	return CommitTransaction(tx)
}

func InsertArmEventWithTx(tx *sql.Tx, ev *model.ArmEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	_, err := tx.Exec(`INSERT INTO arm_events (id, device, armed, created_at) VALUES (?, ?, ?, ?)`,
		ev.ID, string(ev.Device), ev.Armed, ev.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert arm event: %w", err)
	}
	return nil
}

// PruneArmEvents deletes events older than the cutoff and returns how many
// were removed.
func PruneArmEvents(db *sql.DB, before time.Time) (int64, error) {
	tx, err := StartTransaction(db)
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(`DELETE FROM arm_events WHERE created_at < ?`, before.UTC().Format(timeFormat))
	if err != nil {
		RollbackTransaction(tx)
		return 0, fmt.Errorf("prune arm events: %w", err)
	}
	if err := CommitTransaction(tx); err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
