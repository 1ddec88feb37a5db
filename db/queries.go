package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thatsimonsguy/homenode/internal/model"
)

// GetArmEvents returns the most recent events first. A limit of zero or
// less returns every event.
func GetArmEvents(db *sql.DB, limit int) ([]model.ArmEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT id, device, armed, created_at FROM arm_events ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query arm events: %w", err)
	}
	defer rows.Close()

	var events []model.ArmEvent
	for rows.Next() {
		ev, err := scanArmEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate arm events: %w", err)
	}
	return events, nil
}

// GetLastArmEvent returns the latest event for a device, or nil if it has
// never been armed or disarmed.
func GetLastArmEvent(db *sql.DB, device model.DeviceID) (*model.ArmEvent, error) {
	row := db.QueryRow(`SELECT id, device, armed, created_at FROM arm_events WHERE device = ? ORDER BY created_at DESC LIMIT 1`, string(device))
	ev, err := scanArmEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArmEvent(s scanner) (model.ArmEvent, error) {
	var ev model.ArmEvent
	var device, createdAt string
	if err := s.Scan(&ev.ID, &device, &ev.Armed, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ev, err
		}
		return ev, fmt.Errorf("failed to scan arm event: %w", err)
	}
	ev.Device = model.DeviceID(device)

	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return ev, fmt.Errorf("failed to parse arm event timestamp %q: %w", createdAt, err)
	}
	ev.CreatedAt = t
	return ev, nil
}
