package state

import (
	"fmt"

	"github.com/thatsimonsguy/homenode/internal/model"
)

// Store holds the current state of every registered device.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	entries map[model.DeviceID]model.DeviceState
}

// New creates an entry for each device, initialized to off with a zero setpoint.
func New(devices []model.DeviceID) *Store {
	s := &Store{entries: make(map[model.DeviceID]model.DeviceState, len(devices))}
	for _, id := range devices {
		s.entries[id] = model.DeviceState{}
	}
	return s
}

func (s *Store) Get(id model.DeviceID) (model.DeviceState, error) {
	entry, ok := s.entries[id]
	if !ok {
		return model.DeviceState{}, fmt.Errorf("%w: %s", model.ErrUnknownDevice, id)
	}
	return entry, nil
}

// Set overwrites the entry. Entries are never created after New.
func (s *Store) Set(id model.DeviceID, entry model.DeviceState) error {
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownDevice, id)
	}
	s.entries[id] = entry
	return nil
}

// Snapshot returns a copy of the table.
func (s *Store) Snapshot() map[model.DeviceID]model.DeviceState {
	out := make(map[model.DeviceID]model.DeviceState, len(s.entries))
	for id, entry := range s.entries {
		out[id] = entry
	}
	return out
}
