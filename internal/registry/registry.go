package registry

import (
	"fmt"

	"github.com/thatsimonsguy/homenode/internal/model"
)

type Entry struct {
	ID    model.DeviceID
	Kind  model.Kind
	Label string
}

// Registry is the closed set of devices this node controls.
type Registry struct {
	entries []Entry
	index   map[model.DeviceID]int
}

// Default lists every device wired to the node, in the order they are reset at startup.
var Default = []Entry{
	{ID: model.LivingRoomLamp, Kind: model.KindBinarySwitch, Label: "Living room lamp"},
	{ID: model.LivingRoomWindow, Kind: model.KindPositionalActuator, Label: "Living room window"},
	{ID: model.LivingRoomClimate, Kind: model.KindClimateUnit, Label: "Living room climate"},
	{ID: model.BedroomLamp, Kind: model.KindBinarySwitch, Label: "Bedroom lamp"},
	{ID: model.BedroomWindow, Kind: model.KindPositionalActuator, Label: "Bedroom window"},
	{ID: model.KitchenLamp, Kind: model.KindBinarySwitch, Label: "Kitchen lamp"},
	{ID: model.KitchenKettle, Kind: model.KindBinarySwitch, Label: "Kitchen kettle"},
	{ID: model.IntrusionAlarm, Kind: model.KindAlarm, Label: "Intrusion alarm"},
	{ID: model.FireAlarm, Kind: model.KindAlarm, Label: "Fire alarm"},
}

func New(entries []Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[model.DeviceID]int, len(entries)),
	}
	for _, e := range entries {
		if _, exists := r.index[e.ID]; exists {
			panic(fmt.Sprintf("device %s registered twice", e.ID))
		}
		r.index[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

func NewDefault() *Registry {
	return New(Default)
}

func (r *Registry) IsValid(id model.DeviceID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) KindOf(id model.DeviceID) (model.Kind, error) {
	i, ok := r.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", model.ErrUnknownDevice, id)
	}
	return r.entries[i].Kind, nil
}

// Lookup returns the full registry entry for a device
func (r *Registry) Lookup(id model.DeviceID) (Entry, error) {
	i, ok := r.index[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", model.ErrUnknownDevice, id)
	}
	return r.entries[i], nil
}

// Devices returns the registered identifiers in registration order
func (r *Registry) Devices() []model.DeviceID {
	ids := make([]model.DeviceID, 0, len(r.entries))
	for _, e := range r.entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func (r *Registry) OfKind(kind model.Kind) []model.DeviceID {
	var ids []model.DeviceID
	for _, e := range r.entries {
		if e.Kind == kind {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
