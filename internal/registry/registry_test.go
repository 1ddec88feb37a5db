package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/homenode/internal/model"
)

func TestDefaultRegistryKinds(t *testing.T) {
	r := NewDefault()

	tests := []struct {
		id   model.DeviceID
		kind model.Kind
	}{
		{model.LivingRoomLamp, model.KindBinarySwitch},
		{model.BedroomLamp, model.KindBinarySwitch},
		{model.KitchenLamp, model.KindBinarySwitch},
		{model.KitchenKettle, model.KindBinarySwitch},
		{model.LivingRoomWindow, model.KindPositionalActuator},
		{model.BedroomWindow, model.KindPositionalActuator},
		{model.LivingRoomClimate, model.KindClimateUnit},
		{model.IntrusionAlarm, model.KindAlarm},
		{model.FireAlarm, model.KindAlarm},
	}

	for _, tc := range tests {
		t.Run(string(tc.id), func(t *testing.T) {
			assert.True(t, r.IsValid(tc.id))
			kind, err := r.KindOf(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)
		})
	}

	assert.Len(t, r.Devices(), 9)
}

func TestUnknownDevice(t *testing.T) {
	r := NewDefault()

	assert.False(t, r.IsValid("garage_door"))

	_, err := r.KindOf("garage_door")
	assert.ErrorIs(t, err, model.ErrUnknownDevice)

	_, err = r.Lookup("garage_door")
	assert.ErrorIs(t, err, model.ErrUnknownDevice)
}

func TestDevicesKeepsRegistrationOrder(t *testing.T) {
	r := NewDefault()
	ids := r.Devices()

	require.Len(t, ids, len(Default))
	for i, e := range Default {
		assert.Equal(t, e.ID, ids[i])
	}
}

func TestOfKind(t *testing.T) {
	r := NewDefault()

	assert.Equal(t, []model.DeviceID{model.IntrusionAlarm, model.FireAlarm}, r.OfKind(model.KindAlarm))
	assert.Equal(t, []model.DeviceID{model.LivingRoomClimate}, r.OfKind(model.KindClimateUnit))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic due to duplicate device, but got none")
		}
	}()

	New([]Entry{
		{ID: model.KitchenLamp, Kind: model.KindBinarySwitch},
		{ID: model.KitchenLamp, Kind: model.KindBinarySwitch},
	})
}
