package alarmcontroller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/homenode/internal/model"
)

func TestIsTriggered(t *testing.T) {
	tests := []struct {
		name    string
		dev     model.DeviceID
		armed   bool
		reading Reading
		want    bool
	}{
		{"intrusion disarmed with motion", model.IntrusionAlarm, false, Reading{Motion: true}, false},
		{"intrusion disarmed no motion", model.IntrusionAlarm, false, Reading{Motion: false}, false},
		{"intrusion armed with motion", model.IntrusionAlarm, true, Reading{Motion: true}, true},
		{"intrusion armed no motion", model.IntrusionAlarm, true, Reading{Motion: false}, false},
		{"fire armed at threshold", model.FireAlarm, true, Reading{Temperature: 22.0}, false},
		{"fire armed just above threshold", model.FireAlarm, true, Reading{Temperature: 22.01}, true},
		{"fire armed cold", model.FireAlarm, true, Reading{Temperature: 15}, false},
		{"fire disarmed hot", model.FireAlarm, false, Reading{Temperature: 80}, false},
		{"fire ignores motion", model.FireAlarm, true, Reading{Motion: true, Temperature: 20}, false},
		{"intrusion ignores temperature", model.IntrusionAlarm, true, Reading{Temperature: 90}, false},
		{"non alarm device", model.KitchenLamp, true, Reading{Motion: true, Temperature: 90}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTriggered(tc.dev, tc.armed, tc.reading))
		})
	}
}

func TestSensorNeeds(t *testing.T) {
	assert.True(t, NeedsMotion(model.IntrusionAlarm))
	assert.False(t, NeedsTemperature(model.IntrusionAlarm))
	assert.True(t, NeedsTemperature(model.FireAlarm))
	assert.False(t, NeedsMotion(model.FireAlarm))

	assert.True(t, HasCondition(model.FireAlarm))
	assert.False(t, HasCondition(model.KitchenKettle))
}
