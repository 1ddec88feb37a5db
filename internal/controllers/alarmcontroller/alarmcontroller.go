package alarmcontroller

import (
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/model"
)

// FireThreshold is the temperature above which an armed fire alarm triggers.
const FireThreshold float64 = 22.0

// Reading carries the sensor value relevant to the alarm being evaluated.
type Reading struct {
	Motion      bool
	Temperature float64
}

// NeedsTemperature and NeedsMotion report which reading an armed alarm
// depends on. Disarmed alarms need no reading at all.
func NeedsTemperature(dev model.DeviceID) bool {
	return dev == model.FireAlarm
}

func NeedsMotion(dev model.DeviceID) bool {
	return dev == model.IntrusionAlarm
}

// HasCondition reports whether IsTriggered knows how to evaluate dev.
func HasCondition(dev model.DeviceID) bool {
	return NeedsTemperature(dev) || NeedsMotion(dev)
}

// IsTriggered evaluates an alarm against a sensor reading.
func IsTriggered(dev model.DeviceID, armed bool, reading Reading) bool {
	if !armed {
		return false
	}

	switch dev {
	case model.IntrusionAlarm:
		return reading.Motion
	case model.FireAlarm:
		return reading.Temperature > FireThreshold
	default:
		log.Error().Str("device", string(dev)).Msg("No alarm condition defined for device")
		return false
	}
}
