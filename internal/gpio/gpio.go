package gpio

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/model"
	"github.com/thatsimonsguy/homenode/internal/pinctrl"
)

var safeMode bool

var (
	setLevel  = pinctrl.Drive
	readLevel = pinctrl.ReadLevel
)

// SetSafeMode disables every pin write when enabled.
func SetSafeMode(enabled bool) {
	safeMode = enabled
}

func SafeMode() bool {
	return safeMode
}

// Read returns the raw logic level of a pin. Read errors are logged and
// reported as low.
func Read(pin model.GPIOPin) bool {
	level, err := readLevel(pin.Number)
	if err != nil {
		log.Error().Err(err).Int("pin", pin.Number).Msg("Failed to read pin level")
		return false
	}
	return level
}

// Set drives a pin to its active or inactive level, honoring ActiveHigh.
var Set = func(pin model.GPIOPin, active bool) {
	if safeMode {
		log.Debug().Int("pin", pin.Number).Bool("active", active).Msg("Safe mode, skipping pin write")
		return
	}

	high := active == pin.ActiveHigh
	if err := setLevel(pin.Number, high); err != nil {
		log.Error().Err(err).Int("pin", pin.Number).Bool("active", active).Msg("Failed to drive pin")
	}
}

func Activate(pin model.GPIOPin) {
	Set(pin, true)
}

func Deactivate(pin model.GPIOPin) {
	Set(pin, false)
}

var CurrentlyActive = func(pin model.GPIOPin) bool {
	return Read(pin) == pin.ActiveHigh
}

// ValidateStartupPins checks that every named output pin sits at its
// inactive level. The boot script is expected to have put them there.
func ValidateStartupPins(pins map[string]model.GPIOPin) error {
	names := make([]string, 0, len(pins))
	for name := range pins {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pin := pins[name]
		level, err := readLevel(pin.Number)
		if err != nil {
			return fmt.Errorf("failed to read pin level for %s (GPIO %d): %w", name, pin.Number, err)
		}
		if level == pin.ActiveHigh {
			return fmt.Errorf("pin %d (%s) is active at startup", pin.Number, name)
		}
	}
	return nil
}
