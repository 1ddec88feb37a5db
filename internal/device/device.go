package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/config"
	"github.com/thatsimonsguy/homenode/internal/gpio"
	"github.com/thatsimonsguy/homenode/internal/model"
)

var pwmRoot = "/sys/class/pwm"

var writeSysfs = func(path, value string) error {
	return os.WriteFile(path, []byte(value), 0644)
}

// Servo is a window servo on a sysfs PWM channel, calibrated by the pulse
// widths for the closed and open angles.
type Servo struct {
	Chip        int
	Channel     int
	Period      time.Duration
	ClosedPulse time.Duration
	OpenPulse   time.Duration
}

// PulseFor maps an angle linearly between the two calibration points.
func (s Servo) PulseFor(angle int) time.Duration {
	span := float64(s.OpenPulse - s.ClosedPulse)
	frac := float64(angle-model.CloseAngle) / float64(model.OpenAngle-model.CloseAngle)
	return s.ClosedPulse + time.Duration(span*frac)
}

func (s Servo) chipDir() string {
	return filepath.Join(pwmRoot, fmt.Sprintf("pwmchip%d", s.Chip))
}

func (s Servo) channelDir() string {
	return filepath.Join(s.chipDir(), fmt.Sprintf("pwm%d", s.Channel))
}

// Setup exports the channel, sets its period and enables output.
func (s Servo) Setup() error {
	if _, err := os.Stat(s.channelDir()); os.IsNotExist(err) {
		if err := writeSysfs(filepath.Join(s.chipDir(), "export"), strconv.Itoa(s.Channel)); err != nil {
			return fmt.Errorf("export pwmchip%d/pwm%d: %w", s.Chip, s.Channel, err)
		}
	}
	if err := writeSysfs(filepath.Join(s.channelDir(), "period"), strconv.FormatInt(s.Period.Nanoseconds(), 10)); err != nil {
		return fmt.Errorf("set period on pwmchip%d/pwm%d: %w", s.Chip, s.Channel, err)
	}
	if err := writeSysfs(filepath.Join(s.channelDir(), "enable"), "1"); err != nil {
		return fmt.Errorf("enable pwmchip%d/pwm%d: %w", s.Chip, s.Channel, err)
	}
	return nil
}

func (s Servo) Write(angle int) error {
	pulse := s.PulseFor(angle)
	return writeSysfs(filepath.Join(s.channelDir(), "duty_cycle"), strconv.FormatInt(pulse.Nanoseconds(), 10))
}

// Actuators drives the node's relays and servos.
type Actuators struct {
	relays map[model.DeviceID]model.GPIOPin
	servos map[model.DeviceID]Servo
	heat   model.GPIOPin
	cool   model.GPIOPin
}

func NewActuators(relays map[model.DeviceID]model.GPIOPin, servos map[model.DeviceID]Servo, heat, cool model.GPIOPin) *Actuators {
	return &Actuators{relays: relays, servos: servos, heat: heat, cool: cool}
}

// FromConfig builds the actuator set from the GPIO and servo maps. The
// config has already been validated.
func FromConfig(cfg *config.Config) *Actuators {
	relays := make(map[model.DeviceID]model.GPIOPin)
	for name := range cfg.OutputPins() {
		if name == config.GPIOClimateHeat || name == config.GPIOClimateCool {
			continue
		}
		pin, _ := cfg.Pin(name)
		relays[model.DeviceID(name)] = pin
	}

	servos := make(map[model.DeviceID]Servo)
	for name, s := range cfg.Servos {
		if s == nil {
			continue
		}
		servos[model.DeviceID(name)] = Servo{
			Chip:        s.Chip,
			Channel:     s.Channel,
			Period:      time.Duration(s.PeriodMicros) * time.Microsecond,
			ClosedPulse: time.Duration(s.ClosedPulseMicros) * time.Microsecond,
			OpenPulse:   time.Duration(s.OpenPulseMicros) * time.Microsecond,
		}
	}

	heat, _ := cfg.Pin(config.GPIOClimateHeat)
	cool, _ := cfg.Pin(config.GPIOClimateCool)
	return NewActuators(relays, servos, heat, cool)
}

// Setup prepares every servo channel. Relays need no setup.
func (a *Actuators) Setup() error {
	if gpio.SafeMode() {
		return nil
	}
	for id, s := range a.servos {
		if err := s.Setup(); err != nil {
			return fmt.Errorf("servo %s: %w", id, err)
		}
	}
	return nil
}

func (a *Actuators) SetBinary(id model.DeviceID, on bool) {
	pin, ok := a.relays[id]
	if !ok {
		log.Error().Str("device", string(id)).Msg("No relay pin configured for device")
		return
	}
	if on {
		log.Info().Str("device", string(id)).Msg("Activating relay")
	} else {
		log.Info().Str("device", string(id)).Msg("Deactivating relay")
	}
	gpio.Set(pin, on)
}

func (a *Actuators) SetPosition(id model.DeviceID, angle int) {
	servo, ok := a.servos[id]
	if !ok {
		log.Error().Str("device", string(id)).Msg("No servo configured for device")
		return
	}
	log.Info().Str("device", string(id)).Int("angle", angle).Msg("Moving servo")
	if gpio.SafeMode() {
		return
	}
	if err := servo.Write(angle); err != nil {
		log.Error().Err(err).Str("device", string(id)).Int("angle", angle).Msg("Failed to move servo")
	}
}

// SetClimateOutputs releases outputs before asserting new ones.
func (a *Actuators) SetClimateOutputs(out model.ClimateOutputs) {
	log.Info().Bool("heat", out.Heat).Bool("cool", out.Cool).Msg("Setting climate outputs")
	if !out.Heat {
		gpio.Deactivate(a.heat)
	}
	if !out.Cool {
		gpio.Deactivate(a.cool)
	}
	if out.Heat {
		gpio.Activate(a.heat)
	}
	if out.Cool {
		gpio.Activate(a.cool)
	}
}
