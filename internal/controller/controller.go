package controller

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/controllers/alarmcontroller"
	"github.com/thatsimonsguy/homenode/internal/controllers/climatecontroller"
	"github.com/thatsimonsguy/homenode/internal/datadog"
	"github.com/thatsimonsguy/homenode/internal/model"
	"github.com/thatsimonsguy/homenode/internal/registry"
	"github.com/thatsimonsguy/homenode/internal/state"
)

// Sensors is the sensor hardware the controller reads from.
type Sensors interface {
	// ReadTemperature fails with model.ErrSensorUnavailable on an invalid reading
	ReadTemperature() (float64, error)
	ReadMotion() bool
}

// Actuators is the hardware the controller drives. Calls are fire-and-forget.
type Actuators interface {
	SetBinary(id model.DeviceID, on bool)
	SetPosition(id model.DeviceID, angle int)
	SetClimateOutputs(out model.ClimateOutputs)
}

// Notifier receives alarm arm/disarm events.
type Notifier interface {
	ArmedChanged(id model.DeviceID, armed bool)
}

type DeviceStatus struct {
	registry.Entry
	State model.DeviceState
}

// Controller is the only writer of the state store. It is not safe for
// concurrent use.
type Controller struct {
	registry  *registry.Registry
	store     *state.Store
	sensors   Sensors
	actuators Actuators
	notifier  Notifier
	climate   model.DeviceID
}

func New(reg *registry.Registry, store *state.Store, sensors Sensors, actuators Actuators, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = logNotifier{}
	}
	c := &Controller{
		registry:  reg,
		store:     store,
		sensors:   sensors,
		actuators: actuators,
		notifier:  notifier,
	}
	if units := reg.OfKind(model.KindClimateUnit); len(units) > 0 {
		c.climate = units[0]
	}
	return c
}

// SetState validates and applies a state change. On failure the store is
// left unchanged.
func (c *Controller) SetState(id model.DeviceID, on bool, degree float64) error {
	kind, err := c.registry.KindOf(id)
	if err != nil {
		log.Warn().Str("device", string(id)).Msg("Rejected state change for unknown device")
		return err
	}

	current, err := c.store.Get(id)
	if err != nil {
		return err
	}
	next := current
	next.On = on

	switch kind {
	case model.KindBinarySwitch:
		c.actuators.SetBinary(id, on)

	case model.KindPositionalActuator:
		c.actuators.SetPosition(id, positionFor(on))

	case model.KindClimateUnit:
		if on {
			next.Setpoint = degree
		}
		if _, err := c.applyClimate(next); err != nil {
			return fmt.Errorf("set %s: %w", id, err)
		}

	case model.KindAlarm:
		if !alarmcontroller.HasCondition(id) {
			return fmt.Errorf("%w: %s has no alarm condition", model.ErrUnsupportedDevice, id)
		}
		c.notifier.ArmedChanged(id, on)

	default:
		return fmt.Errorf("%w: %s (kind %s)", model.ErrUnsupportedDevice, id, kind)
	}

	if err := c.store.Set(id, next); err != nil {
		return err
	}

	log.Info().
		Str("device", string(id)).
		Str("kind", kind.String()).
		Bool("on", next.On).
		Float64("setpoint", next.Setpoint).
		Msg("Device state applied")
	return nil
}

// SetStateSimple applies a state change without a setpoint. Switching the
// climate unit on this way is rejected.
func (c *Controller) SetStateSimple(id model.DeviceID, on bool) error {
	kind, err := c.registry.KindOf(id)
	if err != nil {
		log.Warn().Str("device", string(id)).Msg("Rejected state change for unknown device")
		return err
	}
	if kind == model.KindClimateUnit && on {
		log.Warn().Str("device", string(id)).Msg("Climate activation requires a setpoint")
		return fmt.Errorf("%w: %s", model.ErrMissingSetpoint, id)
	}
	return c.SetState(id, on, 0)
}

func (c *Controller) GetState(id model.DeviceID) (model.DeviceState, error) {
	return c.store.Get(id)
}

// List returns every registered device with its current state, in registry order.
func (c *Controller) List() []DeviceStatus {
	ids := c.registry.Devices()
	out := make([]DeviceStatus, 0, len(ids))
	for _, id := range ids {
		entry, err := c.registry.Lookup(id)
		if err != nil {
			continue
		}
		st, _ := c.store.Get(id)
		out = append(out, DeviceStatus{Entry: entry, State: st})
	}
	return out
}

// IsAlarmTriggered evaluates an alarm on demand. A sensor failure is
// returned as an error, never as "not triggered".
func (c *Controller) IsAlarmTriggered(id model.DeviceID) (bool, error) {
	kind, err := c.registry.KindOf(id)
	if err != nil {
		return false, err
	}
	if kind != model.KindAlarm || !alarmcontroller.HasCondition(id) {
		return false, fmt.Errorf("%w: %s is not an alarm", model.ErrUnsupportedDevice, id)
	}

	entry, err := c.store.Get(id)
	if err != nil {
		return false, err
	}
	if !entry.On {
		return false, nil
	}

	var reading alarmcontroller.Reading
	if alarmcontroller.NeedsMotion(id) {
		reading.Motion = c.sensors.ReadMotion()
	}
	if alarmcontroller.NeedsTemperature(id) {
		temp, err := c.readTemperature()
		if err != nil {
			log.Error().Err(err).Str("device", string(id)).Msg("Cannot evaluate alarm")
			return false, fmt.Errorf("evaluate %s: %w", id, err)
		}
		reading.Temperature = temp
	}

	triggered := alarmcontroller.IsTriggered(id, entry.On, reading)
	datadog.Bool("alarm.triggered", triggered, fmt.Sprintf("alarm:%s", id))
	if triggered {
		log.Warn().
			Str("device", string(id)).
			Bool("motion", reading.Motion).
			Float64("temp", reading.Temperature).
			Msg("Alarm triggered")
	}
	return triggered, nil
}

// RefreshClimate re-evaluates the climate policy against a fresh temperature
// reading and drives the outputs. If the reading fails the outputs are
// de-energized and the error is returned; retrying is up to the caller.
func (c *Controller) RefreshClimate() (model.ClimateOutputs, error) {
	if c.climate == "" {
		return climatecontroller.Off, fmt.Errorf("%w: no climate unit registered", model.ErrUnknownDevice)
	}
	entry, err := c.store.Get(c.climate)
	if err != nil {
		return climatecontroller.Off, err
	}
	return c.applyClimate(entry)
}

// Reset drives every registered device to off, in registry order.
func (c *Controller) Reset() error {
	var errs []error
	for _, id := range c.registry.Devices() {
		if err := c.SetStateSimple(id, false); err != nil {
			log.Error().Err(err).Str("device", string(id)).Msg("Failed to reset device")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Init puts the hardware into a known state: every device off, then one
// climate evaluation.
func (c *Controller) Init() error {
	log.Info().Int("devices", len(c.registry.Devices())).Msg("Resetting all devices")
	if err := c.Reset(); err != nil {
		return err
	}
	if c.climate == "" {
		return nil
	}
	_, err := c.RefreshClimate()
	return err
}

func (c *Controller) applyClimate(entry model.DeviceState) (model.ClimateOutputs, error) {
	if !entry.On {
		out := climatecontroller.ComputeOutputs(false, entry.Setpoint, 0)
		c.driveClimate(out)
		return out, nil
	}

	temp, err := c.readTemperature()
	if err != nil {
		log.Error().Err(err).Msg("Temperature unavailable, de-energizing climate outputs")
		c.driveClimate(climatecontroller.Off)
		return climatecontroller.Off, err
	}

	out := climatecontroller.ComputeOutputs(true, entry.Setpoint, temp)
	c.driveClimate(out)
	return out, nil
}

func (c *Controller) driveClimate(out model.ClimateOutputs) {
	c.actuators.SetClimateOutputs(out)
	datadog.Bool("climate.heat", out.Heat, "component:climate")
	datadog.Bool("climate.cool", out.Cool, "component:climate")
}

func (c *Controller) readTemperature() (float64, error) {
	temp, err := c.sensors.ReadTemperature()
	if err != nil {
		if !errors.Is(err, model.ErrSensorUnavailable) {
			err = fmt.Errorf("%w: %v", model.ErrSensorUnavailable, err)
		}
		return 0, err
	}
	datadog.Gauge("sensor.temperature", temp, "component:sensor")
	return temp, nil
}

func positionFor(on bool) int {
	if on {
		return model.OpenAngle
	}
	return model.CloseAngle
}

type logNotifier struct{}

func (logNotifier) ArmedChanged(id model.DeviceID, armed bool) {
	log.Info().Str("device", string(id)).Bool("armed", armed).Msg("Alarm armed state changed")
}
