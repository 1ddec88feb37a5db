package model

import "errors"

var (
	// ErrUnknownDevice indicates the identifier is not in the device registry
	ErrUnknownDevice = errors.New("unknown device")

	// ErrUnsupportedDevice indicates a registered device whose kind has no handler
	ErrUnsupportedDevice = errors.New("unsupported device")

	// ErrMissingSetpoint indicates the climate unit was switched on without a degree
	ErrMissingSetpoint = errors.New("missing setpoint")

	// ErrSensorUnavailable indicates a sensor could not produce a valid reading
	ErrSensorUnavailable = errors.New("sensor unavailable")
)
