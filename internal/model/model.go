package model

import "time"

type DeviceID string

const (
	LivingRoomLamp    DeviceID = "living_room_lamp"
	LivingRoomWindow  DeviceID = "living_room_window"
	LivingRoomClimate DeviceID = "living_room_climate"
	BedroomLamp       DeviceID = "bedroom_lamp"
	BedroomWindow     DeviceID = "bedroom_window"
	KitchenLamp       DeviceID = "kitchen_lamp"
	KitchenKettle     DeviceID = "kitchen_kettle"
	IntrusionAlarm    DeviceID = "intrusion_alarm"
	FireAlarm         DeviceID = "fire_alarm"
)

// Kind selects which actuator path and policy a device goes through.
type Kind int

const (
	KindBinarySwitch Kind = iota + 1
	KindPositionalActuator
	KindClimateUnit
	KindAlarm
)

func (k Kind) String() string {
	switch k {
	case KindBinarySwitch:
		return "binary_switch"
	case KindPositionalActuator:
		return "positional_actuator"
	case KindClimateUnit:
		return "climate_unit"
	case KindAlarm:
		return "alarm"
	default:
		return "unknown"
	}
}

// Servo angles for windows.
const (
	OpenAngle  = 90
	CloseAngle = 0
)

// DeviceState is one entry of the state table. Setpoint is only meaningful
// for the climate unit; for alarms On is the armed flag.
type DeviceState struct {
	On       bool    `json:"on"`
	Setpoint float64 `json:"setpoint"`
}

type ClimateOutputs struct {
	Heat bool `json:"heat"`
	Cool bool `json:"cool"`
}

type GPIOPin struct {
	Number     int
	ActiveHigh bool
}

// ArmEvent records an alarm being armed or disarmed.
type ArmEvent struct {
	ID        string    `json:"id"`
	Device    DeviceID  `json:"device"`
	Armed     bool      `json:"armed"`
	CreatedAt time.Time `json:"created_at"`
}
