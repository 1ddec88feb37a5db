package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/homenode/internal/controller"
	"github.com/thatsimonsguy/homenode/internal/model"
	"github.com/thatsimonsguy/homenode/internal/registry"
	"github.com/thatsimonsguy/homenode/internal/state"
)

type fakeSensors struct {
	temp    float64
	tempErr error
	motion  bool
}

func (f *fakeSensors) ReadTemperature() (float64, error) { return f.temp, f.tempErr }
func (f *fakeSensors) ReadMotion() bool { return f.motion }

type nopActuators struct{}

func (nopActuators) SetBinary(model.DeviceID, bool) {}
func (nopActuators) SetPosition(model.DeviceID, int) {}
func (nopActuators) SetClimateOutputs(model.ClimateOutputs) {}

func newTestConsole(sensors *fakeSensors) *Console {
	reg := registry.NewDefault()
	ctrl := controller.New(reg, state.New(reg.Devices()), sensors, nopActuators{}, nil)
	return New(ctrl)
}

func TestExecute(t *testing.T) {
	c := newTestConsole(&fakeSensors{temp: 25, motion: true})

	tests := []struct {
		line string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"help", "OK " + helpText},
		{"SET kitchen_lamp ON", "OK kitchen_lamp on=true setpoint=0"},
		{"get kitchen_lamp", "OK kitchen_lamp on=true setpoint=0"},
		{"set living_room_climate on 21.5", "OK living_room_climate on=true setpoint=21.5"},
		{"climate", "OK heat=false cool=true"},
		{"set intrusion_alarm on", "OK intrusion_alarm on=true setpoint=0"},
		{"alarm intrusion_alarm", "OK intrusion_alarm triggered=true"},
		{"alarm fire_alarm", "OK fire_alarm triggered=false"},
		{"set garage_door on", "ERR unknown device: garage_door"},
		{"set kitchen_lamp maybe", `ERR expected on or off, got "maybe"`},
		{"set living_room_climate on hot", `ERR invalid degree "hot"`},
		{"set kitchen_lamp", "ERR usage: set <device> on|off [degree]"},
		{"get", "ERR usage: get <device>"},
		{"dance", `ERR unknown command "dance"`},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Execute(tc.line))
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	c := newTestConsole(&fakeSensors{tempErr: errors.New("checksum")})

	reply := c.Execute("set living_room_climate on")
	assert.True(t, strings.HasPrefix(reply, "ERR "), reply)
	assert.Contains(t, reply, model.ErrMissingSetpoint.Error())

	reply = c.Execute("set living_room_climate on 20")
	assert.True(t, strings.HasPrefix(reply, "ERR "), reply)
	assert.Contains(t, reply, model.ErrSensorUnavailable.Error())

	reply = c.Execute("alarm kitchen_lamp")
	assert.Contains(t, reply, model.ErrUnsupportedDevice.Error())
}

func TestList(t *testing.T) {
	c := newTestConsole(&fakeSensors{})
	require.Equal(t, "OK bedroom_window on=true setpoint=0", c.Execute("set bedroom_window on"))

	reply := c.Execute("list")
	assert.True(t, strings.HasPrefix(reply, "OK living_room_lamp[binary_switch]:on=false"), reply)
	assert.Contains(t, reply, "bedroom_window[positional_actuator]:on=true")
	assert.Contains(t, reply, "fire_alarm[alarm]:on=false")
}

func TestRun(t *testing.T) {
	c := newTestConsole(&fakeSensors{})
	in := strings.NewReader("set kitchen_kettle on\n\nget kitchen_kettle\nbogus\n")
	var out bytes.Buffer

	require.NoError(t, c.Run(context.Background(), in, &out))

	assert.Equal(t,
		"OK kitchen_kettle on=true setpoint=0\nOK kitchen_kettle on=true setpoint=0\nERR unknown command \"bogus\"\n",
		out.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	c := newTestConsole(&fakeSensors{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w := io.Pipe()
	defer w.Close()
	var out bytes.Buffer
	assert.NoError(t, c.Run(ctx, r, &out))
	assert.Empty(t, out.String())
}
