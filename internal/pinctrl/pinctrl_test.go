package pinctrl

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRun(t *testing.T, out string, err error) *[][]string {
	t.Helper()
	var calls [][]string
	orig := Run
	Run = func(args ...string) ([]byte, error) {
		calls = append(calls, args)
		return []byte(out), err
	}
	t.Cleanup(func() { Run = orig })
	return &calls
}

func TestParseGetAllOutput(t *testing.T) {
	sample := `
 0: ip    pu | hi // ID_SDA/GPIO0 = input
 1: ip    pu | hi // ID_SCL/GPIO1 = input
 2: no    pu | -- // GPIO2 = none
 4: ip    pn | lo // GPIO4 = input
 5: op dh pu | hi // GPIO5 = output
 6: op dh pu | hi // GPIO6 = output
12: op dh pd | hi // GPIO12 = output
13: op dh pd | hi // GPIO13 = output
26: op dl pn | lo // GPIO26 = output
`

	states, err := parseGetOutput(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, states, 9)

	if ps := states[5]; ps.Level != "hi" || ps.Mode != "op" || ps.Pull != "pu" || ps.Drive != "dh" {
		t.Errorf("GPIO5 parsed incorrectly: %+v", ps)
	}
	if ps := states[2]; ps.Level != "--" || ps.Mode != "no" {
		t.Errorf("GPIO2 parsed incorrectly: %+v", ps)
	}
	if ps := states[26]; ps.Level != "lo" || ps.Mode != "op" || ps.Pull != "pn" || ps.Drive != "dl" {
		t.Errorf("GPIO26 parsed incorrectly: %+v", ps)
	}
}

func TestReadAllPins(t *testing.T) {
	calls := fakeRun(t, `25: op dl pd | lo // GPIO25 = output`, nil)

	states, err := ReadAllPins()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"get"}}, *calls)

	ps, ok := states[25]
	require.True(t, ok, "GPIO25 not parsed")
	assert.Equal(t, PinState{Pin: 25, Mode: "op", Pull: "pd", Drive: "dl", Level: "lo", Comment: "GPIO25 = output"}, ps)
}

func TestReadLevel(t *testing.T) {
	tests := []struct {
		output   string
		expected bool
		wantErr  bool
	}{
		{"0", false, false},
		{"1", true, false},
		{"\n1\n", true, false},
		{"\n0\n", false, false},
		{"hi", false, true},
	}
	for _, tc := range tests {
		calls := fakeRun(t, tc.output, nil)
		result, err := ReadLevel(17)
		assert.Equal(t, []string{"lev", "17"}, (*calls)[0])
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.output)
			continue
		}
		require.NoError(t, err, "input %q", tc.output)
		assert.Equal(t, tc.expected, result, "input %q", tc.output)
	}
}

func TestDrive(t *testing.T) {
	calls := fakeRun(t, "", nil)

	require.NoError(t, Drive(22, true))
	require.NoError(t, Drive(22, false))
	require.NoError(t, ConfigureInput(4))

	assert.Equal(t, [][]string{
		{"set", "22", "op", "pn", "dh"},
		{"set", "22", "op", "pn", "dl"},
		{"set", "4", "ip", "pd"},
	}, *calls)
}

func TestSetPinError(t *testing.T) {
	fakeRun(t, "Invalid GPIO", errors.New("exit status 1"))

	err := SetPin(99, "op")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid GPIO")
}
