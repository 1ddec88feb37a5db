package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/thatsimonsguy/homenode/internal/model"
)

// GPIO keys that are not device identifiers.
const (
	GPIOClimateHeat  = "climate_heat"
	GPIOClimateCool  = "climate_cool"
	GPIOMotionSensor = "motion_sensor"
)

// RequiredGPIO lists every relay or input pin the node needs.
var RequiredGPIO = []string{
	string(model.LivingRoomLamp),
	string(model.BedroomLamp),
	string(model.KitchenLamp),
	string(model.KitchenKettle),
	GPIOClimateHeat,
	GPIOClimateCool,
	GPIOMotionSensor,
}

// RequiredServos lists every window servo.
var RequiredServos = []string{
	string(model.LivingRoomWindow),
	string(model.BedroomWindow),
}

type GPIOPin struct {
	Pin        int   `json:"pin" yaml:"pin"`
	ActiveHigh *bool `json:"active_high,omitempty" yaml:"active_high,omitempty"` // defaults to relay_board_active_high
}

type GPIO map[string]*GPIOPin

// Servo is a hobby servo on a sysfs PWM channel. The closed and open pulse
// widths are the two calibration points for 0 and 90 degrees.
type Servo struct {
	Chip              int `json:"pwm_chip" yaml:"pwm_chip"`
	Channel           int `json:"pwm_channel" yaml:"pwm_channel"`
	PeriodMicros      int `json:"period_us" yaml:"period_us"`
	ClosedPulseMicros int `json:"closed_pulse_us" yaml:"closed_pulse_us"`
	OpenPulseMicros   int `json:"open_pulse_us" yaml:"open_pulse_us"`
}

type Config struct {
	ConfigFile string        `json:"-" yaml:"-"`
	LogLevel   zerolog.Level `json:"-" yaml:"-"`

	SafeMode             bool   `json:"safe_mode" yaml:"safe_mode"`
	LogFile              string `json:"log_file" yaml:"log_file"`
	DatabasePath         string `json:"database_path" yaml:"database_path"`
	BootScriptFilePath   string `json:"boot_script_path" yaml:"boot_script_path"`
	BootServicePath      string `json:"boot_service_path" yaml:"boot_service_path"`
	RelayBoardActiveHigh bool   `json:"relay_board_active_high" yaml:"relay_board_active_high"`

	GPIO   GPIO              `json:"gpio" yaml:"gpio"`
	Servos map[string]*Servo `json:"servos" yaml:"servos"`

	TemperatureSensorPath string `json:"temperature_sensor_path" yaml:"temperature_sensor_path"`
	SensorReadRetries     int    `json:"sensor_read_retries" yaml:"sensor_read_retries"`

	ConsolePort string `json:"console_port" yaml:"console_port"` // empty reads stdin
	ConsoleBaud int    `json:"console_baud" yaml:"console_baud"`

	EnableDatadog bool     `json:"enable_datadog" yaml:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr" yaml:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace" yaml:"dd_namespace"`
	DDTags        []string `json:"dd_tags" yaml:"dd_tags"`
}

func Load() Config {
	var configFile, logLevel string
	var safeMode bool

	flag.StringVar(&configFile, "config-file", "config.json", "Path to node config file (.json, .yaml or .yml)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&safeMode, "safe-mode", false, "Disable all GPIO and PWM writes")
	flag.Parse()

	cfg, err := LoadFile(configFile)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	cfg.LogLevel = parseLogLevel(logLevel)
	cfg.SafeMode = cfg.SafeMode || safeMode
	return cfg
}

// LoadFile decodes, defaults and validates a config file.
func LoadFile(path string) (Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(&cfg)
	default:
		err = json.NewDecoder(file).Decode(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.ConfigFile = path
	cfg.LogLevel = zerolog.InfoLevel
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/homenode.db"
	}
	if cfg.TemperatureSensorPath == "" {
		cfg.TemperatureSensorPath = "/sys/bus/iio/devices/iio:device0/in_temp_input"
	}
	if cfg.ConsoleBaud == 0 {
		cfg.ConsoleBaud = 9600
	}
	if cfg.DDAgentAddr == "" {
		cfg.DDAgentAddr = "127.0.0.1:8125"
	}
	if cfg.DDNamespace == "" {
		cfg.DDNamespace = "homenode."
	}
	for _, s := range cfg.Servos {
		if s == nil {
			continue
		}
		if s.PeriodMicros == 0 {
			s.PeriodMicros = 20000
		}
		if s.ClosedPulseMicros == 0 {
			s.ClosedPulseMicros = 1000
		}
		if s.OpenPulseMicros == 0 {
			s.OpenPulseMicros = 1500
		}
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Pin resolves a configured GPIO entry, applying the relay board polarity
// when the entry does not set its own.
func (cfg *Config) Pin(name string) (model.GPIOPin, bool) {
	p, ok := cfg.GPIO[name]
	if !ok || p == nil {
		return model.GPIOPin{}, false
	}
	activeHigh := cfg.RelayBoardActiveHigh
	if p.ActiveHigh != nil {
		activeHigh = *p.ActiveHigh
	}
	return model.GPIOPin{Number: p.Pin, ActiveHigh: activeHigh}, true
}

// OutputPins returns every configured relay pin keyed by name. The motion
// sensor input is excluded.
func (cfg *Config) OutputPins() map[string]model.GPIOPin {
	out := make(map[string]model.GPIOPin)
	for name := range cfg.GPIO {
		if name == GPIOMotionSensor {
			continue
		}
		if pin, ok := cfg.Pin(name); ok {
			out[name] = pin
		}
	}
	return out
}

func (cfg *Config) validate() error {
	var (
		missingFields []string
		usedPins      = map[int]string{}
		conflicts     []string
	)

	for _, name := range RequiredGPIO {
		if p, ok := cfg.GPIO[name]; !ok || p == nil {
			missingFields = append(missingFields, "gpio."+name)
		}
	}
	for _, name := range RequiredServos {
		if s, ok := cfg.Servos[name]; !ok || s == nil {
			missingFields = append(missingFields, "servos."+name)
		}
	}

	names := make([]string, 0, len(cfg.GPIO))
	for name := range cfg.GPIO {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := cfg.GPIO[name]
		if p == nil {
			continue
		}
		if other, exists := usedPins[p.Pin]; exists {
			conflicts = append(conflicts, fmt.Sprintf("gpio.%s and gpio.%s both use pin %d", name, other, p.Pin))
		} else {
			usedPins[p.Pin] = name
		}
	}

	usedChannels := map[[2]int]string{}
	servoNames := make([]string, 0, len(cfg.Servos))
	for name := range cfg.Servos {
		servoNames = append(servoNames, name)
	}
	sort.Strings(servoNames)
	for _, name := range servoNames {
		s := cfg.Servos[name]
		if s == nil {
			continue
		}
		key := [2]int{s.Chip, s.Channel}
		if other, exists := usedChannels[key]; exists {
			conflicts = append(conflicts, fmt.Sprintf("servos.%s and servos.%s both use pwmchip%d/pwm%d", name, other, s.Chip, s.Channel))
		} else {
			usedChannels[key] = name
		}
		if s.OpenPulseMicros >= s.PeriodMicros || s.ClosedPulseMicros >= s.PeriodMicros {
			conflicts = append(conflicts, fmt.Sprintf("servos.%s pulse width exceeds period", name))
		}
	}

	if cfg.SensorReadRetries < 0 {
		conflicts = append(conflicts, "sensor_read_retries must not be negative")
	}

	var problems []string
	if len(missingFields) > 0 {
		problems = append(problems, "missing required config fields: "+strings.Join(missingFields, ", "))
	}
	if len(conflicts) > 0 {
		problems = append(problems, "invalid config: "+strings.Join(conflicts, ", "))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
