package temperature

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/config"
	"github.com/thatsimonsguy/homenode/internal/gpio"
	"github.com/thatsimonsguy/homenode/internal/model"
	"github.com/thatsimonsguy/homenode/internal/pinctrl"
)

// The DHT11 refuses reads closer together than this.
const retryDelay = 2 * time.Second

var sleep = time.Sleep

// ReadSensorTemp reads an IIO temperature channel, which reports
// millidegrees Celsius.
var ReadSensorTemp = func(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return parseMilliCelsius(string(data))
}

func parseMilliCelsius(raw string) (float64, error) {
	milli, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse temperature %q: %w", strings.TrimSpace(raw), err)
	}
	temp := float64(milli) / 1000.0
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		return 0, fmt.Errorf("temperature %q is not a number", raw)
	}
	return temp, nil
}

// Sensors reads the room temperature and the motion detector.
type Sensors struct {
	tempPath string
	retries  int
	motion   model.GPIOPin
}

func NewSensors(tempPath string, retries int, motion model.GPIOPin) *Sensors {
	return &Sensors{tempPath: tempPath, retries: retries, motion: motion}
}

func FromConfig(cfg *config.Config) *Sensors {
	motion, _ := cfg.Pin(config.GPIOMotionSensor)
	return NewSensors(cfg.TemperatureSensorPath, cfg.SensorReadRetries, motion)
}

// ReadTemperature returns degrees Celsius. It retries a failed read up to
// the configured count and then fails with model.ErrSensorUnavailable.
func (s *Sensors) ReadTemperature() (float64, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			sleep(retryDelay)
		}
		temp, err := ReadSensorTemp(s.tempPath)
		if err == nil {
			log.Debug().Float64("temp", temp).Int("attempt", attempt).Msg("Temperature read")
			return temp, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("Temperature read failed")
	}
	return 0, fmt.Errorf("%w: %v", model.ErrSensorUnavailable, lastErr)
}

// Setup configures the motion pin as a pulled-down input.
func (s *Sensors) Setup() error {
	if gpio.SafeMode() {
		return nil
	}
	if err := pinctrl.ConfigureInput(s.motion.Number); err != nil {
		return fmt.Errorf("configure motion pin %d: %w", s.motion.Number, err)
	}
	return nil
}

// ReadMotion reports whether the motion pin is at its active level.
func (s *Sensors) ReadMotion() bool {
	return gpio.CurrentlyActive(s.motion)
}
