package shutdown

import (
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/datadog"
)

// Resetter drives every device to its off state.
type Resetter interface {
	Reset() error
}

// Shutdown turns every device off and flushes metrics. It returns the reset
// error, if any, after logging it.
func Shutdown(r Resetter) error {
	log.Info().Msg("Shutting down, driving all devices off")

	err := r.Reset()
	if err != nil {
		log.Error().Err(err).Msg("Some devices failed to reset during shutdown")
	} else {
		log.Info().Msg("All devices off")
	}

	datadog.Close()
	return err
}

func ShutdownWithError(r Resetter, err error, msg string) error {
	log.Error().Err(err).Msg(msg)
	return Shutdown(r)
}
