package console

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// OpenSerial opens the console port at the given baud, 8N1.
func OpenSerial(portPath string, baud int) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	log.Info().Str("port", portPath).Int("baud", baud).Msg("Serial console opened")
	return port, nil
}
