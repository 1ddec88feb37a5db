package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/controller"
	"github.com/thatsimonsguy/homenode/internal/model"
)

// Controller is the part of the control API the console drives.
type Controller interface {
	SetState(id model.DeviceID, on bool, degree float64) error
	SetStateSimple(id model.DeviceID, on bool) error
	GetState(id model.DeviceID) (model.DeviceState, error)
	IsAlarmTriggered(id model.DeviceID) (bool, error)
	RefreshClimate() (model.ClimateOutputs, error)
	List() []controller.DeviceStatus
}

const helpText = "set <device> on|off [degree], get <device>, alarm <device>, climate, list, help"

type Console struct {
	ctrl Controller
}

func New(ctrl Controller) *Console {
	return &Console{ctrl: ctrl}
}

// Run executes commands read from r until r is exhausted or ctx is done,
// writing one reply line per command to w. Commands run on the calling
// goroutine.
func (c *Console) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	log.Info().Msg("Console ready")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Console stopping")
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read console: %w", err)
					}
				default:
				}
				log.Info().Msg("Console input closed")
				return nil
			}
			reply := c.Execute(line)
			if reply == "" {
				continue
			}
			if _, err := fmt.Fprintln(w, reply); err != nil {
				return fmt.Errorf("write console: %w", err)
			}
		}
	}
}

// Execute runs one command line and returns its reply. Blank lines return
// an empty reply.
func (c *Console) Execute(line string) string {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ""
	}

	log.Debug().Str("command", line).Msg("Console command")

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "set":
		return c.set(args)
	case "get":
		return c.get(args)
	case "alarm":
		return c.alarm(args)
	case "climate":
		out, err := c.ctrl.RefreshClimate()
		if err != nil {
			return errReply(err)
		}
		return fmt.Sprintf("OK heat=%t cool=%t", out.Heat, out.Cool)
	case "list":
		return c.list()
	case "help":
		return "OK " + helpText
	default:
		return fmt.Sprintf("ERR unknown command %q", cmd)
	}
}

func (c *Console) set(args []string) string {
	if len(args) < 2 || len(args) > 3 {
		return "ERR usage: set <device> on|off [degree]"
	}
	id := model.DeviceID(args[0])

	var on bool
	switch args[1] {
	case "on":
		on = true
	case "off":
	default:
		return fmt.Sprintf("ERR expected on or off, got %q", args[1])
	}

	var err error
	if len(args) == 3 {
		degree, perr := strconv.ParseFloat(args[2], 64)
		if perr != nil {
			return fmt.Sprintf("ERR invalid degree %q", args[2])
		}
		err = c.ctrl.SetState(id, on, degree)
	} else {
		err = c.ctrl.SetStateSimple(id, on)
	}
	if err != nil {
		return errReply(err)
	}
	return c.get(args[:1])
}

func (c *Console) get(args []string) string {
	if len(args) != 1 {
		return "ERR usage: get <device>"
	}
	st, err := c.ctrl.GetState(model.DeviceID(args[0]))
	if err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("OK %s %s", args[0], formatState(st))
}

func (c *Console) alarm(args []string) string {
	if len(args) != 1 {
		return "ERR usage: alarm <device>"
	}
	triggered, err := c.ctrl.IsAlarmTriggered(model.DeviceID(args[0]))
	if err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("OK %s triggered=%t", args[0], triggered)
}

func (c *Console) list() string {
	var b strings.Builder
	b.WriteString("OK")
	for _, d := range c.ctrl.List() {
		fmt.Fprintf(&b, " %s[%s]:%s", d.ID, d.Kind, formatState(d.State))
	}
	return b.String()
}

func formatState(st model.DeviceState) string {
	return fmt.Sprintf("on=%t setpoint=%s", st.On, strconv.FormatFloat(st.Setpoint, 'f', -1, 64))
}

func errReply(err error) string {
	return "ERR " + err.Error()
}
