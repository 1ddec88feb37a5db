package startup

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/config"
	"github.com/thatsimonsguy/homenode/internal/pinctrl"
)

// WriteStartupScript writes a bash script that drives every output pin to
// its inactive level.
func WriteStartupScript(cfg *config.Config) error {
	if cfg.BootScriptFilePath == "" {
		return fmt.Errorf("boot script path not configured")
	}

	var lines []string
	lines = append(lines, "#!/bin/bash", "", "# homenode GPIO pin configuration at boot", "")

	outputs := cfg.OutputPins()
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pin := outputs[name]
		lines = append(lines, fmt.Sprintf("# %s", name))
		lines = append(lines, fmt.Sprintf("pinctrl set %d op pn %s", pin.Number, pinctrl.DriveFlag(!pin.ActiveHigh)))
		lines = append(lines, "")
	}

	if motion, ok := cfg.Pin(config.GPIOMotionSensor); ok {
		lines = append(lines, "# "+config.GPIOMotionSensor)
		lines = append(lines, fmt.Sprintf("pinctrl set %d ip pd", motion.Number))
		lines = append(lines, "")
	}

	contents := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(cfg.BootScriptFilePath, []byte(contents), 0755); err != nil {
		return fmt.Errorf("write boot script: %w", err)
	}
	log.Info().Str("path", cfg.BootScriptFilePath).Int("pins", len(names)).Msg("Boot script written")
	return nil
}

// InstallStartupService writes a oneshot systemd unit that runs the boot script.
func InstallStartupService(cfg *config.Config) error {
	if cfg.BootServicePath == "" {
		return fmt.Errorf("boot service path not configured")
	}

	unitContents := fmt.Sprintf(`[Unit]
Description=Configure homenode GPIO pins at boot
After=local-fs.target

[Service]
Type=oneshot
Environment=PATH=/usr/local/bin:/usr/bin:/bin
ExecStart=/bin/bash %s
RemainAfterExit=true

[Install]
WantedBy=multi-user.target
`, cfg.BootScriptFilePath)

	return os.WriteFile(cfg.BootServicePath, []byte(unitContents), 0644)
}

var runScript = func(path string) error {
	cmd := exec.Command("/bin/bash", path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// RunStartupScript executes the boot script now, skipping it in safe mode.
func RunStartupScript(cfg *config.Config) error {
	if cfg.SafeMode {
		log.Info().Msg("Safe mode, not running boot script")
		return nil
	}
	if err := runScript(cfg.BootScriptFilePath); err != nil {
		return fmt.Errorf("run boot script: %w", err)
	}
	return nil
}
