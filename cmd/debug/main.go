package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/thatsimonsguy/homenode/db"
	"github.com/thatsimonsguy/homenode/internal/pinctrl"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var dbPath, command string
	var limit int
	var olderThan time.Duration
	flag.StringVar(&dbPath, "db", "data/homenode.db", "Path to the SQLite audit database")
	flag.StringVar(&command, "cmd", "", "Command to run: arm-events, prune-arm-events, pins")
	flag.IntVar(&limit, "limit", 20, "Number of arm events to show (0 for all)")
	flag.DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age cutoff for prune-arm-events")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of homenode-debug:")
		fmt.Println("  -db string\tPath to the SQLite audit database (default 'data/homenode.db')")
		fmt.Println("  -cmd string\tCommand to run: arm-events, prune-arm-events, pins")
		fmt.Println("  -limit int\tNumber of arm events to show (0 for all)")
		fmt.Println("  -older-than duration\tAge cutoff for prune-arm-events (default 720h)")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	var err error
	switch command {
	case "arm-events":
		err = printArmEvents(dbPath, limit)
	case "prune-arm-events":
		var n int64
		n, err = db.PruneArmEventsCLI(dbPath, olderThan)
		if err == nil {
			fmt.Printf("Removed %d arm events\n", n)
		}
	case "pins":
		err = printPins()
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
}

func printArmEvents(dbPath string, limit int) error {
	events, err := db.ListArmEventsCLI(dbPath, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No arm events recorded")
		return nil
	}
	for _, ev := range events {
		action := "disarmed"
		if ev.Armed {
			action = "armed"
		}
		fmt.Printf("%s  %-16s %-8s %s\n", ev.CreatedAt.Local().Format(time.DateTime), ev.Device, action, ev.ID)
	}
	return nil
}

func printPins() error {
	pins, err := pinctrl.ReadAllPins()
	if err != nil {
		return err
	}
	numbers := make([]int, 0, len(pins))
	for n := range pins {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		p := pins[n]
		fmt.Printf("GPIO%-3d %-3s %-3s %-3s %-3s %s\n", p.Pin, p.Mode, p.Pull, p.Drive, p.Level, p.Comment)
	}
	return nil
}
