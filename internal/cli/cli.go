package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Cleanup *CleanupCommand
	Seed    *SeedCommand
	Status  *StatusCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "nflog"
	parser.LongDescription = "Admin tooling for the not-found event log: retention cleanup, seed data, and store status."

	cmds := &commands{
		Cleanup: &CleanupCommand{globals: &globals},
		Seed:    &SeedCommand{globals: &globals},
		Status:  &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("cleanup", "Delete events past the retention horizon", "Delete not-found events older than the given number of days, in bounded batches.", cmds.Cleanup)
	parser.AddCommand("seed", "Generate randomized events", "Generate randomized not-found events for development and demo environments.", cmds.Seed)
	parser.AddCommand("status", "Print store statistics", "Print event-store statistics: totals, groups, and the covered time range.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the nflog CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	// --version is valid without a subcommand, which go-flags otherwise
	// requires.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--" {
			break
		}
		if arg == "--version" {
			fmt.Printf("nflog %s\n", version)
			return nil
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	return err
}
