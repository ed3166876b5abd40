// Package cmd implements the assemblyzero driver's CLI surface: run,
// resume, and list, plus the exit-code contract each maps to.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martymcenroe/assemblyzero/internal/location"
	"github.com/martymcenroe/assemblyzero/internal/workflow"
)

// Exit codes: 0 on workflow end with no error, 1 on fatal error, 2 on
// unresolvable location, 3 on unresumable state.
const (
	ExitOK                  = 0
	ExitFatal               = 1
	ExitLocationUnresolvable = 2
	ExitUnresumable          = 3
)

var rootCmd = &cobra.Command{
	Use:           "assemblyzero",
	Short:         "Durable graph-structured workflow engine for LLD-driven TDD",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code, translating the
// error sentinels the driver cares about into their corresponding exit
// codes.
func Execute() int {
	err := rootCmd.Execute()
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, location.ErrUnresolvable):
		fmt.Fprintln(os.Stderr, "error:", err)
		return ExitLocationUnresolvable
	case errors.Is(err, workflow.ErrUnresumable):
		fmt.Fprintln(os.Stderr, "error:", err)
		return ExitUnresumable
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return ExitFatal
	}
}
