// Package cmd wires the bespon CLI's cobra command tree. It is a thin
// demonstration shell over the library's Parse/ParseRoundTrip/Serialize
// entry points — the CLI itself carries none of the loader's logic.
//
// Grounded on vippsas-sqlcode's cli/cmd package (root.go + one file per
// subcommand, each registering itself via init()).
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/malphas-lang/bespon-go/internal/diag"
)

var (
	rootCmd = &cobra.Command{
		Use:          "bespon",
		Short:        "bespon",
		SilenceUsage: true,
		Long:         `bespon parses, round-trip-edits, and serializes BespON configuration documents.`,
	}

	useRepr bool
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().BoolVar(&useRepr, "repr", false, "dump decoded values with alecthomas/repr instead of re-serializing them")
	return rootCmd.Execute()
}

// newFormatter builds a diag.Formatter (writing to stderr, its default)
// with ANSI underline coloring enabled only when stderr is an
// interactive terminal.
func newFormatter() *diag.Formatter {
	f := diag.NewFormatter()
	return f.WithColor(term.IsTerminal(int(os.Stderr.Fd())))
}
