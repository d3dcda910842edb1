// Package main provides the entry point for the pmtool command line tool,
// a small driver for exercising a document schema, its transform steps, and
// the undo history plugin from outside of Go tests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-doceng/doceng/cmd/pmtool/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pmtool",
		Short: "pmtool applies transactions to a document and tracks undo history",
		Long: `pmtool drives an editor state from the command line.

Commands:
  apply   Apply a step list to a session, starting one if needed
  undo    Undo the last recorded change
  redo    Redo the last undone change
  replay  Print the document a session's transcript currently produces`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewApplyCommand())
	rootCmd.AddCommand(commands.NewUndoCommand())
	rootCmd.AddCommand(commands.NewRedoCommand())
	rootCmd.AddCommand(commands.NewReplayCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
