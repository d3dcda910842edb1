package commands

import (
	"github.com/spf13/cobra"
)

// UndoCommand holds the flags for the undo command.
type UndoCommand struct {
	sessionPath string
	configPath  string
}

// NewUndoCommand creates and configures the undo command.
func NewUndoCommand() *cobra.Command {
	uc := &UndoCommand{}

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last recorded change in a session",
		RunE:  uc.Run,
	}

	cmd.Flags().StringVar(&uc.sessionPath, "session", "pmtool-session.json", "Session file to read from and write to")
	cmd.Flags().StringVar(&uc.configPath, "config", "", "Path to pmtool's YAML config file")

	return cmd
}

// Run executes the undo command.
func (uc *UndoCommand) Run(_ *cobra.Command, _ []string) error {
	sess, err := loadSession(uc.sessionPath)
	if err != nil {
		return err
	}

	opts, err := loadOptions(uc.configPath)
	if err != nil {
		return err
	}

	sess.Actions = append(sess.Actions, action{Kind: actionUndo})
	after, err := replay(sess, opts)
	if err != nil {
		return err
	}

	if err := sess.save(uc.sessionPath); err != nil {
		return err
	}
	return printState(after.State)
}
