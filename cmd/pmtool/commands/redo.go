package commands

import (
	"github.com/spf13/cobra"
)

// RedoCommand holds the flags for the redo command.
type RedoCommand struct {
	sessionPath string
	configPath  string
}

// NewRedoCommand creates and configures the redo command.
func NewRedoCommand() *cobra.Command {
	rc := &RedoCommand{}

	cmd := &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change in a session",
		RunE:  rc.Run,
	}

	cmd.Flags().StringVar(&rc.sessionPath, "session", "pmtool-session.json", "Session file to read from and write to")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Path to pmtool's YAML config file")

	return cmd
}

// Run executes the redo command.
func (rc *RedoCommand) Run(_ *cobra.Command, _ []string) error {
	sess, err := loadSession(rc.sessionPath)
	if err != nil {
		return err
	}

	opts, err := loadOptions(rc.configPath)
	if err != nil {
		return err
	}

	sess.Actions = append(sess.Actions, action{Kind: actionRedo})
	after, err := replay(sess, opts)
	if err != nil {
		return err
	}

	if err := sess.save(rc.sessionPath); err != nil {
		return err
	}
	return printState(after.State)
}
