package commands

import (
	"github.com/spf13/cobra"
)

// ReplayCommand holds the flags for the replay command.
type ReplayCommand struct {
	sessionPath string
	configPath  string
}

// NewReplayCommand creates and configures the replay command. replay
// rebuilds the editor state from a session's transcript without appending
// any new action, useful for inspecting where a session currently stands.
func NewReplayCommand() *cobra.Command {
	rc := &ReplayCommand{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a session's recorded actions and print the resulting document",
		RunE:  rc.Run,
	}

	cmd.Flags().StringVar(&rc.sessionPath, "session", "pmtool-session.json", "Session file to replay")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Path to pmtool's YAML config file")

	return cmd
}

// Run executes the replay command.
func (rc *ReplayCommand) Run(_ *cobra.Command, _ []string) error {
	sess, err := loadSession(rc.sessionPath)
	if err != nil {
		return err
	}

	opts, err := loadOptions(rc.configPath)
	if err != nil {
		return err
	}

	result, err := replay(sess, opts)
	if err != nil {
		return err
	}
	return printState(result.State)
}
