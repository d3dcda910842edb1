package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ApplyCommand holds the flags for the apply command.
type ApplyCommand struct {
	docPath     string
	stepsPath   string
	schema      string
	configPath  string
	sessionPath string
}

// NewApplyCommand creates and configures the apply command. apply either
// starts a new session from --doc, or appends a transaction built from
// --steps onto an existing --session file.
func NewApplyCommand() *cobra.Command {
	ac := &ApplyCommand{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a transaction's steps to a document, printing the result",
		Long:  "Apply reads a JSON step list and replays it, together with any prior actions recorded in the session file, through an editor state with the history plugin enabled.",
		RunE:  ac.Run,
	}

	cmd.Flags().StringVar(&ac.sessionPath, "session", "pmtool-session.json", "Session file to read from and write to")
	cmd.Flags().StringVar(&ac.docPath, "doc", "", "JSON document file to start a new session from")
	cmd.Flags().StringVar(&ac.stepsPath, "steps", "", "JSON file containing a list of step descriptions to apply")
	cmd.Flags().StringVar(&ac.schema, "schema", "basic", "Schema to use when starting a new session")
	cmd.Flags().StringVar(&ac.configPath, "config", "", "Path to pmtool's YAML config file")

	return cmd
}

// Run executes the apply command.
func (ac *ApplyCommand) Run(_ *cobra.Command, _ []string) error {
	sess, err := ac.loadOrCreateSession()
	if err != nil {
		return err
	}

	if ac.stepsPath != "" {
		raw, err := os.ReadFile(ac.stepsPath)
		if err != nil {
			return fmt.Errorf("read steps %s: %w", ac.stepsPath, err)
		}
		var steps []map[string]interface{}
		if err := json.Unmarshal(raw, &steps); err != nil {
			return fmt.Errorf("parse steps %s: %w", ac.stepsPath, err)
		}
		sess.Actions = append(sess.Actions, action{Kind: actionSteps, Steps: steps})
	}

	opts, err := loadOptions(ac.configPath)
	if err != nil {
		return err
	}

	result, err := replay(sess, opts)
	if err != nil {
		return err
	}

	if err := sess.save(ac.sessionPath); err != nil {
		return err
	}
	return printState(result.State)
}

func (ac *ApplyCommand) loadOrCreateSession() (*session, error) {
	if _, err := os.Stat(ac.sessionPath); err == nil {
		return loadSession(ac.sessionPath)
	}
	if ac.docPath == "" {
		return nil, fmt.Errorf("no session at %s and no --doc given to start one", ac.sessionPath)
	}
	return newSession(ac.schema, ac.docPath)
}
