package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-doceng/doceng/history"
)

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func helloDoc() map[string]interface{} {
	return map[string]interface{}{
		"type": "doc",
		"content": []interface{}{
			map[string]interface{}{
				"type":    "paragraph",
				"content": []interface{}{map[string]interface{}{"type": "text", "text": "hello"}},
			},
		},
	}
}

func insertStep(from, to int, text string) map[string]interface{} {
	return map[string]interface{}{
		"stepType": "replace",
		"from":     from,
		"to":       to,
		"slice": map[string]interface{}{
			"content": []interface{}{map[string]interface{}{"type": "text", "text": text}},
		},
	}
}

func TestApplyStartsNewSessionFromDoc(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	sessionPath := filepath.Join(dir, "session.json")
	writeJSON(t, docPath, helloDoc())

	ac := &ApplyCommand{docPath: docPath, sessionPath: sessionPath, schema: "basic"}
	require.NoError(t, ac.Run(nil, nil))

	sess, err := loadSession(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, "basic", sess.Schema)
	assert.Empty(t, sess.Actions)
}

func TestApplyAppendsStepsAndUndoRevertsThem(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	stepsPath := filepath.Join(dir, "steps.json")
	sessionPath := filepath.Join(dir, "session.json")
	writeJSON(t, docPath, helloDoc())
	writeJSON(t, stepsPath, []interface{}{insertStep(6, 6, "!")})

	ac := &ApplyCommand{docPath: docPath, sessionPath: sessionPath, schema: "basic"}
	require.NoError(t, ac.Run(nil, nil))

	ac2 := &ApplyCommand{stepsPath: stepsPath, sessionPath: sessionPath}
	require.NoError(t, ac2.Run(nil, nil))

	opts := history.Options{}
	sess, err := loadSession(sessionPath)
	require.NoError(t, err)
	result, err := replay(sess, opts)
	require.NoError(t, err)
	assert.Equal(t, "hello!", result.State.Doc.TextContent())
	assert.Equal(t, 1, history.UndoDepth(result.State))

	uc := &UndoCommand{sessionPath: sessionPath}
	require.NoError(t, uc.Run(nil, nil))

	sess, err = loadSession(sessionPath)
	require.NoError(t, err)
	result, err = replay(sess, opts)
	require.NoError(t, err)
	assert.Equal(t, "hello", result.State.Doc.TextContent())

	rc := &RedoCommand{sessionPath: sessionPath}
	require.NoError(t, rc.Run(nil, nil))

	sess, err = loadSession(sessionPath)
	require.NoError(t, err)
	result, err = replay(sess, opts)
	require.NoError(t, err)
	assert.Equal(t, "hello!", result.State.Doc.TextContent())
}

func TestReplayDoesNotMutateSession(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	sessionPath := filepath.Join(dir, "session.json")
	writeJSON(t, docPath, helloDoc())

	ac := &ApplyCommand{docPath: docPath, sessionPath: sessionPath, schema: "basic"}
	require.NoError(t, ac.Run(nil, nil))

	before, err := os.ReadFile(sessionPath)
	require.NoError(t, err)

	rc := &ReplayCommand{sessionPath: sessionPath}
	require.NoError(t, rc.Run(nil, nil))

	after, err := os.ReadFile(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
