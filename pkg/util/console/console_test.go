package console

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetFileAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	c := &Console{Level: InfoLevel}

	require.NoError(t, c.SetFile(path))
	c.Info("first run")
	require.NoError(t, c.CloseFile())

	require.NoError(t, c.SetFile(path))
	c.Info("second run")
	require.NoError(t, c.CloseFile())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "first run")
	require.Contains(t, string(content), "second run")
}

func TestFileLinesAreTimestamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	c := &Console{Level: InfoLevel}

	require.NoError(t, c.SetFile(path))
	c.Info("hello")
	require.NoError(t, c.CloseFile())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - hello`, string(content))
}

func TestFileIgnoresMessagesBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	c := &Console{Level: InfoLevel}

	require.NoError(t, c.SetFile(path))
	c.Debug("hidden")
	c.Info("shown")
	require.NoError(t, c.CloseFile())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(content), "hidden")
	require.Contains(t, string(content), "shown")
}
