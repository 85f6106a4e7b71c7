package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runValidate(t *testing.T, args ...string) error {
	t.Helper()
	cmd, err := NewRootCommand()
	require.NoError(t, err)
	cmd.SetArgs(append([]string{"validate"}, args...))
	return cmd.Execute()
}

func TestValidateValidManifest(t *testing.T) {
	path := writeManifest(t, "pandas>=2.1.0\nrequests==2.32.0\n\n# comment\nopenpyxl~=3.1\n")
	require.NoError(t, runValidate(t, path))
}

func TestValidateRejectsMissingComparator(t *testing.T) {
	path := writeManifest(t, "pandas 2.1.0\n")
	err := runValidate(t, path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 problem(s) found")
}

func TestValidateRejectsConflictingDuplicates(t *testing.T) {
	path := writeManifest(t, "pandas>=2.1.0\npandas==2.0.0\n")
	require.Error(t, runValidate(t, path))
}

func TestValidateAllowsRedundantDuplicates(t *testing.T) {
	path := writeManifest(t, "pandas>=2.1.0\npandas>=2.1.0\n")
	require.NoError(t, runValidate(t, path))
}

func TestValidateMissingFile(t *testing.T) {
	err := runValidate(t, filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
