package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeDotEnv(t *testing.T, dir string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"API_KEY", "DATE_INI", "DATE_END", "GET_DATA_FROM_QAS", "DEBUG", "API_TIMEOUT", "MAX_RETRIES", "CA_BUNDLE"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, "QAS", cfg.Environment)
	require.Equal(t, QASBaseURL, cfg.BaseURL)
	require.Equal(t, "2010/01/01", cfg.DateIni)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	require.Equal(t, DefaultPageSize, cfg.PageSize)
	require.False(t, cfg.Debug)

	// default end date is three months out
	dateEnd, err := time.Parse(DateFormat, cfg.DateEnd)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().AddDate(0, 3, 0), dateEnd, 48*time.Hour)
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "DATE_INI=2021/01/01\n")

	_, err := Load(dir)
	require.ErrorContains(t, err, "API_KEY")
}

func TestLoadNoDotEnv(t *testing.T) {
	clearEnv(t)

	_, err := Load(t.TempDir())
	require.ErrorContains(t, err, ".env")
}

func TestLoadEnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=from-file\n")
	t.Setenv("API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.APIKey)
}

func TestLoadProductionEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\nGET_DATA_FROM_QAS=false\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "Production", cfg.Environment)
	require.Equal(t, ProdBaseURL, cfg.BaseURL)
}

func TestLoadInvalidDate(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\nDATE_INI=01-01-2021\n")

	_, err := Load(dir)
	require.ErrorContains(t, err, "YYYY/MM/DD")
}

func TestLoadDateRangeOrder(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\nDATE_INI=2024/06/01\nDATE_END=2021/01/01\n")

	_, err := Load(dir)
	require.ErrorContains(t, err, "before or equal to end date")
}

func TestLoadInvalidTimeoutFallsBack(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\nAPI_TIMEOUT=banana\nMAX_RETRIES=-3\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
}

func TestLoadTimeoutAndRetries(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\nAPI_TIMEOUT=300\nMAX_RETRIES=10\nDEBUG=yes\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 300*time.Second, cfg.Timeout)
	require.Equal(t, 10, cfg.MaxRetries)
	require.True(t, cfg.Debug)
}

func TestLoadProjectFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDotEnv(t, dir, "API_KEY=secret\n")
	projectYAML := "qas_base_url: http://localhost:9999/components/systemTest/gtp\npage_size: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gsy.yaml"), []byte(projectYAML), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9999/components/systemTest/gtp", cfg.BaseURL)
	require.Equal(t, 50, cfg.PageSize)
}

func TestSARBaseURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://example.com/components/systemTest/gtp"}
	require.Equal(t, "https://example.com/components/systemTest/sar", cfg.SARBaseURL())
}
