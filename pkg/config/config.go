// Package config loads the extraction settings from the environment, a .env file and an
// optional gsy.yaml project file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/gsy-tools/gsy/pkg/global"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

const (
	DefaultTimeout    = 180 * time.Second
	DefaultMaxRetries = 5
	DefaultPageSize   = 200

	// DateFormat is the YYYY/MM/DD layout used by the API date filters.
	DateFormat = "2006/01/02"

	defaultDateIni = "2010/01/01"

	QASBaseURL  = "https://ft-qas.embraer.com.br/components/systemTest/gtp"
	ProdBaseURL = "https://ft.embraer.com.br/components/systemTest/gtp"
)

type Config struct {
	APIKey      string
	DateIni     string
	DateEnd     string
	BaseURL     string
	Environment string
	Debug       bool
	Timeout     time.Duration
	MaxRetries  int
	PageSize    int
	CABundle    string
}

// projectFile is the optional gsy.yaml sitting next to the data, overriding endpoints
// and transport settings that don't belong in the environment.
type projectFile struct {
	QASBaseURL  string `yaml:"qas_base_url"`
	ProdBaseURL string `yaml:"prod_base_url"`
	CABundle    string `yaml:"ca_bundle"`
	PageSize    int    `yaml:"page_size"`
}

// Load builds the configuration for a run started in dir. A .env file is searched for in
// dir and its parents; values already present in the environment win over the file.
func Load(dir string) (*Config, error) {
	dotenvFound := false
	if path := findDotEnv(dir); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		console.Debugf("Loaded environment from %s", path)
		dotenvFound = true
	}

	project, err := loadProjectFile(dir)
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(os.Getenv("API_KEY"))
	if apiKey == "" {
		if !dotenvFound {
			return nil, fmt.Errorf("no .env file found and API_KEY is not set. Create a .env file with API_KEY=your_api_key_here")
		}
		return nil, fmt.Errorf("API_KEY is not defined in the .env file. Add: API_KEY=your_api_key_here")
	}

	cfg := &Config{
		APIKey:     apiKey,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		PageSize:   DefaultPageSize,
		CABundle:   os.Getenv("CA_BUNDLE"),
	}

	if parseBool(os.Getenv("GET_DATA_FROM_QAS"), true) {
		cfg.Environment = "QAS"
		cfg.BaseURL = QASBaseURL
		if project.QASBaseURL != "" {
			cfg.BaseURL = project.QASBaseURL
		}
	} else {
		cfg.Environment = "Production"
		cfg.BaseURL = ProdBaseURL
		if project.ProdBaseURL != "" {
			cfg.BaseURL = project.ProdBaseURL
		}
	}

	cfg.DateIni = os.Getenv("DATE_INI")
	if cfg.DateIni == "" {
		cfg.DateIni = defaultDateIni
	}
	dateIni, err := parseDate(cfg.DateIni, "DATE_INI")
	if err != nil {
		return nil, err
	}

	cfg.DateEnd = strings.TrimSpace(os.Getenv("DATE_END"))
	if cfg.DateEnd == "" {
		// Default horizon is three months out, matching the planning window of the
		// reports built from this data.
		cfg.DateEnd = time.Now().AddDate(0, 3, 0).Format(DateFormat)
	}
	dateEnd, err := parseDate(cfg.DateEnd, "DATE_END")
	if err != nil {
		return nil, err
	}

	if dateIni.After(dateEnd) {
		return nil, fmt.Errorf("start date (%s) must be before or equal to end date (%s)", cfg.DateIni, cfg.DateEnd)
	}

	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			console.Warnf("Invalid API_TIMEOUT value %q. Using default: %s", raw, DefaultTimeout)
		} else {
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}

	if raw := os.Getenv("MAX_RETRIES"); raw != "" {
		retries, err := strconv.Atoi(raw)
		if err != nil || retries < 0 {
			console.Warnf("Invalid MAX_RETRIES value %q. Using default: %d", raw, DefaultMaxRetries)
		} else {
			cfg.MaxRetries = retries
		}
	}

	if project.PageSize > 0 {
		cfg.PageSize = project.PageSize
	}
	if project.CABundle != "" && cfg.CABundle == "" {
		cfg.CABundle = project.CABundle
	}

	cfg.Debug = parseBool(os.Getenv("DEBUG"), false) || global.Debug

	return cfg, nil
}

// SARBaseURL returns the base URL of the SAR endpoint, which lives next to the GTP one.
func (c *Config) SARBaseURL() string {
	return strings.Replace(c.BaseURL, "/gtp", "/sar", 1)
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %q is not in YYYY/MM/DD format", field, value)
	}
	return t, nil
}

func parseBool(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func findDotEnv(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func loadProjectFile(dir string) (projectFile, error) {
	var project projectFile
	path := filepath.Join(dir, global.ConfigFilename)
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return project, nil
		}
		return project, err
	}
	if err := yaml.Unmarshal(contents, &project); err != nil {
		return project, fmt.Errorf("parsing %s: %w", path, err)
	}
	return project, nil
}
