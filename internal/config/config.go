// Package config loads the bridge configuration from env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects the spreadsheet the bridge talks to
type Backend string

const (
	BackendGoogleSheets Backend = "googlesheets"
	BackendExcel        Backend = "excel"
	BackendMemory       Backend = "memory"
)

// ExpectedToken is the API token the bridge is deployed with. A different
// token is reported at startup but does not stop the bridge.
const ExpectedToken = "CLAVESHEETSJESSICA"

// Defaults
const (
	DefaultPort               = "3000"
	DefaultServiceAccountFile = "service-account.json"
	DefaultSheet              = "Test4Jessica"
)

// DefaultEnvFiles are read in order when Load gets no file. Earlier files win.
var DefaultEnvFiles = []string{"baul.env", ".env"}

var (
	ErrMissingSpreadsheetID  = errors.New("SPREADSHEET_ID is required")
	ErrMissingServiceAccount = errors.New("SERVICE_ACCOUNT_FILE is required")
	ErrMissingExcelFile      = errors.New("EXCEL_FILE is required")
	ErrUnknownBackend        = errors.New("unknown backend")
	ErrInvalidPort           = errors.New("invalid port")
)

// Config is the whole bridge configuration. It is built once and passed down.
type Config struct {
	Port               string
	APIToken           string
	SpreadsheetID      string
	Backend            Backend
	ServiceAccountFile string
	ExcelFile          string
	DefaultSheet       string
	LogLevel           string
	LogFormat          string

	// EnvFiles lists the env files that were found and read
	EnvFiles []string
}

// Load reads envFiles (DefaultEnvFiles when none are given) and the process
// environment. Variables already set in the environment take precedence over
// the files. Missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}

	fileEnv := make(map[string]string)
	var loaded []string

	for _, path := range envFiles {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}

		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for key, value := range values {
			if _, ok := fileEnv[key]; !ok {
				fileEnv[key] = value
			}
		}
		loaded = append(loaded, path)
	}

	config := fromLookup(func(key string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return fileEnv[key]
	})
	config.EnvFiles = loaded

	return config, nil
}

func fromLookup(get func(string) string) *Config {
	or := func(key, fallback string) string {
		if value := strings.TrimSpace(get(key)); value != "" {
			return value
		}
		return fallback
	}

	return &Config{
		Port:               or("PORT", DefaultPort),
		APIToken:           get("API_TOKEN"),
		SpreadsheetID:      or("SPREADSHEET_ID", ""),
		Backend:            Backend(strings.ToLower(or("SHEETBRIDGE_BACKEND", string(BackendGoogleSheets)))),
		ServiceAccountFile: or("SERVICE_ACCOUNT_FILE", or("GOOGLE_APPLICATION_CREDENTIALS", DefaultServiceAccountFile)),
		ExcelFile:          or("EXCEL_FILE", ""),
		DefaultSheet:       or("DEFAULT_SHEET", DefaultSheet),
		LogLevel:           or("LOG_LEVEL", "info"),
		LogFormat:          or("LOG_FORMAT", "text"),
	}
}

// Validate checks the settings required by the selected backend
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, c.Port)
	}

	switch c.Backend {
	case BackendGoogleSheets:
		if c.SpreadsheetID == "" {
			return ErrMissingSpreadsheetID
		}
		if c.ServiceAccountFile == "" {
			return ErrMissingServiceAccount
		}
	case BackendExcel:
		if c.ExcelFile == "" {
			return ErrMissingExcelFile
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	return nil
}

// TokenMatches reports whether API_TOKEN is the expected token
func (c *Config) TokenMatches() bool {
	return c.APIToken == ExpectedToken
}
