// Package sheets locates the expense block inside a monthly worksheet tab and
// appends formatted rows to it through the Google Sheets API.
package sheets

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Backend names accepted by Config.Backend.
const (
	BackendGoogle = "google"
	BackendMemory = "memory"
)

// DefaultHeader is the label above the personal expenses block.
const DefaultHeader = "Траты на себя"

// Config holds the configuration for the spreadsheet backend.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	Backend            string
	Header             string
	Locale             string
	TimeZone           string
	NewTabRows         int
	NewTabCols         int
	GrowRows           int
	ScanRows           int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendGoogle,
		Header:     DefaultHeader,
		Locale:     "ru",
		TimeZone:   "Europe/Moscow",
		NewTabRows: 300,
		NewTabCols: 12,
		GrowRows:   DefaultGrowRows,
		ScanRows:   DefaultScanRows,
	}
}

// LoadFromEnv fills the spreadsheet id and credentials that are still empty from
// the plain environment variables used by existing deployments. Values already
// set win. Whether the result is usable is up to Validate.
func (c *Config) LoadFromEnv() {
	for _, v := range []struct {
		dst  *string
		name string
	}{
		{&c.SpreadsheetID, "SPREADSHEET_ID"},
		// Service account: inline JSON (hosted deployments) or a key file
		{&c.ServiceAccountJSON, "GOOGLE_SERVICE_ACCOUNT_JSON"},
		{&c.ServiceAccountPath, "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"},
		{&c.ClientID, "GOOGLE_SHEETS_CLIENT_ID"},
		{&c.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET"},
		{&c.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN"},
	} {
		if *v.dst == "" {
			*v.dst = os.Getenv(v.name)
		}
	}
}

func (c *Config) hasServiceAccount() bool {
	return c.ServiceAccountJSON != "" || c.ServiceAccountPath != ""
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Location resolves TimeZone, falling back to UTC when it is empty.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGoogle:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id is required")
		}

		if !c.hasOAuth() && !c.hasServiceAccount() {
			return fmt.Errorf("no authentication method configured")
		}

		if c.hasOAuth() && c.hasServiceAccount() {
			return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if strings.TrimSpace(c.Header) == "" {
		return fmt.Errorf("header label is required")
	}

	if c.NewTabRows <= 0 || c.NewTabCols <= 0 {
		return fmt.Errorf("new tab size must be positive")
	}

	if c.GrowRows <= 0 {
		return fmt.Errorf("grow rows must be positive")
	}

	if c.ScanRows <= 0 {
		return fmt.Errorf("scan rows must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}
