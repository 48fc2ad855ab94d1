package config

import (
	"fmt"
	"os"

	"github.com/Veraticus/spend/internal/common"
	"github.com/Veraticus/spend/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or SPEND_ env vars)
// 2. Direct environment variables (SPREADSHEET_ID, GOOGLE_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	setString(&config.Backend, "sheets.backend")
	setString(&config.SpreadsheetID, "sheets.spreadsheet_id")
	setString(&config.ServiceAccountJSON, "sheets.service_account_json")
	setString(&config.ServiceAccountPath, "sheets.service_account_path")
	setString(&config.ClientID, "sheets.client_id")
	setString(&config.ClientSecret, "sheets.client_secret")
	setString(&config.RefreshToken, "sheets.refresh_token")
	setString(&config.Header, "sheets.header")
	setString(&config.Locale, "sheets.locale")
	setString(&config.TimeZone, "sheets.time_zone")
	setInt(&config.NewTabRows, "sheets.new_tab_rows")
	setInt(&config.NewTabCols, "sheets.new_tab_cols")
	setInt(&config.GrowRows, "sheets.grow_rows")
	setInt(&config.ScanRows, "sheets.scan_rows")

	config.LoadFromEnv()

	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: sheets: %w", common.ErrInvalidConfig, err)
	}

	return &config, nil
}

func setString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

func fallbackEnv(dst *string, name string) {
	if *dst == "" {
		*dst = os.Getenv(name)
	}
}
