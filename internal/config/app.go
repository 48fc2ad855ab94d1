package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StoragePath returns the session database location.
func StoragePath() string {
	if p := viper.GetString("storage.path"); p != "" {
		return ExpandPath(p)
	}
	return filepath.Join(Dir(), "spend.db")
}

// LoggingConfig returns the configured log level and format.
func LoggingConfig() (level, format string) {
	level = viper.GetString("logging.level")
	if level == "" {
		level = "info"
	}
	return level, viper.GetString("logging.format")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(ExpandPath(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
