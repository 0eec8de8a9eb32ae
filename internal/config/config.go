package config

import (
	"fmt"
	"time"
)

const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// Config is the main application configuration struct
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Ranges  RangesConfig  `mapstructure:"ranges"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

// StoreConfig selects and configures the tabular backend
type StoreConfig struct {
	Backend         string        `mapstructure:"backend"`
	SpreadsheetID   string        `mapstructure:"spreadsheet_id"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	DatabaseURL     string        `mapstructure:"database_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ReadAttempts    int           `mapstructure:"read_attempts"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
}

// RangesConfig names the A1 ranges of the three tables
type RangesConfig struct {
	Programs     string `mapstructure:"programs"`
	Directory    string `mapstructure:"directory"`
	LedgerRead   string `mapstructure:"ledger_read"`
	LedgerAppend string `mapstructure:"ledger_append"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSheets:
		if c.Store.SpreadsheetID == "" {
			return fmt.Errorf("store.spreadsheet_id is required for the sheets backend")
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	if c.Store.ReadAttempts < 1 {
		return fmt.Errorf("store.read_attempts must be at least 1")
	}
	for key, spec := range map[string]string{
		"ranges.programs":      c.Ranges.Programs,
		"ranges.directory":     c.Ranges.Directory,
		"ranges.ledger_read":   c.Ranges.LedgerRead,
		"ranges.ledger_append": c.Ranges.LedgerAppend,
	} {
		if spec == "" {
			return fmt.Errorf("%s is required", key)
		}
	}
	return nil
}
