package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config file, a .env file and the
// environment, in increasing order of precedence. An empty path searches
// ./configs and the working directory for config.yaml
func Load(path string) (*Config, error) {
	// A missing .env is normal in production
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.static_dir", "public")

	v.SetDefault("store.backend", BackendSheets)
	v.SetDefault("store.spreadsheet_id", "")
	v.SetDefault("store.credentials_file", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.timeout", "10s")
	v.SetDefault("store.read_attempts", 3)
	v.SetDefault("store.retry_backoff", "500ms")

	v.SetDefault("ranges.programs", "program!A2:D13")
	v.SetDefault("ranges.directory", "name")
	v.SetDefault("ranges.ledger_read", "input!A2:F")
	v.SetDefault("ranges.ledger_append", "input!A:F")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindLegacyEnv keeps the variable names the deployment already uses
func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string]string{
		"server.port":            "PORT",
		"store.spreadsheet_id":   "SPREADSHEET_ID",
		"store.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
		"store.database_url":     "DATABASE_URL",
	}
	for key, env := range legacy {
		upper := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(upper); ok {
			continue
		}
		_ = v.BindEnv(key, env)
	}
}
