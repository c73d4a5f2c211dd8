package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BILLPLAN_DATABASE_PATH.
const EnvPrefix = "BILLPLAN"

// Settings holds application settings. Plan data lives in the plan file;
// these are per-machine preferences.
type Settings struct {
	Database DatabaseSettings `mapstructure:"database"`
	Output   OutputSettings   `mapstructure:"output"`
	Server   ServerSettings   `mapstructure:"server"`
	Plan     PlanSettings     `mapstructure:"plan"`
}

// DatabaseSettings holds sqlite settings.
type DatabaseSettings struct {
	Path string `mapstructure:"path"`
}

// OutputSettings holds presentation settings.
type OutputSettings struct {
	Format         string `mapstructure:"format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// ServerSettings holds HTTP API settings.
type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

// PlanSettings points at the default plan file.
type PlanSettings struct {
	Path string `mapstructure:"path"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "billplan")
}

// DefaultPath is where settings are read from when no path is given.
func DefaultPath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "billplan", "config.toml")
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "billplan.db"))
	v.SetDefault("output.format", "console")
	v.SetDefault("output.currency_symbol", "$")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("plan.path", "plan.yaml")

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads settings from path (DefaultPath when empty) and the
// environment. A missing file is not an error; a malformed one is.
func Load(path string) (Settings, error) {
	v := newViper()
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}

// Save writes settings to path (DefaultPath when empty).
func Save(s Settings, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", s.Database.Path)
	v.Set("output.format", s.Output.Format)
	v.Set("output.currency_symbol", s.Output.CurrencySymbol)
	v.Set("server.addr", s.Server.Addr)
	v.Set("plan.path", s.Plan.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
