// Package config loads rc5 tool settings with viper: built-in defaults, then
// rc5.yaml, then RC5_* environment variables. Command-line flags are applied
// on top by the caller.
package config

import (
	"errors"
	"fmt"

	"rc5-go/pkg/appdir"
	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"

	"github.com/spf13/viper"
)

type Config struct {
	Variant       string `mapstructure:"variant"`
	LogLevel      string `mapstructure:"log_level"`
	LogDB         string `mapstructure:"log_db"` // empty disables the SQLite sink
	ListenAddress string `mapstructure:"listen_address"`
	Workers       int    `mapstructure:"workers"` // 0 means one per CPU
	Iterations    int    `mapstructure:"iterations"`
	CorpusSize    int    `mapstructure:"corpus_size"`

	ConfigFile string `mapstructure:"-"` // file actually read, if any
}

func DefaultConfig() *Config {
	return &Config{
		Variant:       "RC5-32/12/16",
		LogLevel:      "info",
		LogDB:         "",
		ListenAddress: ":7785",
		Workers:       0,
		Iterations:    10000,
		CorpusSize:    1000,
	}
}

// Load reads configuration. With an empty path rc5.yaml is searched for in
// the working directory, ~/.rc5-go and /etc/rc5-go, and a missing file is not
// an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("variant", def.Variant)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_db", def.LogDB)
	v.SetDefault("listen_address", def.ListenAddress)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("iterations", def.Iterations)
	v.SetDefault("corpus_size", def.CorpusSize)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rc5")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(appdir.Dir())
		v.AddConfigPath("/etc/rc5-go/")
	}
	v.SetEnvPrefix("RC5")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return cfg, nil
}

// Validate rejects unknown variants, bad log levels and non-positive counts.
func (c *Config) Validate() error {
	if _, err := rc5.Lookup(c.Variant); err != nil {
		return fmt.Errorf("config: variant: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if c.ListenAddress == "" {
		return errors.New("config: listen_address must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be > 0, got %d", c.Iterations)
	}
	if c.CorpusSize <= 0 {
		return fmt.Errorf("config: corpus_size must be > 0, got %d", c.CorpusSize)
	}
	return nil
}
