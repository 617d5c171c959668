// Package config loads murmur settings from murmur.yaml and the
// MURMUR_* environment, with sane defaults for everything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Provider string `mapstructure:"provider"`
	Language string `mapstructure:"language"`
	Format   string `mapstructure:"format"`

	SampleRate    int           `mapstructure:"sample_rate"`
	Channels      int           `mapstructure:"channels"`
	MeterInterval time.Duration `mapstructure:"meter_interval"`

	Device    string `mapstructure:"device"`
	AutoPaste bool   `mapstructure:"autopaste"`
	AutoStop  bool   `mapstructure:"autostop"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "")
	v.SetDefault("language", "en")
	v.SetDefault("format", "wav")
	v.SetDefault("sample_rate", 16000)
	v.SetDefault("channels", 1)
	v.SetDefault("meter_interval", 50*time.Millisecond)
	v.SetDefault("device", "")
	v.SetDefault("autopaste", false)
	v.SetDefault("autostop", false)
}

// Load reads murmur.yaml from dir (or the working directory and the
// user config dir when dir is empty). A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("murmur")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	} else {
		v.AddConfigPath(".")
		if ucd, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(ucd, "murmur"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix("MURMUR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels != 1 {
		return fmt.Errorf("only mono capture is supported, got %d channels", c.Channels)
	}
	if c.MeterInterval <= 0 {
		return fmt.Errorf("meter_interval must be positive, got %v", c.MeterInterval)
	}
	switch c.Format {
	case "wav", "flac":
	default:
		return fmt.Errorf("unknown format %q (use wav or flac)", c.Format)
	}
	switch c.Provider {
	case "", "groq", "openai":
	default:
		return fmt.Errorf("unknown provider %q (use groq or openai)", c.Provider)
	}
	return nil
}
