// Package config loads the YAML configuration of the host commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tinygo-org/sk9822/ring"
	"github.com/tinygo-org/sk9822/sk9822"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

type SPI struct {
	Port    string `yaml:"port"`     // spireg name, e.g. "/dev/spidev0.0" or "0"; empty selects the first port
	SpeedHz int64  `yaml:"speed_hz"` // SK9822 accepts up to ~30 MHz
	Mode    int    `yaml:"mode"`     // 0-3
}

type Config struct {
	SPI        SPI           `yaml:"spi"`
	Interval   time.Duration `yaml:"interval"`
	Brightness uint8         `yaml:"brightness"`
	LogLevel   string        `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		SPI: SPI{
			SpeedHz: 5_000_000,
			Mode:    3,
		},
		Interval:   ring.DefaultInterval,
		Brightness: ring.DefaultBrightness,
		LogLevel:   "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case c.SPI.SpeedHz <= 0:
		return fmt.Errorf("%w: spi.speed_hz must be positive, got %d", ErrInvalidConfig, c.SPI.SpeedHz)
	case c.SPI.Mode < 0 || c.SPI.Mode > 3:
		return fmt.Errorf("%w: spi.mode must be 0-3, got %d", ErrInvalidConfig, c.SPI.Mode)
	case c.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, c.Interval)
	case c.Brightness > sk9822.MaxBrightness:
		return fmt.Errorf("%w: brightness must be 0-%d, got %d", ErrInvalidConfig, sk9822.MaxBrightness, c.Brightness)
	}
	return nil
}

// ApplyLogLevel sets the zerolog global level from LogLevel. An unknown level
// falls back to info and is returned as an error for the caller to log.
func (c Config) ApplyLogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
		err = fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	return level, err
}
