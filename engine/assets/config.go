// Package assets loads the render feature configuration and watches it
// for changes.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

const DefaultMaxTargets uint16 = 64

/**
 * @brief The render feature configuration file.
 */
type Config struct {
	/** @brief One of debug, info, warn, error. */
	LogLevel string `toml:"log_level"`
	/** @brief Maximum number of pooled render targets. */
	MaxTargets     uint16               `toml:"max_targets"`
	PostProcessing PostProcessingConfig `toml:"postprocessing"`
	Outline        FeatureConfig        `toml:"outline"`
	Ghost          FeatureConfig        `toml:"ghost"`
	/** @brief Effect parameters keyed by effect name. */
	Effects map[string]map[string]interface{} `toml:"effects"`
}

type PostProcessingConfig struct {
	NormalTexture bool `toml:"normal_texture"`
}

type FeatureConfig struct {
	/** @brief Timeline event name, AfterRenderingPostProcessing when empty. */
	Event string `toml:"event"`
}

// RenderPassEvent parses Event.
func (fc FeatureConfig) RenderPassEvent() (metadata.RenderPassEvent, error) {
	if fc.Event == "" {
		return metadata.AfterRenderingPostProcessing, nil
	}
	return metadata.ParseRenderPassEvent(fc.Event)
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		MaxTargets: DefaultMaxTargets,
		Outline:    FeatureConfig{Event: metadata.AfterRenderingPostProcessing.String()},
		Ghost:      FeatureConfig{Event: metadata.AfterRenderingPostProcessing.String()},
		Effects:    make(map[string]map[string]interface{}),
	}
}

// Level returns the parsed LogLevel, info when it does not parse.
func (c *Config) Level() core.LogLevel {
	level, _ := core.ParseLogLevel(c.LogLevel)
	return level
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxTargets == 0 {
		errs = append(errs, fmt.Errorf("max_targets must be > 0"))
	}
	if _, err := c.Outline.RenderPassEvent(); err != nil {
		errs = append(errs, fmt.Errorf("outline: %w", err))
	}
	if _, err := c.Ghost.RenderPassEvent(); err != nil {
		errs = append(errs, fmt.Errorf("ghost: %w", err))
	}
	return errors.Join(errs...)
}

// ParseConfig decodes data over DefaultConfig. Unknown keys are errors,
// except inside [effects] where every effect takes its own parameters.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("func ParseConfig - line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("func ParseConfig - %w", err)
	}
	if cfg.Effects == nil {
		cfg.Effects = make(map[string]map[string]interface{})
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("func ParseConfig - %w", err)
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("func LoadConfig - %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("func LoadConfig - %s: %w", path, err)
	}
	return cfg, nil
}
