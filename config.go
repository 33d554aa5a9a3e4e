package recompare

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/coregx/recompare/compare"
	"github.com/coregx/recompare/node"
)

// Config controls how a Checker compares patterns.
//
// Example:
//
//	config := recompare.DefaultConfig()
//	config.MaxDepth = 2000
//	checker, err := recompare.New(config)
type Config struct {
	// MaxDepth bounds the recursion of one comparison. Deeper comparisons
	// fail with an UnsupportedConstruct error.
	// Default: 10000
	MaxDepth int `yaml:"max_depth"`

	// EnablePrecheck runs the escape-forcing filter over the source texts
	// of both patterns before any structural work.
	// Default: true
	EnablePrecheck bool `yaml:"enable_precheck"`

	// MaxSynthesizedNodes caps the size of the programs built while
	// unrolling repeats and splitting classes.
	// Default: node.MaxNodes
	MaxSynthesizedNodes int `yaml:"max_synthesized_nodes"`

	// Logger receives the results of top-level comparisons at debug level,
	// and every comparison step when debug is enabled.
	// Default: zap.NewNop()
	Logger *zap.Logger `yaml:"-"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:            compare.DefaultMaxDepth,
		EnablePrecheck:      true,
		MaxSynthesizedNodes: node.MaxNodes,
		Logger:              zap.NewNop(),
	}
}

// Validate checks if the configuration is valid.
// Returns an error describing the first invalid parameter found.
func (c Config) Validate() error {
	if c.MaxDepth < 16 || c.MaxDepth > 1<<20 {
		return &ConfigError{
			Field:   "MaxDepth",
			Message: "must be between 16 and 1,048,576",
		}
	}

	if c.MaxSynthesizedNodes < 1 || c.MaxSynthesizedNodes > node.MaxNodes {
		return &ConfigError{
			Field:   "MaxSynthesizedNodes",
			Message: fmt.Sprintf("must be between 1 and %d", node.MaxNodes),
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "recompare: invalid config: " + e.Field + ": " + e.Message
}

// LoadConfig reads a YAML configuration. Fields absent from the document
// keep their defaults, and the result is validated.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("recompare: decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
