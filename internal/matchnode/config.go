package matchnode

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

var (
	// ErrEmptyNodeName is returned when the node name is empty
	ErrEmptyNodeName = errors.New("node name cannot be empty")
	// ErrInvalidReplayPageSize is returned when the replay page size is not positive
	ErrInvalidReplayPageSize = errors.New("replay page size must be positive")
)

// DefaultReplayPageSize is how many journal entries Replay reads per page.
const DefaultReplayPageSize = 256

// Config represents configuration for a match node
type Config struct {
	// Name identifies this node in logs and stats
	Name string `mapstructure:"name"`

	// ReplayPageSize is the journal read batch used during Replay
	ReplayPageSize int `mapstructure:"replay_page_size"`
}

// NewConfig creates a new node configuration with safe defaults
func NewConfig(name string) *Config {
	return &Config{
		Name:           name,
		ReplayPageSize: DefaultReplayPageSize,
	}
}

// SetDefaults fills zero-valued fields with safe defaults
func (c *Config) SetDefaults() {
	if c.ReplayPageSize == 0 {
		c.ReplayPageSize = DefaultReplayPageSize
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrEmptyNodeName
	}
	if c.ReplayPageSize <= 0 {
		return ErrInvalidReplayPageSize
	}
	return nil
}

// WithReplayPageSize sets the journal replay page size
func (c *Config) WithReplayPageSize(size int) *Config {
	c.ReplayPageSize = size
	return c
}

// LoadConfig reads a node configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("name", "patternmesh")
	v.SetDefault("replay_page_size", DefaultReplayPageSize)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}
