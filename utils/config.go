package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-probgol/rules"
)

// Config holds the configuration for the comparison
type Config struct {
	Size           int           `json:"size"`
	FrameRate      time.Duration `json:"frame_rate"`
	Wraparound     bool          `json:"wraparound"`
	Seed           uint64        `json:"seed"`
	MaxGenerations int           `json:"max_generations"`
	UseParallel    bool          `json:"use_parallel"`
	AutoStop       bool          `json:"auto_stop"`
	StatsWindow    int           `json:"stats_window"`

	// Probabilities apply to the variant lane; the baseline always runs classic Life
	Probabilities rules.Probabilities `json:"probabilities"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Size:           32,
		FrameRate:      100 * time.Millisecond,
		Wraparound:     true,
		Seed:           0, // Seed from the clock
		MaxGenerations: 1000,
		UseParallel:    true,
		AutoStop:       true,
		StatsWindow:    50,
		Probabilities:  rules.Classic(),
	}
}

// LoadConfig loads configuration from JSON file; omitted fields keep their defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}

	return config, nil
}

// Validate rejects values the engine or the shell cannot run with
func (c Config) Validate() error {
	if c.Size <= 0 {
		return errors.Errorf("[Validate] size must be positive, got %d", c.Size)
	}
	if c.FrameRate < 0 {
		return errors.Errorf("[Validate] frame_rate must not be negative, got %v", c.FrameRate)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	}
	if c.StatsWindow <= 0 {
		return errors.Errorf("[Validate] stats_window must be positive, got %d", c.StatsWindow)
	}
	if rule := c.Probabilities.Invalid(); rule != rules.None {
		return errors.Errorf("[Validate] %s probability must be within [0,1], got %v",
			rule, c.Probabilities.Get(rule))
	}
	return nil
}
