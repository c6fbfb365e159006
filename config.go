package collision

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config tunes a DiscreteManager.
type Config struct {
	CellSize        float64 `yaml:"cell_size"`        // broadphase grid cell edge
	NumCells        int     `yaml:"num_cells"`        // hashed cells, rounded up to a power of two
	Workers         int     `yaml:"workers"`          // narrowphase goroutines
	ContactDistance float64 `yaml:"contact_distance"` // initial contact distance threshold
	LogLevel        string  `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		CellSize:        1.0,
		NumCells:        1024,
		Workers:         1,
		ContactDistance: 0,
		LogLevel:        "info",
	}
}

// LoadConfig reads a YAML file over the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}

	return cfg, cfg.Validate()
}

// Validate checks that all fields are usable.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return errors.Errorf("cell_size must be positive, got %f", c.CellSize)
	}
	if c.NumCells <= 0 {
		return errors.Errorf("num_cells must be positive, got %d", c.NumCells)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ContactDistance < 0 {
		return errors.Errorf("contact_distance must not be negative, got %f", c.ContactDistance)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}
