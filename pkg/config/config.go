// Package config provides configuration loading and management for roimorph.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"roimorph/internal/models"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Image parameters
	Image struct {
		// PixelSizeX is the physical width of one voxel, e.g. in µm.
		PixelSizeX float64 `yaml:"pixelSizeX"`

		// PixelSizeY is the physical height of one voxel.
		PixelSizeY float64 `yaml:"pixelSizeY"`

		// PixelSizeZ is the physical depth of one voxel (slice spacing).
		PixelSizeZ float64 `yaml:"pixelSizeZ"`
	} `yaml:"image"`

	// Watershed parameters
	Watershed struct {
		// AddNewBasins lets the flood spawn basins at unclaimed local
		// maxima instead of growing from seed regions only.
		AddNewBasins bool `yaml:"addNewBasins"`

		// ColorSeed seeds the basin palette for reproducible label colors.
		ColorSeed int64 `yaml:"colorSeed"`
	} `yaml:"watershed"`

	// Mask parameters
	Mask struct {
		// Threshold is the normalized grayscale cutoff at or above which an
		// input image pixel counts as foreground.
		Threshold float64 `yaml:"threshold"`
	} `yaml:"mask"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Unit spacing keeps distances in voxel units until calibrated.
	cfg.Image.PixelSizeX = 1.0
	cfg.Image.PixelSizeY = 1.0
	cfg.Image.PixelSizeZ = 1.0

	cfg.Watershed.AddNewBasins = true
	cfg.Watershed.ColorSeed = 1

	cfg.Mask.Threshold = 0.5

	cfg.Output.Verbose = false

	return cfg
}

// PixelSize returns the configured physical spacing.
func (c *Config) PixelSize() models.PixelSize {
	return models.PixelSize{
		X: c.Image.PixelSizeX,
		Y: c.Image.PixelSizeY,
		Z: c.Image.PixelSizeZ,
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
