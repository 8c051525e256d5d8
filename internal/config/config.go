package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"geoverify-api/internal/models"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// Values are read from app.yaml and GEOVERIFY_* environment variables.
type Config struct {
	ServerAddress  string                    `mapstructure:"server_address"`
	DBSource       string                    `mapstructure:"db_source"`
	LogLevel       string                    `mapstructure:"log_level"`
	LogPretty      bool                      `mapstructure:"log_pretty"`
	AllowedOrigins []string                  `mapstructure:"allowed_origins"`
	MaxUploadBytes int64                     `mapstructure:"max_upload_bytes"`
	Boundaries     map[string]BoundaryConfig `mapstructure:"boundaries"`
}

// BoundaryConfig is a bounding box keyed by country name in Config.Boundaries.
type BoundaryConfig struct {
	MinLat float64 `mapstructure:"min_lat"`
	MaxLat float64 `mapstructure:"max_lat"`
	MinLon float64 `mapstructure:"min_lon"`
	MaxLon float64 `mapstructure:"max_lon"`
}

// DefaultBoundaries is the table used when no boundaries are configured.
func DefaultBoundaries() map[string]BoundaryConfig {
	return map[string]BoundaryConfig{
		"pakistan": {MinLat: 23.6345, MaxLat: 37.0841, MinLon: 60.8728, MaxLon: 77.8375},
	}
}

// LoadConfig reads configuration from path/app.yaml, if present, and the environment.
func LoadConfig(path string) (Config, error) {
	var config Config

	v := viper.New()
	v.SetDefault("server_address", "0.0.0.0:5000")
	v.SetDefault("db_source", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("allowed_origins", []string{"https://ice-watch-adminpanel.vercel.app"})
	v.SetDefault("max_upload_bytes", 10<<20)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GEOVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	if len(config.Boundaries) == 0 {
		config.Boundaries = DefaultBoundaries()
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks that the loaded values are usable.
func (c Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("config: server_address is required")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("config: allowed_origins must list at least one origin")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if err := models.ValidateBoundaries(c.CountryBoundaries()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// CountryBoundaries returns the configured boundaries sorted by name.
func (c Config) CountryBoundaries() []models.CountryBoundary {
	boundaries := make([]models.CountryBoundary, 0, len(c.Boundaries))
	for name, b := range c.Boundaries {
		boundaries = append(boundaries, models.CountryBoundary{
			Name:   strings.ToLower(name),
			MinLat: b.MinLat,
			MaxLat: b.MaxLat,
			MinLon: b.MinLon,
			MaxLon: b.MaxLon,
		})
	}
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].Name < boundaries[j].Name
	})
	return boundaries
}
