package config

import (
	"os"
	"strconv"

	"gosift/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `validate:"required"`
	Display  DisplayConfig  `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Data     DataConfig     `validate:"required"`
	Database DatabaseConfig
}

// PipelineConfig holds the profiling pipeline policy constants. These are
// deliberate conservatism knobs with fixed defaults, not tunables: changing
// them changes which conversions and samples are reproducible.
type PipelineConfig struct {
	// NumericThreshold is the success ratio a conversion trial must exceed
	// before a text column is repaired to numeric or datetime.
	NumericThreshold float64
	// MissingSkipRatio is the missing-value ratio above which a column is
	// too sparse to trust any conversion decision.
	MissingSkipRatio float64
	// SampleCap bounds the row count handed to display consumers.
	SampleCap int
	// SampleSeed fixes the sampling RNG so identical views sample identically.
	SampleSeed int64
}

// DisplayConfig holds presentation-facing result shaping settings
type DisplayConfig struct {
	PreviewRows      int
	BreakdownTop     int
	FilterMaxChoices int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds local dataset resource settings
type DataConfig struct {
	Dir          string
	DemoResource string
}

// DatabaseConfig holds the optional read-only query source settings.
// An empty URL disables the Postgres source entirely.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Pipeline: loadPipelineConfig(),
		Display:  loadDisplayConfig(),
		Server:   loadServerConfig(),
		Data:     loadDataConfig(),
		Database: loadDatabaseConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadPipelineConfig() PipelineConfig {
	return PipelineConfig{
		NumericThreshold: getEnvFloatOrDefault("GOSIFT_NUMERIC_THRESHOLD", 0.9),
		MissingSkipRatio: getEnvFloatOrDefault("GOSIFT_MISSING_SKIP_RATIO", 0.5),
		SampleCap:        getEnvIntOrDefault("GOSIFT_SAMPLE_CAP", 5000),
		SampleSeed:       int64(getEnvIntOrDefault("GOSIFT_SAMPLE_SEED", 42)),
	}
}

func loadDisplayConfig() DisplayConfig {
	return DisplayConfig{
		PreviewRows:      getEnvIntOrDefault("GOSIFT_PREVIEW_ROWS", 100),
		BreakdownTop:     getEnvIntOrDefault("GOSIFT_BREAKDOWN_TOP", 20),
		FilterMaxChoices: getEnvIntOrDefault("GOSIFT_FILTER_MAX_CHOICES", 50),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("GOSIFT_PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		Dir:          getEnvOrDefault("GOSIFT_DATA_DIR", "data"),
		DemoResource: getEnvOrDefault("GOSIFT_DEMO_RESOURCE", "sample_data.csv"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL: getEnvOrDefault("GOSIFT_DATABASE_URL", ""),
	}
}

func validateConfig(config *Config) error {
	p := config.Pipeline
	if p.NumericThreshold <= 0 || p.NumericThreshold >= 1 {
		return errors.ConfigInvalid("numeric threshold must be in (0, 1)")
	}
	if p.MissingSkipRatio <= 0 || p.MissingSkipRatio > 1 {
		return errors.ConfigInvalid("missing skip ratio must be in (0, 1]")
	}
	if p.SampleCap <= 0 {
		return errors.ConfigInvalid("sample cap must be positive")
	}
	if config.Display.PreviewRows <= 0 {
		return errors.ConfigInvalid("preview rows must be positive")
	}
	if config.Display.BreakdownTop <= 0 {
		return errors.ConfigInvalid("breakdown top must be positive")
	}
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Default returns the configuration with every setting at its stated
// default, ignoring the environment. Tests and library callers use this to
// pin policy constants regardless of the host machine.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			NumericThreshold: 0.9,
			MissingSkipRatio: 0.5,
			SampleCap:        5000,
			SampleSeed:       42,
		},
		Display: DisplayConfig{
			PreviewRows:      100,
			BreakdownTop:     20,
			FilterMaxChoices: 50,
		},
		Server: ServerConfig{Port: "8080", GinMode: "release"},
		Data:   DataConfig{Dir: "data", DemoResource: "sample_data.csv"},
	}
}
