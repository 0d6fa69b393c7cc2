package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/parcelworks/feasibility-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store       store.Config      `yaml:"store" mapstructure:"store"`
	Geolocate   GeolocateConfig   `yaml:"geolocate" mapstructure:"geolocate"`
	Parcel      ParcelConfig      `yaml:"parcel" mapstructure:"parcel"`
	TransitZone TransitZoneConfig `yaml:"transit_zone" mapstructure:"transit_zone"`
	Zoning      ZoningConfig      `yaml:"zoning" mapstructure:"zoning"`
	Assemblage  AssemblageConfig  `yaml:"assemblage" mapstructure:"assemblage"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// GeolocateConfig configures the location-resolution collaborator.
type GeolocateConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ParcelConfig configures the parcel-data collaborator.
type ParcelConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// TransitZoneConfig configures the transit-zone classifier.
type TransitZoneConfig struct {
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
}

// ZoningConfig configures the rule engine's tunables.
type ZoningConfig struct {
	DwellingUnitFactor float64 `yaml:"dwelling_unit_factor" mapstructure:"dwelling_unit_factor"`
}

// AssemblageConfig configures assemblage fan-out.
type AssemblageConfig struct {
	MaxConcurrentAddresses int     `yaml:"max_concurrent_addresses" mapstructure:"max_concurrent_addresses"`
	ProviderRateLimit      float64 `yaml:"provider_rate_limit" mapstructure:"provider_rate_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FEAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("parcel.table", "parcel_lots")
	v.SetDefault("zoning.dwelling_unit_factor", 680)
	v.SetDefault("assemblage.max_concurrent_addresses", 4)
	v.SetDefault("assemblage.provider_rate_limit", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration required for the given mode is
// present and within bounds. Modes: "pipeline" (run, assemblage), "import"
// (parcel loading), "store" (migrate, reports).
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(cond bool, msg string) {
		if cond {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "pipeline":
		check(c.Geolocate.DatabaseURL == "", "geolocate.database_url is required")
		check(c.Parcel.DatabaseURL == "", "parcel.database_url is required")
		check(c.Zoning.DwellingUnitFactor <= 0, "zoning.dwelling_unit_factor must be > 0")
		check(c.Assemblage.MaxConcurrentAddresses < 1 || c.Assemblage.MaxConcurrentAddresses > 32,
			"assemblage.max_concurrent_addresses must be between 1 and 32")
		check(c.Assemblage.ProviderRateLimit < 0, "assemblage.provider_rate_limit must be >= 0")
	case "import":
		check(c.Parcel.DatabaseURL == "", "parcel.database_url is required")
	case "store":
		check(c.Store.Driver == "postgres" && c.Store.DatabaseURL == "",
			"store.database_url is required for the postgres driver")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
