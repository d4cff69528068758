package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. FAIRMEET_HTTP_PORT.
const EnvPrefix = "FAIRMEET"

// configFileEnv points to an optional YAML file. Environment variables win over the file.
const configFileEnv = "FAIRMEET_CONFIG"

// Config holds the configuration of the meeting point service.
type Config struct {
	Env        string           `mapstructure:"env"        validate:"required"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Geocoder   GeocoderConfig   `mapstructure:"geocoder"`
	Transit    TransitConfig    `mapstructure:"transit"`
	Venues     VenuesConfig     `mapstructure:"venues"`
	Ranking    RankingConfig    `mapstructure:"ranking"`
	Candidates CandidatesConfig `mapstructure:"candidates"`
	Database   PostgresConfig   `mapstructure:"postgres"`
}

// HTTPConfig is the public API server.
type HTTPConfig struct {
	Port            int           `mapstructure:"port"             validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// MonitoringConfig is the health and metrics server.
type MonitoringConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// GeocoderConfig selects and configures the geocoding provider.
type GeocoderConfig struct {
	Type      string `mapstructure:"type"       validate:"oneof=google nominatim postcodes"`
	APIKey    string `mapstructure:"api_key"    validate:"required_if=Type google"`
	Region    string `mapstructure:"region"`
	RateLimit int    `mapstructure:"rate_limit" validate:"min=0"`
}

// TransitConfig configures the TfL client and the station catalog.
type TransitConfig struct {
	AppKey         string        `mapstructure:"app_key"`
	Modes          []string      `mapstructure:"modes"           validate:"min=1,dive,required"`
	SearchRadius   int           `mapstructure:"search_radius"   validate:"gt=0"`
	RateLimit      int           `mapstructure:"rate_limit"      validate:"min=0"`
	CatalogRefresh time.Duration `mapstructure:"catalog_refresh" validate:"min=0"`
}

// VenuesConfig configures venue search and its cache. Venue scoring is off without an API key.
type VenuesConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	RateLimit     int           `mapstructure:"rate_limit"     validate:"min=0"`
	Radius        int           `mapstructure:"radius"         validate:"gt=0"`
	TTL           time.Duration `mapstructure:"ttl"            validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
	Shards        int           `mapstructure:"shards"         validate:"gt=0"`
	ShardSize     int           `mapstructure:"shard_size"     validate:"gt=0"`
}

// RankingConfig tunes the ranking engine.
type RankingConfig struct {
	ProviderTimeout time.Duration `mapstructure:"provider_timeout" validate:"gt=0"`
	Concurrency     int           `mapstructure:"concurrency"      validate:"gt=0"`
	TopN            int           `mapstructure:"top_n"            validate:"gt=0"`
}

// CandidatesConfig is the candidate selection policy.
type CandidatesConfig struct {
	Max            int      `mapstructure:"max"             validate:"gt=0,lte=100"`
	Interchanges   []string `mapstructure:"interchanges"`
	MidpointRadius float64  `mapstructure:"midpoint_radius" validate:"min=0"`
}

// PostgresConfig holds the connection details of the station catalog database.
// The catalog is disabled when Host is empty.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"     validate:"required_with=Host"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"db_name"  validate:"required_with=Host"`
}

// Enabled reports whether a database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

var defaults = map[string]any{
	"env":                      "production",
	"http.port":                8000,
	"http.shutdown_timeout":    "10s",
	"monitoring.port":          8080,
	"geocoder.type":            "postcodes",
	"geocoder.api_key":         "",
	"geocoder.region":          "uk",
	"geocoder.rate_limit":      10,
	"transit.app_key":          "",
	"transit.modes":            []string{"tube", "elizabeth-line"},
	"transit.search_radius":    2000,
	"transit.rate_limit":       8,
	"transit.catalog_refresh":  "24h",
	"venues.api_key":           "",
	"venues.rate_limit":        10,
	"venues.radius":            400,
	"venues.ttl":               "24h",
	"venues.sweep_interval":    "1h",
	"venues.shards":            16,
	"venues.shard_size":        4096,
	"ranking.provider_timeout": "8s",
	"ranking.concurrency":      8,
	"ranking.top_n":            3,
	"candidates.max":           20,
	"candidates.interchanges": []string{
		"King", "Liverpool", "Oxford", "Victoria", "Paddington", "Waterloo",
		"London Bridge", "Canary Wharf", "Stratford", "Green Park", "Westminster", "Leicester Square",
	},
	"candidates.midpoint_radius": 0,
	"postgres.host":              "",
	"postgres.port":              "5432",
	"postgres.user":              "",
	"postgres.password":          "",
	"postgres.db_name":           "",
}

// Load reads .env, the optional YAML file and FAIRMEET_* environment variables, in increasing priority.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(configFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
