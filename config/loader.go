package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadAppConfig loads and validates the application configuration from path.
// Missing values receive defaults after validation.
func LoadAppConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// Default returns the configuration used when no config file is supplied.
func Default() AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16181
	}
	if cfg.Feeds.TimeoutMS == 0 {
		cfg.Feeds.TimeoutMS = 10000
	}
	if cfg.Details.TimeoutMS == 0 {
		cfg.Details.TimeoutMS = 10000
	}
	if cfg.Geo.FallbackLat == 0 && cfg.Geo.FallbackLon == 0 {
		// Geographic centre of Ireland, the map's default origin.
		cfg.Geo.FallbackLat = 53.4494762
		cfg.Geo.FallbackLon = -7.5029786
	}
	if cfg.Geo.TimeoutMS == 0 {
		cfg.Geo.TimeoutMS = 10000
	}
	if cfg.Geo.MaximumAgeMS == 0 {
		cfg.Geo.MaximumAgeMS = 60000
	}
	if cfg.Search.DebounceMS == 0 {
		cfg.Search.DebounceMS = 300
	}
	if cfg.Search.LargeDebounceMS == 0 {
		cfg.Search.LargeDebounceMS = 400
	}
	if cfg.Search.LargeResultThreshold == 0 {
		cfg.Search.LargeResultThreshold = 5000
	}
	if cfg.Loading.SettleDelayMS == 0 {
		cfg.Loading.SettleDelayMS = 500
	}
	if cfg.Loading.LargeSetThreshold == 0 {
		cfg.Loading.LargeSetThreshold = 1000
	}
	if cfg.Storage.TTLHours == 0 {
		cfg.Storage.TTLHours = 168
	}
}
