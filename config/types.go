package config

// ServerConfig contains the serve-mode HTTP listener configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// FeedsConfig contains the transient and permanent feed endpoints
type FeedsConfig struct {
	TransientURL string `yaml:"transientURL" validate:"omitempty,url"`
	PermanentURL string `yaml:"permanentURL" validate:"omitempty,url"`
	TimeoutMS    int    `yaml:"timeoutMS" validate:"gte=0"`

	// GTFS-RT VehiclePositions feed used to build Bus records upstream.
	VehiclesURL    string `yaml:"vehiclesURL" validate:"omitempty,url"`
	VehiclesAPIKey string `yaml:"vehiclesAPIKey"`
}

// DetailsConfig contains the on-demand popup lookup endpoints
type DetailsConfig struct {
	StationURL      string `yaml:"stationURL" validate:"omitempty,url"`
	LuasForecastURL string `yaml:"luasForecastURL" validate:"omitempty,url"`
	TimeoutMS       int    `yaml:"timeoutMS" validate:"gte=0"`
}

// GeoConfig contains geolocation options and the fallback map origin
type GeoConfig struct {
	FallbackLat  float64 `yaml:"fallbackLat"`
	FallbackLon  float64 `yaml:"fallbackLon"`
	TimeoutMS    int     `yaml:"timeoutMS" validate:"gte=0"`
	MaximumAgeMS int     `yaml:"maximumAgeMS" validate:"gte=0"`
	HighAccuracy bool    `yaml:"highAccuracy"`
}

// SearchConfig contains the debounce windows for the free-text search
type SearchConfig struct {
	DebounceMS           int `yaml:"debounceMS" validate:"gte=0"`
	LargeDebounceMS      int `yaml:"largeDebounceMS" validate:"gte=0"`
	LargeResultThreshold int `yaml:"largeResultThreshold" validate:"gte=0"`
}

// LoadingConfig controls the loading indicator settle behavior
type LoadingConfig struct {
	SettleDelayMS     int `yaml:"settleDelayMS" validate:"gte=0"`
	LargeSetThreshold int `yaml:"largeSetThreshold" validate:"gte=0"`
}

// StorageConfig controls expiry of persisted session values
type StorageConfig struct {
	TTLHours int `yaml:"ttlHours" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Feeds   FeedsConfig   `yaml:"feeds"`
	Details DetailsConfig `yaml:"details"`
	Geo     GeoConfig     `yaml:"geo"`
	Search  SearchConfig  `yaml:"search"`
	Loading LoadingConfig `yaml:"loading"`
	Storage StorageConfig `yaml:"storage"`
}
