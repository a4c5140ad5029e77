// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	FranceTravail FranceTravailConfig `mapstructure:"france_travail"`
	Geo           GeoConfig           `mapstructure:"geo"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Logo          LogoConfig          `mapstructure:"logo"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// FranceTravailConfig holds settings for the upstream job listings API.
// ClientID, ClientSecret and Scope are injected secrets; they are read
// from config/env only and never appear as source literals.
type FranceTravailConfig struct {
	AuthURL      string `mapstructure:"auth_url"`
	SearchURL    string `mapstructure:"search_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
	UserAgent    string `mapstructure:"user_agent"`

	PageSize         int `mapstructure:"page_size"`
	PerDepartmentCap int `mapstructure:"per_department_cap"`
	GlobalCap        int `mapstructure:"global_cap"`
	PageDelay        int `mapstructure:"page_delay"`     // milliseconds, between pages
	AuthTimeout      int `mapstructure:"auth_timeout"`   // milliseconds
	SearchTimeout    int `mapstructure:"search_timeout"` // milliseconds
	TokenMargin      int `mapstructure:"token_margin"`   // milliseconds shaved off expires_in
}

// GeoConfig holds settings for the department boundary dataset.
type GeoConfig struct {
	DatasetPath string `mapstructure:"dataset_path"`
}

// CacheConfig holds settings for the optional Redis search-result cache.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogoConfig holds settings for the best-effort company logo probe.
type LogoConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
