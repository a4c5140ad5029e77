// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like FRANCE_TRAVAIL_CLIENT_ID
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored if not present
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the usual locations so the service can be
// started from the repo root or from cmd/.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets from the environment when the yaml
// left them empty. A value still holding an unexpanded ${VAR} counts as
// empty.
func overrideEmptyConfig(cfg *Config) {
	unset := func(s string) bool {
		return s == "" || strings.Contains(s, "${")
	}

	if unset(cfg.FranceTravail.ClientID) {
		if val := os.Getenv("FRANCE_TRAVAIL_CLIENT_ID"); val != "" {
			cfg.FranceTravail.ClientID = val
		}
	}
	if unset(cfg.FranceTravail.ClientSecret) {
		if val := os.Getenv("FRANCE_TRAVAIL_CLIENT_SECRET"); val != "" {
			cfg.FranceTravail.ClientSecret = val
		}
	}
	if unset(cfg.FranceTravail.Scope) {
		if val := os.Getenv("FRANCE_TRAVAIL_SCOPE"); val != "" {
			cfg.FranceTravail.Scope = val
		}
	}
	if unset(cfg.Cache.Redis.Password) {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path. It uses
// its own viper instance so repeated loads do not see each other's
// expanded values.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	// Upstream API defaults
	if cfg.FranceTravail.PageSize == 0 {
		cfg.FranceTravail.PageSize = 100
	}
	if cfg.FranceTravail.PerDepartmentCap == 0 {
		cfg.FranceTravail.PerDepartmentCap = 250
	}
	if cfg.FranceTravail.GlobalCap == 0 {
		cfg.FranceTravail.GlobalCap = 800
	}
	if cfg.FranceTravail.PageDelay == 0 {
		cfg.FranceTravail.PageDelay = 200
	}
	if cfg.FranceTravail.AuthTimeout == 0 {
		cfg.FranceTravail.AuthTimeout = 10000
	}
	if cfg.FranceTravail.SearchTimeout == 0 {
		cfg.FranceTravail.SearchTimeout = 20000
	}
	if cfg.FranceTravail.TokenMargin == 0 {
		cfg.FranceTravail.TokenMargin = 30000
	}
	if cfg.FranceTravail.UserAgent == "" {
		cfg.FranceTravail.UserAgent = "JobMapBot/1.0"
	}

	// Geo defaults
	if cfg.Geo.DatasetPath == "" {
		cfg.Geo.DatasetPath = "data/departements.geojson"
	}

	// Cache defaults
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300000
	}

	// Logo defaults
	if cfg.Logo.BaseURL == "" {
		cfg.Logo.BaseURL = "https://logo.clearbit.com"
	}
	if cfg.Logo.Timeout == 0 {
		cfg.Logo.Timeout = 2000
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.FranceTravail.AuthURL == "" {
		return fmt.Errorf("france_travail.auth_url is required")
	}
	if cfg.FranceTravail.SearchURL == "" {
		return fmt.Errorf("france_travail.search_url is required")
	}
	if cfg.FranceTravail.ClientID == "" {
		return fmt.Errorf("france_travail.client_id is required")
	}
	if cfg.FranceTravail.ClientSecret == "" {
		return fmt.Errorf("france_travail.client_secret is required")
	}
	if cfg.FranceTravail.Scope == "" {
		return fmt.Errorf("france_travail.scope is required")
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when cache is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
