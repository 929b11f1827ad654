package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// DefaultDateFloor is the minimum citation date shown in any current view.
// Historical data goes back further, but everything the API serves is
// filtered to this floor. Override with date_floor / DATE_FLOOR.
const DefaultDateFloor = "2020-01-01"

// Config holds settings shared by the API server and the offline
// seeding/geocoding tools.
type Config struct {
	Port              string `yaml:"port"`
	DateFloor         string `yaml:"date_floor"`
	FallbackDir       string `yaml:"fallback_dir"`
	SocrataAppToken   string `yaml:"socrata_app_token"`
	GeocoderUserAgent string `yaml:"geocoder_user_agent"`
}

// Load reads config.yaml (or CONFIG_FILE) if present, then applies
// environment overrides. Every field has a usable default, so a missing
// config file is not an error.
func Load() Config {
	cfg := Config{
		Port:              "5050",
		DateFloor:         DefaultDateFloor,
		FallbackDir:       "public/data",
		GeocoderUserAgent: "sf-most-wanted-parkers/1.0",
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("[config] failed to parse %s: %v (using defaults)", path, err)
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.DateFloor, "DATE_FLOOR")
	applyEnv(&cfg.FallbackDir, "FALLBACK_DIR")
	applyEnv(&cfg.SocrataAppToken, "SOCRATA_APP_TOKEN")
	applyEnv(&cfg.GeocoderUserAgent, "GEOCODER_USER_AGENT")

	if _, err := time.Parse("2006-01-02", cfg.DateFloor); err != nil {
		log.Printf("[config] invalid date_floor %q, using %s", cfg.DateFloor, DefaultDateFloor)
		cfg.DateFloor = DefaultDateFloor
	}

	return cfg
}

// Floor returns the configured date floor as a time.Time at midnight UTC.
func (c Config) Floor() time.Time {
	t, err := time.Parse("2006-01-02", c.DateFloor)
	if err != nil {
		t, _ = time.Parse("2006-01-02", DefaultDateFloor)
	}
	return t
}

func applyEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
