package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen       string         `yaml:"listen"`
	PublicURL    string         `yaml:"public_url"`
	DatabasePath string         `yaml:"database_path"`
	Upstream     UpstreamConfig `yaml:"upstream"`
	Session      SessionConfig  `yaml:"session"`
	Logs         LogsConfig     `yaml:"logs"`
	TLS          TLSConfig      `yaml:"tls"`
}

// UpstreamConfig points at the authentication API this portal fronts.
type UpstreamConfig struct {
	APIURL string `yaml:"api_url"`
}

type SessionConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Secret  string        `yaml:"secret"`
}

type LogsConfig struct {
	Retention time.Duration `yaml:"retention"`
}

type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

var C Config

func Load() error {
	// Defaults
	C = Config{
		Listen:       ":8080",
		PublicURL:    "http://localhost:8080",
		DatabasePath: "activity.db",
		Upstream: UpstreamConfig{
			APIURL: "http://localhost:8000/api",
		},
		Session: SessionConfig{
			Timeout: 24 * time.Hour,
		},
		Logs: LogsConfig{
			Retention: 48 * time.Hour,
		},
	}

	// Load from YAML if exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &C); err != nil {
			return err
		}
	}

	// Environment overrides
	if v := os.Getenv("LISTEN"); v != "" {
		C.Listen = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		C.PublicURL = v
	}
	if v := os.Getenv("UPSTREAM_API_URL"); v != "" {
		C.Upstream.APIURL = v
	}
	if v := os.Getenv("SESSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Session.Timeout = d
		}
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		C.Session.Secret = v
	}
	if v := os.Getenv("LOG_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Logs.Retention = d
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		C.DatabasePath = v
	}
	if v := os.Getenv("TLS_ENABLED"); v == "true" {
		C.TLS.Enabled = true
	}
	if v := os.Getenv("TLS_CERT"); v != "" {
		C.TLS.Cert = v
	}
	if v := os.Getenv("TLS_KEY"); v != "" {
		C.TLS.Key = v
	}

	return nil
}
