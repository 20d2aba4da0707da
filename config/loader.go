package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/golang/glog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the database settings.
const (
	EnvDSN   = "ANONYMIZE_DB_DSN"
	EnvTable = "ANONYMIZE_DB_TABLE"
	EnvLimit = "ANONYMIZE_DB_LIMIT"
)

// Load reads the configuration at path over the defaults, applies the
// environment overrides and validates the result. An empty path or a missing
// file yields the defaults. Files ending in .json are decoded as JSON, all
// others as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Warningf("config file %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode YAML: %w", err)
	}
	return nil
}

// LoadEnv loads environment variables from the given dotenv files, ".env" by
// default. Missing files are skipped and variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvOverrides replaces the database settings with those set in the
// environment.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvTable); v != "" {
		c.Database.Table = v
	}
	if v := os.Getenv(EnvLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLimit, err)
		}
		c.Database.Limit = n
	}
	return nil
}
