// Package config loads and holds all service configuration.
// Settings are read from defaults, then pseudonymizer-config.json,
// then a .env file, then real environment variables — last one wins.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the full service configuration.
type Config struct {
	ServerPort  int    `json:"serverPort"`
	BindAddress string `json:"bindAddress"`
	LogLevel    string `json:"logLevel"`

	// APIToken, when non-empty, is required as a bearer token on every
	// HTTP endpoint except the health check.
	APIToken string `json:"apiToken"`

	// StoplistPath points to a YAML deny-list for the name detector.
	// Empty means the built-in default list.
	StoplistPath string `json:"stoplistPath"`

	// MaxDocumentBytes caps the size of a single document upload.
	MaxDocumentBytes int64 `json:"maxDocumentBytes"`

	// RepairOCR enables dash-as-n artifact repair before detection.
	RepairOCR bool `json:"repairOcr"`
}

// Load returns config with defaults overridden by
// pseudonymizer-config.json, .env and environment variables.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "pseudonymizer-config.json")
	// Populates the process environment; real env vars keep precedence.
	_ = godotenv.Load()
	loadEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		ServerPort:       8080,
		BindAddress:      "127.0.0.1",
		LogLevel:         "info",
		MaxDocumentBytes: 10 << 20,
		RepairOCR:        true,
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ServerPort = n
		}
	}
	if v := os.Getenv("BIND_ADDRESS"); v != "" {
		cfg.BindAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("STOPLIST_PATH"); v != "" {
		cfg.StoplistPath = v
	}
	if v := os.Getenv("MAX_DOCUMENT_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxDocumentBytes = n
		}
	}
	if v := os.Getenv("REPAIR_OCR"); v == "false" {
		cfg.RepairOCR = false
	}
}
