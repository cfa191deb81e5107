package config

import (
	"encoding/json"
	"fmt"
	"os"

	"pelicanstore/pkg/federation"
)

// Settings configures a storage provider. TokenConfig holds the raw token
// mapping text (see pkg/credential); FederationHost overrides the default
// federation injected into osdf:// queries.
type Settings struct {
	TokenConfig    string `json:"token_config,omitempty"`
	FederationHost string `json:"federation_host,omitempty"`
	Debug          bool   `json:"debug,omitempty"`
}

// Host returns the federation host to use, falling back to the fixed
// default when no override is configured.
func (s *Settings) Host() string {
	if s.FederationHost != "" {
		return s.FederationHost
	}
	return federation.DefaultHost
}

func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &s, nil
}

func LoadFromEnv() *Settings {
	return &Settings{
		TokenConfig:    getEnv("PELICAN_TOKEN_CONFIG", ""),
		FederationHost: getEnv("PELICAN_FEDERATION_HOST", ""),
		Debug:          os.Getenv("PELICAN_DEBUG") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
