package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names for secrets that never live in YAML.
const (
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvRemoteURL   = "CASHRUN_REMOTE_URL"
	EnvRemoteToken = "CASHRUN_REMOTE_TOKEN"
)

// LoadEnv reads .env files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv copies secrets from the environment into cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvGeminiKey); v != "" {
		cfg.Trivia.APIKey = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv(EnvRemoteToken); v != "" {
		cfg.Remote.Token = v
	}
}
