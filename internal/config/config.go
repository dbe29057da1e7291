package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds process configuration. The Gemini API key is mutable at
// runtime (the verify-and-save-key endpoint replaces it) so it lives behind
// a lock and every reader goes through APIKey().
type Config struct {
	DatabaseURL      string
	JWTSecret        string
	DevBypassEmail   string
	QuotaEnforcement bool
	Host             string
	Port             string
	FrontendURL      string

	envPath string

	mu     sync.RWMutex
	apiKey string
}

// Load reads the .env file (if present) and the process environment.
func Load(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
		// no .env file is fine, rely on system environment
	}

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		DevBypassEmail:   os.Getenv("DEV_BYPASS_EMAIL"),
		QuotaEnforcement: os.Getenv("QUOTA_ENFORCEMENT") != "off",
		Host:             getenvDefault("HOST", "0.0.0.0"),
		Port:             getenvDefault("PORT", "5000"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		envPath:          envPath,
		apiKey:           os.Getenv("GOOGLE_API_KEY"),
	}

	return cfg, nil
}

// APIKey returns the current Gemini API key, or "" when not configured.
func (c *Config) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// SetAPIKey persists a verified key to the .env file and swaps the
// in-memory copy. The swap happens only after the write succeeds, so
// concurrent readers never observe a key that was not durably saved.
func (c *Config) SetAPIKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	env, err := godotenv.Read(c.envPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", c.envPath, err)
		}
		env = map[string]string{}
	}
	env["GOOGLE_API_KEY"] = key

	if err := godotenv.Write(env, c.envPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.envPath, err)
	}

	c.apiKey = key
	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
