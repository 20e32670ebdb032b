package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the deployment settings Ladle needs: where the backend
// lives and how often the feed refreshes.
type Config struct {
	APIURL      string `toml:"api_url" validate:"required,url"`
	AuthURL     string `toml:"auth_url" validate:"required,url"`
	AssetURL    string `toml:"asset_url" validate:"required,url"`
	PollSeconds int    `toml:"poll_seconds" validate:"gte=0"`
}

const (
	defaultConfigPath = "~/.config/ladle/config.toml"
	defaultAPIURL     = "http://localhost/recipeshare/api/accfuntionality.php"
	defaultAuthURL    = "http://localhost/recipeshare/api/aut.php"
	defaultAssetURL   = "http://localhost/recipeshare/"
)

// Load locates and parses the Ladle config, falling back to defaults when
// missing. A .env file in the working directory and LADLE_* environment
// variables override file values, in that order of precedence.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:   defaultAPIURL,
		AuthURL:  defaultAuthURL,
		AssetURL: defaultAssetURL,
	}

	raw, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment are enough to run against a local
		// backend.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnv layers .env and process environment overrides onto cfg.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("LADLE_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LADLE_AUTH_URL")); v != "" {
		cfg.AuthURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LADLE_ASSET_URL")); v != "" {
		cfg.AssetURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LADLE_POLL_SECONDS")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.PollSeconds = secs
		}
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
