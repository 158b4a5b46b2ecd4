package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-md2slides/internal/config"
)

// envPrefix starts every environment variable md2slides reads.
const envPrefix = "MD2SLIDES_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // MD2SLIDES_CONFIG: config file name or path
	Timeout        time.Duration // MD2SLIDES_TIMEOUT: overall timeout
	PresentationID string        // MD2SLIDES_PRESENTATION_ID: presentation to update
	Credentials    string        // MD2SLIDES_CREDENTIALS: OAuth client secret JSON
	TokenFile      string        // MD2SLIDES_TOKEN_FILE: cached token
	CodeFont       string        // MD2SLIDES_CODE_FONT: font for code
}

// knownEnvVars lists valid MD2SLIDES_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2SLIDES_CONFIG":          true,
	"MD2SLIDES_TIMEOUT":         true,
	"MD2SLIDES_PRESENTATION_ID": true,
	"MD2SLIDES_CREDENTIALS":     true,
	"MD2SLIDES_TOKEN_FILE":      true,
	"MD2SLIDES_CODE_FONT":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid or non-positive timeouts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:     getenv("MD2SLIDES_CONFIG"),
		PresentationID: getenv("MD2SLIDES_PRESENTATION_ID"),
		Credentials:    getenv("MD2SLIDES_CREDENTIALS"),
		TokenFile:      getenv("MD2SLIDES_TOKEN_FILE"),
		CodeFont:       getenv("MD2SLIDES_CODE_FONT"),
	}

	if timeout := getenv("MD2SLIDES_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2SLIDES_* variables.
// Helps catch typos like MD2SLIDES_TOKEN instead of MD2SLIDES_TOKEN_FILE.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// An env presentation ID only applies when the config does not
	// already pick a target, so a config title still creates a new deck.
	if env.PresentationID != "" && cfg.Presentation.ID == "" && cfg.Presentation.Title == "" {
		cfg.Presentation.ID = env.PresentationID
	}
	if env.Credentials != "" && cfg.Auth.ClientSecret == "" {
		cfg.Auth.ClientSecret = env.Credentials
	}
	if env.TokenFile != "" && cfg.Auth.TokenFile == "" {
		cfg.Auth.TokenFile = env.TokenFile
	}
	if env.CodeFont != "" && cfg.Style.CodeFont == "" {
		cfg.Style.CodeFont = env.CodeFont
	}
}
