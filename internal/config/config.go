package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-md2slides/internal/fileutil"
	"github.com/alnah/go-md2slides/internal/yamlutil"
)

// AppDirName is the directory under the user config dir holding config files,
// the OAuth client secret and the token cache.
const AppDirName = "go-md2slides"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrInvalidPreset   = fmt.Errorf("%w: unknown bullet preset", ErrInvalidValue)
)

// Field length limits.
const (
	MaxPresentationIDLength = 128  // Drive file IDs are 44 chars today
	MaxTitleLength          = 200  // Drive file name shown in the UI
	MaxFontLength           = 100  // Font family name
	MaxPresetLength         = 50   // Bullet preset enum
	MaxPathLength           = 4096 // PATH_MAX on Linux
)

// Bullet presets accepted by the Slides API.
var (
	BulletPresets = []string{
		"BULLET_DISC_CIRCLE_SQUARE",
		"BULLET_DIAMONDX_ARROW3D_SQUARE",
		"BULLET_CHECKBOX",
		"BULLET_ARROW_DIAMOND_DISC",
		"BULLET_STAR_CIRCLE_SQUARE",
		"BULLET_ARROW3D_CIRCLE_SQUARE",
		"BULLET_LEFTTRIANGLE_DIAMOND_DISC",
		"BULLET_DIAMONDX_HOLLOWDIAMOND_SQUARE",
		"BULLET_DIAMOND_CIRCLE_SQUARE",
	}
	NumberedPresets = []string{
		"NUMBERED_DIGIT_ALPHA_ROMAN",
		"NUMBERED_DIGIT_ALPHA_ROMAN_PARENS",
		"NUMBERED_DIGIT_NESTED",
		"NUMBERED_UPPERALPHA_ALPHA_ROMAN",
		"NUMBERED_UPPERROMAN_UPPERALPHA_DIGIT",
		"NUMBERED_ZERODIGIT_ALPHA_ROMAN",
	}
)

// Config holds all configuration for a conversion.
type Config struct {
	Presentation PresentationConfig `yaml:"presentation"`
	Style        StyleConfig        `yaml:"style"`
	Auth         AuthConfig         `yaml:"auth"`
	Timeout      string             `yaml:"timeout"` // Go duration, e.g. "90s" (empty = default)
}

// PresentationConfig selects the target presentation.
type PresentationConfig struct {
	ID    string `yaml:"id"`    // Existing presentation (empty = create new)
	Title string `yaml:"title"` // Title for a new presentation (empty = first heading)
	Erase bool   `yaml:"erase"` // Delete existing slides before adding new ones
}

// StyleConfig defines text rendering choices.
type StyleConfig struct {
	CodeFont       string `yaml:"codeFont"`       // Font for code spans and blocks (default: Consolas)
	BulletPreset   string `yaml:"bulletPreset"`   // Preset for unordered lists
	NumberedPreset string `yaml:"numberedPreset"` // Preset for ordered lists
}

// AuthConfig locates OAuth credentials.
type AuthConfig struct {
	ClientSecret string `yaml:"clientSecret"` // OAuth client JSON (default: <config dir>/client_secret.json)
	TokenFile    string `yaml:"tokenFile"`    // Cached token (default: <config dir>/token.yaml)
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"presentation.id", c.Presentation.ID, MaxPresentationIDLength},
		{"presentation.title", c.Presentation.Title, MaxTitleLength},
		{"style.codeFont", c.Style.CodeFont, MaxFontLength},
		{"style.bulletPreset", c.Style.BulletPreset, MaxPresetLength},
		{"style.numberedPreset", c.Style.NumberedPreset, MaxPresetLength},
		{"auth.clientSecret", c.Auth.ClientSecret, MaxPathLength},
		{"auth.tokenFile", c.Auth.TokenFile, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Presentation.ID != "" && c.Presentation.Title != "" {
		return fmt.Errorf("%w: presentation.id and presentation.title are mutually exclusive", ErrInvalidValue)
	}
	if p := c.Style.BulletPreset; p != "" && !slices.Contains(BulletPresets, p) {
		return fmt.Errorf("%w: style.bulletPreset %q", ErrInvalidPreset, p)
	}
	if p := c.Style.NumberedPreset; p != "" && !slices.Contains(NumberedPresets, p) {
		return fmt.Errorf("%w: style.numberedPreset %q", ErrInvalidPreset, p)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses Timeout. Zero means unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidValue, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that creates a new presentation
// with the default style and credential locations.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AppDir returns <user config dir>/go-md2slides.
func AppDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, AppDirName), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2slides/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if appDir, err := AppDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(appDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
