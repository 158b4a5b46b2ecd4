package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	md2slides "github.com/alnah/go-md2slides"
	"github.com/alnah/go-md2slides/internal/auth"
	"github.com/alnah/go-md2slides/internal/config"
	"github.com/alnah/go-md2slides/internal/fileutil"
	"github.com/alnah/go-md2slides/internal/gslides"
	"github.com/alnah/go-md2slides/internal/hints"
	"github.com/alnah/go-md2slides/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrTooManyInputs    = errors.New("only one input can be converted at a time")
	ErrReadMarkdown     = errors.New("failed to read markdown")
	ErrNoSlides         = errors.New("no slides: the document has no heading before the first horizontal rule")
	ErrConflictingFlags = errors.New("--id and --title are mutually exclusive")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrUnknownCommand   = errors.New("unknown command")
)

// defaultTimeout bounds a whole conversion, including the OAuth consent
// step on first use.
const defaultTimeout = 5 * time.Minute

// Default credential file names inside the app config directory.
const (
	defaultClientSecretName = "client_secret.json"
	defaultTokenFileName    = "token.yaml"
)

// runConvert orchestrates one conversion: config, source, slides, upload.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: got %d", ErrTooManyInputs, len(positionalArgs))
	}
	source := positionalArgs[0]

	envCfg := loadEnvConfig(env.Getenv)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalidPreset) {
			return fmt.Errorf("%w%s", err, hints.ForPresets(slices.Concat(config.BulletPresets, config.NumberedPresets)))
		}
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout, cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := env.Now()
	markdown, err := fileutil.ReadSource(ctx, env.HTTPClient, source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}

	data, err := md2slides.NewConverter().Convert(ctx, md2slides.Input{
		Markdown:       markdown,
		PresentationID: cfg.Presentation.ID,
		Title:          cfg.Presentation.Title,
		EraseExisting:  cfg.Presentation.Erase,
	})
	if err != nil {
		return fmt.Errorf("converting %s: %w", source, err)
	}
	if data == nil {
		return fmt.Errorf("%w: %s", ErrNoSlides, source)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Parsed %d slides in %v\n", len(data.Slides), env.Now().Sub(start).Round(time.Millisecond))
	}

	if flags.dryRun {
		return yamlutil.Encode(env.Stdout, data)
	}

	backend, err := env.NewBackend(ctx, cfg, env.Stderr)
	if err != nil {
		return err
	}
	gen, err := md2slides.NewGenerator(backend, md2slides.WithRenderStyle(md2slides.RenderStyle{
		CodeFont:       cfg.Style.CodeFont,
		BulletPreset:   cfg.Style.BulletPreset,
		NumberedPreset: cfg.Style.NumberedPreset,
	}))
	if err != nil {
		return err
	}

	id, err := gen.Generate(ctx, data)
	if err != nil {
		return withRenderHints(err, cfg)
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Uploaded %d slides in %v\n", len(data.Slides), env.Now().Sub(start).Round(time.Millisecond))
	}
	fmt.Fprintln(env.Stdout, md2slides.PresentationURL(id))
	return nil
}

// loadConfig loads the config named by the flag, else by MD2SLIDES_CONFIG,
// else returns defaults.
func loadConfig(flagValue string, envCfg *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configSearchPaths lists where a config name is looked up, for hints.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	paths := []string{name + ".yaml"}
	if dir, err := config.AppDir(); err == nil {
		paths = append(paths, filepath.Join(dir, name+".yaml"))
	}
	return paths
}

// mergeFlags applies explicitly set CLI flags over config values.
// A flag naming a target presentation replaces the other target field.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	p := flags.presentation
	if p.id != "" && p.title != "" {
		return ErrConflictingFlags
	}
	if p.id != "" {
		cfg.Presentation.ID = p.id
		cfg.Presentation.Title = ""
	}
	if p.title != "" {
		cfg.Presentation.Title = p.title
		cfg.Presentation.ID = ""
	}
	if p.erase {
		cfg.Presentation.Erase = true
	}

	if flags.style.codeFont != "" {
		cfg.Style.CodeFont = flags.style.codeFont
	}
	if flags.style.bulletPreset != "" {
		cfg.Style.BulletPreset = flags.style.bulletPreset
	}
	if flags.style.numberedPreset != "" {
		cfg.Style.NumberedPreset = flags.style.numberedPreset
	}

	if flags.auth.credentials != "" {
		cfg.Auth.ClientSecret = flags.auth.credentials
	}
	if flags.auth.tokenFile != "" {
		cfg.Auth.TokenFile = flags.auth.tokenFile
	}
	return nil
}

// resolveTimeout picks the timeout with priority flag > env > config > default.
func resolveTimeout(flagValue string, envValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	d, err := cfg.TimeoutDuration()
	if err != nil {
		return 0, err
	}
	if d > 0 {
		return d, nil
	}
	return defaultTimeout, nil
}

// credentialPaths returns the client secret and token cache locations,
// defaulting to files in the app config directory.
func credentialPaths(cfg *config.Config) (secret, token string, err error) {
	secret, token = cfg.Auth.ClientSecret, cfg.Auth.TokenFile
	if secret != "" && token != "" {
		return secret, token, nil
	}
	dir, err := config.AppDir()
	if err != nil {
		return "", "", err
	}
	if secret == "" {
		secret = filepath.Join(dir, defaultClientSecretName)
	}
	if token == "" {
		token = filepath.Join(dir, defaultTokenFileName)
	}
	return secret, token, nil
}

// newGoogleBackend authorizes with OAuth2 and returns a Slides API client.
func newGoogleBackend(ctx context.Context, cfg *config.Config, prompt io.Writer) (md2slides.Backend, error) {
	secret, token, err := credentialPaths(cfg)
	if err != nil {
		return nil, err
	}

	oauthCfg, err := auth.LoadClientConfig(secret, gslides.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForMissingCredentials(secret))
	}

	flow := &auth.Flow{
		Config: oauthCfg,
		Store:  auth.TokenStore{Path: token},
		Prompt: prompt,
	}
	hc, err := flow.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForAuthorization(token))
	}

	return gslides.NewWithHTTPClient(ctx, hc)
}

// withRenderHints appends hints to generator errors users can act on.
func withRenderHints(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, md2slides.ErrMissingLayout):
		return fmt.Errorf("%w%s", err, hints.ForMissingLayout())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case gslides.IsUnauthorized(err):
		_, token, pathErr := credentialPaths(cfg)
		if pathErr != nil {
			return err
		}
		return fmt.Errorf("%w%s", err, hints.ForAuthorization(token))
	}
	return err
}
