package main

// Notes:
// - runConvert: we run the whole pipeline against the in-memory backend from
//   helpers_test.go; Google authorization is never reached.
// - newGoogleBackend: only the missing client secret branch is tested; the
//   consent flow is covered in internal/auth.
// - mergeFlags/resolveTimeout: we test precedence (flag > env > config > default).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	md2slides "github.com/alnah/go-md2slides"
	"github.com/alnah/go-md2slides/internal/auth"
	"github.com/alnah/go-md2slides/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunConvert - End to end with an in-memory backend
// ---------------------------------------------------------------------------

func TestRunConvert_Upload(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	input := writeFile(t, t.TempDir(), "deck.md", sampleDeck)

	if err := runConvert(context.Background(), []string{input}, &convertFlags{}, te.Environment); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}

	if got := strings.TrimSpace(te.stdout.String()); got != md2slides.PresentationURL("fake-deck") {
		t.Errorf("stdout = %q, want the presentation URL", got)
	}
	if len(te.backend.titles) != 1 || te.backend.titles[0] != "Quarterly review" {
		t.Errorf("created decks = %v, want [Quarterly review]", te.backend.titles)
	}
	if got := len(te.backend.deck.Slides); got != 3 {
		t.Errorf("deck has %d slides, want 3", got)
	}

	text := strings.Join(te.backend.insertedText(), "|")
	for _, want := range []string{"Quarterly review", "A look back", "Highlights", "\tRevenue up\n\tChurn down"} {
		if !strings.Contains(text, want) {
			t.Errorf("inserted text %q missing %q", text, want)
		}
	}
}

func TestRunConvert_DryRun(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.NewBackend = func(context.Context, *config.Config, io.Writer) (md2slides.Backend, error) {
		t.Error("dry run should not build a backend")
		return nil, errors.New("unexpected")
	}
	input := writeFile(t, t.TempDir(), "deck.md", sampleDeck)

	flags := &convertFlags{dryRun: true}
	if err := runConvert(context.Background(), []string{input}, flags, te.Environment); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}

	out := te.stdout.String()
	for _, want := range []string{"title: Quarterly review", "kind: TitleSlide", "kind: SectionHeader", "kind: TitleAndBody", "isBold: true", "eraseExisting: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("dry run output missing %q:\n%s", want, out)
		}
	}
}

func TestRunConvert_Targets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flags      convertFlags
		wantTitles []string
	}{
		{
			name:       "title flag overrides heading",
			flags:      convertFlags{presentation: presentationFlags{title: "Board deck"}},
			wantTitles: []string{"Board deck"},
		},
		{
			name:       "id flag updates existing deck",
			flags:      convertFlags{presentation: presentationFlags{id: "fake-deck", erase: true}},
			wantTitles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			input := writeFile(t, t.TempDir(), "deck.md", sampleDeck)
			if err := runConvert(context.Background(), []string{input}, &tt.flags, te.Environment); err != nil {
				t.Fatalf("runConvert() unexpected error: %v", err)
			}
			if fmt.Sprint(te.backend.titles) != fmt.Sprint(tt.wantTitles) {
				t.Errorf("created decks = %v, want %v", te.backend.titles, tt.wantTitles)
			}
		})
	}
}

func TestRunConvert_URLSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# Remote deck\n")
	}))
	t.Cleanup(srv.Close)

	te := newTestEnv(t)
	te.HTTPClient = srv.Client()

	if err := runConvert(context.Background(), []string{srv.URL + "/deck.md"}, &convertFlags{}, te.Environment); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}
	if len(te.backend.titles) != 1 || te.backend.titles[0] != "Remote deck" {
		t.Errorf("created decks = %v, want [Remote deck]", te.backend.titles)
	}
}

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	deck := writeFile(t, dir, "deck.md", sampleDeck)
	noHeading := writeFile(t, dir, "plain.md", "just text\n\nmore text\n")

	tests := []struct {
		name     string
		args     []string
		flags    convertFlags
		setup    func(te *testEnv)
		wantErr  error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "no input",
			wantErr:  ErrNoInput,
			wantCode: ExitUsage,
		},
		{
			name:     "too many inputs",
			args:     []string{deck, deck},
			wantErr:  ErrTooManyInputs,
			wantCode: ExitUsage,
		},
		{
			name:     "missing file",
			args:     []string{filepath.Join(dir, "absent.md")},
			wantErr:  ErrReadMarkdown,
			wantCode: ExitIO,
		},
		{
			name:     "no slides",
			args:     []string{noHeading},
			wantErr:  ErrNoSlides,
			wantCode: ExitContent,
		},
		{
			name:     "conflicting target flags",
			args:     []string{deck},
			flags:    convertFlags{presentation: presentationFlags{id: "x", title: "y"}},
			wantErr:  ErrConflictingFlags,
			wantCode: ExitUsage,
		},
		{
			name:     "unknown preset lists presets",
			args:     []string{deck},
			flags:    convertFlags{style: styleFlags{bulletPreset: "BULLET_SMILEY"}},
			wantErr:  config.ErrInvalidPreset,
			wantCode: ExitUsage,
			wantMsg:  "available: BULLET_DISC_CIRCLE_SQUARE",
		},
		{
			name:     "invalid timeout flag",
			args:     []string{deck},
			flags:    convertFlags{timeout: "fast"},
			wantErr:  ErrInvalidTimeout,
			wantCode: ExitUsage,
		},
		{
			name:     "missing config",
			args:     []string{deck},
			flags:    convertFlags{common: commonFlags{config: "./absent.yaml"}},
			wantErr:  config.ErrConfigNotFound,
			wantCode: ExitUsage,
			wantMsg:  "hint: use --config",
		},
		{
			name: "backend rejects batch",
			args: []string{deck},
			setup: func(te *testEnv) {
				te.backend.applyErr = fmt.Errorf("%w: quota", md2slides.ErrBackendCommunication)
			},
			wantErr:  md2slides.ErrBackendCommunication,
			wantCode: ExitBackend,
		},
		{
			name: "theme without layouts",
			args: []string{deck},
			setup: func(te *testEnv) {
				te.backend.deck.Layouts = nil
			},
			wantErr:  md2slides.ErrMissingLayout,
			wantCode: ExitBackend,
			wantMsg:  "predefined layouts",
		},
		{
			name: "authorization failure",
			args: []string{deck},
			setup: func(te *testEnv) {
				te.NewBackend = func(context.Context, *config.Config, io.Writer) (md2slides.Backend, error) {
					return nil, fmt.Errorf("%w: consent denied", auth.ErrAuthorization)
				}
			},
			wantErr:  auth.ErrAuthorization,
			wantCode: ExitBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(te)
			}
			err := runConvert(context.Background(), tt.args, &tt.flags, te.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runConvert() error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.wantCode)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRunConvert_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "talk.yaml", "presentation:\n  title: From config\nstyle:\n  codeFont: Fira Code\n")
	input := writeFile(t, dir, "deck.md", "# Heading\n\n### Code\n\n`x`\n")

	te := newTestEnv(t)
	flags := &convertFlags{common: commonFlags{config: cfgPath}}
	if err := runConvert(context.Background(), []string{input}, flags, te.Environment); err != nil {
		t.Fatalf("runConvert() unexpected error: %v", err)
	}
	if len(te.backend.titles) != 1 || te.backend.titles[0] != "From config" {
		t.Errorf("created decks = %v, want [From config]", te.backend.titles)
	}

	var font string
	for _, batch := range te.backend.batches {
		for _, in := range batch {
			if in.UpdateTextStyle != nil && in.UpdateTextStyle.Style.FontFamily != "" {
				font = in.UpdateTextStyle.Style.FontFamily
			}
		}
	}
	if font != "Fira Code" {
		t.Errorf("code font = %q, want Fira Code", font)
	}
}

func TestRunConvert_Messages(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "deck.md", sampleDeck)

	t.Run("verbose timing", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(t)
		flags := &convertFlags{common: commonFlags{verbose: true}}
		if err := runConvert(context.Background(), []string{input}, flags, te.Environment); err != nil {
			t.Fatalf("runConvert() unexpected error: %v", err)
		}
		for _, want := range []string{"Parsed 3 slides", "Uploaded 3 slides"} {
			if !strings.Contains(te.stderr.String(), want) {
				t.Errorf("stderr %q missing %q", te.stderr.String(), want)
			}
		}
	})

	t.Run("unknown env var warned", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(t)
		te.vars["MD2SLIDES_TOKEN"] = "x"
		if err := runConvert(context.Background(), []string{input}, &convertFlags{}, te.Environment); err != nil {
			t.Fatalf("runConvert() unexpected error: %v", err)
		}
		if !strings.Contains(te.stderr.String(), "MD2SLIDES_TOKEN") {
			t.Errorf("stderr %q should warn about MD2SLIDES_TOKEN", te.stderr.String())
		}
	})

	t.Run("quiet suppresses warnings", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(t)
		te.vars["MD2SLIDES_TOKEN"] = "x"
		flags := &convertFlags{common: commonFlags{quiet: true}}
		if err := runConvert(context.Background(), []string{input}, flags, te.Environment); err != nil {
			t.Fatalf("runConvert() unexpected error: %v", err)
		}
		if te.stderr.Len() != 0 {
			t.Errorf("stderr = %q, want nothing in quiet mode", te.stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Flag precedence over config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("id replaces configured title", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Presentation: config.PresentationConfig{Title: "Config title"}}
		if err := mergeFlags(&convertFlags{presentation: presentationFlags{id: "abc"}}, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Presentation.ID != "abc" || cfg.Presentation.Title != "" {
			t.Errorf("Presentation = %+v", cfg.Presentation)
		}
	})

	t.Run("title replaces configured id", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Presentation: config.PresentationConfig{ID: "abc"}}
		if err := mergeFlags(&convertFlags{presentation: presentationFlags{title: "New"}}, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Presentation.ID != "" || cfg.Presentation.Title != "New" {
			t.Errorf("Presentation = %+v", cfg.Presentation)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			Presentation: config.PresentationConfig{ID: "abc", Erase: true},
			Style:        config.StyleConfig{CodeFont: "Mono", BulletPreset: "BULLET_CHECKBOX"},
			Auth:         config.AuthConfig{ClientSecret: "s.json", TokenFile: "t.yaml"},
		}
		want := *cfg
		if err := mergeFlags(&convertFlags{}, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *cfg != want {
			t.Errorf("config = %+v, want %+v", *cfg, want)
		}
	})

	t.Run("style and auth flags override", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		flags := &convertFlags{
			style: styleFlags{codeFont: "Fira", bulletPreset: "BULLET_CHECKBOX", numberedPreset: "NUMBERED_DIGIT_NESTED"},
			auth:  authFlags{credentials: "c.json", tokenFile: "t.yaml"},
		}
		if err := mergeFlags(flags, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Style.CodeFont != "Fira" || cfg.Style.BulletPreset != "BULLET_CHECKBOX" || cfg.Style.NumberedPreset != "NUMBERED_DIGIT_NESTED" {
			t.Errorf("Style = %+v", cfg.Style)
		}
		if cfg.Auth.ClientSecret != "c.json" || cfg.Auth.TokenFile != "t.yaml" {
			t.Errorf("Auth = %+v", cfg.Auth)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveTimeout - Timeout precedence
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		cfg     string
		want    time.Duration
		wantErr error
	}{
		{"default", "", 0, "", defaultTimeout, nil},
		{"config", "", 0, "3m", 3 * time.Minute, nil},
		{"env beats config", "", 45 * time.Second, "3m", 45 * time.Second, nil},
		{"flag beats env", "10s", 45 * time.Second, "3m", 10 * time.Second, nil},
		{"malformed flag", "later", 0, "", 0, ErrInvalidTimeout},
		{"zero flag", "0s", 0, "", 0, ErrInvalidTimeout},
		{"malformed config", "", 0, "soon", 0, config.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveTimeout(tt.flag, tt.env, &config.Config{Timeout: tt.cfg})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCredentialPaths / TestNewGoogleBackend - Credential lookup
// ---------------------------------------------------------------------------

func TestCredentialPaths(t *testing.T) {
	t.Parallel()

	secret, token, err := credentialPaths(&config.Config{Auth: config.AuthConfig{ClientSecret: "/a.json", TokenFile: "/b.yaml"}})
	if err != nil || secret != "/a.json" || token != "/b.yaml" {
		t.Errorf("credentialPaths() = %q, %q, %v", secret, token, err)
	}

	secret, token, err = credentialPaths(config.DefaultConfig())
	if err != nil {
		t.Skip("no user config dir")
	}
	if filepath.Base(secret) != defaultClientSecretName || filepath.Base(token) != defaultTokenFileName {
		t.Errorf("defaults = %q, %q", secret, token)
	}
	if filepath.Base(filepath.Dir(secret)) != config.AppDirName {
		t.Errorf("secret %q should live in the app config directory", secret)
	}
}

func TestNewGoogleBackend_MissingSecret(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.Config{Auth: config.AuthConfig{
		ClientSecret: filepath.Join(dir, "absent.json"),
		TokenFile:    filepath.Join(dir, "token.yaml"),
	}}

	_, err := newGoogleBackend(context.Background(), cfg, io.Discard)
	if !errors.Is(err, auth.ErrClientSecret) {
		t.Fatalf("error = %v, want ErrClientSecret", err)
	}
	if !strings.Contains(err.Error(), "--credentials") {
		t.Errorf("error %q should carry the credentials hint", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exitCodeFor() = %d, want ExitUsage", exitCodeFor(err))
	}
}

// ---------------------------------------------------------------------------
// TestWithRenderHints - Actionable generator errors
// ---------------------------------------------------------------------------

func TestWithRenderHints(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Auth: config.AuthConfig{ClientSecret: "/s.json", TokenFile: "/t.yaml"}}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing layout", fmt.Errorf("x: %w", md2slides.ErrMissingLayout), "predefined layouts"},
		{"deadline", fmt.Errorf("creating slides: %w", context.DeadlineExceeded), "--timeout"},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := withRenderHints(tt.err, cfg)
			if !errors.Is(got, tt.err) {
				t.Errorf("withRenderHints() lost the original error: %v", got)
			}
			if tt.want == "" {
				if strings.Contains(got.Error(), "hint:") {
					t.Errorf("unexpected hint in %q", got)
				}
				return
			}
			if !strings.Contains(got.Error(), tt.want) {
				t.Errorf("error %q should contain %q", got, tt.want)
			}
		})
	}
}
