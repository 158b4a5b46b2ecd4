package main

// Notes:
// - This file contains test helpers used across command tests.
// - These are not functions under test themselves, but supporting infrastructure.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	md2slides "github.com/alnah/go-md2slides"
	"github.com/alnah/go-md2slides/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

// testEnv is an Environment whose outputs are captured and whose variables
// come from a map.
type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	vars    map[string]string
	backend *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		vars:    map[string]string{},
		backend: newFakeBackend(),
	}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	te.Environment = &Environment{
		Now:    func() time.Time { return clock },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewBackend: func(context.Context, *config.Config, io.Writer) (md2slides.Backend, error) {
			return te.backend, nil
		},
	}
	return te
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

const sampleDeck = `# Quarterly review

*A look back*

## Results

### Highlights

* Revenue **up**
* Churn down
`

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake backend
// ---------------------------------------------------------------------------

// fakeBackend is an in-memory presentation service. Created slides get the
// placeholders of their layout.
type fakeBackend struct {
	mu       sync.Mutex
	deck     md2slides.Deck
	titles   []string
	batches  [][]md2slides.Instruction
	applyErr error
}

var fakePlaceholders = map[string][]string{
	"L-TITLE":          {md2slides.PlaceholderCenteredTitle, md2slides.PlaceholderSubtitle},
	"L-SECTION_HEADER": {md2slides.PlaceholderTitle},
	"L-TITLE_AND_BODY": {md2slides.PlaceholderTitle, md2slides.PlaceholderBody},
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{deck: md2slides.Deck{ID: "fake-deck"}}
	for _, k := range []md2slides.SlideKind{md2slides.TitleSlide, md2slides.SectionHeader, md2slides.SectionTitleAndDescription, md2slides.TitleAndBody, md2slides.TitleAndTwoColumns} {
		name := md2slides.LayoutName(k)
		b.deck.Layouts = append(b.deck.Layouts, md2slides.Layout{ID: "L-" + name, Name: name})
	}
	return b
}

func (b *fakeBackend) CreateDeck(_ context.Context, title string) (*md2slides.Deck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.titles = append(b.titles, title)
	return b.snapshot(), nil
}

func (b *fakeBackend) GetDeck(_ context.Context, id string) (*md2slides.Deck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id != b.deck.ID {
		return nil, fmt.Errorf("%w: %s not found", md2slides.ErrBackendCommunication, id)
	}
	return b.snapshot(), nil
}

func (b *fakeBackend) BatchApply(_ context.Context, _ string, ins []md2slides.Instruction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.applyErr != nil {
		return b.applyErr
	}
	b.batches = append(b.batches, ins)
	for _, in := range ins {
		if in.CreateSlide == nil {
			continue
		}
		page := md2slides.Page{ID: in.CreateSlide.ObjectID}
		for i, ph := range fakePlaceholders[in.CreateSlide.LayoutID] {
			page.Elements = append(page.Elements, md2slides.PageElement{
				ID:              fmt.Sprintf("%s-%d", page.ID, i),
				PlaceholderType: ph,
			})
		}
		b.deck.Slides = append(b.deck.Slides, page)
	}
	return nil
}

func (b *fakeBackend) snapshot() *md2slides.Deck {
	d := b.deck
	d.Slides = append([]md2slides.Page(nil), b.deck.Slides...)
	return &d
}

// insertedText returns all InsertText payloads in order.
func (b *fakeBackend) insertedText() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, batch := range b.batches {
		for _, in := range batch {
			if in.InsertText != nil {
				out = append(out, in.InsertText.Text)
			}
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Credentials
// ---------------------------------------------------------------------------

const clientSecretJSON = `{"installed":{"client_id":"id","client_secret":"s","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

// tokenYAML returns a cached token valid for an hour from now.
func tokenYAML(refresh string) string {
	var b strings.Builder
	b.WriteString("accessToken: at\ntokenType: Bearer\n")
	if refresh != "" {
		b.WriteString("refreshToken: " + refresh + "\n")
	}
	b.WriteString("expiry: " + time.Now().Add(time.Hour).UTC().Format(time.RFC3339) + "\n")
	return b.String()
}
