package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	md2slides "github.com/alnah/go-md2slides"
	"github.com/alnah/go-md2slides/internal/config"
)

// BackendFactory builds the presentation backend for a resolved config.
// Progress for interactive steps (the OAuth consent prompt) goes to prompt.
type BackendFactory func(ctx context.Context, cfg *config.Config, prompt io.Writer) (md2slides.Backend, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment lookup and the backend constructor.
type Environment struct {
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	Environ    func() []string
	HTTPClient *http.Client // Fetches markdown given as a URL
	NewBackend BackendFactory
}

// DefaultEnv returns the production environment talking to Google Slides.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		NewBackend: newGoogleBackend,
	}
}
