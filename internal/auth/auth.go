// Package auth obtains OAuth2 credentials for the Google Slides API.
//
// The first run performs the installed-app flow: a consent URL is printed,
// Google redirects the browser to a loopback listener, and the code is
// exchanged for a token. The token is cached as YAML and refreshed tokens
// are written back, so later runs need no interaction.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/alnah/go-md2slides/internal/fileutil"
	"github.com/alnah/go-md2slides/internal/yamlutil"
)

// Sentinel errors for credential operations.
var (
	ErrClientSecret  = errors.New("invalid OAuth client secret")
	ErrTokenCache    = errors.New("token cache unreadable")
	ErrAuthorization = errors.New("authorization failed")
)

// LoadClientConfig reads an OAuth client JSON file downloaded from the
// Google Cloud console.
func LoadClientConfig(path string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrClientSecret, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrClientSecret, err)
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrClientSecret, path, err)
	}
	return cfg, nil
}

// cachedToken is the on-disk form of an oauth2.Token.
type cachedToken struct {
	AccessToken  string    `yaml:"accessToken"`
	TokenType    string    `yaml:"tokenType,omitempty"`
	RefreshToken string    `yaml:"refreshToken,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
}

// TokenStore persists a token in a YAML file.
type TokenStore struct {
	Path string
}

// Load reads the cached token. The error wraps fs.ErrNotExist when no token
// has been cached yet.
func (s TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, err
	}
	var ct cachedToken
	if err := yamlutil.UnmarshalStrict(data, &ct); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTokenCache, s.Path, err)
	}
	if ct.AccessToken == "" && ct.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s holds no token", ErrTokenCache, s.Path)
	}
	return &oauth2.Token{
		AccessToken:  ct.AccessToken,
		TokenType:    ct.TokenType,
		RefreshToken: ct.RefreshToken,
		Expiry:       ct.Expiry,
	}, nil
}

// Save writes tok to the cache file with owner-only permissions.
func (s TokenStore) Save(tok *oauth2.Token) error {
	data, err := yamlutil.Marshal(cachedToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return err
	}
	if err := fileutil.WritePrivateFile(s.Path, data); err != nil {
		return fmt.Errorf("caching token: %w", err)
	}
	return nil
}

// Flow produces authorized HTTP clients, running the consent flow when no
// token is cached.
type Flow struct {
	Config *oauth2.Config
	Store  TokenStore

	// Prompt receives the consent URL and progress messages.
	Prompt io.Writer

	// Open, when set, is called with the consent URL (e.g. to launch a browser).
	Open func(url string) error

	// Listen opens the loopback listener for the redirect.
	// Defaults to a random port on 127.0.0.1.
	Listen func() (net.Listener, error)
}

// Client returns an HTTP client that attaches and refreshes the token.
func (f *Flow) Client(ctx context.Context) (*http.Client, error) {
	tok, err := f.Store.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		tok, err = f.authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := f.Store.Save(tok); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	src := &persistingSource{
		base:  f.Config.TokenSource(ctx, tok),
		store: f.Store,
		last:  tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// callback is the outcome of one redirect to the loopback listener.
type callback struct {
	code string
	err  error
}

// authorize runs the installed-app flow and exchanges the code for a token.
func (f *Flow) authorize(ctx context.Context) (*oauth2.Token, error) {
	listen := f.Listen
	if listen == nil {
		listen = func() (net.Listener, error) { return net.Listen("tcp", "127.0.0.1:0") }
	}
	ln, err := listen()
	if err != nil {
		return nil, fmt.Errorf("%w: opening redirect listener: %v", ErrAuthorization, err)
	}

	cfg := *f.Config
	cfg.RedirectURL = "http://" + ln.Addr().String() + "/"
	state := uuid.NewString()
	consentURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)

	results := make(chan callback, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() { _ = srv.Close() }()

	if f.Prompt != nil {
		fmt.Fprintf(f.Prompt, "Authorize md2slides by opening this URL in a browser:\n\n  %s\n\n", consentURL)
	}
	if f.Open != nil {
		if err := f.Open(consentURL); err != nil && f.Prompt != nil {
			fmt.Fprintf(f.Prompt, "Could not open a browser: %v\n", err)
		}
	}

	var cb callback
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case cb = <-results:
	}
	if cb.err != nil {
		return nil, cb.err
	}

	tok, err := cfg.Exchange(ctx, cb.code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %v", ErrAuthorization, err)
	}
	return tok, nil
}

// callbackHandler answers the OAuth redirect and reports the first valid
// outcome on results. Requests without a code or error are ignored so a
// browser's favicon fetch does not end the flow.
func callbackHandler(state string, results chan<- callback) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var cb callback
		switch {
		case q.Get("error") != "":
			cb.err = fmt.Errorf("%w: %s", ErrAuthorization, q.Get("error"))
		case q.Get("code") == "":
			http.NotFound(w, r)
			return
		case q.Get("state") != state:
			cb.err = fmt.Errorf("%w: state mismatch", ErrAuthorization)
		default:
			cb.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if cb.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "md2slides was not authorized. You can close this window.")
		} else {
			fmt.Fprintln(w, "md2slides is authorized. You can close this window.")
		}

		select {
		case results <- cb:
		default:
		}
	})
}

// persistingSource writes each newly refreshed token back to the store.
// Calls are serialized by the wrapping oauth2.ReuseTokenSource.
type persistingSource struct {
	base  oauth2.TokenSource
	store TokenStore
	last  string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	if tok.AccessToken != s.last {
		if err := s.store.Save(tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
