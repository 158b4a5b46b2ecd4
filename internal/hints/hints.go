// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForMissingCredentials returns hints when the OAuth client secret is absent.
func ForMissingCredentials(path string) string {
	return format("download an OAuth client ID (Desktop app) from the Google Cloud console and save it as " + path + ", or pass --credentials")
}

// ForAuthorization returns hints when the cached token is rejected.
// Headless sessions cannot open the consent page, so they get an extra hint.
func ForAuthorization(tokenFile string) string {
	hints := []string{"delete " + tokenFile + " and run again to re-authorize"}
	if isHeadless() {
		hints = append(hints, "authorize once on a machine with a browser and copy the token file")
	}
	return formatHints(hints)
}

// ForMissingLayout returns hints for presentations lacking predefined layouts.
func ForMissingLayout() string {
	return format("the presentation theme must keep the predefined layouts (Title, Section header, Title and body); try a new presentation")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large decks or slow networks, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2slides/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2slides") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForPresets returns hints listing accepted bullet presets.
func ForPresets(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// isHeadless reports whether no graphical session is visible.
var isHeadless = func() bool {
	return os.Getenv("SSH_CONNECTION") != "" ||
		(os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" && os.Getenv("XDG_SESSION_TYPE") == "tty")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
