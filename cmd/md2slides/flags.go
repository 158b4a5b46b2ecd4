package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// presentationFlags select the target presentation.
type presentationFlags struct {
	id    string
	title string
	erase bool
}

// styleFlags override text rendering choices.
type styleFlags struct {
	codeFont       string
	bulletPreset   string
	numberedPreset string
}

// authFlags locate OAuth credentials.
type authFlags struct {
	credentials string
	tokenFile   string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common       commonFlags
	timeout      string
	dryRun       bool
	presentation presentationFlags
	style        styleFlags
	auth         authFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPresentationFlags adds presentation selection flags to a FlagSet.
func addPresentationFlags(fs *flag.FlagSet, f *presentationFlags) {
	fs.StringVar(&f.id, "id", "", "existing presentation ID to update")
	fs.StringVar(&f.title, "title", "", "title of a new presentation (\"\" = first heading)")
	fs.BoolVar(&f.erase, "erase", false, "delete existing slides first")
}

// addStyleFlags adds text style flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.codeFont, "code-font", "", "font for code (default: Consolas)")
	fs.StringVar(&f.bulletPreset, "bullet-preset", "", "bullet preset for unordered lists")
	fs.StringVar(&f.numberedPreset, "numbered-preset", "", "bullet preset for ordered lists")
}

// addAuthFlags adds credential flags to a FlagSet.
func addAuthFlags(fs *flag.FlagSet, f *authFlags) {
	fs.StringVar(&f.credentials, "credentials", "", "OAuth client secret JSON file")
	fs.StringVar(&f.tokenFile, "token-file", "", "cached OAuth token file")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.timeout, "timeout", "t", "", "overall timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "print the slide deck as YAML, do not upload")

	addCommonFlags(fs, &f.common)
	addPresentationFlags(fs, &f.presentation)
	addStyleFlags(fs, &f.style)
	addAuthFlags(fs, &f.auth)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
