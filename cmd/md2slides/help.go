package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2slides <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a markdown file or URL to Google Slides")
	fmt.Fprintln(w, "  doctor     Check configuration and credentials")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2slides help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2slides convert <markdown-file-or-url> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert GitHub-Flavored Markdown to a Google Slides presentation.")
	fmt.Fprintln(w, "Headings start slides: # title slide, ## section header, ### and deeper")
	fmt.Fprintln(w, "title and body. A horizontal rule ends the deck.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Local markdown file or http(s) URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presentation:")
	fmt.Fprintln(w, "      --id <id>             Update an existing presentation")
	fmt.Fprintln(w, "      --title <s>           Title of a new presentation (\"\" = first heading)")
	fmt.Fprintln(w, "      --erase               Delete existing slides first")
	fmt.Fprintln(w, "  -n, --dry-run             Print the slide deck as YAML, do not upload")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "      --code-font <s>       Font for code (default: Consolas)")
	fmt.Fprintln(w, "      --bullet-preset <s>   Preset for unordered lists")
	fmt.Fprintln(w, "      --numbered-preset <s> Preset for ordered lists")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Credentials:")
	fmt.Fprintln(w, "      --credentials <path>  OAuth client secret JSON")
	fmt.Fprintln(w, "      --token-file <path>   Cached OAuth token")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Overall timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2SLIDES_CONFIG, MD2SLIDES_TIMEOUT, MD2SLIDES_PRESENTATION_ID,")
	fmt.Fprintln(w, "  MD2SLIDES_CREDENTIALS, MD2SLIDES_TOKEN_FILE, MD2SLIDES_CODE_FONT")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2slides doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that a config, an OAuth client secret and a cached token are in place.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2slides version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: md2slides help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
