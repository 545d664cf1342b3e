package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdfusion <command> [flags] [args]")
	fmt.Fprintln(w, "       mdfusion <root> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Merge a Markdown tree and render it")
	fmt.Fprintln(w, "  doctor     Check external tools and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdfusion help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdfusion convert <root> [flags] [-- pandoc args...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge every Markdown file under root in natural order and render one document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  root      Directory to scan (optional if config or MDFUSION_ROOT_DIR sets it)")
	fmt.Fprintln(w, "  -- ...    Remaining arguments are passed to pandoc verbatim")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: <root>.pdf)")
	fmt.Fprintln(w, "  -c, --config <path>       Config file (default: ./mdfusion.toml)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Run timeout, e.g. 90s, 5m (default: 5m)")
	fmt.Fprintln(w, "      --assets <dir>        Override built-in styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title-page          Include a title page")
	fmt.Fprintln(w, "      --title <s>           Title (default: root directory name)")
	fmt.Fprintln(w, "      --author <s>          Author (default: OS user)")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "      --no-toc              Omit the table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine: pandoc (XeLaTeX), chrome")
	fmt.Fprintln(w, "      --presentation        Render a reveal.js deck (.html) and print it to PDF")
	fmt.Fprintln(w, "      --pandoc-args <s>     Extra pandoc arguments, whitespace-separated")
	fmt.Fprintln(w, "      --header-tex <path>   LaTeX header (default: ./header.tex when present)")
	fmt.Fprintln(w, "      --debug               Print pandoc output and run it verbosely")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "      --margin <s>          Page margin: 1in, 2cm, 15mm, 72pt")
	fmt.Fprintln(w, "      --center-headings     Center section headings (default: true)")
	fmt.Fprintln(w, "      --heading-size <n>    Section heading size in points (default: 16)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file for the chrome engine")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show counts and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDFUSION_* variables (also read from ./.env) override the config file;")
	fmt.Fprintln(w, "  flags override both.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdfusion doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check pandoc, XeLaTeX, Chrome and the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json    Output as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdfusion version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdfusion help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
