// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdfusion/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// installURLs points at install instructions for external tools.
var installURLs = map[string]string{
	"pandoc":  "https://pandoc.org/installing.html",
	"xelatex": "https://www.tug.org/texlive/",
	"chrome":  "https://www.google.com/chrome/",
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large trees or slow engines, use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/mdfusion.toml"

	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), "/mdfusion/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output file creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoDocuments returns a hint for a root that holds no Markdown files.
func ForNoDocuments() string {
	return format("only .md and .markdown files are merged; check the root directory")
}

// ForUnknownDirective returns a hint for an option pandoc rejected.
func ForUnknownDirective() string {
	return format("remove it from pandoc_args or the extra arguments; see pandoc --help")
}

// ForMissingDependency returns install hints for an external tool.
func ForMissingDependency(tool string) string {
	if url, ok := installURLs[tool]; ok {
		return format("install " + tool + ": " + url)
	}
	return format("install " + tool + " and make sure it is on PATH")
}

// ForPresentationOutput returns a hint for a presentation output without .html.
func ForPresentationOutput() string {
	return format("presentation output must end in .html, e.g. -o slides.html")
}

// ForAssetNotFound returns hints for missing style or template assets.
func ForAssetNotFound(available []string) string {
	if len(available) == 0 {
		return format("use a file path or set assets to a directory holding it")
	}
	return format("available: " + strings.Join(available, ", "))
}

// slashed normalizes separators so Windows paths match the same probe.
func slashed(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
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
