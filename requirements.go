package mdfusion

import (
	"os/exec"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdfusion/internal/fileutil"
)

// External tools.
const (
	ToolPandoc  = "pandoc"
	ToolXeLaTeX = "xelatex"
	ToolChrome  = "chrome"
)

// RequiredTools lists the executables a run with p needs on PATH.
// The browser is not listed: rod downloads one when none is installed.
func RequiredTools(p Params) []string {
	switch {
	case p.Presentation:
		return []string{ToolPandoc}
	case p.Engine == EngineChrome:
		return nil
	case p.Output == "" || fileutil.HasExtension(p.Output, ".pdf"):
		return []string{ToolPandoc, ToolXeLaTeX}
	default:
		return []string{ToolPandoc}
	}
}

// CheckRequirements returns a *MissingDependencyError naming every tool
// that cannot be found on PATH.
func CheckRequirements(tools ...string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return &MissingDependencyError{Tools: missing}
	}
	return nil
}

// BrowserPath returns the Chrome or Chromium executable rod would use,
// honoring ROD_BROWSER_BIN.
func BrowserPath(getenv func(string) string) (string, bool) {
	if bin := getenv("ROD_BROWSER_BIN"); bin != "" {
		return bin, fileutil.FileExists(bin)
	}
	return launcher.LookPath()
}
