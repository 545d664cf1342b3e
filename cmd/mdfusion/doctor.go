package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-mdfusion"
	"github.com/alnah/go-mdfusion/internal/config"
	"github.com/alnah/go-mdfusion/internal/fileutil"
)

// versionTimeout bounds each "--version" probe.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Pandoc   toolInfo   `json:"pandoc"`
	XeLaTeX  toolInfo   `json:"xelatex"`
	Chrome   chromeInfo `json:"chrome"`
	Config   configInfo `json:"config"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for a command-line tool.
type toolInfo struct {
	Found   bool   `json:"found"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// configInfo holds config discovery results.
type configInfo struct {
	Path string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctor runs diagnostic checks against injectable probes.
type doctor struct {
	getenv      func(string) string
	runner      mdfusion.CommandRunner
	browserPath func(getenv func(string) string) (string, bool)
	findConfig  func() (string, error)
	tempDir     string
	dockerEnv   string // marker file Docker creates in containers
}

// newDoctor returns a doctor probing the real system.
func newDoctor(env *Environment) *doctor {
	return &doctor{
		getenv:      env.Getenv,
		runner:      &mdfusion.ExecRunner{},
		browserPath: mdfusion.BrowserPath,
		findConfig:  config.Find,
		tempDir:     os.TempDir(),
		dockerEnv:   "/.dockerenv",
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := newDoctor(env).run(context.Background())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// run performs all diagnostic checks.
func (d *doctor) run(ctx context.Context) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  d.getenv("ROD_NO_SANDBOX"),
			BrowserBin: d.getenv("ROD_BROWSER_BIN"),
		},
	}

	d.checkPandoc(ctx, result)
	d.checkXeLaTeX(ctx, result)
	d.checkChrome(ctx, result)
	d.checkConfig(result)
	d.checkEnvironment(result)
	d.checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// version runs "<bin> --version" and returns its first output line.
func (d *doctor) version(ctx context.Context, bin string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	stdout, _, err := d.runner.Run(ctx, bin, "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(line), nil
}

// checkPandoc is fatal: every mode runs pandoc except the chrome engine.
func (d *doctor) checkPandoc(ctx context.Context, result *doctorResult) {
	v, err := d.version(ctx, mdfusion.ToolPandoc)
	if errors.Is(err, mdfusion.ErrMissingDependency) {
		result.Errors = append(result.Errors,
			"pandoc not found. Install it from https://pandoc.org/installing.html")
		return
	}
	result.Pandoc.Found = true
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get pandoc version: %v", err))
		return
	}
	result.Pandoc.Version = v
}

// checkXeLaTeX warns: without it only the chrome engine renders PDF.
func (d *doctor) checkXeLaTeX(ctx context.Context, result *doctorResult) {
	v, err := d.version(ctx, mdfusion.ToolXeLaTeX)
	if errors.Is(err, mdfusion.ErrMissingDependency) {
		result.Warnings = append(result.Warnings,
			"xelatex not found. PDF output needs a TeX distribution or --engine chrome")
		return
	}
	result.XeLaTeX.Found = true
	if err == nil {
		result.XeLaTeX.Version = v
	}
}

// checkChrome warns: the browser is needed by presentations and the chrome engine.
func (d *doctor) checkChrome(ctx context.Context, result *doctorResult) {
	chromePath, found := d.browserPath(d.getenv)
	if !found {
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	v, err := d.version(ctx, chromePath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = v
}

// checkConfig reports which config file a convert run would load.
func (d *doctor) checkConfig(result *doctorResult) {
	path, err := d.findConfig()
	if err != nil {
		return
	}
	result.Config.Path = path
	if _, err := config.Load(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config %s: %v", path, err))
	}
}

// checkEnvironment detects container and CI environments.
func (d *doctor) checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = d.isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if d.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func (d *doctor) isContainer() (bool, string) {
	if d.getenv("MDFUSION_CONTAINER") == "1" {
		return true, "MDFUSION_CONTAINER=1"
	}
	if fileutil.FileExists(d.dockerEnv) {
		return true, d.dockerEnv
	}
	if v := d.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if d.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the work directory can be created.
func (d *doctor) checkSystem(result *doctorResult) {
	testFile := filepath.Join(d.tempDir, "mdfusion-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", d.tempDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printTool prints one tool line.
func printTool(w io.Writer, name string, t toolInfo, missing string) {
	fmt.Fprintln(w, name)
	if !t.Found {
		fmt.Fprintf(w, "  %s Not found\n", missing)
		return
	}
	if t.Version != "" {
		fmt.Fprintf(w, "  [OK] %s\n", t.Version)
	} else {
		fmt.Fprintln(w, "  [OK] Found")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdfusion doctor")
	fmt.Fprintln(w)

	printTool(w, "Pandoc", r.Pandoc, "[ERROR]")
	fmt.Fprintln(w)
	printTool(w, "XeLaTeX", r.XeLaTeX, "[WARN]")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Config.Path != "" {
		fmt.Fprintf(w, "  [OK] Config: %s\n", r.Config.Path)
	} else {
		fmt.Fprintln(w, "  [OK] Config: none (defaults)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to fuse")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
