package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-mdfusion/internal/config"
)

// envPrefix marks mdfusion environment variables.
const envPrefix = "MDFUSION_"

// ErrInvalidEnvValue indicates an environment variable could not be parsed.
var ErrInvalidEnvValue = errors.New("invalid environment variable")

// envConfig holds configuration from environment variables.
// Pointers distinguish "unset" from an explicit false.
type envConfig struct {
	ConfigPath     string // MDFUSION_CONFIG
	RootDir        string // MDFUSION_ROOT_DIR
	Output         string // MDFUSION_OUTPUT
	Title          string // MDFUSION_TITLE
	Author         string // MDFUSION_AUTHOR
	Date           string // MDFUSION_DATE
	PandocArgs     string // MDFUSION_PANDOC_ARGS, whitespace-separated
	HeaderTex      string // MDFUSION_HEADER_TEX
	Engine         string // MDFUSION_ENGINE
	Timeout        string // MDFUSION_TIMEOUT
	Assets         string // MDFUSION_ASSETS
	Margin         string // MDFUSION_MARGIN
	CSS            string // MDFUSION_CSS
	HeadingSize    int    // MDFUSION_HEADING_SIZE
	NoTOC          *bool  // MDFUSION_NO_TOC
	TitlePage      *bool  // MDFUSION_TITLE_PAGE
	Debug          *bool  // MDFUSION_DEBUG
	Presentation   *bool  // MDFUSION_PRESENTATION
	CenterHeadings *bool  // MDFUSION_CENTER_HEADINGS
}

// knownEnvVars lists valid MDFUSION_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDFUSION_CONFIG":          true,
	"MDFUSION_ROOT_DIR":        true,
	"MDFUSION_OUTPUT":          true,
	"MDFUSION_TITLE":           true,
	"MDFUSION_AUTHOR":          true,
	"MDFUSION_DATE":            true,
	"MDFUSION_PANDOC_ARGS":     true,
	"MDFUSION_HEADER_TEX":      true,
	"MDFUSION_ENGINE":          true,
	"MDFUSION_TIMEOUT":         true,
	"MDFUSION_ASSETS":          true,
	"MDFUSION_MARGIN":          true,
	"MDFUSION_CSS":             true,
	"MDFUSION_HEADING_SIZE":    true,
	"MDFUSION_NO_TOC":          true,
	"MDFUSION_TITLE_PAGE":      true,
	"MDFUSION_DEBUG":           true,
	"MDFUSION_PRESENTATION":    true,
	"MDFUSION_CENTER_HEADINGS": true,
	"MDFUSION_CONTAINER":       true,
}

// loadDotEnv reads KEY=value pairs from path. A missing file yields no values.
func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, nil
}

// layeredGetenv looks a variable up in the process environment first, then
// in the .env values.
func layeredGetenv(getenv func(string) string, dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: getenv("MDFUSION_CONFIG"),
		RootDir:    getenv("MDFUSION_ROOT_DIR"),
		Output:     getenv("MDFUSION_OUTPUT"),
		Title:      getenv("MDFUSION_TITLE"),
		Author:     getenv("MDFUSION_AUTHOR"),
		Date:       getenv("MDFUSION_DATE"),
		PandocArgs: getenv("MDFUSION_PANDOC_ARGS"),
		HeaderTex:  getenv("MDFUSION_HEADER_TEX"),
		Engine:     getenv("MDFUSION_ENGINE"),
		Timeout:    getenv("MDFUSION_TIMEOUT"),
		Assets:     getenv("MDFUSION_ASSETS"),
		Margin:     getenv("MDFUSION_MARGIN"),
		CSS:        getenv("MDFUSION_CSS"),
	}

	if v := getenv("MDFUSION_HEADING_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: MDFUSION_HEADING_SIZE=%q (want a positive integer)", ErrInvalidEnvValue, v)
		}
		cfg.HeadingSize = n
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{"MDFUSION_NO_TOC", &cfg.NoTOC},
		{"MDFUSION_TITLE_PAGE", &cfg.TitlePage},
		{"MDFUSION_DEBUG", &cfg.Debug},
		{"MDFUSION_PRESENTATION", &cfg.Presentation},
		{"MDFUSION_CENTER_HEADINGS", &cfg.CenterHeadings},
	}
	for _, b := range bools {
		v := getenv(b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q (want true or false)", ErrInvalidEnvValue, b.name, v)
		}
		*b.dst = &parsed
	}

	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized MDFUSION_* variables.
// Helps catch typos like MDFUSION_AUTOR instead of MDFUSION_AUTHOR.
func warnUnknownEnvVars(w io.Writer, environ []string, dotenv map[string]string) {
	seen := make(map[string]bool)
	for _, kv := range environ {
		seen[strings.SplitN(kv, "=", 2)[0]] = true
	}
	for k := range dotenv {
		seen[k] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies set environment values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&cfg.RootDir, env.RootDir)
	setString(&cfg.Output, env.Output)
	setString(&cfg.Title, env.Title)
	setString(&cfg.Author, env.Author)
	setString(&cfg.Date, env.Date)
	setString(&cfg.HeaderTex, env.HeaderTex)
	setString(&cfg.Engine, env.Engine)
	setString(&cfg.Timeout, env.Timeout)
	setString(&cfg.Assets, env.Assets)
	setString(&cfg.Style.Margin, env.Margin)
	setString(&cfg.Style.CSS, env.CSS)

	if env.PandocArgs != "" {
		cfg.PandocArgs = strings.Fields(env.PandocArgs)
	}
	if env.HeadingSize > 0 {
		cfg.Style.HeadingSize = env.HeadingSize
	}

	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setBool(&cfg.NoTOC, env.NoTOC)
	setBool(&cfg.TitlePage, env.TitlePage)
	setBool(&cfg.Debug, env.Debug)
	setBool(&cfg.Presentation, env.Presentation)
	if env.CenterHeadings != nil {
		v := *env.CenterHeadings
		cfg.Style.CenterHeadings = &v
	}
}
