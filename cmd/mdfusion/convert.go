package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdfusion"
	"github.com/alnah/go-mdfusion/internal/config"
	"github.com/alnah/go-mdfusion/internal/hints"
	"github.com/alnah/go-mdfusion/internal/spinner"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrNoInput        = errors.New("no root directory specified")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// spinnerMessage labels the progress spinner.
const spinnerMessage = "Fusing documents..."

// runConvert resolves settings from flags, environment and config, then
// runs one fusion.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	parsed, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	flags := parsed.flags

	if len(parsed.positional) > 1 {
		return fmt.Errorf("%w: got %d root directories, want one", ErrTooManyArgs, len(parsed.positional))
	}

	dotenv, err := loadDotEnv(env.DotEnvPath)
	if err != nil {
		return err
	}
	getenv := layeredGetenv(env.Getenv, dotenv)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ(), dotenv)
	}
	envCfg, err := loadEnvConfig(getenv)
	if err != nil {
		return err
	}

	cfgPath := flags.common.config
	if cfgPath == "" {
		cfgPath = envCfg.ConfigPath
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, parsed.set, cfg)

	if len(parsed.positional) == 1 {
		cfg.RootDir = parsed.positional[0]
	}
	if cfg.RootDir == "" {
		return ErrNoInput
	}
	cfg.PandocArgs = append(cfg.PandocArgs, parsed.extra...)

	params, err := buildParams(cfg)
	if err != nil {
		return err
	}

	opts := []mdfusion.Option{
		mdfusion.WithClock(env.Now),
		mdfusion.WithDebugOutput(env.Stderr),
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q (e.g., 90s, 5m)", ErrInvalidTimeout, cfg.Timeout)
		}
		opts = append(opts, mdfusion.WithTimeout(d))
	}
	if cfg.Assets != "" {
		opts = append(opts, mdfusion.WithAssetPath(cfg.Assets))
	}

	fuser, err := env.NewFuser(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = fuser.Close() }()

	var spinOut io.Writer = env.Stderr
	if flags.common.quiet || flags.common.verbose || params.Debug {
		spinOut = io.Discard
	}

	var res *mdfusion.Result
	err = spinner.Run(ctx, spinOut, spinnerMessage, func(ctx context.Context) error {
		var runErr error
		res, runErr = fuser.Run(ctx, params)
		return runErr
	})
	if err != nil {
		return err
	}

	printResult(env.Stdout, res, flags.common)
	return nil
}

// loadConfig reads the config at path, or the first one found in standard
// locations when path is empty. No config found is not an error then.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(nil))
		}
		return cfg, err
	}

	found, err := config.Find()
	if errors.Is(err, config.ErrConfigNotFound) {
		return &config.Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	return config.Load(found)
}

// mergeFlags applies flags the user set explicitly over cfg.
func mergeFlags(f *convertFlags, fs *flag.FlagSet, cfg *config.Config) {
	changed := fs.Changed

	if changed("output") {
		cfg.Output = f.output
	}
	if changed("no-toc") {
		cfg.NoTOC = f.noTOC
	}
	if changed("title-page") {
		cfg.TitlePage = f.document.titlePage
	}
	if changed("title") {
		cfg.Title = f.document.title
	}
	if changed("author") {
		cfg.Author = f.document.author
	}
	if changed("date") {
		cfg.Date = f.document.date
	}
	if changed("pandoc-args") {
		cfg.PandocArgs = strings.Fields(f.pandocArgs)
	}
	if changed("header-tex") {
		cfg.HeaderTex = f.headerTex
	}
	if changed("debug") {
		cfg.Debug = f.debug
	}
	if changed("presentation") {
		cfg.Presentation = f.presentation
	}
	if changed("engine") {
		cfg.Engine = f.engine
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("assets") {
		cfg.Assets = f.assets
	}
	if changed("margin") {
		cfg.Style.Margin = f.style.margin
	}
	if changed("center-headings") {
		v := f.style.centerHeadings
		cfg.Style.CenterHeadings = &v
	}
	if changed("heading-size") {
		cfg.Style.HeadingSize = f.style.headingSize
	}
	if changed("css") {
		cfg.Style.CSS = f.style.css
	}
}

// buildParams converts resolved settings to run parameters.
// The css setting names a file whose content is read here.
func buildParams(cfg *config.Config) (mdfusion.Params, error) {
	p := mdfusion.Params{
		RootDir:      cfg.RootDir,
		Output:       cfg.Output,
		NoTOC:        cfg.NoTOC,
		TitlePage:    cfg.TitlePage,
		Title:        cfg.Title,
		Author:       cfg.Author,
		Date:         cfg.Date,
		ExtraArgs:    cfg.PandocArgs,
		HeaderTex:    cfg.HeaderTex,
		Debug:        cfg.Debug,
		Presentation: cfg.Presentation,
		Engine:       mdfusion.Engine(cfg.Engine),
		Style: mdfusion.Style{
			Margin:         cfg.Style.Margin,
			CenterHeadings: cfg.Style.CenterHeadings,
			HeadingSize:    cfg.Style.HeadingSize,
		},
	}

	if cfg.Style.CSS != "" {
		data, err := os.ReadFile(cfg.Style.CSS) // #nosec G304 -- user-provided path
		if err != nil {
			return p, fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		p.Style.CSS = string(data)
	}
	return p, nil
}

// printResult reports written artifacts unless quiet.
func printResult(w io.Writer, res *mdfusion.Result, f commonFlags) {
	if f.quiet {
		return
	}
	fmt.Fprintf(w, "Wrote %s\n", res.Output)
	if res.PDF != "" {
		fmt.Fprintf(w, "Wrote %s\n", res.PDF)
	}
	if f.verbose {
		fmt.Fprintf(w, "Merged %d documents (%d bytes) in %s\n",
			res.Documents, res.MergedBytes, res.Duration.Round(time.Millisecond))
	}
}

// formatError renders err for the terminal with actionable hints.
// Collaborator diagnostics are printed verbatim.
func formatError(err error) string {
	var dirErr *mdfusion.DirectiveError
	if errors.As(err, &dirErr) {
		var b strings.Builder
		if s := strings.TrimSpace(dirErr.Render.Stderr); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		b.WriteString("error: " + dirErr.Error())
		b.WriteString(hints.ForUnknownDirective())
		return b.String()
	}

	msg := "error: " + err.Error()

	var depErr *mdfusion.MissingDependencyError
	switch {
	case errors.As(err, &depErr):
		for _, tool := range depErr.Tools {
			msg += hints.ForMissingDependency(tool)
		}
	case errors.Is(err, mdfusion.ErrNoDocuments):
		msg += hints.ForNoDocuments()
	case errors.Is(err, mdfusion.ErrInvalidOutput):
		msg += hints.ForPresentationOutput()
	case errors.Is(err, mdfusion.ErrBrowserConnect):
		msg += hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		msg += hints.ForTimeout()
	case errors.Is(err, mdfusion.ErrWriteArtifact):
		msg += hints.ForOutputDirectory()
	}
	return msg
}
