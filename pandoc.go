package mdfusion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/bundle"
	"github.com/alnah/go-mdfusion/internal/fileutil"
	"github.com/alnah/go-mdfusion/internal/pipeline"
)

const (
	pandocBin      = "pandoc"
	pdfEngine      = "xelatex"
	headerFileName = "header.tex"
	revealHeadFile = "header.html"
	revealFootFile = "footer.html"
	workFilePerm   = 0o600
)

// Patterns pandoc uses to report an option it does not know.
var unknownOptionPatterns = []*regexp.Regexp{
	regexp.MustCompile("unrecognized option `([^']+)'"),
	regexp.MustCompile(`Unknown option (--\S+)`),
}

// pandocRenderer typesets the merged document with pandoc and XeLaTeX.
// Presentations are rendered as reveal.js slides by presentationRenderer.
type pandocRenderer struct {
	runner CommandRunner
	assets assets.AssetLoader
	debug  io.Writer
}

var _ Renderer = (*pandocRenderer)(nil)

func (r *pandocRenderer) Render(ctx context.Context, job *RenderJob) (*RenderOutput, error) {
	header := ""
	if fileutil.HasExtension(job.Output, ".pdf") {
		content, err := buildLaTeXHeader(r.assets, job.Params.Style, job.Params.HeaderTex)
		if err != nil {
			return nil, err
		}
		header = filepath.Join(job.WorkDir, headerFileName)
		if err := os.WriteFile(header, []byte(content), workFilePerm); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLaTeXHeader, header, err)
		}
	}

	args := pandocArgs(job, header, nil)
	out, err := runPandoc(ctx, r.runner, r.debug, job.Params.Debug, args)
	if err != nil {
		return nil, err
	}

	if fileutil.HasExtension(job.Output, ".html") {
		if err := bundleHTML(ctx, job.Output, job.Output); err != nil {
			return nil, err
		}
	}
	out.Outputs = []string{job.Output}
	return out, nil
}

// pandocArgs builds the pandoc argument list. header is included only for
// PDF output; trailing is appended after the user's extra arguments.
func pandocArgs(job *RenderJob, header string, trailing []string) []string {
	p := job.Params
	isPDF := fileutil.HasExtension(job.Output, ".pdf")

	args := []string{
		"-s", job.Merged,
		"-o", job.Output,
		"--pdf-engine=" + pdfEngine,
		"--resource-path=" + strings.Join(pipeline.ResourceDirs(job.Docs), string(os.PathListSeparator)),
	}
	if isPDF && header != "" {
		args = append(args, "--include-in-header="+header)
	}
	if !p.NoTOC {
		args = append(args, "--toc")
	}
	if p.Debug && isPDF {
		args = append(args, "-v")
	}
	args = append(args, p.ExtraArgs...)
	args = append(args, trailing...)
	return args
}

// runPandoc runs pandoc and classifies its failure.
func runPandoc(ctx context.Context, runner CommandRunner, debugOut io.Writer, debug bool, args []string) (*RenderOutput, error) {
	if debug && debugOut != nil {
		fmt.Fprintf(debugOut, "[DEBUG] Running: %s\n", argsString(pandocBin, args))
	}

	stdout, stderr, err := runner.Run(ctx, pandocBin, args...)
	if err != nil {
		return nil, classifyPandocError(args, stderr, err)
	}

	out := &RenderOutput{Command: append([]string{pandocBin}, args...)}
	if debug {
		out.Diagnostics = strings.TrimSpace(stdout + "\n" + stderr)
		if debugOut != nil && out.Diagnostics != "" {
			fmt.Fprintln(debugOut, out.Diagnostics)
		}
	}
	return out, nil
}

// classifyPandocError turns a pandoc failure into a typed error.
// Cancellation and missing binaries pass through unchanged.
func classifyPandocError(args []string, stderr string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrMissingDependency) {
		return err
	}

	rerr := &RenderError{Tool: pandocBin, Args: args, Stderr: stderr, Err: err}
	for _, re := range unknownOptionPatterns {
		if m := re.FindStringSubmatch(stderr); m != nil {
			return &DirectiveError{Directive: strings.TrimRight(m[1], ".,;:"), Render: rerr}
		}
	}
	return rerr
}

// bundleHTML inlines the resources of the HTML page at in and writes the
// self-contained result to out. in and out may be the same file.
func bundleHTML(ctx context.Context, in, out string) error {
	if err := bundle.BundleFile(ctx, in, out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrBundle, err)
	}
	return nil
}
