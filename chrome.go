package mdfusion

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdfusion/internal/pipeline"
	"github.com/alnah/go-mdfusion/internal/process"
)

// pdfRenderer prints a local HTML file to PDF, enabling tests without a browser.
type pdfRenderer interface {
	RenderFile(ctx context.Context, path string, opts *printOptions) ([]byte, error)
	Close() error
}

var _ pdfRenderer = (*rodRenderer)(nil)

// printOptions controls how a page is printed.
type printOptions struct {
	Query             string  // appended to the file URL, e.g. "print-pdf"
	WaitSelector      string  // element that must exist before printing
	PreferCSSPageSize bool    // let @page rules size the paper
	MarginInches      float64 // uniform page margin
}

// US Letter, in inches.
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
)

// defaultPageTimeout bounds page loading when ctx has no deadline.
const defaultPageTimeout = 60 * time.Second

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first use when no browser is found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners usually lack the namespaces the sandbox needs.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = b
	return nil
}

// Close releases the browser and every process it spawned.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFile opens the HTML file at path in headless Chrome and prints it.
func (r *rodRenderer) RenderFile(ctx context.Context, path string, opts *printOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &printOptions{}
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	target := pipeline.FileURL(path)
	if opts.Query != "" {
		target += "?" + opts.Query
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	waiting := page.Timeout(timeout)
	if err := waiting.WaitLoad(); err != nil {
		return nil, loadError(ctx, err)
	}
	if opts.WaitSelector != "" {
		if _, err := waiting.Element(opts.WaitSelector); err != nil {
			return nil, loadError(ctx, fmt.Errorf("waiting for %s: %w", opts.WaitSelector, err))
		}
	}

	reader, err := page.PDF(buildPrintOptions(opts))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

func loadError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// buildPrintOptions constructs proto.PagePrintToPDF for opts.
func buildPrintOptions(opts *printOptions) *proto.PagePrintToPDF {
	m := opts.MarginInches
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(paperWidthInches),
		PaperHeight:       floatPtr(paperHeightInches),
		MarginTop:         floatPtr(m),
		MarginBottom:      floatPtr(m),
		MarginLeft:        floatPtr(m),
		MarginRight:       floatPtr(m),
		PrintBackground:   true,
		PreferCSSPageSize: opts.PreferCSSPageSize,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
