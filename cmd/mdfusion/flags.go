package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds title block flags.
type documentFlags struct {
	titlePage bool
	title     string
	author    string
	date      string
}

// styleFlags holds page layout flags.
type styleFlags struct {
	margin         string
	centerHeadings bool
	headingSize    int
	css            string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common       commonFlags
	document     documentFlags
	style        styleFlags
	output       string
	noTOC        bool
	pandocArgs   string
	headerTex    string
	debug        bool
	presentation bool
	engine       string
	timeout      string
	assets       string
}

// parsedArgs is the outcome of parsing convert arguments.
type parsedArgs struct {
	flags      *convertFlags
	set        *flag.FlagSet
	positional []string // arguments before "--"
	extra      []string // arguments after "--", passed to pandoc verbatim
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path (default: ./mdfusion.toml)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show counts and timing")
}

// addDocumentFlags adds title block flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.BoolVar(&f.titlePage, "title-page", false, "include a title page")
	fs.StringVar(&f.title, "title", "", "title for the title page (default: root dir name)")
	fs.StringVar(&f.author, "author", "", "author for the title page (default: OS user)")
	fs.StringVar(&f.date, "date", "", "date: \"auto\", \"auto:FORMAT\", or literal")
}

// addStyleFlags adds page layout flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.margin, "margin", "", "page margin with unit: 1in, 2cm, 15mm, 72pt")
	fs.BoolVar(&f.centerHeadings, "center-headings", true, "center section headings")
	fs.IntVar(&f.headingSize, "heading-size", 0, "section heading size in points (default: 16)")
	fs.StringVar(&f.css, "css", "", "extra CSS file for the chrome engine")
}

// parseConvertFlags parses convert command flags.
func parseConvertFlags(args []string, usage io.Writer) (*parsedArgs, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: <root>.pdf, <root>.html for presentations)")
	fs.BoolVar(&f.noTOC, "no-toc", false, "omit the table of contents")
	fs.StringVar(&f.pandocArgs, "pandoc-args", "", "extra pandoc arguments, whitespace-separated")
	fs.StringVar(&f.headerTex, "header-tex", "", "user LaTeX header (default: ./header.tex)")
	fs.BoolVar(&f.debug, "debug", false, "print pandoc output and run it verbosely")
	fs.BoolVar(&f.presentation, "presentation", false, "render a reveal.js slide deck")
	fs.StringVarP(&f.engine, "engine", "e", "", "typesetting engine: pandoc, chrome")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "run timeout (e.g., 90s, 5m)")
	fs.StringVar(&f.assets, "assets", "", "directory overriding built-in styles and templates")

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addStyleFlags(fs, &f.style)

	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	out := &parsedArgs{flags: f, set: fs, positional: fs.Args()}
	if dash := fs.ArgsLenAtDash(); dash >= 0 {
		out.positional = fs.Args()[:dash]
		out.extra = fs.Args()[dash:]
	}
	return out, nil
}
