// Package mdfusion merges a tree of Markdown files into one document and
// renders it.
//
// # Quick Start
//
// Create a fuser, run it on a directory and close it when done:
//
//	f, err := mdfusion.NewFuser()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	res, err := f.Run(ctx, mdfusion.Params{
//	    RootDir:   "docs",
//	    TitlePage: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", res.Output)
//
// # Pipeline
//
//  1. Discovery: every .md and .markdown file under the root, in natural
//     order of the root-relative path ("2.md" before "10.md").
//  2. Merge: an optional YAML title block, then each document behind a
//     \newpage marker with its local image references made absolute.
//  3. Rendering: pandoc with XeLaTeX by default, goldmark and headless
//     Chrome with EngineChrome, or reveal.js slides printed to PDF in
//     presentation mode.
//
// # Errors
//
// Missing roots and empty trees report ErrRootNotFound and ErrNoDocuments.
// A failing renderer reports a *RenderError carrying its diagnostics
// verbatim; an option pandoc does not know is reported as a
// *DirectiveError naming the option.
//
//	var de *mdfusion.DirectiveError
//	if errors.As(err, &de) {
//	    fmt.Printf("argument '%s' not recognized\n", de.Directive)
//	}
//
// Merging alone is available through Discover, Merge and MergeFile.
package mdfusion
