// Package pipeline merges a tree of Markdown documents into one artifact and
// prepares that artifact for rendering.
//
// Merging:
//   - Discover walks a root directory and orders documents naturally
//     ("f2.md" before "f10.md")
//   - RewriteImageLinks makes local image targets absolute, so images with
//     the same name in different folders stay distinct
//   - Merge writes an optional metadata header followed by every document,
//     each preceded by a page break
//
// HTML rendering (used by the Chrome engine):
//   - Markdown to HTML conversion via Goldmark
//   - page-break markers to CSS page breaks
//   - image paths to file:// URLs
//   - CSS, title block and table of contents injection
//
// PDF generation and external tools live in the root mdfusion package.
package pipeline
