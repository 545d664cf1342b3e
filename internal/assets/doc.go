// Package assets provides the stylesheets, HTML fragments and LaTeX
// preambles used when rendering a merged document.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled into the binary
//	    ├── FilesystemLoader  - assets from a user directory
//	    └── AssetResolver     - user directory first, embedded fallback
//
// # Directory Structure
//
// A user asset directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/{name}.css        # Chrome engine stylesheets
//	├── templates/{name}.html    # title block, reveal.js header/footer
//	└── latex/{name}.tex         # LaTeX preamble templates
//
// Any file may be omitted; missing files fall back to the embedded copy.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
