package assets

// Kind identifies a family of assets stored under a common directory.
type Kind struct {
	dir      string
	ext      string
	notFound error
}

// Asset kinds.
var (
	KindStyle    = Kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	KindTemplate = Kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	KindLaTeX    = Kind{dir: "latex", ext: ".tex", notFound: ErrLaTeXNotFound}
)

// String returns the directory name of the kind.
func (k Kind) String() string { return k.dir }

// file returns the slash-separated path of name relative to an asset root.
func (k Kind) file(name string) string {
	return k.dir + "/" + name + k.ext
}

// Built-in asset names.
const (
	DefaultStyleName  = "default"
	TitleTemplateName = "title"
	RevealHeaderName  = "reveal-header"
	RevealFooterName  = "reveal-footer"
	LaTeXHeaderName   = "header"
)
