package mdfusion

import "context"

// Renderer turns the merged Markdown of a run into its output artifacts.
type Renderer interface {
	Render(ctx context.Context, job *RenderJob) (*RenderOutput, error)
}

// RenderJob is the input of a Renderer.
type RenderJob struct {
	Merged  string     // path of the merged Markdown file
	WorkDir string     // scratch directory removed after the run
	Output  string     // requested output path
	Docs    []Document // merged documents, for resource paths
	Params  Params     // resolved run parameters
	Meta    *Metadata  // metadata written to the merged file, may be nil
}

// RenderOutput describes what a Renderer produced.
type RenderOutput struct {
	Outputs     []string // written artifacts, primary first
	Command     []string // external command line, when one ran
	Diagnostics string   // collaborator output collected in debug mode
}
