package pipeline

import "errors"

// Sentinel errors for discovery and merging.
var (
	// ErrRootNotFound indicates the scan root does not exist or is not a directory.
	ErrRootNotFound = errors.New("root directory not found")

	// ErrNoDocuments indicates the scan root holds no Markdown documents.
	ErrNoDocuments = errors.New("no markdown documents found")

	// ErrReadDocument indicates a document could not be read or decoded.
	ErrReadDocument = errors.New("failed to read document")

	// ErrWriteArtifact indicates the merged artifact could not be written to its sink.
	ErrWriteArtifact = errors.New("failed to write merged artifact")

	// ErrHTMLConversion indicates HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")
)
