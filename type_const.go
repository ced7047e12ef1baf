// Package drawioagent provides a runtime for building draw.io diagrams
// from a persistent style library. The runtime resolves style queries
// against the library, learns new styles by extracting them from existing
// .drawio files, and writes generated diagrams to an output directory.
//
// The package keeps no in-memory library state between operations: every
// operation loads the library file, applies its change, and writes the
// whole file back.
package drawioagent

const (
	// DefaultLibraryPath is the style library file used when no
	// WithLibraryPath option is given.
	DefaultLibraryPath = "library.json"

	// DefaultOutputDir is where generated diagrams land when no
	// WithOutputDir option is given.
	DefaultOutputDir = "generated"
)
