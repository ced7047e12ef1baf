package spec

import "context"

// Runtime is the interface that tools bind to.
// Implementations (like package drawioagent Runtime) own the library store
// and the output directory.
type Runtime interface {
	SearchTemplates(ctx context.Context, args SearchTemplatesArgs) (SearchTemplatesResult, error)
	ExtractPattern(ctx context.Context, args ExtractPatternArgs) (ExtractPatternResult, error)
	SaveDiagram(ctx context.Context, args SaveDiagramArgs) (SaveDiagramResult, error)
	ListLibrary(ctx context.Context, args ListLibraryArgs) (ListLibraryResult, error)
}
