package drawioagent

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/flexigpt/drawioagent-go/spec"
)

type Option func(*Runtime) error

func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) error {
		r.logger = l
		return nil
	}
}

// WithLibraryPath points the runtime at a specific library file.
func WithLibraryPath(path string) Option {
	return func(r *Runtime) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: empty library path", spec.ErrInvalidArgument)
		}
		r.libraryPath = path
		return nil
	}
}

// WithOutputDir sets the directory SaveDiagram writes into.
func WithOutputDir(dir string) Option {
	return func(r *Runtime) error {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%w: empty output dir", spec.ErrInvalidArgument)
		}
		r.outputDir = dir
		return nil
	}
}
