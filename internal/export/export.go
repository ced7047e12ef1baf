// Package export writes generated draw.io diagrams into a sandboxed
// output directory.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flexigpt/drawioagent-go/internal/pathutil"
	"github.com/flexigpt/drawioagent-go/spec"
)

const diagramExt = ".drawio"

// Exporter writes diagram markup under a single output directory.
// Relative filenames are resolved inside that directory and may not
// escape it.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{dir: dir, logger: logger}
}

// Dir returns the configured output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// DefaultFileName names diagrams saved without an explicit filename.
// The short random suffix keeps same-second saves from colliding.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("diagram_%s_%s%s",
		now.Format("20060102_150405"),
		uuid.NewString()[:8],
		diagramExt)
}

// Save writes content to filename inside the output directory, creating
// directories as needed, and returns the written path. An empty filename
// gets a generated one; a missing .drawio suffix is appended. Content is
// written verbatim.
func (e *Exporter) Save(ctx context.Context, content, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty diagram content", spec.ErrInvalidArgument)
	}

	name := strings.TrimSpace(filename)
	if name == "" {
		name = DefaultFileName(time.Now())
	}
	if !strings.HasSuffix(name, diagramExt) {
		name += diagramExt
	}

	path, err := pathutil.JoinUnderRoot(e.dir, name)
	if err != nil {
		return "", fmt.Errorf("%w: filename %q: %w", spec.ErrInvalidArgument, filename, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write diagram: %w", err)
	}

	e.logger.Debug("saved diagram", "path", path, "bytes", len(content))
	return path, nil
}
