package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flexigpt/drawioagent-go/spec"
)

// Store persists a Library as a single pretty-printed JSON document.
//
// There is no locking and no caching: every operation is one full read or
// one full rewrite, and overlapping writers clobber each other. Callers are
// expected to be a single process invoking one tool at a time.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the backing file. An absent file is not an error: it yields an
// empty library and found=false so callers can tell "empty because absent"
// from "present but empty".
func (s *Store) Load(ctx context.Context) (*Library, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("library file absent, starting empty", "path", s.path)
		return New(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", s.path, err)
	}

	lib := New()
	if err := json.Unmarshal(b, lib); err != nil {
		return nil, false, errors.Join(spec.ErrLibraryMalformed, fmt.Errorf("parse %s: %w", s.path, err))
	}
	return lib, true, nil
}

// Save rewrites the backing file in full, pretty-printed with 4-space
// indentation so the document stays human-diffable across rewrites.
func (s *Store) Save(ctx context.Context, lib *Library) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(lib, "", "    ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.logger.Debug("library saved", "path", s.path, "entries", lib.Len())
	return nil
}
