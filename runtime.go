package drawioagent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/drawioagent-go/drawiotool"
	"github.com/flexigpt/drawioagent-go/spec"

	"github.com/flexigpt/drawioagent-go/internal/export"
	"github.com/flexigpt/drawioagent-go/internal/extract"
	"github.com/flexigpt/drawioagent-go/internal/library"
	"github.com/flexigpt/drawioagent-go/internal/mxgraph"
	"github.com/flexigpt/drawioagent-go/internal/promptxml"
)

type Runtime struct {
	logger *slog.Logger

	libraryPath string
	outputDir   string

	store    *library.Store
	exporter *export.Exporter
}

var _ spec.Runtime = (*Runtime)(nil)

func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		logger:      slog.Default(),
		libraryPath: DefaultLibraryPath,
		outputDir:   DefaultOutputDir,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(rt); err != nil {
			return nil, err
		}
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	rt.store = library.NewStore(rt.libraryPath, rt.logger)
	rt.exporter = export.New(rt.outputDir, rt.logger)
	return rt, nil
}

// LibraryPath returns the backing library file the runtime reads and writes.
func (r *Runtime) LibraryPath() string { return r.libraryPath }

// OutputDir returns where SaveDiagram writes generated diagrams.
func (r *Runtime) OutputDir() string { return r.outputDir }

// SearchTemplates resolves a free-text query against the style library.
// Resolution order: exact key match, then substring fuzzy matches in
// library order, then the built-in default rectangle. An absent library
// file resolves like an empty library.
func (r *Runtime) SearchTemplates(
	ctx context.Context,
	args spec.SearchTemplatesArgs,
) (spec.SearchTemplatesResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.SearchTemplatesResult{}, err
	}
	if strings.TrimSpace(args.Query) == "" {
		return spec.SearchTemplatesResult{}, fmt.Errorf("%w: query is required", spec.ErrInvalidArgument)
	}

	lib, _, err := r.store.Load(ctx)
	if err != nil {
		return spec.SearchTemplatesResult{}, err
	}

	res := library.Resolve(lib, args.Query)
	r.logger.Debug("resolved template query", "query", args.Query, "match", res.Match)

	switch res.Match {
	case spec.MatchExact:
		rec := res.Record
		return spec.SearchTemplatesResult{
			Match:    spec.MatchExact,
			Key:      res.Key,
			Template: &rec,
		}, nil
	case spec.MatchFuzzy:
		return spec.SearchTemplatesResult{
			Match:      spec.MatchFuzzy,
			Candidates: res.Candidates,
			Suggestion: "Use one of these keys for a precise style.",
		}, nil
	default:
		rec := res.Record
		return spec.SearchTemplatesResult{
			Match:    spec.MatchDefault,
			Template: &rec,
			Message:  fmt.Sprintf("No library entry for %q. Using basic rectangle.", args.Query),
		}, nil
	}
}

// ExtractPattern reads a .drawio file and merges the styles of its shapes
// into the library. Pattern "all" (the default) takes every labeled,
// styled shape with geometry; a specific pattern takes the first shape
// whose label contains it, falling back to the first shape.
func (r *Runtime) ExtractPattern(
	ctx context.Context,
	args spec.ExtractPatternArgs,
) (spec.ExtractPatternResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.ExtractPatternResult{}, err
	}

	path := strings.TrimSpace(args.Path)
	if path == "" {
		return spec.ExtractPatternResult{}, fmt.Errorf("%w: path is required", spec.ErrInvalidArgument)
	}
	pattern := strings.TrimSpace(args.Pattern)
	if pattern == "" {
		pattern = spec.PatternAll
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return spec.ExtractPatternResult{}, errors.Join(spec.ErrDiagramNotFound, err)
		}
		return spec.ExtractPatternResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := mxgraph.Parse(data)
	if err != nil {
		return spec.ExtractPatternResult{}, errors.Join(spec.ErrDiagramMalformed, err)
	}

	var entries []spec.StyleEntry
	if library.NormalizeKey(pattern) == spec.PatternAll {
		entries, err = extract.All(doc)
	} else {
		var entry spec.StyleEntry
		entry, err = extract.Specific(doc, pattern)
		if err == nil {
			entries = []spec.StyleEntry{entry}
		}
	}
	if err != nil {
		return spec.ExtractPatternResult{}, err
	}

	if len(entries) == 0 {
		return spec.ExtractPatternResult{
			Note: fmt.Sprintf("no suitable cells found in %s for pattern %q", path, pattern),
		}, nil
	}

	lib, _, err := r.store.Load(ctx)
	if err != nil {
		return spec.ExtractPatternResult{}, err
	}

	// Saved counts every upsert; Keys lists unique keys first-seen.
	keys := make([]string, 0, len(entries))
	seen := map[string]struct{}{}
	for _, e := range entries {
		lib.Set(e.Key, e.Record)
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		keys = append(keys, e.Key)
	}

	if err := r.store.Save(ctx, lib); err != nil {
		return spec.ExtractPatternResult{}, err
	}

	r.logger.Info("extracted patterns", "path", path, "pattern", pattern, "saved", len(entries), "keys", keys)
	return spec.ExtractPatternResult{Saved: len(entries), Keys: keys}, nil
}

// SaveDiagram writes diagram markup into the output directory and returns
// the written path. Content is not validated.
func (r *Runtime) SaveDiagram(
	ctx context.Context,
	args spec.SaveDiagramArgs,
) (spec.SaveDiagramResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.SaveDiagramResult{}, err
	}

	path, err := r.exporter.Save(ctx, args.XML, args.Filename)
	if err != nil {
		return spec.SaveDiagramResult{}, err
	}
	return spec.SaveDiagramResult{Path: path}, nil
}

// ListLibrary returns every library entry in insertion order. An absent
// backing file is reported in Note, not as an error.
func (r *Runtime) ListLibrary(
	ctx context.Context,
	_ spec.ListLibraryArgs,
) (spec.ListLibraryResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.ListLibraryResult{}, err
	}

	lib, found, err := r.store.Load(ctx)
	if err != nil {
		return spec.ListLibraryResult{}, err
	}
	if !found {
		return spec.ListLibraryResult{
			Note: fmt.Sprintf("%s not found. The library is currently empty.", r.libraryPath),
		}, nil
	}
	return spec.ListLibraryResult{
		Count:   lib.Len(),
		Entries: lib.Entries(),
	}, nil
}

// LibraryPromptXML builds <style_library> XML for system prompts so a
// model can see the known styles up front.
func (r *Runtime) LibraryPromptXML(ctx context.Context) (string, error) {
	lib, _, err := r.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return promptxml.StyleLibraryXML(lib.Entries())
}

// Tools returns the drawio tool specs (search/extract/save/list).
func (r *Runtime) Tools() []llmtoolsgoSpec.Tool { return drawiotool.Tools() }

// RegisterTools registers the drawio tools into an existing llmtools-go Registry.
func (r *Runtime) RegisterTools(reg *llmtools.Registry) error {
	return drawiotool.Register(reg, r)
}

// NewToolsRegistry returns a new llmtools-go Registry containing only the drawio tools.
func (r *Runtime) NewToolsRegistry(opts ...llmtools.RegistryOption) (*llmtools.Registry, error) {
	return drawiotool.NewDrawioRegistry(r, opts...)
}
