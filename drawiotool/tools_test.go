package drawiotool

import (
	"context"
	"strings"
	"testing"

	"github.com/flexigpt/drawioagent-go/spec"
)

type fakeRuntime struct{}

func (fakeRuntime) SearchTemplates(_ context.Context, _ spec.SearchTemplatesArgs) (spec.SearchTemplatesResult, error) {
	return spec.SearchTemplatesResult{}, nil
}

func (fakeRuntime) ExtractPattern(_ context.Context, _ spec.ExtractPatternArgs) (spec.ExtractPatternResult, error) {
	return spec.ExtractPatternResult{}, nil
}

func (fakeRuntime) SaveDiagram(_ context.Context, _ spec.SaveDiagramArgs) (spec.SaveDiagramResult, error) {
	return spec.SaveDiagramResult{}, nil
}

func (fakeRuntime) ListLibrary(_ context.Context, _ spec.ListLibraryArgs) (spec.ListLibraryResult, error) {
	return spec.ListLibraryResult{}, nil
}

func TestTools_SpecsAreWellFormed(t *testing.T) {
	t.Parallel()

	tools := Tools()
	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}

	wantSlugs := map[string]bool{
		"drawio.search_templates": false,
		"drawio.extract_pattern":  false,
		"drawio.save_diagram":     false,
		"drawio.list_library":     false,
	}
	seenIDs := map[string]struct{}{}
	for _, tool := range tools {
		slug := string(tool.Slug)
		if _, ok := wantSlugs[slug]; !ok {
			t.Fatalf("unexpected slug %q", slug)
		}
		wantSlugs[slug] = true

		id := string(tool.ID)
		if _, dup := seenIDs[id]; dup {
			t.Fatalf("duplicate tool ID %q", id)
		}
		seenIDs[id] = struct{}{}

		if strings.TrimSpace(string(tool.ArgSchema)) == "" {
			t.Fatalf("tool %q has empty arg schema", slug)
		}
		if tool.GoImpl.FuncID == "" {
			t.Fatalf("tool %q has no func ID", slug)
		}
	}
	for slug, seen := range wantSlugs {
		if !seen {
			t.Fatalf("missing tool %q", slug)
		}
	}
}

func TestRegister_NilGuards(t *testing.T) {
	t.Parallel()

	if err := Register(nil, fakeRuntime{}); err == nil {
		t.Fatalf("expected error for nil registry")
	}
	if _, err := NewDrawioRegistry(nil); err == nil {
		t.Fatalf("expected error for nil runtime")
	}
}

func TestNewDrawioRegistry(t *testing.T) {
	t.Parallel()

	r, err := NewDrawioRegistry(fakeRuntime{})
	if err != nil {
		t.Fatalf("NewDrawioRegistry: %v", err)
	}
	if r == nil {
		t.Fatalf("expected non-nil registry")
	}
}
