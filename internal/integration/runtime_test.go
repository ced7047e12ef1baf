package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	drawioagent "github.com/flexigpt/drawioagent-go"
	"github.com/flexigpt/drawioagent-go/internal/samplewatch"
	"github.com/flexigpt/drawioagent-go/spec"
)

func TestLibraryLifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)

	rt := newTempRuntime(t)
	sample := writeSample(t, twoShapeDiagram)

	res := mustExtract(t, rt, ctx, spec.ExtractPatternArgs{Path: sample})
	if res.Saved != 2 {
		t.Fatalf("Saved: got %d, want 2 (%+v)", res.Saved, res)
	}
	if len(res.Keys) != 2 || res.Keys[0] != "k8s pod" || res.Keys[1] != "database" {
		t.Fatalf("Keys: %v", res.Keys)
	}

	t.Run("library file is pretty printed in insertion order", func(t *testing.T) {
		raw, err := os.ReadFile(rt.LibraryPath())
		if err != nil {
			t.Fatalf("read library: %v", err)
		}
		text := string(raw)

		for _, want := range []string{
			`    "k8s pod": {`,
			`    "database": {`,
			`        "width": 120,`,
			`        "height": 100`,
		} {
			if !strings.Contains(text, want) {
				t.Errorf("library file missing %q:\n%s", want, text)
			}
		}
		if strings.Index(text, `"k8s pod"`) > strings.Index(text, `"database"`) {
			t.Errorf("keys out of insertion order:\n%s", text)
		}

		var records map[string]spec.StyleRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			t.Fatalf("library file is not a flat JSON object: %v", err)
		}
		if records["database"].Height != 100 || !strings.Contains(records["database"].Style, "cylinder3") {
			t.Errorf("database record: %+v", records["database"])
		}
	})

	t.Run("exact search returns the stored record", func(t *testing.T) {
		got := mustSearch(t, rt, ctx, "Database")
		if got.Match != spec.MatchExact || got.Key != "database" {
			t.Fatalf("match: %+v", got)
		}
		if got.Template.Width != 80 || got.Template.Height != 100 {
			t.Fatalf("template: %+v", got.Template)
		}
	})

	t.Run("substring search lists candidates in insertion order", func(t *testing.T) {
		got := mustSearch(t, rt, ctx, "s")
		if got.Match != spec.MatchFuzzy {
			t.Fatalf("match: %+v", got)
		}
		if len(got.Candidates) != 2 ||
			got.Candidates[0].Key != "k8s pod" ||
			got.Candidates[1].Key != "database" {
			t.Fatalf("candidates: %+v", got.Candidates)
		}
	})

	t.Run("unknown search falls back to the default rectangle", func(t *testing.T) {
		got := mustSearch(t, rt, ctx, "message queue")
		if got.Match != spec.MatchDefault {
			t.Fatalf("match: %+v", got)
		}
		if *got.Template != spec.DefaultStyleRecord() {
			t.Fatalf("template: %+v", got.Template)
		}
		if got.Message != `No library entry for "message queue". Using basic rectangle.` {
			t.Fatalf("message: %q", got.Message)
		}
	})

	t.Run("list returns every entry", func(t *testing.T) {
		got, err := rt.ListLibrary(ctx, spec.ListLibraryArgs{})
		if err != nil {
			t.Fatalf("ListLibrary: %v", err)
		}
		if got.Count != 2 || got.Note != "" {
			t.Fatalf("result: %+v", got)
		}
		if got.Entries[0].Key != "k8s pod" || got.Entries[1].Key != "database" {
			t.Fatalf("entries: %+v", got.Entries)
		}
	})

	t.Run("prompt XML round trips", func(t *testing.T) {
		markup, err := rt.LibraryPromptXML(ctx)
		if err != nil {
			t.Fatalf("LibraryPromptXML: %v", err)
		}
		doc := mustUnmarshalStyleLibrary(t, markup)
		if doc.Count != 2 || len(doc.Styles) != 2 {
			t.Fatalf("doc: %+v", doc)
		}
		if doc.Styles[0].Key != "k8s pod" || doc.Styles[0].Width != 120 {
			t.Fatalf("first style: %+v", doc.Styles[0])
		}
		if !strings.Contains(doc.Styles[1].Style, "cylinder3") {
			t.Fatalf("second style body: %q", doc.Styles[1].Style)
		}
	})

	t.Run("save diagram lands in the output dir", func(t *testing.T) {
		const markup = "<mxfile><diagram><mxGraphModel/></diagram></mxfile>"
		got, err := rt.SaveDiagram(ctx, spec.SaveDiagramArgs{XML: markup, Filename: "cluster-overview"})
		if err != nil {
			t.Fatalf("SaveDiagram: %v", err)
		}
		if filepath.Dir(got.Path) != rt.OutputDir() {
			t.Fatalf("path %q not directly under %q", got.Path, rt.OutputDir())
		}
		data, err := os.ReadFile(got.Path)
		if err != nil {
			t.Fatalf("read saved diagram: %v", err)
		}
		if string(data) != markup {
			t.Fatalf("content: %q", data)
		}

		unnamed, err := rt.SaveDiagram(ctx, spec.SaveDiagramArgs{XML: markup})
		if err != nil {
			t.Fatalf("SaveDiagram without filename: %v", err)
		}
		base := filepath.Base(unnamed.Path)
		if !strings.HasPrefix(base, "diagram_") || !strings.HasSuffix(base, ".drawio") {
			t.Fatalf("generated name: %q", base)
		}
	})

	t.Run("a fresh runtime sees the persisted library", func(t *testing.T) {
		other := mustNewRuntime(t,
			drawioagent.WithLibraryPath(rt.LibraryPath()),
			drawioagent.WithOutputDir(rt.OutputDir()),
			drawioagent.WithLogger(quietLogger()),
		)
		got := mustSearch(t, other, ctx, "k8s pod")
		if got.Match != spec.MatchExact {
			t.Fatalf("match from fresh runtime: %+v", got)
		}
	})
}

func TestSpecificExtraction(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)

	rt := newTempRuntime(t)
	sample := writeSample(t, twoShapeDiagram)

	t.Run("pattern keys the matching shape by the pattern", func(t *testing.T) {
		res := mustExtract(t, rt, ctx, spec.ExtractPatternArgs{Path: sample, Pattern: "Data"})
		if res.Saved != 1 || len(res.Keys) != 1 || res.Keys[0] != "data" {
			t.Fatalf("result: %+v", res)
		}
		got := mustSearch(t, rt, ctx, "data")
		if got.Match != spec.MatchExact || got.Template.Height != 100 {
			t.Fatalf("stored record: %+v", got)
		}
	})

	t.Run("unmatched pattern falls back to the first shape", func(t *testing.T) {
		res := mustExtract(t, rt, ctx, spec.ExtractPatternArgs{Path: sample, Pattern: "load balancer"})
		if res.Saved != 1 || len(res.Keys) != 1 || res.Keys[0] != "load balancer" {
			t.Fatalf("result: %+v", res)
		}
		got := mustSearch(t, rt, ctx, "load balancer")
		if got.Match != spec.MatchExact {
			t.Fatalf("match: %+v", got)
		}
		// First shape in the document is the 120x60 pod.
		if got.Template.Width != 120 || got.Template.Height != 60 {
			t.Fatalf("record: %+v", got.Template)
		}
	})
}

func TestMalformedLibrarySurfacesEverywhere(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)

	rt := newTempRuntime(t)
	sample := writeSample(t, twoShapeDiagram)

	if err := os.WriteFile(rt.LibraryPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt library: %v", err)
	}

	ops := []struct {
		name string
		call func() error
	}{
		{"SearchTemplates", func() error {
			_, err := rt.SearchTemplates(ctx, spec.SearchTemplatesArgs{Query: "x"})
			return err
		}},
		{"ExtractPattern", func() error {
			_, err := rt.ExtractPattern(ctx, spec.ExtractPatternArgs{Path: sample})
			return err
		}},
		{"ListLibrary", func() error {
			_, err := rt.ListLibrary(ctx, spec.ListLibraryArgs{})
			return err
		}},
		{"LibraryPromptXML", func() error {
			_, err := rt.LibraryPromptXML(ctx)
			return err
		}},
	}
	for _, op := range ops {
		if err := op.call(); !errors.Is(err, spec.ErrLibraryMalformed) {
			t.Errorf("%s: got %v, want ErrLibraryMalformed", op.name, err)
		}
	}
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	t.Cleanup(cancel)

	rt := newTempRuntime(t)
	sample := writeSample(t, twoShapeDiagram)
	mustExtract(t, rt, ctx, spec.ExtractPatternArgs{Path: sample})

	const readers = 8
	errCh := make(chan error, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Go(func() {
			for j := 0; j < 25; j++ {
				if _, err := rt.SearchTemplates(ctx, spec.SearchTemplatesArgs{Query: "k8s pod"}); err != nil {
					errCh <- fmt.Errorf("SearchTemplates: %w", err)
					return
				}
				if _, err := rt.ListLibrary(ctx, spec.ListLibraryArgs{}); err != nil {
					errCh <- fmt.Errorf("ListLibrary: %w", err)
					return
				}
			}
		})
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent read: %v", err)
	}
}

func TestSampleWatcherFeedsLibrary(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)

	rt := newTempRuntime(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "infra.drawio"), []byte(twoShapeDiagram), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	w, err := samplewatch.New(rt, []string{dir}, samplewatch.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("samplewatch.New: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Scan(ctx); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	w.Stop()

	got := mustSearch(t, rt, ctx, "k8s pod")
	if got.Match != spec.MatchExact {
		t.Fatalf("library not taught by scan: %+v", got)
	}
	if stats := w.Stats(); stats.Extractions != 1 || stats.StylesSaved != 2 {
		t.Fatalf("stats: %+v", stats)
	}
}
