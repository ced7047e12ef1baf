package integration

import (
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	drawioagent "github.com/flexigpt/drawioagent-go"
	"github.com/flexigpt/drawioagent-go/spec"
)

// twoShapeDiagram is a realistic draw.io document: two styled, labeled
// shapes, one edge, one unstyled shape. Only the two styled shapes
// qualify for extraction.
const twoShapeDiagram = `<mxfile host="app.diagrams.net">
  <diagram id="page-1" name="Page-1">
    <mxGraphModel dx="1000" dy="700" grid="1">
      <root>
        <mxCell id="0" />
        <mxCell id="1" parent="0" />
        <mxCell id="2" value="K8s Pod" style="rounded=1;whiteSpace=wrap;html=1;fillColor=#dae8fc;strokeColor=#6c8ebf;" vertex="1" parent="1">
          <mxGeometry x="40" y="40" width="120" height="60" as="geometry" />
        </mxCell>
        <mxCell id="3" value="Database" style="shape=cylinder3;whiteSpace=wrap;html=1;" vertex="1" parent="1">
          <mxGeometry x="240" y="40" width="80" height="100" as="geometry" />
        </mxCell>
        <mxCell id="4" value="Scratch" style="" vertex="1" parent="1">
          <mxGeometry x="40" y="200" width="60" height="30" as="geometry" />
        </mxCell>
        <mxCell id="5" style="edgeStyle=orthogonalEdgeStyle;" edge="1" parent="1" source="2" target="3">
          <mxGeometry relative="1" as="geometry" />
        </mxCell>
      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustNewRuntime(t *testing.T, opts ...drawioagent.Option) *drawioagent.Runtime {
	t.Helper()
	rt, err := drawioagent.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rt == nil {
		t.Fatalf("New: got nil runtime")
	}
	return rt
}

// newTempRuntime builds a runtime whose library and output live in a
// fresh temp directory.
func newTempRuntime(t *testing.T) *drawioagent.Runtime {
	t.Helper()
	dir := t.TempDir()
	return mustNewRuntime(t,
		drawioagent.WithLibraryPath(filepath.Join(dir, "library.json")),
		drawioagent.WithOutputDir(filepath.Join(dir, "generated")),
		drawioagent.WithLogger(quietLogger()),
	)
}

func writeSample(t *testing.T, markup string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.drawio")
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func mustExtract(
	t *testing.T,
	rt *drawioagent.Runtime,
	ctx context.Context,
	args spec.ExtractPatternArgs,
) spec.ExtractPatternResult {
	t.Helper()
	res, err := rt.ExtractPattern(ctx, args)
	if err != nil {
		t.Fatalf("ExtractPattern(%+v): %v", args, err)
	}
	return res
}

func mustSearch(
	t *testing.T,
	rt *drawioagent.Runtime,
	ctx context.Context,
	query string,
) spec.SearchTemplatesResult {
	t.Helper()
	res, err := rt.SearchTemplates(ctx, spec.SearchTemplatesArgs{Query: query})
	if err != nil {
		t.Fatalf("SearchTemplates(%q): %v", query, err)
	}
	return res
}

type styleLibraryDoc struct {
	XMLName xml.Name `xml:"style_library"`
	Count   int      `xml:"count,attr"`
	Styles  []struct {
		Key    string `xml:"key,attr"`
		Width  int    `xml:"width,attr"`
		Height int    `xml:"height,attr"`
		Style  string `xml:",chardata"`
	} `xml:"style"`
}

func mustUnmarshalStyleLibrary(t *testing.T, s string) styleLibraryDoc {
	t.Helper()
	var doc styleLibraryDoc
	if err := xml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("unmarshal style_library: %v\nxml=%s", err, s)
	}
	if doc.XMLName.Local != "style_library" {
		t.Fatalf("expected root style_library, got %q", doc.XMLName.Local)
	}
	return doc
}
