// Package mxgraph parses the draw.io mxGraph XML format far enough to pick
// out shape cells and their geometry. It is read-only: documents are never
// mutated or written back.
package mxgraph

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flexigpt/drawioagent-go/spec"
)

// Reserved cell ids for the implicit root and the default layer. Cells with
// these ids are structural and never count as shapes.
const (
	RootCellID  = "0"
	LayerCellID = "1"
)

// Geometry is the mxGeometry child of a cell. Width and Height stay raw
// attribute strings here; Size applies parsing and defaults.
type Geometry struct {
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

// Size parses the geometry dimensions. A missing dimension, or one that
// parses non-positive, falls back to the 80x40 defaults. Fractional values
// truncate. A non-numeric value is an error.
func (g *Geometry) Size() (width, height int, err error) {
	width, err = parseDim(g.Width, spec.DefaultShapeWidth)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	height, err = parseDim(g.Height, spec.DefaultShapeHeight)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return width, height, nil
}

func parseDim(raw string, def int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	n := int(f)
	if n <= 0 {
		return def, nil
	}
	return n, nil
}

// Cell is one mxCell element. Only the attributes the extractor cares about
// are mapped.
type Cell struct {
	ID       string    `xml:"id,attr"`
	Value    string    `xml:"value,attr"`
	Style    string    `xml:"style,attr"`
	Vertex   string    `xml:"vertex,attr"`
	Geometry *Geometry `xml:"mxGeometry"`
}

// IsShape reports whether the cell is a connectable shape: a vertex that is
// not one of the two reserved structural cells.
func (c Cell) IsShape() bool {
	return c.Vertex == "1" && c.ID != RootCellID && c.ID != LayerCellID
}

// Label is the cell value with surrounding whitespace removed.
func (c Cell) Label() string { return strings.TrimSpace(c.Value) }

// Document is a parsed diagram. Cells appear in document order.
type Document struct {
	Cells []Cell
}

// Shapes returns the document's shape cells in document order.
func (d *Document) Shapes() []Cell {
	out := make([]Cell, 0, len(d.Cells))
	for _, c := range d.Cells {
		if c.IsShape() {
			out = append(out, c)
		}
	}
	return out
}

// Parse collects every mxCell element in the markup, wherever it nests.
// Input with no XML elements at all is rejected as malformed.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{}
	sawElement := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse markup: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if se.Name.Local != "mxCell" {
			continue
		}
		var c Cell
		if err := dec.DecodeElement(&c, &se); err != nil {
			return nil, fmt.Errorf("decode mxCell: %w", err)
		}
		doc.Cells = append(doc.Cells, c)
	}
	if !sawElement {
		return nil, errors.New("no XML content")
	}
	return doc, nil
}
