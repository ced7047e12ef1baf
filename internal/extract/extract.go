// Package extract derives style-library entries from parsed diagram
// documents. It is pure: merging into the store is the caller's job.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flexigpt/drawioagent-go/internal/library"
	"github.com/flexigpt/drawioagent-go/internal/mxgraph"
	"github.com/flexigpt/drawioagent-go/spec"
)

// All scans every shape and returns an entry for each one carrying a
// non-empty label, a non-empty style, and a geometry element. Entries come
// back in document order; duplicate keys come back as repeat entries so a
// sequential merge stays last-wins.
func All(doc *mxgraph.Document) ([]spec.StyleEntry, error) {
	var entries []spec.StyleEntry
	for _, c := range doc.Shapes() {
		label := c.Label()
		if label == "" || strings.TrimSpace(c.Style) == "" || c.Geometry == nil {
			continue
		}
		w, h, err := c.Geometry.Size()
		if err != nil {
			return nil, errors.Join(spec.ErrDiagramMalformed, fmt.Errorf("cell %q: %w", c.ID, err))
		}
		entries = append(entries, spec.StyleEntry{
			Key:    library.NormalizeKey(label),
			Record: spec.StyleRecord{Style: c.Style, Width: w, Height: h},
		})
	}
	return entries, nil
}

// Specific picks one shape: the first whose label contains pattern
// (case-insensitive), else the first shape in document order. A document
// with no shapes at all is ErrNoShapes. The chosen shape must have a
// geometry element and a non-empty style; otherwise ErrShapeIncomplete and
// nothing is written.
func Specific(doc *mxgraph.Document, pattern string) (spec.StyleEntry, error) {
	shapes := doc.Shapes()
	if len(shapes) == 0 {
		return spec.StyleEntry{}, spec.ErrNoShapes
	}

	p := library.NormalizeKey(pattern)
	target := shapes[0]
	for _, c := range shapes {
		if strings.Contains(strings.ToLower(c.Label()), p) {
			target = c
			break
		}
	}

	if target.Geometry == nil {
		return spec.StyleEntry{}, errors.Join(
			spec.ErrShapeIncomplete,
			fmt.Errorf("cell %q has no geometry", target.ID),
		)
	}
	if strings.TrimSpace(target.Style) == "" {
		return spec.StyleEntry{}, errors.Join(
			spec.ErrShapeIncomplete,
			fmt.Errorf("cell %q has no style", target.ID),
		)
	}
	w, h, err := target.Geometry.Size()
	if err != nil {
		return spec.StyleEntry{}, errors.Join(spec.ErrDiagramMalformed, fmt.Errorf("cell %q: %w", target.ID, err))
	}

	return spec.StyleEntry{
		Key:    p,
		Record: spec.StyleRecord{Style: target.Style, Width: w, Height: h},
	}, nil
}
