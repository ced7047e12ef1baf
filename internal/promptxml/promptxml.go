package promptxml

import (
	"encoding/xml"
	"fmt"

	"github.com/flexigpt/drawioagent-go/spec"
)

type styleLibrary struct {
	XMLName xml.Name     `xml:"style_library"`
	Count   int          `xml:"count,attr"`
	Styles  []styleEntry `xml:"style"`
}

// Key and dimensions are attributes; the raw style string is the element
// body so a model can quote it directly into an mxCell style attribute.
type styleEntry struct {
	Key    string `xml:"key,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Style  string `xml:",chardata"`
}

// StyleLibraryStruct keeps entries in the order given: library insertion
// order is observable and prompts should show it unchanged.
func StyleLibraryStruct(entries []spec.StyleEntry) any {
	out := styleLibrary{Count: len(entries), Styles: make([]styleEntry, 0, len(entries))}
	for _, e := range entries {
		out.Styles = append(out.Styles, styleEntry{
			Key:    e.Key,
			Width:  e.Record.Width,
			Height: e.Record.Height,
			Style:  e.Record.Style,
		})
	}
	return out
}

func StyleLibraryXML(entries []spec.StyleEntry) (string, error) {
	v := StyleLibraryStruct(entries)
	b, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("xml encode: %w", err)
	}
	return string(b), nil
}
