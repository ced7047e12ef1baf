package spec

// StyleRecord is one reusable visual style for a diagram shape.
// Immutable once created; re-extraction under the same key replaces it wholesale.
type StyleRecord struct {
	Style  string `json:"style"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Default shape geometry applied when a source cell omits a dimension.
const (
	DefaultShapeWidth  = 80
	DefaultShapeHeight = 40
)

// DefaultStyle is the hard-coded fallback style returned when resolution
// finds neither an exact nor a fuzzy match.
const DefaultStyle = "rounded=0;whiteSpace=wrap;html=1;"

func DefaultStyleRecord() StyleRecord {
	return StyleRecord{
		Style:  DefaultStyle,
		Width:  DefaultShapeWidth,
		Height: DefaultShapeHeight,
	}
}

// StyleEntry pairs a style-key with its record. Slices of entries preserve
// library insertion order; that order is part of the contract (fuzzy-match
// candidates and listings follow it).
type StyleEntry struct {
	Key    string      `json:"key"`
	Record StyleRecord `json:"record"`
}

// PatternAll is the sentinel pattern name that extracts every qualifying shape.
const PatternAll = "all"

type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchFuzzy   MatchKind = "fuzzy"
	MatchDefault MatchKind = "default"
)

type SearchTemplatesArgs struct {
	Query string `json:"query"`
}

type SearchTemplatesResult struct {
	Match MatchKind `json:"match"`

	// Key and Template are set for exact matches; Template alone for default.
	Key      string       `json:"key,omitempty"`
	Template *StyleRecord `json:"template,omitempty"`

	// Candidates is set for fuzzy matches, in library insertion order.
	// The caller (agent) disambiguates.
	Candidates []StyleEntry `json:"candidates,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`

	Message string `json:"message,omitempty"`
}

type ExtractPatternArgs struct {
	// Path of the .drawio document to scan.
	Path string `json:"path"`

	// Pattern selects one shape by label substring; "all" (the default)
	// extracts every qualifying shape.
	Pattern string `json:"pattern,omitempty"`
}

type ExtractPatternResult struct {
	// Saved counts records written, including repeat upserts of one key.
	Saved int `json:"saved"`

	// Keys lists new/updated style-keys in first-extraction order.
	Keys []string `json:"keys,omitempty"`

	// Note is set when nothing qualified and the store was left untouched.
	Note string `json:"note,omitempty"`
}

type SaveDiagramArgs struct {
	XML string `json:"xml"`

	// Filename may omit the .drawio extension; empty picks a generated name.
	Filename string `json:"filename,omitempty"`
}

type SaveDiagramResult struct {
	Path string `json:"path"`
}

type ListLibraryArgs struct{}

type ListLibraryResult struct {
	Count   int          `json:"count"`
	Entries []StyleEntry `json:"entries,omitempty"`

	// Note is set when the backing file does not exist yet.
	Note string `json:"note,omitempty"`
}
