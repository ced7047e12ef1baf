package library

import (
	"strings"

	"github.com/flexigpt/drawioagent-go/spec"
)

// Resolution is the outcome of a template query: an exact record, an ordered
// fuzzy candidate set the caller must disambiguate, or the default record.
type Resolution struct {
	Match      spec.MatchKind
	Key        string
	Record     spec.StyleRecord
	Candidates []spec.StyleEntry
}

// Resolve maps a free-text query onto the library. First match wins: exact
// key match, then substring containment in either direction (in library
// insertion order), then the hard-coded default record.
func Resolve(lib *Library, query string) Resolution {
	q := NormalizeKey(query)

	if rec, ok := lib.Get(q); ok {
		return Resolution{Match: spec.MatchExact, Key: q, Record: rec}
	}

	var candidates []spec.StyleEntry
	for _, k := range lib.keys {
		if strings.Contains(q, k) || strings.Contains(k, q) {
			candidates = append(candidates, spec.StyleEntry{Key: k, Record: lib.records[k]})
		}
	}
	if len(candidates) > 0 {
		return Resolution{Match: spec.MatchFuzzy, Candidates: candidates}
	}

	return Resolution{Match: spec.MatchDefault, Record: spec.DefaultStyleRecord()}
}
