// Package library holds the persisted style library: an insertion-ordered
// mapping from lowercase style-key to style record, the JSON store backing
// it, and the query resolver.
package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flexigpt/drawioagent-go/spec"
)

// NormalizeKey lowercases and trims a style-key. Every store and lookup path
// goes through it.
func NormalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Library maps style-keys to StyleRecords and preserves insertion order.
// Order is observable: fuzzy-match candidates, listings, and the on-disk
// document all follow it.
type Library struct {
	keys    []string
	records map[string]spec.StyleRecord
}

func New() *Library {
	return &Library{records: map[string]spec.StyleRecord{}}
}

func (l *Library) Len() int { return len(l.keys) }

// Get looks up a record. The key is normalized before lookup.
func (l *Library) Get(key string) (spec.StyleRecord, bool) {
	rec, ok := l.records[NormalizeKey(key)]
	return rec, ok
}

// Set upserts a record. New keys append to the order; existing keys keep
// their position and are replaced wholesale. Keys that normalize to ""
// are ignored.
func (l *Library) Set(key string, rec spec.StyleRecord) {
	k := NormalizeKey(key)
	if k == "" {
		return
	}
	if l.records == nil {
		l.records = map[string]spec.StyleRecord{}
	}
	if _, ok := l.records[k]; !ok {
		l.keys = append(l.keys, k)
	}
	l.records[k] = rec
}

// Keys returns the style-keys in insertion order.
func (l *Library) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Entries returns key/record pairs in insertion order.
func (l *Library) Entries() []spec.StyleEntry {
	out := make([]spec.StyleEntry, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, spec.StyleEntry{Key: k, Record: l.records[k]})
	}
	return out
}

// MarshalJSON writes the mapping as a JSON object in insertion order.
func (l *Library) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range l.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		rb, err := json.Marshal(l.records[k])
		if err != nil {
			return nil, err
		}
		buf.Write(rb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving document key order. Keys are
// normalized on the way in; keys that collide after normalization merge
// last-wins in document order.
func (l *Library) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	if l.records == nil {
		l.records = map[string]spec.StyleRecord{}
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var rec spec.StyleRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("record %q: %w", key, err)
		}
		l.Set(key, rec)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
