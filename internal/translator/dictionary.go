package translator

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrVocabularyMiss a source-vocabulary value has no table entry
	ErrVocabularyMiss = errors.New("vocabulary lookup miss")
	// ErrInvalidDictionary the table is not total or not injective
	ErrInvalidDictionary = errors.New("invalid dictionary")
)

// Dictionary finite bidirectional mapping for one categorical field
type Dictionary struct {
	name    string
	source  map[string]struct{}
	forward map[string]string
	reverse map[string]string
}

// NewDictionary builds a dictionary and checks that table covers every value
// of sourceVocabulary and maps distinct sources to distinct targets.
func NewDictionary(name string, sourceVocabulary []string, table map[string]string) (*Dictionary, error) {
	d := &Dictionary{
		name:    name,
		source:  make(map[string]struct{}, len(sourceVocabulary)),
		forward: make(map[string]string, len(table)),
		reverse: make(map[string]string, len(table)),
	}
	for _, v := range sourceVocabulary {
		if _, ok := table[v]; !ok {
			return nil, fmt.Errorf("%w %s: no entry for %q", ErrInvalidDictionary, name, v)
		}
		d.source[v] = struct{}{}
	}
	for src, dst := range table {
		if prev, dup := d.reverse[dst]; dup {
			return nil, fmt.Errorf("%w %s: %q and %q both map to %q", ErrInvalidDictionary, name, prev, src, dst)
		}
		d.forward[src] = dst
		d.reverse[dst] = src
	}
	return d, nil
}

// Name the categorical field this dictionary translates
func (d *Dictionary) Name() string { return d.name }

// Lookup forward translation of one present value
func (d *Dictionary) Lookup(v string) (string, bool) {
	out, ok := d.forward[v]
	return out, ok
}

// Reverse target value back to the source vocabulary
func (d *Dictionary) Reverse(v string) (string, bool) {
	out, ok := d.reverse[v]
	return out, ok
}

// Targets sorted target vocabulary
func (d *Dictionary) Targets() []string {
	out := make([]string, 0, len(d.reverse))
	for k := range d.reverse {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TranslateValue nil and values outside the source vocabulary become nil
func (d *Dictionary) TranslateValue(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if _, known := d.source[*v]; !known {
		return nil, nil
	}
	out, ok := d.forward[*v]
	if !ok {
		return nil, fmt.Errorf("%w in %s: %q", ErrVocabularyMiss, d.name, *v)
	}
	return &out, nil
}

// Translate maps a column of values, preserving order
func (d *Dictionary) Translate(values []*string) ([]*string, error) {
	out := make([]*string, len(values))
	for i, v := range values {
		t, err := d.TranslateValue(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
