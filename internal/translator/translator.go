package translator

import (
	"fmt"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// Translator one Dictionary per categorical field
type Translator struct {
	dicts map[string]*Dictionary
}

// NewBuiltin translator over BuiltinTables
func NewBuiltin() (*Translator, error) {
	return New(BuiltinTables)
}

// New validates tables against the built-in source vocabularies. Every field
// in Fields needs a table that is total over its source vocabulary.
func New(tables map[string]map[string]string) (*Translator, error) {
	t := &Translator{dicts: make(map[string]*Dictionary, len(Fields))}
	for _, field := range Fields {
		table, ok := tables[field]
		if !ok {
			return nil, fmt.Errorf("%w: no table for %s", ErrInvalidDictionary, field)
		}
		d, err := NewDictionary(field, SourceVocabulary(field), table)
		if err != nil {
			return nil, err
		}
		t.dicts[field] = d
	}
	return t, nil
}

// Dictionary of one field
func (t *Translator) Dictionary(field string) (*Dictionary, bool) {
	d, ok := t.dicts[field]
	return d, ok
}

// Columns translated values per field, row order equal to the input records.
// Records are not modified; use Assign to write the columns back.
type Columns map[string][]*string

// TranslateColumns translates every categorical field of every record
func (t *Translator) TranslateColumns(records []models.Record) (Columns, error) {
	cols := make(Columns, len(Fields))
	for _, field := range Fields {
		get, _ := Accessor(field)
		values := make([]*string, len(records))
		for i := range records {
			values[i] = *get(&records[i])
		}
		out, err := t.dicts[field].Translate(values)
		if err != nil {
			return nil, err
		}
		cols[field] = out
	}
	return cols, nil
}

// Assign writes translated columns back into records
func (c Columns) Assign(records []models.Record) error {
	for field, values := range c {
		if len(values) != len(records) {
			return fmt.Errorf("column %s has %d rows, want %d", field, len(values), len(records))
		}
		get, ok := Accessor(field)
		if !ok {
			return fmt.Errorf("unknown categorical field %s", field)
		}
		for i := range records {
			*get(&records[i]) = values[i]
		}
	}
	return nil
}
