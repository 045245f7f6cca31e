package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// ErrDuplicateID two records in the snapshot share an ID
var ErrDuplicateID = errors.New("duplicate record id")

// Store ordered in-memory record collection owned by the pipeline driver.
// It is not safe for concurrent mutation.
type Store struct {
	records []models.Record
}

// New wraps records (no copy)
func New(records []models.Record) *Store {
	return &Store{records: records}
}

// Load decodes a JSON array of flat record objects. Record IDs must be
// unique; directives address records by ID.
func Load(r io.Reader) (*Store, error) {
	var records []models.Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	seen := make(map[int64]int, len(records))
	for i, rec := range records {
		if first, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w %d at positions %d and %d", ErrDuplicateID, rec.ID, first, i)
		}
		seen[rec.ID] = i
	}
	return New(records), nil
}

// Len number of records
func (s *Store) Len() int { return len(s.records) }

// At returns the record at index i for in-place mutation
func (s *Store) At(i int) *models.Record { return &s.records[i] }

// Records the current collection, in order. Callers must not keep the slice
// across a removal.
func (s *Store) Records() []models.Record { return s.records }

// SortByID stable ascending sort by record ID
func (s *Store) SortByID() {
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].ID < s.records[j].ID
	})
}

// RemoveWhere removes every record matching pred, survivors keep their
// relative order. Returns the number removed.
func (s *Store) RemoveWhere(pred func(models.Record) bool) int {
	kept := s.records[:0]
	removed := 0
	for _, r := range s.records {
		if pred(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	clearTail(s.records, len(kept))
	s.records = kept
	return removed
}

// RemoveIndices removes the records at the given indices in a single
// filter step. Unknown indices are ignored.
func (s *Store) RemoveIndices(indices map[int]struct{}) int {
	if len(indices) == 0 {
		return 0
	}
	kept := s.records[:0]
	removed := 0
	for i, r := range s.records {
		if _, ok := indices[i]; ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	clearTail(s.records, len(kept))
	s.records = kept
	return removed
}

// RemovePrefix discards the first n records
func (s *Store) RemovePrefix(n int) int {
	if n <= 0 {
		return 0
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	s.records = append(s.records[:0], s.records[n:]...)
	return n
}

// IsTestEntry matches device test records entered before the study started;
// they carry IDs below minID.
func IsTestEntry(minID int64) func(models.Record) bool {
	return func(r models.Record) bool {
		return r.ID < minID
	}
}

func clearTail(records []models.Record, from int) {
	for i := from; i < len(records); i++ {
		records[i] = models.Record{}
	}
}
