package adjudication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// ErrNoDirective the replay file has no decision for a flagged record
var ErrNoDirective = errors.New("no directive recorded")

// ReplayPrompter answers from a recorded directive file, keyed by record ID.
// The file is a JSON array of directives:
//
//	[{"recordId": 123, "kind": "2", "field": "sysA", "value": 128},
//	 {"recordId": 140, "kind": "0"}]
type ReplayPrompter struct {
	directives map[int64]models.Directive
}

// NewReplayPrompter decodes a directive array
func NewReplayPrompter(r io.Reader) (*ReplayPrompter, error) {
	var list []models.Directive
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode directives: %w", err)
	}
	byID := make(map[int64]models.Directive, len(list))
	for _, d := range list {
		if _, dup := byID[d.RecordID]; dup {
			return nil, fmt.Errorf("duplicate directive for record %d", d.RecordID)
		}
		byID[d.RecordID] = d
	}
	return &ReplayPrompter{directives: byID}, nil
}

// OpenReplayPrompter loads a directive file from disk
func OpenReplayPrompter(path string) (*ReplayPrompter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directives file: %w", err)
	}
	defer f.Close()
	return NewReplayPrompter(f)
}

// Len number of recorded directives
func (p *ReplayPrompter) Len() int { return len(p.directives) }

func (p *ReplayPrompter) Decide(ctx context.Context, c Case, position, total int) (models.Directive, error) {
	if err := ctx.Err(); err != nil {
		return models.Directive{}, err
	}
	d, ok := p.directives[c.Record.ID]
	if !ok {
		return models.Directive{}, fmt.Errorf("%w for record %d", ErrNoDirective, c.Record.ID)
	}
	return d, nil
}
