package adjudication

import (
	"context"
	"errors"
	"fmt"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"

	"go.uber.org/zap"
)

// SessionStore persists resolved directives so an interrupted session can be
// resumed without asking the operator again.
type SessionStore interface {
	LoadDirectives(ctx context.Context, sessionID string) (map[int64]models.Directive, error)
	SaveDirective(ctx context.Context, sessionID string, d models.Directive) error
}

// Adjudicator walks the queue strictly one case at a time
type Adjudicator struct {
	prompter  Prompter
	store     SessionStore
	sessionID string
	logger    *zap.Logger
}

// NewAdjudicator store may be nil
func NewAdjudicator(prompter Prompter, store SessionStore, sessionID string, logger *zap.Logger) *Adjudicator {
	return &Adjudicator{
		prompter:  prompter,
		store:     store,
		sessionID: sessionID,
		logger:    logger,
	}
}

// Run resolves every pending case. It returns only when the queue is done or
// a decision cannot be obtained; there is no skip path.
func (a *Adjudicator) Run(ctx context.Context, q *Queue) error {
	if err := a.resume(ctx, q); err != nil {
		return err
	}

	pending := q.Pending()
	total := len(pending)
	for n, c := range pending {
		d, err := a.prompter.Decide(ctx, c, n+1, total)
		if err != nil {
			return fmt.Errorf("failed to adjudicate record %d: %w", c.Record.ID, err)
		}
		if err := q.Resolve(c.Index, d); err != nil {
			return err
		}
		a.logger.Info("Record adjudicated",
			zap.Int64("record_id", c.Record.ID),
			zap.String("directive", string(d.Kind)),
			zap.String("field", d.Field),
		)
		if a.store != nil {
			stored := q.Directives()[c.Index]
			if err := a.store.SaveDirective(ctx, a.sessionID, stored); err != nil {
				return fmt.Errorf("failed to persist directive for record %d: %w", c.Record.ID, err)
			}
		}
	}

	if !q.Done() {
		return errors.New("adjudication finished with undecided records")
	}
	return nil
}

// resume applies directives stored by an earlier run of the same session.
// Stored directives for records that are no longer flagged are ignored.
func (a *Adjudicator) resume(ctx context.Context, q *Queue) error {
	if a.store == nil {
		return nil
	}
	stored, err := a.store.LoadDirectives(ctx, a.sessionID)
	if err != nil {
		return fmt.Errorf("failed to load adjudication session %s: %w", a.sessionID, err)
	}
	resumed := 0
	for id, d := range stored {
		c, ok := q.CaseForRecord(id)
		if !ok {
			a.logger.Warn("Stored directive has no matching case", zap.Int64("record_id", id))
			continue
		}
		if err := q.Resolve(c.Index, d); err != nil {
			a.logger.Warn("Stored directive rejected, asking again",
				zap.Int64("record_id", id),
				zap.Error(err),
			)
			continue
		}
		resumed++
	}
	if resumed > 0 {
		a.logger.Info("Resumed adjudication session",
			zap.String("session_id", a.sessionID),
			zap.Int("resumed", resumed),
			zap.Int("pending", len(q.Pending())),
		)
	}
	return nil
}
