package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/adjudication"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/age"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/anonymizer"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/completeness"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/config"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/correction"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/exporter"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/store"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/translator"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/validator"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrIntegrity records still fail validation after corrections were applied
var ErrIntegrity = errors.New("data integrity check failed after correction")

// sessionClearer session stores that can drop a finished session
type sessionClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// Summary counters of one pipeline run
type Summary struct {
	Loaded        int
	TestEntries   int
	BMIRecomputed int
	Flagged       int
	Corrected     int
	Deleted       int
	Patients      int
	AgesDerived   int
	Incomplete    int
	Exported      int
	Outputs       []string
}

// CleaningService runs the cleaning pipeline over one dataset snapshot
type CleaningService struct {
	config     *config.Config
	logger     *zap.Logger
	bounds     validator.Bounds
	prompter   adjudication.Prompter
	sessions   adjudication.SessionStore
	sessionID  string
	translator *translator.Translator
	applier    *correction.Applier
}

// NewCleaningService creates the service. sessions may be nil. bounds must
// cover every pressure field and bmi.
func NewCleaningService(
	cfg *config.Config,
	bounds validator.Bounds,
	prompter adjudication.Prompter,
	sessions adjudication.SessionStore,
	sessionID string,
	tr *translator.Translator,
	logger *zap.Logger,
) (*CleaningService, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &CleaningService{
		config:     cfg,
		logger:     logger,
		bounds:     bounds,
		prompter:   prompter,
		sessions:   sessions,
		sessionID:  sessionID,
		translator: tr,
		applier:    correction.NewApplier(logger),
	}, nil
}

// Run executes every stage in order. Nothing is written unless all stages
// before export succeed.
func (s *CleaningService) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	sum.Loaded = st.Len()

	sum.TestEntries = st.RemoveWhere(store.IsTestEntry(s.config.Pipeline.MinRecordID))
	st.SortByID()
	s.logger.Info("Loaded dataset",
		zap.String("path", s.config.Pipeline.InputPath),
		zap.Int("records", sum.Loaded),
		zap.Int("test_entries_removed", sum.TestEntries),
	)

	repair := correction.RepairAnthropometrics(st.Records())
	sum.BMIRecomputed = repair.BMIRecomputed
	s.logger.Info("Repaired anthropometrics",
		zap.Int("bmi_recomputed", repair.BMIRecomputed),
		zap.Int("bmi_cleared", repair.BMICleared),
		zap.Int("cuff_type_cleared", repair.CuffTypeCleared),
	)

	if err := s.adjudicate(ctx, st, sum); err != nil {
		return nil, err
	}

	if err := s.enrich(ctx, st, sum); err != nil {
		return nil, err
	}

	sum.Incomplete = completeness.FlagAll(st.Records())
	s.logger.Info("Flagged incomplete records", zap.Int("incomplete", sum.Incomplete))

	if err := s.export(st, sum); err != nil {
		return nil, err
	}

	if c, ok := s.sessions.(sessionClearer); ok {
		if err := c.Clear(ctx, s.sessionID); err != nil {
			s.logger.Warn("Failed to clear adjudication session", zap.String("session_id", s.sessionID), zap.Error(err))
		}
	}
	return sum, nil
}

func (s *CleaningService) load() (*store.Store, error) {
	f, err := os.Open(s.config.Pipeline.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	st, err := store.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.config.Pipeline.InputPath, err)
	}
	return st, nil
}

// adjudicate validates, asks the operator about flagged records, applies the
// directives and re-validates.
func (s *CleaningService) adjudicate(ctx context.Context, st *store.Store, sum *Summary) error {
	rep := validator.Validate(st.Records(), s.bounds)
	for _, g := range validator.Groups {
		s.logger.Info("Validation",
			zap.String("group", string(g)),
			zap.Int("invalid", len(rep.Invalid(g))),
		)
	}
	if rep.AllValid() {
		return nil
	}

	q := adjudication.NewQueue(st.Records(), rep, s.bounds)
	sum.Flagged = q.Len()
	s.logger.Info("Adjudication required",
		zap.Int("records", q.Len()),
		zap.String("session_id", s.sessionID),
	)

	adj := adjudication.NewAdjudicator(s.prompter, s.sessions, s.sessionID, s.logger)
	if err := adj.Run(ctx, q); err != nil {
		return err
	}

	res, err := s.applier.Apply(st, q.Directives())
	if err != nil {
		return fmt.Errorf("failed to apply directives: %w", err)
	}
	sum.Corrected = res.Corrected
	sum.Deleted = res.Deleted

	correction.RepairAnthropometrics(st.Records())

	recheck := validator.Validate(st.Records(), s.bounds)
	if !recheck.AllValid() {
		var details []string
		for _, g := range validator.Groups {
			for _, idx := range recheck.Invalid(g) {
				r := st.At(idx)
				for _, v := range validator.Check(r, s.bounds) {
					details = append(details, fmt.Sprintf("record %d %s", r.ID, v))
				}
			}
		}
		s.logger.Error("Re-validation failed", zap.Strings("violations", details))
		return fmt.Errorf("%w: %d records (%s)", ErrIntegrity, recheck.InvalidCount(), strings.Join(details, "; "))
	}
	return nil
}

// enrich computes anonymized IDs, translated categories and ages from the
// same snapshot, then writes all three back.
func (s *CleaningService) enrich(ctx context.Context, st *store.Store, sum *Summary) error {
	records := st.Records()

	var (
		tokens  []string
		columns translator.Columns
		ages    []*int
		ageStat age.Stats
		anon    = anonymizer.New()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids := make([]models.PersonalID, len(records))
		for i := range records {
			ids[i] = records[i].PersonalID
		}
		var err error
		tokens, err = anon.Anonymize(ids)
		if err != nil {
			return fmt.Errorf("failed to anonymize: %w", err)
		}
		return gctx.Err()
	})
	g.Go(func() error {
		var err error
		columns, err = s.translator.TranslateColumns(records)
		if err != nil {
			return fmt.Errorf("failed to translate: %w", err)
		}
		return gctx.Err()
	})
	g.Go(func() error {
		var err error
		ages, ageStat, err = age.DeriveColumn(records)
		if err != nil {
			return fmt.Errorf("failed to derive age: %w", err)
		}
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := columns.Assign(records); err != nil {
		return err
	}
	for i := range records {
		records[i].PersonalID = models.PersonalID(tokens[i])
		records[i].Age = ages[i]
	}

	sum.Patients = anon.Patients()
	sum.AgesDerived = ageStat.Derived
	s.logger.Info("Enriched records",
		zap.Int("patients", sum.Patients),
		zap.Int("ages_derived", ageStat.Derived),
		zap.Int("birthday_missing", ageStat.MissingBirth),
		zap.Int("birth_year_corrected", ageStat.YearCorrected),
	)
	return nil
}

func (s *CleaningService) export(st *store.Store, sum *Summary) error {
	rows := exporter.Rows(st.Records())

	targets := []struct {
		path string
		exp  exporter.Exporter
	}{
		{s.config.Pipeline.OutputPath, exporter.JSONExporter{}},
		{s.config.Pipeline.XLSXOutputPath, exporter.XLSXExporter{}},
		{s.config.Pipeline.ParquetOutputPath, exporter.ParquetExporter{}},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := exporter.WriteFile(t.path, t.exp, rows); err != nil {
			return err
		}
		sum.Outputs = append(sum.Outputs, t.path)
		s.logger.Info("Exported dataset",
			zap.String("format", t.exp.Name()),
			zap.String("path", t.path),
			zap.Int("records", len(rows)),
		)
	}
	sum.Exported = len(rows)
	return nil
}
