package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/adjudication"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/config"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/database"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/logger"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/repository"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/service"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/translator"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "bp-cleaner"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// logs go to stderr, stdout belongs to the operator dialogue
	lg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// second signal terminates
		stop()
	}()

	if cfg.Adjudication.SessionID == "" {
		cfg.Adjudication.SessionID = uuid.NewString()
	}

	lg.Info("Starting bp-cleaner",
		zap.String("input", cfg.Pipeline.InputPath),
		zap.String("output", cfg.Pipeline.OutputPath),
		zap.String("vocabulary_source", cfg.Pipeline.VocabularySource),
		zap.String("session_store", cfg.Adjudication.SessionStore),
		zap.String("session_id", cfg.Adjudication.SessionID),
	)

	svc, cleanup, err := buildService(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("Failed to create cleaning service", zap.Error(err))
	}

	sum, err := svc.Run(ctx)
	cleanup()
	if err != nil {
		lg.Fatal("Cleaning failed", zap.Error(err))
	}

	lg.Info("Cleaning finished",
		zap.Int("loaded", sum.Loaded),
		zap.Int("flagged", sum.Flagged),
		zap.Int("corrected", sum.Corrected),
		zap.Int("deleted", sum.Deleted),
		zap.Int("exported", sum.Exported),
		zap.Int("incomplete", sum.Incomplete),
		zap.Strings("outputs", sum.Outputs),
	)
}

// buildService wires the prompter, session store and vocabulary source
// selected by the configuration. cleanup closes the session store connection.
func buildService(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*service.CleaningService, func(), error) {
	cleanup := func() {}

	var prompter adjudication.Prompter
	if cfg.Adjudication.DirectivesPath != "" {
		p, err := adjudication.OpenReplayPrompter(cfg.Adjudication.DirectivesPath)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("Replaying recorded directives",
			zap.String("path", cfg.Adjudication.DirectivesPath),
			zap.Int("directives", p.Len()),
		)
		prompter = p
	} else {
		prompter = adjudication.NewTerminalPrompter(os.Stdin, os.Stdout)
	}

	var sessions adjudication.SessionStore
	if cfg.Adjudication.SessionStore == config.SessionStoreRedis {
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := client.Close(); err != nil {
				lg.Error("Error closing Redis client", zap.Error(err))
			}
		}
		ttl := time.Duration(cfg.Adjudication.SessionTTL) * time.Second
		sessions = repository.NewRedisSessionStore(client, ttl, lg)
	}

	tr, err := loadTranslator(ctx, cfg, lg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc, err := service.NewCleaningService(cfg, validator.DefaultBounds(), prompter, sessions, cfg.Adjudication.SessionID, tr, lg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// loadTranslator builds the translator from the configured vocabulary source.
// The database is only needed while loading.
func loadTranslator(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*translator.Translator, error) {
	if cfg.Pipeline.VocabularySource != config.VocabularyPostgres {
		return translator.NewBuiltin()
	}

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			lg.Error("Error closing database connection", zap.Error(err))
		}
	}()

	tables, err := repository.NewPostgresVocabularyRepository(db, lg).LoadTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return translator.New(tables)
}
