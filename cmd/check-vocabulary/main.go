package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/config"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/database"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/logger"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/repository"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/translator"
)

// Compares vocabulary_mapping with the built-in translation tables and
// optionally seeds the missing rows.
func main() {
	var seed = flag.Bool("seed", false, "Insert built-in mappings missing from vocabulary_mapping")
	var category = flag.String("category", "", "Only report this category (e.g. 'gender', 'cuffType')")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "check-vocabulary")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected to database: %s\n\n", cfg.Database.Database)

	repo := repository.NewPostgresVocabularyRepository(db, lg)

	if *seed {
		n, err := repo.SeedTables(ctx, translator.BuiltinTables)
		if err != nil {
			log.Fatalf("Seed error: %v", err)
		}
		fmt.Printf("Inserted %d mappings\n\n", n)
	}

	tables, err := repo.LoadTables(ctx)
	if err != nil {
		log.Fatalf("Load error: %v", err)
	}

	problems := 0
	for _, field := range translator.Fields {
		if *category != "" && field != *category {
			continue
		}
		fmt.Printf("[%s]\n", field)
		table := tables[field]
		for _, source := range translator.SourceVocabulary(field) {
			target, ok := table[source]
			switch {
			case !ok:
				fmt.Printf("  MISSING  %-36q\n", source)
				problems++
			case target != translator.BuiltinTables[field][source]:
				fmt.Printf("  CHANGED  %-36q %q (built-in %q)\n", source, target, translator.BuiltinTables[field][source])
			default:
				fmt.Printf("  ok       %-36q %q\n", source, target)
			}
		}
		for _, source := range extraKeys(table, translator.BuiltinTables[field]) {
			fmt.Printf("  EXTRA    %-36q %q\n", source, table[source])
		}
		fmt.Println()
	}

	tr, err := translator.New(tables)
	if err != nil {
		fmt.Printf("Vocabulary is not usable: %v\n", err)
		problems++
	} else {
		printExportVocabulary(os.Stdout, tr, *category)
	}
	if problems > 0 {
		log.Fatalf("%d problems found", problems)
	}
	fmt.Println("Vocabulary is complete")
}

// extraKeys keys of got absent from want
func extraKeys(got, want map[string]string) []string {
	var extra []string
	for k := range got {
		if _, ok := want[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

// printExportVocabulary lists the export values of each field with the form
// value each one is read back to.
func printExportVocabulary(w io.Writer, tr *translator.Translator, category string) {
	fmt.Fprintln(w, "Export vocabulary:")
	for _, field := range translator.Fields {
		if category != "" && field != category {
			continue
		}
		d, ok := tr.Dictionary(field)
		if !ok {
			continue
		}
		for _, target := range d.Targets() {
			source, _ := d.Reverse(target)
			fmt.Fprintf(w, "  %-20s %-28q <- %q\n", field, target, source)
		}
	}
	fmt.Fprintln(w)
}
