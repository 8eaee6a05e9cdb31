package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/butterflyguide/internal/adapters/postgres"
	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
)

const importBatchSize = 500

// importSummary counts what an import did, per species.
type importSummary struct {
	Imported  int                      `json:"imported"`
	Skipped   int                      `json:"skipped"`
	BySpecies map[domain.SpeciesID]int `json:"by_species"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Classify a CSV of field notes and store them in the history database",
		Long: "Reads a CSV with a header row containing a \"text\" column and an optional \"source\" column.\n" +
			"Every non-empty row is classified and inserted into PostgreSQL in batches.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ctx.ensureGuide()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			var sink ports.IdentificationRepository
			if !dryRun {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				db, err := postgres.New(cmd.Context(), cfg.Database.DSN())
				if err != nil {
					return fmt.Errorf("db: %w", err)
				}
				defer db.Close()
				sink = postgres.NewIdentificationRepo(db)
			}

			classify := func(text string, source domain.InputSource) *domain.Identification {
				return g.identifications.Classify(cmd.Context(), text, source)
			}
			summary, err := importNotes(cmd.Context(), f, classify, sink)
			if err != nil {
				return err
			}

			if ctx.json() {
				return writeJSON(cmd, summary)
			}
			rows := make([][]string, 0, len(summary.BySpecies))
			for _, species := range domain.KnownSpecies() {
				if n := summary.BySpecies[species]; n > 0 {
					rows = append(rows, []string{species.String(), fmt.Sprint(n)})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Species", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
				"Total", fmt.Sprint(summary.Imported),
			))
			if summary.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d rows\n", summary.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify only, do not write to the database")
	return cmd
}

// importNotes classifies every row of r and flushes batches to sink. A nil sink only classifies.
func importNotes(
	ctx context.Context,
	r io.Reader,
	classify func(string, domain.InputSource) *domain.Identification,
	sink ports.IdentificationRepository,
) (*importSummary, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["text"]; !ok {
		return nil, errors.New(`csv header must contain a "text" column`)
	}

	summary := &importSummary{BySpecies: make(map[domain.SpeciesID]int)}
	batch := make([]domain.Identification, 0, importBatchSize)
	flush := func() error {
		if sink == nil || len(batch) == 0 {
			batch = batch[:0]
			return nil
		}
		if err := sink.InsertBatch(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping malformed row", "line", line, "error", err)
			summary.Skipped++
			continue
		}

		source, err := domain.ParseInputSource(getField(record, cols, "source"))
		if err != nil {
			slog.Warn("skipping row", "line", line, "error", err)
			summary.Skipped++
			continue
		}
		ident := classify(getField(record, cols, "text"), source)
		if ident == nil {
			summary.Skipped++
			continue
		}

		batch = append(batch, *ident)
		summary.Imported++
		summary.BySpecies[ident.Species]++

		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	slog.Info("import complete", "imported", summary.Imported, "skipped", summary.Skipped)
	return summary, nil
}

// indexColumns maps header names to positions, tolerating a UTF-8 BOM.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func getField(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
