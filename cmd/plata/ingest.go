package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/osoriof/plata/internal/ingest"
	"github.com/osoriof/plata/internal/statement"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Ingest statement files into the movement database",
		Long: `Ingest one or more statement files. Each file is extracted with the
extractor for its source type, movements already stored are skipped,
and the rest are persisted unclassified.

Examples:
  # Ingest a savings statement
  plata ingest --source savings --account 1 --currency 1 extracto_enero.txt

  # Ingest every OFX export in a directory
  plata ingest --source ofx --account 2 --currency 1 ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().String("source", string(statement.SourceSavings), "statement source (savings, creditcard, ofx)")
	cmd.Flags().Int64("account", 0, "account ID movements are booked against")
	cmd.Flags().Int64("currency", 0, "currency ID movements are denominated in")
	cmd.Flags().BoolP("dry-run", "d", false, "extract and report without saving")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	accountID, _ := cmd.Flags().GetInt64("account")
	currencyID, _ := cmd.Flags().GetInt64("currency")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to ingest")
	}

	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := ingest.NewService(store)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", path, err)
		}

		doc := statement.Document{
			Source: statement.SourceType(source),
			Name:   filepath.Base(path),
			Data:   data,
		}

		extractor, err := statement.ForSource(doc)
		if err != nil {
			return err
		}

		if dryRun {
			drafts, err := extractor.Extract(ctx, doc)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d movements (dry run, nothing saved)\n", doc.Name, len(drafts))
			continue
		}

		result, err := svc.Process(ctx, doc, extractor, accountID, currencyID)
		if err != nil {
			return err
		}

		fmt.Printf("%s: read %d, new %d, duplicates %d, errors %d\n",
			doc.Name, result.TotalRead, result.NewCount, result.DuplicateCount, len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintln(os.Stderr, "  "+msg)
		}
	}

	return nil
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}
