package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/export"
	"github.com/aworks-dev/bol-extractor/internal/ingest"
	"github.com/aworks-dev/bol-extractor/internal/pipeline"
	"github.com/aworks-dev/bol-extractor/internal/profile"
	"github.com/aworks-dev/bol-extractor/internal/refloader"
	"github.com/aworks-dev/bol-extractor/internal/repository"
)

var processFlags struct {
	dir         string
	ref         string
	out         string
	xlsx        bool
	lineLevel   bool
	derived     bool
	profilePath string
	dbPath      string
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a directory of page text against a reference table",
	RunE:  runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVar(&processFlags.dir, "dir", "", "directory holding <page>.txt files (required)")
	f.StringVar(&processFlags.ref, "ref", "", "reference table file, CSV or XLSX")
	f.StringVar(&processFlags.out, "out", "", "output path (defaults to combined_data.csv in --dir)")
	f.BoolVar(&processFlags.xlsx, "xlsx", false, "write an XLSX workbook instead of CSV")
	f.BoolVar(&processFlags.lineLevel, "line-level", false, "one output row per line item")
	f.BoolVar(&processFlags.derived, "derived", false, "append derived pallet/cube planning columns")
	f.StringVar(&processFlags.profilePath, "profile", "", "extraction profile JSON document")
	f.StringVar(&processFlags.dbPath, "db", "", "SQLite path for run history (optional)")
	_ = processCmd.MarkFlagRequired("dir")
}

func runProcess(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p := profile.Default()
	if processFlags.profilePath != "" {
		loaded, err := profile.Load(processFlags.profilePath)
		if err != nil {
			return err
		}
		p = loaded
	}

	pages, diags, err := ingest.NewDirLoader(logger).LoadPages(processFlags.dir)
	if err != nil {
		return err
	}

	var reference []bol.ReferenceRecord
	if processFlags.ref != "" {
		refs, refDiags, err := refloader.LoadFile(processFlags.ref)
		if err != nil {
			return err
		}
		reference = refs
		diags = append(diags, refDiags...)
	}

	proc, err := pipeline.NewProcessor(p, logger)
	if err != nil {
		return err
	}
	dataset, runDiags := proc.Run(pages, reference)
	diags = append(diags, runDiags...)

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}

	if processFlags.dbPath != "" {
		if err := saveRun(ctx, len(pages), dataset, diags, logger); err != nil {
			logger.Error("run history write failed", "error", err)
		}
	}

	out := processFlags.out
	if out == "" {
		out = defaultOutPath()
	}
	if err := writeOutput(out, dataset, logger); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d records, %d diagnostics)\n", out, len(dataset.Records), len(diags))
	return nil
}

func defaultOutPath() string {
	name := constants.OutputCSVName
	if processFlags.xlsx {
		name = strings.TrimSuffix(name, ".csv") + ".xlsx"
	}
	return filepath.Join(processFlags.dir, name)
}

func writeOutput(path string, dataset bol.CombinedDataset, logger *slog.Logger) error {
	opts := export.Options{LineLevel: processFlags.lineLevel, Derived: processFlags.derived}
	if processFlags.xlsx {
		data, err := export.WriteXLSX(dataset, opts, logger)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteCSV(f, dataset, opts)
}

func saveRun(ctx context.Context, pages int, dataset bol.CombinedDataset, diags bol.Diagnostics, logger *slog.Logger) error {
	db, err := repository.Open(ctx, repository.Config{Path: processFlags.dbPath, BusyTimeout: 5 * time.Second}, logger)
	if err != nil {
		return err
	}
	defer repository.Close(db, logger)
	return repository.NewRunRepository(db, logger).SaveRun(ctx, repository.NewRun(pages, dataset, diags))
}
