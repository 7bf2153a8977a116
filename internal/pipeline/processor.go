// Package pipeline orchestrates one extraction run: segment raw pages into
// shipment blocks, extract and reconcile rows per block, enforce the no-loss
// invariant, and merge against the reference table. The whole run is a pure
// value-in/value-out computation; callers own all I/O.
package pipeline

import (
	"log/slog"

	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/merge"
	"github.com/aworks-dev/bol-extractor/internal/pipeline/rowextract"
	"github.com/aworks-dev/bol-extractor/internal/pipeline/segment"
	"github.com/aworks-dev/bol-extractor/internal/profile"
)

// Processor runs the Segment → Extract → Reconcile → Aggregate → Merge
// pipeline. Safe for concurrent use: it holds no per-run state.
type Processor struct {
	Logger  *slog.Logger
	Profile profile.Profile
	KeyFn   merge.KeyFunc // nil means merge.NormalizeKey
}

func NewProcessor(p profile.Profile, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Processor{Logger: logger, Profile: p}, nil
}

// Run executes one pipeline run over fully materialized inputs. Data-quality
// problems never fail the run; the dataset is best-effort and the findings
// ride along as diagnostics.
func (p *Processor) Run(pages []bol.RawPage, reference []bol.ReferenceRecord) (bol.CombinedDataset, bol.Diagnostics) {
	var diags bol.Diagnostics

	if countLines(pages) == 0 {
		diags.Add(bol.SeverityWarning, bol.DiagEmptyInput, "", "",
			"no page text supplied; no shipments found")
	}

	blocks, segDiags := segment.Segment(pages)
	diags = append(diags, segDiags...)

	classifier := rowextract.NewClassifier(p.Profile.TotalsKeywords, p.Profile.SkipVocabulary)
	results := make([]blockResult, 0, len(blocks))
	accepted := 0
	for _, block := range blocks {
		ext := rowextract.Extract(block, classifier)
		diags = append(diags, ext.Diagnostics...)
		accepted += ext.AcceptedRows()
		results = append(results, blockResult{block: block, ext: ext})
	}

	aggs, aggDiags := aggregate(results, p.Profile)
	diags = append(diags, aggDiags...)
	diags = append(diags, checkRowInvariant(results, aggs)...)

	dataset, mergeDiags := merge.Merge(aggs, reference, p.KeyFn)
	diags = append(diags, mergeDiags...)

	p.Logger.Info("pipeline.run.ok",
		"pages", len(pages),
		"blocks", len(blocks),
		"shipments", len(aggs),
		"accepted_rows", accepted,
		"reference_rows", len(reference),
		"records", len(dataset.Records),
		"diagnostics", len(diags),
	)
	return dataset, diags
}

func countLines(pages []bol.RawPage) int {
	n := 0
	for _, page := range pages {
		n += len(page.Lines)
	}
	return n
}
