package pipeline

import (
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/pipeline/reconcile"
	"github.com/aworks-dev/bol-extractor/internal/pipeline/rowextract"
	"github.com/aworks-dev/bol-extractor/internal/profile"
)

// blockResult pairs a segmented block with its extraction output.
type blockResult struct {
	block bol.ShipmentBlock
	ext   rowextract.Result
}

// aggregate folds per-block extraction results into ordered shipment
// aggregates. Blocks sharing an identifier (multi-page shipments that
// re-announce their header) merge into one aggregate in first-discovery
// order: line items concatenate, source pages union, and the last declared
// total wins with a warning. Aggregates with zero rows are retained so
// reference-side matches can still surface them.
func aggregate(results []blockResult, p profile.Profile) ([]bol.ShipmentAggregate, bol.Diagnostics) {
	var diags bol.Diagnostics

	type group struct {
		block bol.ShipmentBlock
		items []bol.LineItem
		total *bol.DeclaredTotal
	}
	var order []string
	groups := make(map[string]*group)

	for _, r := range results {
		g, ok := groups[r.block.BlockID]
		if !ok {
			g = &group{block: bol.ShipmentBlock{BlockID: r.block.BlockID}}
			groups[r.block.BlockID] = g
			order = append(order, r.block.BlockID)
		} else {
			diags.Add(bol.SeverityInfo, bol.DiagBlockContinued, r.block.BlockID, "",
				"shipment re-announced on a later page; folded into earlier block")
		}
		for _, page := range r.block.SourcePages {
			g.block.SourcePages = unionPage(g.block.SourcePages, page)
		}
		g.items = append(g.items, r.ext.LineItems...)
		if r.ext.DeclaredTotal != nil {
			if g.total != nil {
				diags.Add(bol.SeverityWarning, bol.DiagTotalsOverride, r.block.BlockID, "",
					"declared total on a later page overrides (%d, %v)", g.total.PalletCount, g.total.Cube)
			}
			g.total = r.ext.DeclaredTotal
		}
	}

	aggs := make([]bol.ShipmentAggregate, 0, len(order))
	for _, id := range order {
		g := groups[id]
		computed, status, rdiags := reconcile.Reconcile(id, g.items, g.total, p)
		diags = append(diags, rdiags...)
		aggs = append(aggs, bol.ShipmentAggregate{
			BlockID:       id,
			SourcePages:   g.block.SourcePages,
			LineItems:     g.items,
			DeclaredTotal: g.total,
			ComputedTotal: computed,
			Recon:         status,
		})
	}
	return aggs, diags
}

// checkRowInvariant is the primary defense against silent row loss: every
// row accepted during extraction must appear in exactly one aggregate. A
// shortfall names the offending block and the discrepancy; it is a
// high-severity diagnostic, never a crash.
func checkRowInvariant(results []blockResult, aggs []bol.ShipmentAggregate) bol.Diagnostics {
	var diags bol.Diagnostics

	acceptedByBlock := make(map[string]int)
	accepted := 0
	for _, r := range results {
		acceptedByBlock[r.block.BlockID] += r.ext.AcceptedRows()
		accepted += r.ext.AcceptedRows()
	}

	kept := 0
	for _, agg := range aggs {
		kept += len(agg.LineItems)
		if want := acceptedByBlock[agg.BlockID]; len(agg.LineItems) != want {
			diags.Add(bol.SeverityError, bol.DiagRowCountInvariant, agg.BlockID, "",
				"block kept %d of %d accepted rows", len(agg.LineItems), want)
		}
	}
	if kept != accepted {
		diags.Add(bol.SeverityError, bol.DiagRowCountInvariant, "", "",
			"run kept %d of %d accepted rows", kept, accepted)
	}
	return diags
}

func unionPage(pages []int, n int) []int {
	for _, p := range pages {
		if p == n {
			return pages
		}
	}
	return append(pages, n)
}
