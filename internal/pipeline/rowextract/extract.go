// Package rowextract classifies the raw lines of one shipment block and
// parses the accepted rows into typed line items. Pure function, no I/O.
package rowextract

import (
	"github.com/aworks-dev/bol-extractor/internal/bol"
)

// Result partitions a block's raw lines. Every input line lands in exactly
// one of LineItems, the declared-total line, or RejectedLines; nothing is
// dropped between classification and output.
type Result struct {
	LineItems     []bol.LineItem
	DeclaredTotal *bol.DeclaredTotal
	TotalsLine    string // raw text of the line DeclaredTotal came from
	RejectedLines []string
	Diagnostics   bol.Diagnostics
}

// Extract runs the classification cascade over a block. Rows without a style
// prefix inherit the block's identifier as their style code. A later totals
// line overrides an earlier one, with a warning, never silently.
func Extract(block bol.ShipmentBlock, classifier *Classifier) Result {
	var res Result
	for _, line := range block.RawLines {
		cl := classifier.Classify(line)
		switch cl.Kind {
		case KindSkip:
			res.RejectedLines = append(res.RejectedLines, line)
		case KindTotals:
			if res.DeclaredTotal != nil {
				res.Diagnostics.Add(bol.SeverityWarning, bol.DiagTotalsOverride, block.BlockID, line,
					"totals line overrides earlier declared total (%d, %v)",
					res.DeclaredTotal.PalletCount, res.DeclaredTotal.Cube)
				// The displaced line moves to the reject pile so the three
				// outputs still partition the block's raw lines.
				res.RejectedLines = append(res.RejectedLines, res.TotalsLine)
			}
			res.DeclaredTotal = &bol.DeclaredTotal{PalletCount: cl.PalletCount, Cube: cl.Cube}
			res.TotalsLine = line
		case KindRow:
			style := cl.StyleCode
			if style == "" {
				style = block.BlockID
			}
			res.LineItems = append(res.LineItems, bol.LineItem{
				StyleCode:      style,
				QuantityFields: cl.QuantityFields,
				Weight:         cl.Weight,
				RawText:        line,
			})
		default:
			res.RejectedLines = append(res.RejectedLines, line)
			res.Diagnostics.Add(bol.SeverityInfo, bol.DiagRejectedLine, block.BlockID, line,
				"line matched no classification pattern")
		}
	}
	return res
}

// AcceptedRows is the row-candidate count for the no-loss invariant.
func (r Result) AcceptedRows() int {
	return len(r.LineItems)
}
