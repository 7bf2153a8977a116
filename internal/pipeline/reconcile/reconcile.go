// Package reconcile compares declared shipment totals against totals
// computed from extracted line items and picks the authoritative value.
package reconcile

import (
	"math"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/profile"
)

// Reconcile derives the computed total for a block and grades it against the
// declared one, when present. A missing declared total is a valid outcome
// (ComputedOnly), never a reason to drop the shipment. On mismatch the
// computed value still wins downstream; the disagreement is a diagnostic.
func Reconcile(blockID string, items []bol.LineItem, declared *bol.DeclaredTotal, p profile.Profile) (bol.Total, constants.ReconStatus, bol.Diagnostics) {
	var diags bol.Diagnostics
	computed := computeTotal(items, p)

	if declared == nil {
		if len(items) == 0 {
			diags.Add(bol.SeverityWarning, bol.DiagEmptyBlock, blockID, "",
				"no rows and no declared total; zero computed total is authoritative")
		}
		return computed, constants.ReconComputedOnly, diags
	}

	if declared.PalletCount == computed.PalletCount && cubeWithinTolerance(declared.Cube, computed.Cube, p.CubeTolerancePct) {
		return computed, constants.ReconMatched, diags
	}

	diags.Add(bol.SeverityWarning, bol.DiagTotalsMismatch, blockID, "",
		"declared total (%d pallets, %v cube) disagrees with computed (%d pallets, %v cube); computed wins",
		declared.PalletCount, declared.Cube, computed.PalletCount, computed.Cube)
	return computed, constants.ReconMismatch, diags
}

func computeTotal(items []bol.LineItem, p profile.Profile) bol.Total {
	var t bol.Total
	for _, item := range items {
		t.Cube += item.Weight
	}
	switch p.PalletCountPolicy {
	case profile.PolicyRowCount:
		t.PalletCount = len(items)
	default: // quantity_sum
		sum := 0
		usedQuantity := false
		for _, item := range items {
			if len(item.QuantityFields) > 0 {
				sum += int(item.QuantityFields[0])
				usedQuantity = true
			}
		}
		if usedQuantity {
			t.PalletCount = sum
		} else {
			t.PalletCount = len(items)
		}
	}
	return t
}

// cubeWithinTolerance absorbs rounding drift in the source text: pallet
// counts must match exactly, cube may differ by tolerancePct percent of the
// declared value.
func cubeWithinTolerance(declared, computed, tolerancePct float64) bool {
	if declared == computed {
		return true
	}
	if declared == 0 {
		return computed == 0
	}
	return math.Abs(declared-computed) <= math.Abs(declared)*tolerancePct/100
}
