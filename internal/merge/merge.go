// Package merge joins extracted shipment aggregates against the external
// reference table by shared identifier. No input row from either side ever
// vanishes: unmatched shipments and unmatched reference rows both surface in
// the output, flagged.
package merge

import (
	"strings"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
)

// KeyFunc normalizes join keys. The two sources drift in formatting, so both
// sides pass through the same normalizer before comparison.
type KeyFunc func(string) string

// NormalizeKey is the default KeyFunc: case, whitespace and comma
// insensitive.
func NormalizeKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", "")
	return s
}

// Merge joins aggregates with reference rows. Expected cardinality is
// one-to-one; when several reference rows share a key, the first in original
// order wins and the rest are reported as duplicates. Output order is
// shipment discovery order, then unmatched reference rows in their original
// order.
func Merge(aggregates []bol.ShipmentAggregate, reference []bol.ReferenceRecord, keyFn KeyFunc) (bol.CombinedDataset, bol.Diagnostics) {
	if keyFn == nil {
		keyFn = NormalizeKey
	}
	var diags bol.Diagnostics

	// Index reference rows by normalized key, first occurrence wins.
	refByKey := make(map[string]int, len(reference))
	for i, ref := range reference {
		key := keyFn(ref.Key)
		if key == "" {
			diags.Add(bol.SeverityWarning, bol.DiagMissingRefKey, "", "",
				"reference row %d has no usable key; kept as reference-only", i+1)
			continue
		}
		if first, dup := refByKey[key]; dup {
			diags.Add(bol.SeverityWarning, bol.DiagDuplicateRef, "", "",
				"reference rows %d and %d share key %q; first wins", first+1, i+1, key)
			continue
		}
		refByKey[key] = i
	}

	var ds bol.CombinedDataset
	used := make(map[int]bool, len(reference))
	for i := range aggregates {
		agg := &aggregates[i]
		idx, ok := refByKey[keyFn(agg.BlockID)]
		if !ok {
			ds.Records = append(ds.Records, bol.CombinedRecord{
				Shipment: agg,
				Match:    constants.MatchShipmentOnly,
			})
			continue
		}
		if used[idx] {
			// Two aggregates resolved to the same reference row; the join is
			// one-to-one, so the second shipment stays unmatched.
			diags.Add(bol.SeverityWarning, bol.DiagDuplicateRef, agg.BlockID, "",
				"reference row %d already matched an earlier shipment", idx+1)
			ds.Records = append(ds.Records, bol.CombinedRecord{
				Shipment: agg,
				Match:    constants.MatchShipmentOnly,
			})
			continue
		}
		used[idx] = true
		ds.Records = append(ds.Records, bol.CombinedRecord{
			Shipment:  agg,
			Reference: &reference[idx],
			Match:     constants.MatchMatched,
		})
	}

	// Unmatched reference rows, original order. Rows with unusable keys and
	// duplicates that lost to an earlier row were never indexed under their
	// own position, so they land here too.
	for i := range reference {
		if idx, ok := refByKey[keyFn(reference[i].Key)]; ok && idx == i && used[i] {
			continue
		}
		ds.Records = append(ds.Records, bol.CombinedRecord{
			Reference: &reference[i],
			Match:     constants.MatchReferenceOnly,
		})
	}

	return ds, diags
}
