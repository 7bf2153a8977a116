// Package bol holds the data model shared across the extraction pipeline.
// Every value here is created once per run and read-only afterwards; the
// pipeline never mutates its inputs, so concurrent runs over distinct inputs
// need no coordination.
package bol

import (
	"github.com/aworks-dev/bol-extractor/constants"
)

// RawPage is one page of already-extracted document text. The upstream text
// extractor owns decoding; lines arrive uncorrected (hyphenation, stray
// whitespace and all).
type RawPage struct {
	PageNumber int      `json:"page_number"`
	Lines      []string `json:"lines"`
}

// ShipmentBlock groups the raw lines belonging to one shipment/style code.
// RawLines holds every line after the block header; SourcePages records each
// page that contributed at least one line. Blocks are rebuilt, never edited,
// on re-segmentation.
type ShipmentBlock struct {
	BlockID     string
	SourcePages []int
	RawLines    []string
}

// LineItem is one accepted row inside a shipment block. RawText keeps the
// original line for audit.
type LineItem struct {
	StyleCode      string    `json:"style_code"`
	QuantityFields []float64 `json:"quantity_fields"`
	Weight         float64   `json:"weight"`
	RawText        string    `json:"raw_text"`
}

// DeclaredTotal is a totals figure read directly from the document text, as
// opposed to one computed from summed line items.
type DeclaredTotal struct {
	PalletCount int     `json:"pallet_count"`
	Cube        float64 `json:"cube"`
}

// Total is a computed shipment total.
type Total struct {
	PalletCount int     `json:"pallet_count"`
	Cube        float64 `json:"cube"`
}

// ShipmentAggregate is the per-shipment result of extraction plus
// reconciliation. Invariant: len(LineItems) equals the number of
// row-candidate lines accepted from the block; no accepted row is ever
// dropped between extraction and output.
type ShipmentAggregate struct {
	BlockID       string                `json:"block_id"`
	SourcePages   []int                 `json:"source_pages"`
	LineItems     []LineItem            `json:"line_items"`
	DeclaredTotal *DeclaredTotal        `json:"declared_total,omitempty"`
	ComputedTotal Total                 `json:"computed_total"`
	Recon         constants.ReconStatus `json:"reconciliation_status"`
}

// ReferenceRecord is one row of the externally supplied reference table,
// already parsed by the loader. Key is the shipment/BOL identifier used for
// the join.
type ReferenceRecord struct {
	Key           string `json:"key"`
	CompanyName   string `json:"company_name"`
	ShipToName    string `json:"ship_to_name"`
	ShipToAddress string `json:"ship_to_address"`
	BOLNumber     string `json:"bol_number"`
	DeliveryDate  string `json:"delivery_date"`
}

// CombinedRecord pairs a shipment aggregate with its reference row. Exactly
// one side may be absent, flagged by Match.
type CombinedRecord struct {
	Shipment  *ShipmentAggregate    `json:"shipment,omitempty"`
	Reference *ReferenceRecord      `json:"reference,omitempty"`
	Match     constants.MatchStatus `json:"match_status"`
}

// CombinedDataset is the final output of one pipeline run. Record order is
// shipment discovery order, with unmatched reference rows appended at the
// end in their original order.
type CombinedDataset struct {
	Records []CombinedRecord `json:"records"`
}

// Shipments returns the records that carry an extracted shipment.
func (d CombinedDataset) Shipments() []CombinedRecord {
	out := make([]CombinedRecord, 0, len(d.Records))
	for _, r := range d.Records {
		if r.Shipment != nil {
			out = append(out, r)
		}
	}
	return out
}

// CountByMatch tallies records per match status.
func (d CombinedDataset) CountByMatch() map[constants.MatchStatus]int {
	out := make(map[constants.MatchStatus]int, 3)
	for _, r := range d.Records {
		out[r.Match]++
	}
	return out
}
