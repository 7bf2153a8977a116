// Package export serializes a CombinedDataset to delimited files. Column
// order is a contract with downstream consumers (constants.ExportColumns);
// the pipeline core stays byte-agnostic.
package export

import (
	"math"
	"strconv"
	"strings"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
)

// Options selects output granularity and derived columns.
type Options struct {
	// LineLevel emits one row per line item instead of one per shipment.
	LineLevel bool
	// Derived appends the warehouse-planning columns computed from cube and
	// ship-to: Pallet, Burlington Cube, Final Cube.
	Derived bool
}

var derivedColumns = []string{"Pallet", "Burlington Cube", "Final Cube"}

// Header returns the column names for the given options.
func Header(opts Options) []string {
	base := constants.ExportColumns
	if opts.LineLevel {
		base = constants.LineLevelColumns
	}
	out := append([]string{}, base...)
	if opts.Derived {
		out = append(out, derivedColumns...)
	}
	return out
}

// Rows flattens the dataset in record order. Reference-only records produce
// a row with empty shipment columns; shipment-only records leave the
// reference columns empty. Nothing is filtered.
func Rows(ds bol.CombinedDataset, opts Options) [][]string {
	var out [][]string
	for _, rec := range ds.Records {
		if opts.LineLevel && rec.Shipment != nil && len(rec.Shipment.LineItems) > 0 {
			for _, item := range rec.Shipment.LineItems {
				out = append(out, buildRow(rec, &item, opts))
			}
			continue
		}
		out = append(out, buildRow(rec, nil, opts))
	}
	return out
}

func buildRow(rec bol.CombinedRecord, item *bol.LineItem, opts Options) []string {
	var (
		company, shipTo, address, bolNo, delivery string
		palletCount, cube                         string
		recon                                     string
	)
	if rec.Reference != nil {
		company = rec.Reference.CompanyName
		shipTo = rec.Reference.ShipToName
		address = rec.Reference.ShipToAddress
		bolNo = rec.Reference.BOLNumber
		delivery = rec.Reference.DeliveryDate
	}
	if rec.Shipment != nil {
		if bolNo == "" {
			bolNo = rec.Shipment.BlockID
		}
		palletCount = strconv.Itoa(rec.Shipment.ComputedTotal.PalletCount)
		cube = formatCube(rec.Shipment.ComputedTotal.Cube)
		recon = string(rec.Shipment.Recon)
	}

	row := []string{
		company,
		shipTo,
		address,
		bolNo,
		delivery,
		palletCount,
		cube,
		string(rec.Match),
		recon,
	}
	if opts.LineLevel {
		var style, qty, weight string
		if item != nil {
			style = item.StyleCode
			qty = joinFloats(item.QuantityFields)
			weight = formatCube(item.Weight)
		}
		row = append(row, style, qty, weight)
	}
	if opts.Derived {
		row = append(row, deriveColumns(rec)...)
	}
	return row
}

// deriveColumns reproduces the warehouse planning math: one pallet per 80
// cube (rounded up), Burlington destinations size at 93 cube per pallet,
// everyone else at 130.
func deriveColumns(rec bol.CombinedRecord) []string {
	if rec.Shipment == nil || rec.Shipment.ComputedTotal.Cube <= 0 {
		return []string{"", "", ""}
	}
	pallet := int(math.Ceil(rec.Shipment.ComputedTotal.Cube / 80))

	shipTo := ""
	if rec.Reference != nil {
		shipTo = rec.Reference.ShipToName
	}
	burlington, final := "", ""
	if strings.Contains(strings.ToLower(shipTo), "burlington") {
		burlington = strconv.Itoa(pallet * 93)
	} else {
		final = strconv.Itoa(pallet * 130)
	}
	return []string{strconv.Itoa(pallet), burlington, final}
}

func formatCube(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
