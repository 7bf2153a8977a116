package constants

// ExportColumns is the fixed column order of the combined export. External
// consumers depend on this order; append, never reorder.
var ExportColumns = []string{
	"Company Name",
	"Ship To Name",
	"Ship To Address",
	"BOL#",
	"Delivery Date",
	"Pallet Count",
	"Cube",
	"Match Status",
	"Reconciliation Status",
}

// LineLevelColumns extends ExportColumns with per-line-item fields when the
// caller asks for line-level granularity.
var LineLevelColumns = append(append([]string{}, ExportColumns...),
	"Style",
	"Quantity Fields",
	"Weight",
)
