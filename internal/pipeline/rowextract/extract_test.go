package rowextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/profile"
)

func defaultClassifier() *Classifier {
	p := profile.Default()
	return NewClassifier(p.TotalsKeywords, p.SkipVocabulary)
}

func TestClassifyCascade(t *testing.T) {
	c := defaultClassifier()
	tests := []struct {
		name string
		line string
		want Kind
	}{
		{"blank", "   ", KindSkip},
		{"page number", "Page 3", KindSkip},
		{"bare page number", "3", KindSkip},
		{"page x of y", "2 of 14", KindSkip},
		{"label line", "SHIP TO:", KindSkip},
		{"table header", "CARTONS STYLE PIECES WEIGHT", KindSkip},
		{"vocabulary", "SHIPPING INSTRUCTIONS FOLLOW", KindSkip},
		{"totals", "30 TOTAL CARTONS 2,160 TOTAL PIECES TOTAL VOL / WGT 595.2", KindTotals},
		{"row all numeric", "5 10 200.0", KindRow},
		{"row with style", "AB12 5 200.0", KindRow},
		{"row with split style column", "MENS TEE 5 10 200.0", KindRow},
		{"split style with too few values", "MENS TEE 5 10", KindUnrecognized},
		{"style with too few values", "AB12 5", KindUnrecognized},
		{"two numerics no style", "5 200.0", KindUnrecognized},
		{"alpha token mid-line", "5 ACME 200.0", KindUnrecognized},
		{"bad numeric", "AB12 5 20x.0", KindUnrecognized},
		{"prose", "deliver to rear dock", KindUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line).Kind, "line %q", tt.line)
		})
	}
}

func TestClassifyRowFields(t *testing.T) {
	c := defaultClassifier()

	cl := c.Classify("AB12 5 1,250 200.5")
	require.Equal(t, KindRow, cl.Kind)
	assert.Equal(t, "AB12", cl.StyleCode)
	assert.Equal(t, []float64{5, 1250}, cl.QuantityFields)
	assert.Equal(t, 200.5, cl.Weight)

	// A style column that split into several tokens joins back into one
	// style group.
	cl = c.Classify("mens tee 5 10 200.0")
	require.Equal(t, KindRow, cl.Kind)
	assert.Equal(t, "MENS TEE", cl.StyleCode)
	assert.Equal(t, []float64{5, 10}, cl.QuantityFields)
	assert.Equal(t, 200.0, cl.Weight)

	// Weight is always the trailing figure, however many columns survive
	// extraction.
	cl = c.Classify("1 2 3 4 5 99.9")
	require.Equal(t, KindRow, cl.Kind)
	assert.Empty(t, cl.StyleCode)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, cl.QuantityFields)
	assert.Equal(t, 99.9, cl.Weight)
}

func TestClassifyTotalsFields(t *testing.T) {
	c := defaultClassifier()
	cl := c.Classify("30 TOTAL CARTONS 2,160 TOTAL PIECES TOTAL VOL / WGT 595.2")
	require.Equal(t, KindTotals, cl.Kind)
	assert.Equal(t, 30, cl.PalletCount)
	assert.Equal(t, 595.2, cl.Cube)
}

func TestExtractScenario(t *testing.T) {
	block := bol.ShipmentBlock{
		BlockID:  "A123",
		RawLines: []string{"5 10 200.0", "Total: 5 200.0"},
	}
	res := Extract(block, defaultClassifier())

	require.Len(t, res.LineItems, 1)
	item := res.LineItems[0]
	assert.Equal(t, "A123", item.StyleCode) // inherited from the block
	assert.Equal(t, []float64{5, 10}, item.QuantityFields)
	assert.Equal(t, 200.0, item.Weight)
	assert.Equal(t, "5 10 200.0", item.RawText)

	require.NotNil(t, res.DeclaredTotal)
	assert.Equal(t, 5, res.DeclaredTotal.PalletCount)
	assert.Equal(t, 200.0, res.DeclaredTotal.Cube)
	assert.Empty(t, res.RejectedLines)
}

func TestExtractTotalsOverride(t *testing.T) {
	block := bol.ShipmentBlock{
		BlockID: "A123",
		RawLines: []string{
			"TOTAL 5 100.0",
			"1 2 50.0",
			"TOTAL 7 140.0",
		},
	}
	res := Extract(block, defaultClassifier())

	require.NotNil(t, res.DeclaredTotal)
	assert.Equal(t, 7, res.DeclaredTotal.PalletCount)
	assert.Equal(t, 140.0, res.DeclaredTotal.Cube)

	// The displaced totals line is preserved, and the override is surfaced.
	assert.Equal(t, []string{"TOTAL 5 100.0"}, res.RejectedLines)
	require.Len(t, res.Diagnostics.ByCode(bol.DiagTotalsOverride), 1)
}

// Every raw line must land in exactly one of line items, the totals line, or
// rejected lines.
func TestExtractPartitionProperty(t *testing.T) {
	blocks := []bol.ShipmentBlock{
		{BlockID: "A1", RawLines: []string{
			"CARTONS STYLE PIECES WEIGHT",
			"5 10 200.0",
			"AB12 3 4 55.5",
			"",
			"handle with care",
			"SHIP TO:",
			"TOTAL 8 255.5",
		}},
		{BlockID: "B2", RawLines: []string{
			"TOTAL 1 10.0",
			"TOTAL 2 20.0",
			"garbage line",
		}},
		{BlockID: "C3", RawLines: nil},
	}
	for _, block := range blocks {
		res := Extract(block, defaultClassifier())
		totalLines := 0
		if res.DeclaredTotal != nil {
			totalLines = 1
		}
		assert.Equal(t, len(block.RawLines),
			len(res.LineItems)+len(res.RejectedLines)+totalLines,
			"block %s", block.BlockID)
	}
}

func TestExtractRejectedLineDiagnostics(t *testing.T) {
	block := bol.ShipmentBlock{BlockID: "A1", RawLines: []string{"deliver to rear dock"}}
	res := Extract(block, defaultClassifier())

	assert.Empty(t, res.LineItems)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, bol.DiagRejectedLine, d.Code)
	assert.Equal(t, "deliver to rear dock", d.Line)
	assert.Equal(t, "A1", d.BlockID)
}
