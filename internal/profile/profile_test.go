package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseAppliesDefaults(t *testing.T) {
	p, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestParseOverrides(t *testing.T) {
	p, err := Parse([]byte(`{
		"pallet_count_policy": "row_count",
		"cube_tolerance_pct": 2.0,
		"totals_keywords": ["total", " grand total "]
	}`))
	require.NoError(t, err)

	assert.Equal(t, PolicyRowCount, p.PalletCountPolicy)
	assert.Equal(t, 2.0, p.CubeTolerancePct)
	// Vocabulary is normalized to upper case for the classifier.
	assert.Equal(t, []string{"TOTAL", "GRAND TOTAL"}, p.TotalsKeywords)
	assert.Equal(t, Default().SkipVocabulary, p.SkipVocabulary)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown policy", `{"pallet_count_policy": "majority_vote"}`},
		{"tolerance out of range", `{"cube_tolerance_pct": 250}`},
		{"unknown field", `{"pallet_policy": "row_count"}`},
		{"wrong type", `{"totals_keywords": "TOTAL"}`},
		{"not json", `pallet_count_policy: row_count`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pallet_count_policy": "row_count"}`), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PolicyRowCount, p.PalletCountPolicy)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildProfileJSONSchema()

	require.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"cube_tolerance_pct": 1.5}`)))

	err := ValidateJSONAgainstSchema(schema, []byte(`{"cube_tolerance_pct": "loose"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected by schema")

	err = ValidateJSONAgainstSchema(schema, []byte(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding profile document")
}

func TestValidate(t *testing.T) {
	p := Default()
	p.PalletCountPolicy = "majority_vote"
	require.Error(t, p.Validate())

	p = Default()
	p.CubeTolerancePct = -1
	require.Error(t, p.Validate())
}
