// Package profile holds the tunable policy for one extraction run: how
// pallet counts are derived, how much cube drift reconciliation absorbs, and
// the vocabulary the row classifier treats as noise or totals.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aworks-dev/bol-extractor/internal/common"
)

// Pallet-count policies. The rule for multi-unit rows was ambiguous in the
// source documents, so it is a profile knob rather than a fixed rule.
const (
	PolicyQuantitySum = "quantity_sum" // sum each row's first quantity field, fall back to row count
	PolicyRowCount    = "row_count"    // one pallet per accepted row
)

// Profile is the extraction policy document. Zero values mean "use default".
type Profile struct {
	PalletCountPolicy string   `json:"pallet_count_policy"`
	CubeTolerancePct  float64  `json:"cube_tolerance_pct"`
	TotalsKeywords    []string `json:"totals_keywords,omitempty"`
	SkipVocabulary    []string `json:"skip_vocabulary,omitempty"`
}

// Default returns the compiled-in policy: quantity-sum pallets, 0.5% cube
// tolerance, and the vocabulary observed across scanned BOL documents.
func Default() Profile {
	return Profile{
		PalletCountPolicy: PolicyQuantitySum,
		CubeTolerancePct:  0.5,
		TotalsKeywords:    []string{"TOTAL"},
		SkipVocabulary: []string{
			"BILL OF LADING",
			"SHIPPING INSTRUCTIONS",
			"PURCHASE ORDER",
			"FREIGHT CHARGE",
		},
	}
}

// Load reads a profile JSON document, validates it against the embedded
// schema, and fills unset fields from Default.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, common.NewAppError("PROFILE_READ", "reading profile document", err)
	}
	return Parse(data)
}

// Parse validates and decodes a profile JSON document.
func Parse(data []byte) (Profile, error) {
	if err := ValidateJSONAgainstSchema(BuildProfileJSONSchema(), data); err != nil {
		return Profile{}, common.NewAppError("PROFILE_INVALID", "profile does not match schema", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, common.NewAppError("PROFILE_INVALID", "decoding profile", err)
	}
	p.applyDefaults()
	return p, nil
}

func (p *Profile) applyDefaults() {
	def := Default()
	if p.PalletCountPolicy == "" {
		p.PalletCountPolicy = def.PalletCountPolicy
	}
	if p.CubeTolerancePct == 0 {
		p.CubeTolerancePct = def.CubeTolerancePct
	}
	if len(p.TotalsKeywords) == 0 {
		p.TotalsKeywords = def.TotalsKeywords
	}
	if len(p.SkipVocabulary) == 0 {
		p.SkipVocabulary = def.SkipVocabulary
	}
	for i, kw := range p.TotalsKeywords {
		p.TotalsKeywords[i] = strings.ToUpper(strings.TrimSpace(kw))
	}
	for i, v := range p.SkipVocabulary {
		p.SkipVocabulary[i] = strings.ToUpper(strings.TrimSpace(v))
	}
}

// Validate rejects values the pipeline cannot act on. Parse already enforces
// the schema; this guards profiles constructed in code.
func (p Profile) Validate() error {
	switch p.PalletCountPolicy {
	case PolicyQuantitySum, PolicyRowCount:
	default:
		return common.NewAppError("PROFILE_INVALID",
			fmt.Sprintf("unknown pallet_count_policy %q", p.PalletCountPolicy), common.ErrInvalidInput)
	}
	if p.CubeTolerancePct < 0 || p.CubeTolerancePct > 100 {
		return common.NewAppError("PROFILE_INVALID",
			fmt.Sprintf("cube_tolerance_pct %v out of range", p.CubeTolerancePct), common.ErrInvalidInput)
	}
	return nil
}
