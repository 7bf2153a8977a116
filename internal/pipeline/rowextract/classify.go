package rowextract

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the classification of one raw line. The classifier is a fixed
// priority cascade (Skip, Totals, Row, Unrecognized); every line gets
// exactly one tag, which keeps the partition property mechanically
// checkable.
type Kind int

const (
	KindSkip Kind = iota
	KindTotals
	KindRow
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindTotals:
		return "totals"
	case KindRow:
		return "row"
	default:
		return "unrecognized"
	}
}

// Classification is the tagged result for one line.
type Classification struct {
	Kind Kind

	// Row fields (KindRow).
	StyleCode      string // empty when the row had no style prefix
	QuantityFields []float64
	Weight         float64

	// Totals fields (KindTotals). First numeric token is the pallet count,
	// last is the cube, whatever sits between is column debris.
	PalletCount int
	Cube        float64
}

var (
	pageNumberRe = regexp.MustCompile(`(?i)^(?:page\s+)?\d{1,4}(?:\s+of\s+\d{1,4})?$`)
	numericRe    = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$|^\d+(?:\.\d+)?$`)
	styleTokenRe = regexp.MustCompile(`^(?:[A-Za-z]{1,5}\d{1,10}|\d{1,10}[A-Za-z]{1,5})[A-Za-z0-9-]*$`)
	// Table headers name at least these three columns in some order.
	tableHeaderWords = []string{"CARTONS", "STYLE", "PIECES"}
)

// parseNumeric parses a numeric token, tolerating thousands separators.
func parseNumeric(tok string) (float64, bool) {
	if !numericRe.MatchString(tok) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Classifier applies the cascade with a run's vocabulary.
type Classifier struct {
	totalsKeywords []string // uppercased
	skipVocabulary []string // uppercased
}

func NewClassifier(totalsKeywords, skipVocabulary []string) *Classifier {
	return &Classifier{totalsKeywords: totalsKeywords, skipVocabulary: skipVocabulary}
}

// Classify tags one line. First match wins; the order of checks is part of
// the contract.
func (c *Classifier) Classify(line string) Classification {
	s := strings.TrimSpace(line)

	// 1. Skip patterns: blank, page-number-only, label lines, known
	// header/instruction vocabulary.
	if s == "" || pageNumberRe.MatchString(s) || strings.HasSuffix(s, ":") {
		return Classification{Kind: KindSkip}
	}
	upper := strings.ToUpper(s)
	if isTableHeader(upper) {
		return Classification{Kind: KindSkip}
	}
	for _, phrase := range c.skipVocabulary {
		if strings.Contains(upper, phrase) {
			return Classification{Kind: KindSkip}
		}
	}

	tokens := strings.Fields(s)

	// 2. Totals: a totals keyword plus at least two numeric tokens.
	if c.hasTotalsKeyword(upper) {
		if nums := numericTokens(tokens); len(nums) >= 2 {
			return Classification{
				Kind:        KindTotals,
				PalletCount: int(nums[0]),
				Cube:        nums[len(nums)-1],
			}
		}
	}

	// 3. Row: either all-numeric with three or more values, or a style-code
	// token followed by at least two values. A token that fails numeric
	// parsing past the style prefix disqualifies the line.
	if cl, ok := classifyRow(tokens); ok {
		return cl
	}

	// 4. Anything else is preserved for audit.
	return Classification{Kind: KindUnrecognized}
}

func (c *Classifier) hasTotalsKeyword(upper string) bool {
	for _, kw := range c.totalsKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func isTableHeader(upper string) bool {
	for _, w := range tableHeaderWords {
		if !strings.Contains(upper, w) {
			return false
		}
	}
	return true
}

func numericTokens(tokens []string) []float64 {
	var out []float64
	for _, tok := range tokens {
		if v, ok := parseNumeric(tok); ok {
			out = append(out, v)
		}
	}
	return out
}

func classifyRow(tokens []string) (Classification, bool) {
	if len(tokens) == 0 {
		return Classification{}, false
	}

	// Style prefix: leading tokens up to the first numeric run.
	prefixLen := 0
	for prefixLen < len(tokens) {
		if _, ok := parseNumeric(tokens[prefixLen]); ok {
			break
		}
		prefixLen++
	}

	// The weight column ("cube") is always the trailing figure, so the whole
	// tail past the prefix must parse; ragged columns show up as extra
	// quantity fields, not as a shifted weight.
	nums := make([]float64, 0, len(tokens)-prefixLen)
	for _, tok := range tokens[prefixLen:] {
		v, ok := parseNumeric(tok)
		if !ok {
			return Classification{}, false
		}
		nums = append(nums, v)
	}

	var style string
	switch prefixLen {
	case 0:
		if len(nums) < 3 {
			return Classification{}, false
		}
	case 1:
		if !styleTokenRe.MatchString(tokens[0]) || len(nums) < 2 {
			return Classification{}, false
		}
		style = strings.ToUpper(tokens[0])
	default:
		// Ragged extraction can split the style column into several tokens.
		// With three or more values the line is still a data row; the whole
		// prefix is the style group.
		if len(nums) < 3 {
			return Classification{}, false
		}
		style = strings.ToUpper(strings.Join(tokens[:prefixLen], " "))
	}

	return Classification{
		Kind:           KindRow,
		StyleCode:      style,
		QuantityFields: nums[:len(nums)-1],
		Weight:         nums[len(nums)-1],
	}, true
}
