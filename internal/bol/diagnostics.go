package bol

import "fmt"

// Severity ranks a diagnostic. Data-quality problems are never errors in the
// Go sense; the pipeline always returns a best-effort dataset and reports
// findings here.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR" // high-severity finding, still non-fatal
)

// Diagnostic codes. Stable identifiers; callers switch on these.
const (
	DiagPreambleLine      = "PREAMBLE_LINE"       // line before the first block header
	DiagRejectedLine      = "REJECTED_LINE"       // line that matched no classification pattern
	DiagTotalsOverride    = "TOTALS_OVERRIDE"     // a later totals line replaced an earlier one
	DiagTotalsMismatch    = "TOTALS_MISMATCH"     // declared vs computed disagreement
	DiagRowCountInvariant = "ROW_COUNT_INVARIANT" // accepted rows went missing between stages
	DiagDuplicateRef      = "DUPLICATE_REFERENCE" // multiple reference rows share one key
	DiagMissingRefKey     = "MISSING_REFERENCE_KEY"
	DiagEmptyInput        = "EMPTY_INPUT"
	DiagEmptyBlock        = "EMPTY_BLOCK" // block with zero accepted rows
	DiagBlockContinued    = "BLOCK_CONTINUED"
	DiagEmptyPage         = "EMPTY_PAGE"
)

// Diagnostic is one structured, non-fatal finding from a pipeline run.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	BlockID  string   `json:"block_id,omitempty"`
	Line     string   `json:"line,omitempty"` // offending line text, preserved for audit
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.BlockID != "" {
		return fmt.Sprintf("%s %s [%s]: %s", d.Severity, d.Code, d.BlockID, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

// Diagnostics collects findings in emission order.
type Diagnostics []Diagnostic

func (ds *Diagnostics) Add(sev Severity, code, blockID, line, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Severity: sev,
		Code:     code,
		BlockID:  blockID,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasSeverity reports whether any diagnostic is at least as severe as min.
func (ds Diagnostics) HasSeverity(min Severity) bool {
	rank := map[Severity]int{SeverityInfo: 0, SeverityWarning: 1, SeverityError: 2}
	for _, d := range ds {
		if rank[d.Severity] >= rank[min] {
			return true
		}
	}
	return false
}

// ByCode returns the diagnostics with the given code.
func (ds Diagnostics) ByCode(code string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
