package constants

// ReconStatus is the canonical outcome of comparing declared vs computed
// totals for one shipment.
type ReconStatus string

// Stable values (store these exact strings in the run history DB).
const (
	ReconMatched      ReconStatus = "MATCHED"       // declared and computed agree within tolerance
	ReconComputedOnly ReconStatus = "COMPUTED_ONLY" // no declared total; computed values are authoritative
	ReconMismatch     ReconStatus = "MISMATCH"      // disagreement recorded; computed values still win
)

// MatchStatus is the canonical outcome of joining a shipment against the
// reference table.
type MatchStatus string

const (
	MatchMatched       MatchStatus = "MATCHED"
	MatchShipmentOnly  MatchStatus = "SHIPMENT_ONLY"  // extracted shipment with no reference row
	MatchReferenceOnly MatchStatus = "REFERENCE_ONLY" // reference row with no extracted shipment
)

// RunStatus is the terminal state of one pipeline run.
type RunStatus string

const (
	RunOK       RunStatus = "OK"
	RunDegraded RunStatus = "DEGRADED" // completed with warning or error diagnostics
)
