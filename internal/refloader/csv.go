package refloader

import (
	"encoding/csv"
	"io"

	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
)

// LoadCSV reads a reference table from CSV. The reader is deliberately
// permissive: exports arrive with ragged row widths and loose quoting.
func LoadCSV(r io.Reader) ([]bol.ReferenceRecord, bol.Diagnostics, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, common.NewAppError("REFERENCE_PARSE", "reading reference CSV", err)
	}
	return fromRows(rows)
}
