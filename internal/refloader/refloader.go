// Package refloader parses externally supplied reference tables (spreadsheet
// exports) into ReferenceRecords. It owns delimiter/encoding concerns so the
// pipeline core never touches file bytes.
package refloader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
)

// Header spellings observed across customer exports, keyed by canonical
// field. Matching is case and punctuation tolerant; a trailing '*' (the
// export tool's required-column marker) is ignored.
var headerAliases = map[string][]string{
	"key":             {"bol#", "bol number", "bol", "invoice no.", "invoice no", "invoice number", "shipment id", "shipment"},
	"company_name":    {"company name", "customer", "company"},
	"ship_to_name":    {"ship to name", "ship-to name", "shipto name"},
	"ship_to_address": {"ship to address", "ship-to address", "ship to", "address"},
	"bol_number":      {"bol#", "outbound bol", "bol number"},
	"delivery_date":   {"delivery date", "start date", "ship date"},
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimSuffix(h, "*")
	return strings.Join(strings.Fields(h), " ")
}

// columnIndex resolves each canonical field to a column position, -1 when
// the header row carries no alias for it.
func columnIndex(headers []string) map[string]int {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeader(h)
	}
	idx := make(map[string]int, len(headerAliases))
	for field, aliases := range headerAliases {
		idx[field] = -1
		for _, alias := range aliases {
			for col, h := range norm {
				if h == alias {
					idx[field] = col
					break
				}
			}
			if idx[field] >= 0 {
				break
			}
		}
	}
	return idx
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// fromRows builds records from a header row plus data rows. Rows without a
// usable key are kept; the merge stage flags them. Fully blank rows are
// dropped, which is not data loss — they carry nothing.
func fromRows(rows [][]string) ([]bol.ReferenceRecord, bol.Diagnostics, error) {
	var diags bol.Diagnostics
	if len(rows) == 0 {
		diags.Add(bol.SeverityWarning, bol.DiagEmptyInput, "", "", "reference table is empty")
		return nil, diags, nil
	}
	idx := columnIndex(rows[0])
	if idx["key"] < 0 {
		return nil, diags, common.NewAppError("REFERENCE_HEADER",
			"reference table has no recognizable shipment identifier column", common.ErrInvalidInput)
	}

	records := make([]bol.ReferenceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec := bol.ReferenceRecord{
			Key:           cell(row, idx["key"]),
			CompanyName:   cell(row, idx["company_name"]),
			ShipToName:    cell(row, idx["ship_to_name"]),
			ShipToAddress: cell(row, idx["ship_to_address"]),
			BOLNumber:     cell(row, idx["bol_number"]),
			DeliveryDate:  cell(row, idx["delivery_date"]),
		}
		if rec.BOLNumber == "" {
			rec.BOLNumber = rec.Key
		}
		records = append(records, rec)
	}
	return records, diags, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// LoadFile dispatches on extension: CSV via encoding/csv, XLSX via excelize.
func LoadFile(path string) ([]bol.ReferenceRecord, bol.Diagnostics, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.ReferenceFileExtensions[ext]; !ok {
		return nil, nil, common.NewAppError("REFERENCE_FORMAT",
			"unsupported reference file extension "+ext, common.ErrInvalidInput)
	}
	if ext == "csv" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, common.NewAppError("REFERENCE_READ", "opening reference file", err)
		}
		defer f.Close()
		return LoadCSV(f)
	}
	return LoadXLSX(path)
}
