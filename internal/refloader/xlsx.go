package refloader

import (
	"github.com/xuri/excelize/v2"

	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
)

// LoadXLSX reads a reference table from the first sheet of a workbook.
func LoadXLSX(path string) ([]bol.ReferenceRecord, bol.Diagnostics, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, common.NewAppError("REFERENCE_READ", "opening reference workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, common.NewAppError("REFERENCE_PARSE", "workbook has no sheets", common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, common.NewAppError("REFERENCE_PARSE", "reading workbook rows", err)
	}
	return fromRows(rows)
}
