package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aworks-dev/bol-extractor/internal/bol"
)

// WriteXLSX returns the dataset as an XLSX workbook (as bytes), one sheet,
// same columns as the CSV export.
func WriteXLSX(ds bol.CombinedDataset, opts Options, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Shipments"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	write := func(col, row int, v any) {
		cellName, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cellName, v)
	}

	header := Header(opts)
	for i, h := range header {
		write(i+1, 1, h)
	}
	rowNum := 2
	for _, row := range Rows(ds, opts) {
		for i, v := range row {
			write(i+1, rowNum, v)
		}
		rowNum++
	}

	// Widen the name/address columns
	_ = f.SetColWidth(sheet, "A", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 40)
	_ = f.SetColWidth(sheet, "D", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", rowNum-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
