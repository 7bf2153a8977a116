package export

import (
	"encoding/csv"
	"io"

	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
)

// WriteCSV writes the dataset with a header row.
func WriteCSV(w io.Writer, ds bol.CombinedDataset, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(opts)); err != nil {
		return common.WrapError(err, "writing export header")
	}
	for _, row := range Rows(ds, opts) {
		if err := cw.Write(row); err != nil {
			return common.WrapError(err, "writing export row")
		}
	}
	cw.Flush()
	return common.WrapError(cw.Error(), "flushing export")
}
