package ingest

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxXLSRows = 65536

// ParseTabular reads an uploaded file into raw rows, header first. The game
// exports are CSV; xlsx and xls are accepted on the direct upload path for
// re-saved files.
func ParseTabular(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.TrimLeadingSpace = true
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, FileParseError{Format: "CSV", Err: err}
		}
		return rows, nil
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, FileParseError{Format: "xlsx", Err: err}
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, FileParseError{Format: "xlsx", Err: err}
		}
		return rows, nil
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, FileParseError{Format: "xls", Err: err}
		}
		return wb.ReadAllCells(maxXLSRows), nil
	}
	return nil, UnsupportedFileError{}
}
