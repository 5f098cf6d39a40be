package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ReadRecords reads the raw cells of a CSV or XLSX file (chosen by
// extension, CSV by default). The first record is the header row: names are
// trimmed, blank names become Column_N, and every data row is padded or cut
// to the header width.
func ReadRecords(fsys fs.FS, name string) ([][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	var rows [][]string
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(f)
	default:
		rows, err = readCSV(f)
	}
	if err != nil {
		return nil, err
	}
	return normalize(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	return rows, nil
}

func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	return rows, nil
}

func normalize(rows [][]string) ([][]string, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}

	out := make([][]string, 0, len(rows))
	out = append(out, headers)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		fixed := make([]string, len(headers))
		copy(fixed, row)
		out = append(out, fixed)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
