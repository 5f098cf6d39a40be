// export.go
package main

import (
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

const exportSheet = "Filtered"

func (s *Server) export(c *gin.Context) {
	view := s.view(c)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="filtered.xlsx"`)
	if err := writeWorkbook(c.Writer, view); err != nil {
		s.logger.Error("export failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	s.logger.Info("exported filtered view", "rows", view.Len())
}

// writeWorkbook writes the view as a single-sheet workbook. Numbers stay
// numeric and missing values are left blank.
func writeWorkbook(w io.Writer, view dataset.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}

	t := view.Table()
	cols := t.Columns()
	header := make([]interface{}, len(cols))
	for i, col := range cols {
		header[i] = col.Name
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, name, name, 18)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for r, idx := range view.Indices() {
		row := make([]interface{}, len(cols))
		for i, col := range cols {
			if col.IsNull(idx) {
				row[i] = nil
				continue
			}
			if col.Kind == schema.Numeric {
				v := col.Numbers[idx]
				if math.IsInf(v, 0) {
					row[i] = nil
					continue
				}
				row[i] = v
			} else {
				row[i] = col.Strings[idx]
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", r+2)
		}
	}

	_, err := f.WriteTo(w)
	return errors.Wrap(err, "write workbook")
}
