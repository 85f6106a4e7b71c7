package dataset

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gsy-tools/gsy/pkg/util"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

const (
	dataSheet = "Data"
	cfgSheet  = "Cfg"

	headerFillColor = "D3D3D3"
	dateCellFormat  = "dd/mm/yyyy"
	maxColumnWidth  = 50
	widthSampleRows = 100
)

// ExcelMeta is stored in the hidden Cfg sheet so the workbook's refresh macros can tell
// which key, system and environment it was generated with.
type ExcelMeta struct {
	APIKey      string
	System      string
	Environment string
}

// ExportExcel writes the dataset to a formatted workbook: a Data sheet with a styled,
// filterable header and a hidden Cfg sheet holding the metadata.
func (d *Dataset) ExportExcel(path string, meta ExcelMeta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}
	if err := writeCfgSheet(f, meta); err != nil {
		return util.WrapError(err, "writing Cfg sheet")
	}
	if err := d.writeDataSheet(f); err != nil {
		return util.WrapError(err, "writing Data sheet")
	}
	if err := d.applyFormatting(f); err != nil {
		return util.WrapError(err, "formatting Data sheet")
	}

	if err := f.SaveAs(path); err != nil {
		return err
	}
	console.Infof("Excel file saved successfully: %s", path)
	return nil
}

func writeCfgSheet(f *excelize.File, meta ExcelMeta) error {
	if _, err := f.NewSheet(cfgSheet); err != nil {
		return err
	}
	cells := map[string]string{
		"A1": "apiKey", "B1": meta.APIKey,
		"A2": "system", "B2": meta.System,
		"A3": "environment", "B3": meta.Environment,
	}
	for cell, value := range cells {
		if err := f.SetCellValue(cfgSheet, cell, value); err != nil {
			return err
		}
	}
	return f.SetSheetVisible(cfgSheet, false)
}

func (d *Dataset) writeDataSheet(f *excelize.File) error {
	for i, col := range d.columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(dataSheet, cell, col); err != nil {
			return err
		}
	}
	for r, row := range d.rows {
		for i, col := range d.columns {
			value := row[col]
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(dataSheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dataset) applyFormatting(f *excelize.File) error {
	if len(d.columns) == 0 {
		return nil
	}

	if err := f.SetPanes(dataSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(d.columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(dataSheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return err
	}

	lastCell, err := excelize.CoordinatesToCellName(len(d.columns), len(d.rows)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(dataSheet, "A1:"+lastCell, nil); err != nil {
		return err
	}

	if err := d.formatDateColumns(f); err != nil {
		return err
	}
	return d.autosizeColumns(f)
}

func (d *Dataset) formatDateColumns(f *excelize.File) error {
	if len(d.rows) == 0 {
		return nil
	}
	format := dateCellFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	for i, col := range d.columns {
		if !strings.Contains(strings.ToLower(col), "date") {
			continue
		}
		first, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(i+1, len(d.rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(dataSheet, first, last, dateStyle); err != nil {
			return err
		}
	}
	return nil
}

// autosizeColumns sizes each column to its longest value in the first rows, with a cap
// so one verbose description doesn't blow up the sheet.
func (d *Dataset) autosizeColumns(f *excelize.File) error {
	sample := len(d.rows)
	if sample > widthSampleRows {
		sample = widthSampleRows
	}
	for i, col := range d.columns {
		width := len(col)
		for r := 0; r < sample; r++ {
			if l := len(d.rows[r][col]); l > width {
				width = l
			}
		}
		width += 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(dataSheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}
