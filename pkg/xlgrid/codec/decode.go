package codec

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/units"
)

// defaultColWidth is the width excelize reports for columns without one.
const defaultColWidth = 9.140625

// Decode reads a serialized workbook.
func Decode(r io.Reader) (*models.WorkbookData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return decodeFile(f)
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(b []byte) (*models.WorkbookData, error) {
	return Decode(bytes.NewReader(b))
}

// DecodeFile opens and decodes a workbook file.
func DecodeFile(path string) (*models.WorkbookData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return decodeFile(f)
}

func decodeFile(f *excelize.File) (*models.WorkbookData, error) {
	wb := &models.WorkbookData{Sheets: make(map[string]*models.SheetData)}
	for _, sheetName := range f.GetSheetList() {
		sheet, err := DecodeSheet(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("decode sheet %q: %w", sheetName, err)
		}
		wb.SheetNames = append(wb.SheetNames, sheetName)
		wb.Sheets[sheetName] = sheet
	}
	return wb, nil
}

// DecodeSheet extracts cell values, merges and view settings from a sheet.
func DecodeSheet(f *excelize.File, sheetName string) (*models.SheetData, error) {
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	shown, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	sheet := &models.SheetData{
		Name:  sheetName,
		Cells: make(map[models.Coord]*models.Cell),
	}
	for rowIdx, row := range raw {
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			cellName, err := CellName(rowIdx, colIdx)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			cell := &models.Cell{}
			cell.Value, cell.Type = parseValue(value, cellType)
			if rowIdx < len(shown) && colIdx < len(shown[rowIdx]) {
				cell.Text = shown[rowIdx][colIdx]
			}
			cell.Format = cellFormat(f, sheetName, cellName)
			sheet.Cells[models.Coord{Row: rowIdx, Col: colIdx}] = cell
		}
	}

	sheet.Range = sheetRange(f, sheetName, raw)
	if sheet.ColWidths, err = colWidths(f, sheetName, sheet.Range.C2); err != nil {
		return nil, err
	}

	merged, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}
	for _, mc := range merged {
		area, err := ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			continue
		}
		sheet.Merges = append(sheet.Merges, area)
	}

	if view, err := f.GetSheetView(sheetName, 0); err == nil && view.ShowGridLines != nil {
		sheet.HideGridLines = !*view.ShowGridLines
	}

	return sheet, nil
}

// sheetRange prefers the declared dimension and falls back to the data bounds.
func sheetRange(f *excelize.File, sheetName string, rows [][]string) models.Area {
	bounds, hasData := findDataBounds(rows)
	if dim, err := f.GetSheetDimension(sheetName); err == nil && dim != "" {
		if area, err := ParseRange(dim); err == nil {
			// The declared range always starts the sheet but may understate the data.
			if hasData {
				area.R2 = max(area.R2, bounds.R2)
				area.C2 = max(area.C2, bounds.C2)
			}
			return area
		}
	}
	if !hasData {
		return models.Area{}
	}
	return models.Area{R2: bounds.R2, C2: bounds.C2}
}

// colWidths returns pixel widths for columns 0..lastCol. Columns at the
// default width stay zero; trailing zeros are dropped.
func colWidths(f *excelize.File, sheetName string, lastCol int) ([]float64, error) {
	var widths []float64
	for col := 0; col <= lastCol; col++ {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		w, err := f.GetColWidth(sheetName, name)
		if err != nil {
			return nil, err
		}
		if w == defaultColWidth {
			continue
		}
		for len(widths) < col {
			widths = append(widths, 0)
		}
		widths = append(widths, units.ColumnWidthToPixels(w))
	}
	return widths, nil
}

func cellFormat(f *excelize.File, sheetName, cellName string) string {
	styleID, err := f.GetCellStyle(sheetName, cellName)
	if err != nil || styleID == 0 {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.CustomNumFmt == nil {
		return ""
	}
	return *style.CustomNumFmt
}

// parseValue converts a raw cell value to a typed value.
// Numbers become float64, booleans bool, everything else stays a string.
func parseValue(s string, cellType excelize.CellType) (any, models.CellType) {
	switch cellType {
	case excelize.CellTypeBool:
		return s == "1" || s == "TRUE" || s == "true", models.TypeBool
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return s, models.TypeString
	case excelize.CellTypeDate:
		return s, models.TypeDate
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, models.TypeNumber
	}
	return s, models.TypeString
}
