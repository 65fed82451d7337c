package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/temporal"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/units"
)

// Encoding selects the output representation of Encode.
type Encoding string

const (
	// Raw returns the zip bytes.
	Raw Encoding = "raw"
	// Base64 returns the zip bytes base64 encoded.
	Base64 Encoding = "base64"
)

// DefaultSheetName is used when a workbook has no sheets.
const DefaultSheetName = "Sheet1"

// borderStyles maps border style names to excelize border style ids.
var borderStyles = map[string]int{
	"thin":             1,
	"medium":           2,
	"dashed":           3,
	"dotted":           4,
	"thick":            5,
	"double":           6,
	"hair":             7,
	"mediumDashed":     8,
	"dashDot":          9,
	"mediumDashDot":    10,
	"dashDotDot":       11,
	"mediumDashDotDot": 12,
	"slantDashDot":     13,
}

// BorderStyleID returns the excelize id of a border style name. Unknown
// names fall back to thin.
func BorderStyleID(name string) int {
	if id, ok := borderStyles[name]; ok {
		return id
	}
	return 1
}

// Convert re-encodes raw zip bytes in the requested representation.
func Convert(b []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case Raw, "":
		return b, nil
	case Base64:
		out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
		base64.StdEncoding.Encode(out, b)
		return out, nil
	default:
		return nil, fmt.Errorf("unrecognized encoding %q", enc)
	}
}

// Encode serializes a workbook model.
func Encode(wb *models.WorkbookData, enc Encoding) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, wb); err != nil {
		return nil, err
	}
	return Convert(buf.Bytes(), enc)
}

// EncodeTo writes the xlsx form of a workbook model to w.
func EncodeTo(w io.Writer, wb *models.WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	names := wb.SheetNames
	if len(names) == 0 {
		names = []string{DefaultSheetName}
	}
	enc := &encoder{file: f, styles: make(map[styleKey]int)}
	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName(DefaultSheetName, name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		sheet := wb.Sheets[name]
		if sheet == nil {
			continue
		}
		if err := enc.writeSheet(name, sheet); err != nil {
			return fmt.Errorf("encode sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	_, err := f.WriteTo(w)
	return err
}

type styleKey struct {
	style  models.Style
	format string
}

type encoder struct {
	file   *excelize.File
	styles map[styleKey]int
}

func (e *encoder) writeSheet(name string, sheet *models.SheetData) error {
	coords := make([]models.Coord, 0, len(sheet.Cells))
	for c := range sheet.Cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})

	for _, c := range coords {
		if err := e.writeCell(name, c, sheet.Cells[c]); err != nil {
			return err
		}
	}

	for i, px := range sheet.ColWidths {
		if px <= 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := e.file.SetColWidth(name, col, col, units.PixelsToColumnWidth(px)); err != nil {
			return err
		}
	}

	// Later regions replace earlier overlapping ones.
	for _, m := range sheet.Merges {
		start, err := CellName(m.R1, m.C1)
		if err != nil {
			return err
		}
		end, err := CellName(m.R2, m.C2)
		if err != nil {
			return err
		}
		if err := e.file.MergeCell(name, start, end); err != nil {
			return err
		}
	}

	if sheet.HideGridLines {
		show := false
		if err := e.file.SetSheetView(name, 0, &excelize.ViewOptions{ShowGridLines: &show}); err != nil {
			return err
		}
	}

	ref, err := RangeRef(sheet.Range)
	if err != nil {
		return err
	}
	return e.file.SetSheetDimension(name, ref)
}

func (e *encoder) writeCell(sheetName string, c models.Coord, cell *models.Cell) error {
	name, err := CellName(c.Row, c.Col)
	if err != nil {
		return err
	}

	switch v := cell.Value.(type) {
	case nil:
	case string:
		if v != "" {
			err = e.file.SetCellStr(sheetName, name, v)
		}
	case time.Time:
		err = e.file.SetCellFloat(sheetName, name, temporal.ToSerial(v), -1, 64)
	default:
		err = e.file.SetCellValue(sheetName, name, v)
	}
	if err != nil {
		return err
	}

	format := cell.Format
	if format == "" && cell.Type == models.TypeDate {
		format = temporal.DefaultFormat
	}
	if cell.Style == (models.Style{}) && format == "" {
		return nil
	}
	id, err := e.styleID(cell.Style, format)
	if err != nil {
		return err
	}
	return e.file.SetCellStyle(sheetName, name, name, id)
}

func (e *encoder) styleID(s models.Style, format string) (int, error) {
	key := styleKey{style: s, format: format}
	if id, ok := e.styles[key]; ok {
		return id, nil
	}
	id, err := e.file.NewStyle(toExcelStyle(s, format))
	if err != nil {
		return 0, err
	}
	e.styles[key] = id
	return id, nil
}

func toExcelStyle(s models.Style, format string) *excelize.Style {
	st := &excelize.Style{}
	if a := s.Alignment; a != (models.Alignment{}) {
		st.Alignment = &excelize.Alignment{
			Horizontal: a.Horizontal,
			Vertical:   a.Vertical,
			WrapText:   a.WrapText,
		}
	}
	if ft := s.Font; ft != (models.Font{}) {
		st.Font = &excelize.Font{
			Family: ft.Name,
			Size:   ft.Size,
			Bold:   ft.Bold,
			Italic: ft.Italic,
			Color:  trimColor(ft.Color),
		}
		if ft.Underline {
			st.Font.Underline = "single"
		}
	}
	if s.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{trimColor(s.Fill)}}
	}
	for _, side := range []struct {
		typ  string
		side models.Side
	}{
		{"top", s.Border.Top},
		{"bottom", s.Border.Bottom},
		{"left", s.Border.Left},
		{"right", s.Border.Right},
	} {
		if side.side.IsZero() {
			continue
		}
		st.Border = append(st.Border, excelize.Border{
			Type:  side.typ,
			Color: trimColor(side.side.Color),
			Style: BorderStyleID(side.side.Style),
		})
	}
	if format != "" {
		f := format
		st.CustomNumFmt = &f
	}
	return st
}

func trimColor(c string) string {
	return strings.TrimLeft(c, "#")
}
