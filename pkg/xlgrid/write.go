package xlgrid

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/temporal"
)

// WriteCell writes v one column right of the cursor and moves the cursor onto
// it. An empty typ infers the type from v; an empty format leaves the
// display format to the options.
func (s *Sheet) WriteCell(v any, opts *CellOptions, typ models.CellType, format string) *Sheet {
	if v == nil {
		v = s.wb.opts.Undefined
	}
	s.col++
	if s.row < 0 {
		s.row = 0
	}
	if s.col < 0 {
		s.col = 0
	}
	opts = s.layer(opts)

	if typ == "" {
		typ = models.InferType(v)
	}
	cell := &models.Cell{Value: v, Type: typ, Format: format}
	cell.Style.Alignment = s.wb.opts.CellAlignment()
	if opts.Alignment != nil {
		cell.Style.Alignment = mergeAlignment(&cell.Style.Alignment, *opts.Alignment)
	}
	if opts.Font != nil {
		cell.Style.Font = cell.Style.Font.Merge(*opts.Font)
	}
	if opts.Type != "" {
		cell.Type = opts.Type
	}
	if cell.Format == "" {
		cell.Format = opts.Format
	}
	s.cells[models.Coord{Row: s.row, Col: s.col}] = cell
	s.cur = cell

	s.fitWidth(s.col, v, opts, s.fontSize(cell))
	if opts.BgColor != "" || opts.FgColor != "" {
		s.Color(opts.BgColor, opts.FgColor)
	}
	return s
}

// layer stacks workbook-level cell or title options under the call options.
func (s *Sheet) layer(opts *CellOptions) *CellOptions {
	o := s.wb.opts
	if o.TitleOpts != nil && o.TitleLine != nil && *o.TitleLine >= 0 && s.row == *o.TitleLine {
		return o.TitleOpts.Merge(opts)
	}
	return o.CellOpts.Merge(opts)
}

func (s *Sheet) fontSize(c *models.Cell) float64 {
	if c != nil && c.Style.Font.Size > 0 {
		return c.Style.Font.Size
	}
	return s.wb.opts.DefaultFontSize()
}

// Number writes a numeric cell. Values that do not parse as numbers are
// written as text.
func (s *Sheet) Number(v any, opts *CellOptions) *Sheet {
	return s.numeric(v, -1, "", opts)
}

func (s *Sheet) numeric(v any, precision int, format string, opts *CellOptions) *Sheet {
	text := s.numberText(v, precision)
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return s.WriteCell(f, opts, models.TypeNumber, format)
	}
	return s.WriteCell(text, opts, models.TypeString, "")
}

// numberText renders v with thousands separators removed. A negative
// precision keeps the value as is.
func (s *Sheet) numberText(v any, precision int) string {
	if v == nil {
		return s.wb.opts.NaN
	}
	if f, ok := toFloat(v); ok && precision >= 0 {
		return strconv.FormatFloat(f, 'f', precision, 64)
	}
	var text string
	switch x := v.(type) {
	case float64:
		text = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		text = strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		text = fmt.Sprint(v)
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if precision >= 0 {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return strconv.FormatFloat(f, 'f', precision, 64)
		}
	}
	return text
}

// Bool writes a boolean cell.
func (s *Sheet) Bool(v bool, opts *CellOptions) *Sheet {
	return s.WriteCell(v, opts, models.TypeBool, "")
}

// String writes a text cell. Non-string values are rendered with fmt.
func (s *Sheet) String(v any, opts *CellOptions) *Sheet {
	if v == nil {
		return s.WriteCell(nil, opts, models.TypeString, "")
	}
	text, ok := v.(string)
	if !ok {
		text = fmt.Sprint(v)
	}
	return s.WriteCell(text, opts, models.TypeString, "")
}

// UTC writes a date cell whose stored fields are the UTC fields of v.
func (s *Sheet) UTC(v any, format string, opts *CellOptions) *Sheet {
	return s.date(v, temporal.UTC, format, opts)
}

// Date writes a date cell whose stored fields are the wall-clock fields of v
// in the workbook's location.
func (s *Sheet) Date(v any, format string, opts *CellOptions) *Sheet {
	return s.date(v, temporal.Local, format, opts)
}

func (s *Sheet) date(v any, tag temporal.Tag, format string, opts *CellOptions) *Sheet {
	if v == nil {
		return s.WriteCell(nil, opts, "", "")
	}
	t, err := s.wb.codec.EncodeValue(v, tag)
	if err != nil {
		return s.String(v, opts)
	}
	if format == "" {
		format = temporal.DefaultFormat
	}
	return s.WriteCell(t, opts, models.TypeDate, format)
}

// Currency writes a number with a currency display format. A string value
// may carry its symbol as a prefix ("$12.5"). The default symbol is ¥ and the
// default precision 2; a negative precision selects it.
func (s *Sheet) Currency(v any, symbol string, precision int, opts *CellOptions) *Sheet {
	if str, ok := v.(string); ok {
		str = strings.TrimSpace(str)
		if i := strings.IndexFunc(str, isNumberRune); i > 0 {
			if symbol == "" {
				symbol = str[:i]
			}
			v = str[i:]
		}
	}
	if symbol == "" {
		symbol = "¥"
	}
	if precision < 0 {
		precision = 2
	}
	format := symbol + "#,##0"
	if precision > 0 {
		format += "." + strings.Repeat("0", precision)
	}
	return s.numeric(v, precision, format, opts)
}

// Percent writes a fraction with a percentage display format. A negative
// precision selects the default of 2.
func (s *Sheet) Percent(v any, precision int, opts *CellOptions) *Sheet {
	if precision < 0 {
		precision = 2
	}
	format := "0"
	if precision > 0 {
		format += "." + strings.Repeat("0", precision)
	}
	return s.numeric(v, precision+2, format+"%", opts)
}

// Sum writes, one column right of the cursor, the sum of that column from
// row 1 through the row above.
func (s *Sheet) Sum(opts *CellOptions) *Sheet {
	return s.SumFrom(1, opts)
}

// SumFrom is Sum with an explicit first row. Non-numeric cells count as zero;
// the display format of the last numeric cell is carried over.
func (s *Sheet) SumFrom(start int, opts *CellOptions) *Sheet {
	col := s.col + 1
	if col < 0 {
		col = 0
	}
	var total float64
	var format string
	for r := start; r < s.row; r++ {
		c := s.Cell(r, col)
		if c == nil {
			continue
		}
		f, ok := toFloat(c.Value)
		if !ok {
			continue
		}
		total += f
		if c.Format != "" {
			format = c.Format
		}
	}
	return s.WriteCell(total, opts, models.TypeNumber, format)
}

// Title writes a header cell using the workbook's title options.
func (s *Sheet) Title(v any, opts *CellOptions) *Sheet {
	return s.WriteCell(v, s.wb.opts.TitleOpts.Merge(opts), "", "")
}

// Titles writes a header row. Unless opts disables it, a new row is started.
func (s *Sheet) Titles(titles []string, opts *CellOptions) *Sheet {
	if s.row < 0 || opts.newLine() {
		s.AdvanceRow(0)
	}
	for _, t := range titles {
		s.Title(t, opts)
	}
	return s
}

// TitlesEach writes a header row on a new row with per-column options.
func (s *Sheet) TitlesEach(titles []string, opts []*CellOptions) *Sheet {
	s.AdvanceRow(0)
	for i, t := range titles {
		s.Title(t, at(opts, i))
	}
	return s
}

// FillRow writes values across the current row.
func (s *Sheet) FillRow(values []any, opts *CellOptions) *Sheet {
	for _, v := range values {
		s.WriteCell(v, opts, "", "")
	}
	return s
}

// FillRowEach writes values across the current row with per-column options.
func (s *Sheet) FillRowEach(values []any, opts []*CellOptions) *Sheet {
	for i, v := range values {
		s.WriteCell(v, at(opts, i), "", "")
	}
	return s
}

// Fill writes each row of data on a new row.
func (s *Sheet) Fill(data [][]any, opts *CellOptions) *Sheet {
	for _, row := range data {
		s.AdvanceRow(0)
		s.FillRow(row, opts)
	}
	return s
}

// FillEach is Fill with per-column options.
func (s *Sheet) FillEach(data [][]any, opts []*CellOptions) *Sheet {
	for _, row := range data {
		s.AdvanceRow(0)
		s.FillRowEach(row, opts)
	}
	return s
}

// Wrap turns on text wrapping for the current cell.
func (s *Sheet) Wrap() *Sheet {
	if s.cur != nil {
		s.cur.Style.Alignment.WrapText = true
	}
	return s
}

// Color sets the current cell's fill color and font color. Empty values
// leave the attribute unchanged.
func (s *Sheet) Color(bg, fg string) *Sheet {
	if s.cur == nil {
		return s
	}
	if bg != "" {
		s.cur.Style.Fill = bg
	}
	if fg != "" {
		s.cur.Style.Font.Color = fg
	}
	return s
}

// BgColor sets the current cell's background color.
func (s *Sheet) BgColor(c string) *Sheet { return s.Color(c, "") }

// FgColor sets the current cell's font color.
func (s *Sheet) FgColor(c string) *Sheet { return s.Color("", c) }

func isNumberRune(r rune) bool {
	return unicode.IsDigit(r) || r == '-' || r == '+' || r == '.'
}

func at(opts []*CellOptions, i int) *CellOptions {
	if i < len(opts) {
		return opts[i]
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
