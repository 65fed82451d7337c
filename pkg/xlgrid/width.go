package xlgrid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/codec"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/units"
)

// Width requests a width for the cursor column in the workbook's unit.
// Column widths only grow.
func (s *Sheet) Width(w float64) *Sheet {
	return s.WidthAt(s.col, w)
}

// WidthAt requests a width for col in the workbook's unit.
func (s *Sheet) WidthAt(col int, w float64) *Sheet {
	fsz := s.fontSize(s.Cell(s.row, col))
	s.widen(col, units.ToPixels(w, s.wb.opts.Unit(), fsz))
	return s
}

// ChWidth is Width for double-width text.
func (s *Sheet) ChWidth(w float64) *Sheet {
	return s.Width(units.DoubleWidth(w, s.wb.opts.Unit()))
}

// ChWidthAt is WidthAt for double-width text.
func (s *Sheet) ChWidthAt(col int, w float64) *Sheet {
	return s.WidthAt(col, units.DoubleWidth(w, s.wb.opts.Unit()))
}

func (s *Sheet) fitWidth(col int, v any, opts *CellOptions, fsz float64) {
	unit := s.wb.opts.Unit()
	switch {
	case opts.Width != nil && *opts.Width == 0:
		s.widen(col, units.CharsToPixels(float64(units.EncodedLen(textOf(v))), fsz))
	case opts.Width != nil:
		s.widen(col, units.ToPixels(*opts.Width, unit, fsz))
	case s.wb.opts.Width > 0:
		s.widen(col, units.ToPixels(s.wb.opts.Width, unit, fsz))
	case s.ColWidth(col) == 0:
		s.widen(col, units.Estimate(textOf(v)))
	}
}

// widen raises col to px pixels, clamped to the minimum width. Smaller
// requests and columns past codec.MaxColumns are ignored.
func (s *Sheet) widen(col int, px float64) {
	if col < 0 || col >= codec.MaxColumns || px <= 0 {
		return
	}
	fsz := s.fontSize(s.Cell(s.row, col))
	if floor := units.ToPixels(s.wb.opts.MinWidth, s.wb.opts.Unit(), fsz); px < floor {
		px = floor
	}
	for len(s.widths) <= col {
		s.widths = append(s.widths, 0)
	}
	if px > s.widths[col] {
		s.widths[col] = px
	}
}

func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}
