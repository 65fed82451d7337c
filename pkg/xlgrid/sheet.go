package xlgrid

import (
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
)

// ColumnTarget selects the column a row movement lands on.
type ColumnTarget struct {
	relative bool
	n        int
}

// AbsoluteColumn makes the next write land on column col.
func AbsoluteColumn(col int) ColumnTarget {
	return ColumnTarget{n: col}
}

// RelativeDelta shifts the cursor column by delta.
func RelativeDelta(delta int) ColumnTarget {
	return ColumnTarget{relative: true, n: delta}
}

// ColumnArg maps a signed column argument: negative values are relative
// deltas, others absolute columns.
func ColumnArg(n int) ColumnTarget {
	if n < 0 {
		return RelativeDelta(n)
	}
	return AbsoluteColumn(n)
}

// Sheet is a cursor-addressed grid. The cursor points at the last written
// cell; writes land one column to its right. A fresh sheet has its cursor at
// (-1, -1) so the first write lands at (0, 0).
type Sheet struct {
	wb   *Workbook
	name string

	row, col, maxCol int
	cells            map[models.Coord]*models.Cell
	cur              *models.Cell
	widths           []float64
	merges           []models.Area
	rng              models.Area

	watermark   []byte
	noWatermark bool
	hideGrid    bool
}

func newSheet(wb *Workbook, name string) *Sheet {
	s := &Sheet{wb: wb, name: name}
	s.reset()
	s.hideGrid = !wb.opts.ShouldShowGridLines()
	return s
}

func (s *Sheet) reset() {
	s.row, s.col, s.maxCol = -1, -1, 0
	s.cells = make(map[models.Coord]*models.Cell)
	s.cur = nil
	s.widths = nil
	s.merges = nil
	s.rng = models.Area{}
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// RowIndex returns the cursor row.
func (s *Sheet) RowIndex() int { return s.row }

// ColIndex returns the cursor column.
func (s *Sheet) ColIndex() int { return s.col }

// Cell returns the cell at (row, col), or nil.
func (s *Sheet) Cell(row, col int) *models.Cell {
	return s.cells[models.Coord{Row: row, Col: col}]
}

// Current returns the last written cell, or nil.
func (s *Sheet) Current() *models.Cell { return s.cur }

// Merges returns the recorded merge regions in insertion order.
func (s *Sheet) Merges() []models.Area {
	return append([]models.Area(nil), s.merges...)
}

// ColWidth returns the pixel width of col, or zero when unset.
func (s *Sheet) ColWidth(col int) float64 {
	if col < 0 || col >= len(s.widths) {
		return 0
	}
	return s.widths[col]
}

// Range returns the bounding range computed by End.
func (s *Sheet) Range() models.Area { return s.rng }

func (s *Sheet) trackMax() {
	if s.col > s.maxCol {
		s.maxCol = s.col
	}
}

// AdvanceRow moves to the next row; the next write lands on startCol.
func (s *Sheet) AdvanceRow(startCol int) *Sheet {
	s.trackMax()
	s.row++
	s.col = startCol - 1
	return s
}

// SkipRows moves down n rows and repositions the column per target.
func (s *Sheet) SkipRows(n int, target ColumnTarget) *Sheet {
	s.trackMax()
	s.row += n
	if target.relative {
		s.col += target.n
	} else {
		s.col = target.n - 1
	}
	return s
}

// SkipColumns moves the cursor n columns to the right.
func (s *Sheet) SkipColumns(n int) *Sheet {
	s.col += n
	return s
}

// JumpTo positions the cursor so the next write lands at (row, col).
func (s *Sheet) JumpTo(row, col int) *Sheet {
	s.trackMax()
	s.row = row
	s.col = col - 1
	return s
}

// Clear discards content, merges, widths and the cursor.
func (s *Sheet) Clear() *Sheet {
	s.reset()
	return s
}

// Rename renames the sheet inside its workbook.
func (s *Sheet) Rename(name string) error {
	return s.wb.Rename(name, s.name)
}

// Watermark attaches a PNG watermark to this sheet only.
func (s *Sheet) Watermark(image []byte) error {
	if err := validateWatermark(image); err != nil {
		return err
	}
	s.watermark = image
	s.noWatermark = false
	return nil
}

// WithoutWatermark suppresses any watermark on this sheet.
func (s *Sheet) WithoutWatermark() *Sheet {
	s.watermark = nil
	s.noWatermark = true
	return s
}

// WithoutGridLines hides the default grid lines.
func (s *Sheet) WithoutGridLines() *Sheet {
	s.hideGrid = true
	return s
}

func (s *Sheet) effectiveWatermark() []byte {
	if s.noWatermark {
		return nil
	}
	if len(s.watermark) > 0 {
		return s.watermark
	}
	return s.wb.watermark
}

// End finalizes the sheet: the auto border is drawn and the range computed.
func (s *Sheet) End() *Sheet {
	s.trackMax()
	if ab := s.wb.opts.AutoBorder; ab != nil {
		s.BorderToEnd(0, 0, ab.Color, ab.Style, nil)
	}
	row := s.row
	if row < 0 {
		row = 0
	}
	s.rng = models.Area{R2: row, C2: s.maxCol}
	return s
}

func (s *Sheet) data() *models.SheetData {
	return &models.SheetData{
		Name:          s.name,
		Cells:         s.cells,
		Range:         s.rng,
		Merges:        s.Merges(),
		ColWidths:     append([]float64(nil), s.widths...),
		HideGridLines: s.hideGrid,
	}
}
