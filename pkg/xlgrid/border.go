package xlgrid

import (
	"strings"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
)

const (
	// DefaultBorderColor is used when a border call passes no color.
	DefaultBorderColor = "#000000"
	// DefaultBorderStyle is used when a border call passes no style.
	DefaultBorderStyle = "thin"
)

func newSide(color, style string) models.Side {
	if color == "" {
		color = DefaultBorderColor
	}
	if style == "" {
		style = DefaultBorderStyle
	}
	return models.Side{Style: style, Color: strings.TrimPrefix(color, "#")}
}

// ensure returns the cell at (row, col), creating an empty text cell.
func (s *Sheet) ensure(row, col int) *models.Cell {
	k := models.Coord{Row: row, Col: col}
	c, ok := s.cells[k]
	if !ok {
		c = &models.Cell{Value: "", Type: models.TypeString}
		s.cells[k] = c
	}
	return c
}

// Border draws borders over the inclusive rectangle. With nil or uniform
// options every cell gets the same four sides, replacing what it had. With
// distinguished options the inner pass replaces each cell's border with
// interior edges only and the outer pass then adds the perimeter edges.
func (s *Sheet) Border(rs, cs, re, ce int, color, style string, opts *BorderOptions) *Sheet {
	if rs > re {
		rs, re = re, rs
	}
	if cs > ce {
		cs, ce = ce, cs
	}
	if rs < 0 || cs < 0 {
		return s
	}

	if !opts.distinguished() {
		b := models.Uniform(newSide(color, style))
		for r := rs; r <= re; r++ {
			for c := cs; c <= ce; c++ {
				s.ensure(r, c).Style.Border = b
			}
		}
		return s
	}

	if opts.Inner.enabled() {
		side := opts.Inner.side(color, style)
		for r := rs; r <= re; r++ {
			for c := cs; c <= ce; c++ {
				b := models.Uniform(side)
				if r == rs {
					b.Top = models.Side{}
				}
				if r == re {
					b.Bottom = models.Side{}
				}
				if c == cs {
					b.Left = models.Side{}
				}
				if c == ce {
					b.Right = models.Side{}
				}
				s.ensure(r, c).Style.Border = b
			}
		}
	}

	if opts.Outer.enabled() {
		side := opts.Outer.side(color, style)
		for c := cs; c <= ce; c++ {
			s.ensure(rs, c).Style.Border.Top = side
			s.ensure(re, c).Style.Border.Bottom = side
		}
		for r := rs; r <= re; r++ {
			s.ensure(r, cs).Style.Border.Left = side
			s.ensure(r, ce).Style.Border.Right = side
		}
	}
	return s
}

// BorderToEnd borders from (row, col) to the cursor row and the widest
// column written so far.
func (s *Sheet) BorderToEnd(row, col int, color, style string, opts *BorderOptions) *Sheet {
	s.trackMax()
	if s.row < row {
		return s
	}
	ce := s.maxCol
	if col > ce {
		ce = col
	}
	return s.Border(row, col, s.row, ce, color, style, opts)
}

// Merge records a merged region. Overlapping regions are all recorded; when
// encoded, later regions replace earlier overlapping ones.
func (s *Sheet) Merge(rs, cs, re, ce int) *Sheet {
	if rs > re {
		rs, re = re, rs
	}
	if cs > ce {
		cs, ce = ce, cs
	}
	s.merges = append(s.merges, models.Area{R1: rs, C1: cs, R2: re, C2: ce})
	return s
}

// MergeCells merges the cursor cell with the n cells to its right and moves
// the cursor past them.
func (s *Sheet) MergeCells(n int) *Sheet {
	s.Merge(s.row, s.col, s.row, s.col+n)
	s.col += n
	return s
}

// MergeRows merges the cursor cell with the n cells below it.
func (s *Sheet) MergeRows(n int) *Sheet {
	return s.Merge(s.row, s.col, s.row+n, s.col)
}
