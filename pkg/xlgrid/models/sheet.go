package models

// SheetData is the in-memory form of one sheet exchanged with the codec.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Cells maps grid coordinates to cells.
	Cells map[Coord]*Cell `json:"-"`
	// Range is the bounding range of the sheet.
	Range Area `json:"range"`
	// Merges lists merged regions in insertion order.
	Merges []Area `json:"merges,omitempty"`
	// ColWidths holds pixel widths indexed by column; zero means unset.
	ColWidths []float64 `json:"col_widths,omitempty"`
	// HideGridLines turns off the default grid lines.
	HideGridLines bool `json:"hide_grid_lines,omitempty"`
}

// Cell returns the cell at the coordinate, or nil.
func (s *SheetData) Cell(row, col int) *Cell {
	return s.Cells[Coord{Row: row, Col: col}]
}
