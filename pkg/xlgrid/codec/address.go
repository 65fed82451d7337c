// Package codec converts between the in-memory workbook model and serialized
// xlsx documents using excelize.
package codec

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
)

// CellName returns the A1-style name of a zero-based coordinate.
// MaxColumns is the number of columns a sheet can hold.
const MaxColumns = excelize.MaxColumns

func CellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}

// ParseCellName returns the zero-based coordinate of an A1-style name.
// Absolute markers ($) are ignored.
func ParseCellName(name string) (row, col int, err error) {
	c, r, err := excelize.CellNameToCoordinates(strings.ReplaceAll(name, "$", ""))
	if err != nil {
		return 0, 0, err
	}
	return r - 1, c - 1, nil
}

// RangeRef returns the A1:B2-style reference of an area.
func RangeRef(a models.Area) (string, error) {
	start, err := CellName(a.R1, a.C1)
	if err != nil {
		return "", err
	}
	end, err := CellName(a.R2, a.C2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", start, end), nil
}

// ParseRange parses a range like $A$1:$D$10. A single cell yields a one-cell area.
func ParseRange(ref string) (models.Area, error) {
	parts := strings.Split(ref, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.Area{}, fmt.Errorf("invalid range %q", ref)
	}

	startRow, startCol, err := ParseCellName(parts[0])
	if err != nil {
		return models.Area{}, err
	}
	endRow, endCol, err := ParseCellName(parts[1])
	if err != nil {
		return models.Area{}, err
	}

	return models.Area{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}
