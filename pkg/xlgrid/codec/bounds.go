package codec

import "github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"

// findDataBounds finds the bounding box of non-empty cells. ok is false when
// every cell is empty.
func findDataBounds(rows [][]string) (area models.Area, ok bool) {
	minRow, maxRow := -1, -1
	minCol, maxCol := -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	if minRow < 0 {
		return models.Area{}, false
	}
	return models.Area{R1: minRow, C1: minCol, R2: maxRow, C2: maxCol}, true
}
