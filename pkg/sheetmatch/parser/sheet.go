// Package parser loads workbooks into memory for scanning.
//
// A workbook is opened, every sheet is read into a grid of cells carrying
// content, fill color and merged width, and the file is closed again.
package parser

import (
	"github.com/xuri/excelize/v2"
)

// Orientation selects whether a line is a row or a column.
type Orientation int

const (
	// ByRow treats every row as a line.
	ByRow Orientation = iota
	// ByColumn treats every column as a line.
	ByColumn
)

// String returns a short label for logging.
func (o Orientation) String() string {
	if o == ByColumn {
		return "column"
	}
	return "row"
}

// Cell is one grid cell.
type Cell struct {
	// Row is the row index (1-based).
	Row int
	// Col is the column index (1-based).
	Col int
	// Value is the formatted cell content.
	Value string
	// Color is the normalized fill color, empty for unfilled cells.
	Color string
	// Width is the number of columns the merged range spans, 1 otherwise.
	Width int
}

// Empty reports whether the cell has no content.
func (c Cell) Empty() bool {
	return c.Value == ""
}

// Sheet is an in-memory copy of a worksheet.
type Sheet struct {
	Name  string
	rows  int
	cols  int
	cells [][]Cell
}

// LoadSheet reads content, fill colors and merged widths of a sheet.
func LoadSheet(f *excelize.File, sheetName string, colors *ColorCache) (*Sheet, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	nRows, nCols := findDataBounds(rows)
	s := &Sheet{Name: sheetName, rows: nRows, cols: nCols}
	s.cells = make([][]Cell, nRows)
	for rowIdx := 0; rowIdx < nRows; rowIdx++ {
		s.cells[rowIdx] = make([]Cell, nCols)
		for colIdx := 0; colIdx < nCols; colIdx++ {
			cell := Cell{Row: rowIdx + 1, Col: colIdx + 1, Width: 1}
			if colIdx < len(rows[rowIdx]) {
				cell.Value = rows[rowIdx][colIdx]
			}
			axis, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if cell.Color, err = colors.Fill(f, sheetName, axis); err != nil {
				return nil, err
			}
			s.cells[rowIdx][colIdx] = cell
		}
	}

	if err := s.applyMerges(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Rows returns the number of rows in the grid.
func (s *Sheet) Rows() int { return s.rows }

// Cols returns the number of columns in the grid.
func (s *Sheet) Cols() int { return s.cols }

// Cell returns the cell at the 1-based coordinates. Coordinates outside the
// grid yield an empty cell.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 1 || col < 1 || row > s.rows || col > s.cols {
		return Cell{Row: row, Col: col, Width: 1}
	}
	return s.cells[row-1][col-1]
}

// Lines returns the number of lines in the given orientation.
func (s *Sheet) Lines(o Orientation) int {
	if o == ByColumn {
		return s.cols
	}
	return s.rows
}

// Line returns the n-th row or column (1-based).
func (s *Sheet) Line(o Orientation, n int) []Cell {
	if o == ByColumn {
		line := make([]Cell, s.rows)
		for r := 1; r <= s.rows; r++ {
			line[r-1] = s.Cell(r, n)
		}
		return line
	}
	if n < 1 || n > s.rows {
		return nil
	}
	return s.cells[n-1]
}

// findDataBounds returns the grid size covering every non-empty cell.
func findDataBounds(rows [][]string) (nRows, nCols int) {
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if rowIdx+1 > nRows {
				nRows = rowIdx + 1
			}
			if colIdx+1 > nCols {
				nCols = colIdx + 1
			}
		}
	}
	return
}
