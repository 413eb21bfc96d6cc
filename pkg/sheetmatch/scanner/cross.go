package scanner

import (
	"strings"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
)

// RequiredSuccessRate is the share of a list that must be found on an axis.
const RequiredSuccessRate = 0.5

// axisState is the state of the axis search of a cross table.
type axisState interface{ axisState() }

type axisMiss struct{}

// axisHit holds the first hit of the axis found first and the other half
// of the pairs, still to be found along a row above it.
type axisHit struct {
	first       parser.Cell
	valuesFirst bool
	opposite    string
	others      []string
}

// axisConfirmed extends a hit with the position of the opposite entry.
type axisConfirmed struct {
	axisHit
	oppositeCell parser.Cell
}

func (axisMiss) axisState()      {}
func (axisHit) axisState()       {}
func (axisConfirmed) axisState() {}

// findCross checks whether the sheet holds the pairs as a cross table.
func (s *Scanner) findCross(loc address.Location, sheet *parser.Sheet, pairs []models.ValueNamePair) (address.Expression, bool) {
	var state axisState = findAxis(sheet, pairs)
	if hit, ok := state.(axisHit); ok {
		state = findOppositeAxis(sheet, hit)
	}

	switch p := state.(type) {
	case axisMiss, axisHit:
		return address.Expression{}, false
	case axisConfirmed:
		need := RequiredSuccessRate * float64(len(pairs))
		if float64(s.countMarkers(sheet, p.oppositeCell.Row)) < need {
			return address.Expression{}, false
		}
		return crossExpression(loc, sheet, p)
	}
	return address.Expression{}, false
}

// findAxis looks for the first column holding enough values or names.
func findAxis(sheet *parser.Sheet, pairs []models.ValueNamePair) axisState {
	values, names := unzip(pairs)
	for c := 1; c <= sheet.Cols(); c++ {
		column := sheet.Line(parser.ByColumn, c)
		if first, idx, ok := listIn(column, values); ok {
			return axisHit{first: first, valuesFirst: true, opposite: names[idx], others: names}
		}
		if first, idx, ok := listIn(column, names); ok {
			return axisHit{first: first, valuesFirst: false, opposite: values[idx], others: values}
		}
	}
	return axisMiss{}
}

// listIn reports whether enough entries of list occur in the line and
// returns the first matching cell with the index of its entry.
func listIn(line []parser.Cell, list []string) (parser.Cell, int, bool) {
	var first parser.Cell
	firstIdx := -1
	found := make(map[int]bool)
	for _, cell := range line {
		v := strings.TrimSpace(cell.Value)
		if v == "" {
			continue
		}
		for i, entry := range list {
			if entry != v {
				continue
			}
			found[i] = true
			if firstIdx < 0 {
				first, firstIdx = cell, i
			}
		}
	}
	if firstIdx < 0 {
		return parser.Cell{}, -1, false
	}
	missing := len(list) - len(found)
	return first, firstIdx, float64(missing) <= float64(len(list))*(1-RequiredSuccessRate)
}

// findOppositeAxis scans the rows down to the first hit for the other half.
func findOppositeAxis(sheet *parser.Sheet, hit axisHit) axisState {
	for r := 1; r <= hit.first.Row; r++ {
		work := append([]string(nil), hit.others...)
		var opposite *parser.Cell
		row := sheet.Line(parser.ByRow, r)
		for i := range row {
			v := strings.TrimSpace(row[i].Value)
			if v == "" {
				continue
			}
			work = removeOne(work, v)
			if opposite == nil && v == hit.opposite {
				opposite = &row[i]
			}
		}
		if opposite != nil && float64(len(work)) <= (1-RequiredSuccessRate)*float64(len(hit.others)) {
			return axisConfirmed{axisHit: hit, oppositeCell: *opposite}
		}
	}
	return axisMiss{}
}

// countMarkers counts marker cells from the given row downward.
func (s *Scanner) countMarkers(sheet *parser.Sheet, fromRow int) int {
	count := 0
	for r := fromRow; r <= sheet.Rows(); r++ {
		for _, cell := range sheet.Line(parser.ByRow, r) {
			if s.marker.Match(cell.Value) {
				count++
			}
		}
	}
	return count
}

// crossExpression locates the data field through the color transitions
// along the row of the first hit and the column of the opposite entry.
func crossExpression(loc address.Location, sheet *parser.Sheet, p axisConfirmed) (address.Expression, bool) {
	sideStart, ok := dataFieldStart(sheet.Line(parser.ByRow, p.first.Row))
	if !ok {
		return address.Expression{}, false
	}
	topStart, ok := dataFieldStart(sheet.Line(parser.ByColumn, p.oppositeCell.Col))
	if !ok {
		return address.Expression{}, false
	}

	anchor := address.CellSpec{Col: sideStart.Col, Row: topStart.Row}
	side := address.CellSpec{Col: p.first.Col, Row: topStart.Row, Fixed: address.FixedRow, Read: models.ReadContent}
	top := address.CellSpec{Col: sideStart.Col, Row: p.oppositeCell.Row, Fixed: address.FixedColumn, Read: models.ReadContent}
	if p.valuesFirst {
		return address.NewCross(loc, anchor, side, top), true
	}
	return address.NewCross(loc, anchor, top, side), true
}

// dataFieldStart returns the first cell whose fill differs from the first
// non-background fill of the line.
func dataFieldStart(line []parser.Cell) (parser.Cell, bool) {
	header := ""
	for _, cell := range line {
		if header == "" && parser.IsBackground(cell.Color) {
			continue
		}
		if header == "" {
			header = cell.Color
			continue
		}
		if cell.Color != header {
			return cell, true
		}
	}
	return parser.Cell{}, false
}

func unzip(pairs []models.ValueNamePair) (values, names []string) {
	for _, p := range pairs {
		values = append(values, p.Value)
		names = append(names, p.Name)
	}
	return values, names
}

func removeOne(list []string, v string) []string {
	for i, entry := range list {
		if entry == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
