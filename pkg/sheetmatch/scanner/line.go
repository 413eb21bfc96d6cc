package scanner

import (
	"strconv"
	"strings"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
)

// lineOutcome is the classification of one scanned line.
type lineOutcome interface{ lineOutcome() }

type noFinding struct{}

// headerFound marks a header line. forwardIndex is the offset of the
// forwarding header within the line, 0 when the line has none.
type headerFound struct{ forwardIndex int }

// pairFound confirms a pair. hop is set when the value was found in a
// forwarded workbook, in which case value is unset.
type pairFound struct {
	value models.CellPosition
	name  models.CellPosition
	hop   *hopResult
}

// valueFound is reported in value-only mode for the first value of a line.
type valueFound struct{ value models.CellPosition }

func (noFinding) lineOutcome()   {}
func (headerFound) lineOutcome() {}
func (pairFound) lineOutcome()   {}
func (valueFound) lineOutcome()  {}

// hopResult is the value side found behind a forwarding cell.
type hopResult struct {
	sheet string
	spec  address.CellSpec
}

// lineScan walks the rows or columns of one sheet.
type lineScan struct {
	s             *Scanner
	loc           address.Location
	sheet         *parser.Sheet
	orientation   parser.Orientation
	pool          []models.ValueNamePair
	headerColor   string
	forwardHeader string
	width         bool
	valueOnly     bool
}

func (s *Scanner) newLineScan(loc address.Location, sheet *parser.Sheet, o parser.Orientation, pool []models.ValueNamePair, valueOnly bool) (*lineScan, error) {
	color, err := s.settings.HeaderColor(sheet.Name)
	if err != nil {
		return nil, err
	}
	ls := &lineScan{
		s:           s,
		loc:         loc,
		sheet:       sheet,
		orientation: o,
		pool:        pool,
		headerColor: color,
		width:       s.settings.WidthAllowed(sheet.Name),
		valueOnly:   valueOnly,
	}
	if header, ok := s.settings.ForwardHeader(sheet.Name); ok && !valueOnly {
		ls.forwardHeader = header
	}
	return ls, nil
}

// pairs returns an expression for every line confirming a pair below a
// header line.
func (ls *lineScan) pairs() ([]address.Expression, error) {
	var found []address.Expression
	header, forwardIndex := 0, 0

	for n := 1; n <= ls.sheet.Lines(ls.orientation); n++ {
		out, err := ls.scan(ls.sheet.Line(ls.orientation, n), forwardIndex)
		if err != nil {
			return nil, err
		}

		switch o := out.(type) {
		case noFinding, valueFound:
		case headerFound:
			header = n
			if o.forwardIndex > 0 {
				forwardIndex = o.forwardIndex
			}
		case pairFound:
			if header == 0 {
				continue
			}
			found = append(found, ls.expression(o, header+1, forwardIndex))
		}
	}
	return found, nil
}

// firstValue returns the spec of the first value found below a header line.
func (ls *lineScan) firstValue() (address.CellSpec, bool, error) {
	header := 0
	for n := 1; n <= ls.sheet.Lines(ls.orientation); n++ {
		out, err := ls.scan(ls.sheet.Line(ls.orientation, n), 0)
		if err != nil {
			return address.CellSpec{}, false, err
		}

		switch o := out.(type) {
		case noFinding, pairFound:
		case headerFound:
			header = n
		case valueFound:
			if header == 0 {
				continue
			}
			return ls.spec(o.value, header+1), true, nil
		}
	}
	return address.CellSpec{}, false, nil
}

func (ls *lineScan) expression(p pairFound, dataStart, forwardIndex int) address.Expression {
	name := ls.spec(p.name, dataStart)
	if p.hop != nil {
		source := ls.loc.Forward(ls.s.settings.ForwardSymbol(), forwardIndex, p.hop.sheet)
		return address.NewForwarded(source, p.hop.spec, ls.loc, name)
	}
	return address.NewLinear(ls.loc, ls.spec(p.value, dataStart), name)
}

// spec anchors a position found on a data line at the first data line.
func (ls *lineScan) spec(pos models.CellPosition, dataStart int) address.CellSpec {
	if ls.orientation == parser.ByColumn {
		return address.CellSpec{Col: dataStart, Row: pos.Row, Fixed: address.FixedColumn, Read: pos.Read}
	}
	return address.CellSpec{Col: pos.Col, Row: dataStart, Fixed: address.FixedRow, Read: pos.Read}
}

// offset returns the position of a cell within its line.
func (ls *lineScan) offset(c parser.Cell) int {
	if ls.orientation == parser.ByColumn {
		return c.Row
	}
	return c.Col
}

// scan classifies one line. Header cells take precedence over data; at most
// one pair is confirmed per line.
func (ls *lineScan) scan(line []parser.Cell, forwardIndex int) (lineOutcome, error) {
	m := newMatcher(ls.pool)
	var value, name models.CellPosition
	var forwardCell *parser.Cell
	header := false

	for i := range line {
		cell := line[i]
		if cell.Empty() {
			continue
		}

		if ls.headerColor != "" && cell.Color == ls.headerColor {
			if ls.forwardHeader != "" && strings.TrimSpace(cell.Value) == ls.forwardHeader {
				return headerFound{forwardIndex: ls.offset(cell)}, nil
			}
			header = true
			continue
		}
		if header {
			continue
		}

		if forwardIndex > 0 && ls.offset(cell) == forwardIndex {
			forwardCell = &line[i]
			continue
		}

		for _, read := range ls.reads() {
			data := cell.Value
			if read == models.ReadWidth {
				data = strconv.Itoa(cell.Width)
			}
			outcome := m.test(data)
			pos := models.CellPosition{Row: cell.Row, Col: cell.Col, Read: read}
			if outcome == matchedName {
				name = pos
			} else if outcome == matchedValue {
				value = pos
			}
			if outcome != noMatch {
				break
			}
		}
		if name.Valid() && value.Valid() {
			return pairFound{value: value, name: name}, nil
		}
	}

	if header {
		return headerFound{}, nil
	}
	if forwardCell != nil {
		if missing, ok := m.missingValues(); ok {
			hop, err := ls.s.follow(forwardCell.Value, missing)
			if err != nil {
				return nil, err
			}
			if hop != nil {
				return pairFound{name: name, hop: hop}, nil
			}
		}
	}
	if ls.valueOnly && value.Valid() {
		return valueFound{value: value}, nil
	}
	return noFinding{}, nil
}

// reads returns the properties of a cell compared with the pool. Where width
// is allowed every cell offers it, an unmerged cell having width 1.
func (ls *lineScan) reads() []models.ReadType {
	if ls.width {
		return []models.ReadType{models.ReadContent, models.ReadWidth}
	}
	return []models.ReadType{models.ReadContent}
}
