// Package address implements the spreadsheet side of the path grammar.
//
// A linear expression has the form
//
//	<file>/<sheet>/@<valueSpec>;<nameSpec>
//
// and a cross-table expression the form
//
//	<file>/<sheet>/@<anchorSpec>;<valueSpec>;<nameSpec>
//
// Each cell spec is a column letter and a row number. A "$" marks the axis
// that identifies the record line: "B$3" reads a table with one record per
// row starting at row 3, "$B3" one with a record per column starting at
// column B. The suffixes ":c" and ":w" select the cell content or the width
// of a merged cell. Forwarded expressions insert "<symbol><index>/<sheet>"
// after the local sheet and carry a full prefix on their name side.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/xuri/excelize/v2"
)

// ErrMalformedExpression indicates a spreadsheet expression that cannot be parsed.
var ErrMalformedExpression = errors.New("malformed spreadsheet expression")

// Axis names the coordinate that identifies a record line.
type Axis int

const (
	// AxisNone is used for anchors, which are plain coordinates.
	AxisNone Axis = iota
	// FixedRow marks one record per row; entries run down a column.
	FixedRow
	// FixedColumn marks one record per column; entries run along a row.
	FixedColumn
)

// CellSpec addresses the first cell of a line of entries.
type CellSpec struct {
	Col   int
	Row   int
	Fixed Axis
	Read  models.ReadType
}

var cellSpecPattern = regexp.MustCompile(`^(\$?)([A-Za-z]+)(\$?)(\d+)(?::([A-Za-z]))?$`)

// String formats the spec, e.g. "B$3:c".
func (c CellSpec) String() string {
	col, err := excelize.ColumnNumberToName(c.Col)
	if err != nil {
		col = "?"
	}
	var b strings.Builder
	if c.Fixed == FixedColumn {
		b.WriteString("$")
	}
	b.WriteString(col)
	if c.Fixed == FixedRow {
		b.WriteString("$")
	}
	b.WriteString(strconv.Itoa(c.Row))
	if c.Read != models.ReadNone {
		b.WriteString(":")
		b.WriteString(c.Read.String())
	}
	return b.String()
}

// ParseCellSpec parses a cell spec such as "B$3:c", "$C2" or "B3".
func ParseCellSpec(s string) (CellSpec, error) {
	m := cellSpecPattern.FindStringSubmatch(strings.TrimPrefix(strings.TrimSpace(s), "@"))
	if m == nil {
		return CellSpec{}, fmt.Errorf("%w: cell spec %q", ErrMalformedExpression, s)
	}
	if m[1] != "" && m[3] != "" {
		return CellSpec{}, fmt.Errorf("%w: cell spec %q fixes both axes", ErrMalformedExpression, s)
	}
	col, err := excelize.ColumnNameToNumber(m[2])
	if err != nil {
		return CellSpec{}, fmt.Errorf("%w: %v", ErrMalformedExpression, err)
	}
	row, err := strconv.Atoi(m[4])
	if err != nil || row < 1 {
		return CellSpec{}, fmt.Errorf("%w: row in %q", ErrMalformedExpression, s)
	}

	spec := CellSpec{Col: col, Row: row}
	switch {
	case m[1] != "":
		spec.Fixed = FixedColumn
	case m[3] != "":
		spec.Fixed = FixedRow
	}
	if m[5] != "" {
		spec.Read = models.ParseReadType(m[5])
		if spec.Read == models.ReadNone {
			return CellSpec{}, fmt.Errorf("%w: read type %q", ErrMalformedExpression, m[5])
		}
	}
	return spec, nil
}
