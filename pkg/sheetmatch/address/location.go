package address

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// WorkbookExtension terminates the file part of a location.
const WorkbookExtension = ".xlsx"

// Hop is a forwarded step into a secondary workbook. The workbook itself is
// named by the content of the forwarding cell, so only the index of the
// forwarding line and the sheet inside the secondary workbook are recorded.
type Hop struct {
	Symbol string
	Index  int
	Sheet  string
}

// Location names a sheet, optionally reached through a forwarding hop.
type Location struct {
	File  string
	Sheet string
	Hop   *Hop
}

var hopPattern = regexp.MustCompile(`^(.*?)(\d+)$`)

// ValidForwardSymbol reports whether symbol can name forwarded hops. The
// line index follows the symbol directly, so the symbol must not end in a
// digit, and it must not contain the separators of the grammar.
func ValidForwardSymbol(symbol string) bool {
	if symbol == "" || strings.ContainsAny(symbol, "/;@") {
		return false
	}
	last := symbol[len(symbol)-1]
	return last < '0' || last > '9'
}

// String formats the location as a path prefix.
func (l Location) String() string {
	s := l.File + "/" + l.Sheet
	if l.Hop != nil {
		s += fmt.Sprintf("/%s%d/%s", l.Hop.Symbol, l.Hop.Index, l.Hop.Sheet)
	}
	return s
}

// Forward returns a copy of the location with a hop appended. symbol must
// satisfy ValidForwardSymbol for the result to parse back.
func (l Location) Forward(symbol string, index int, sheet string) Location {
	l.Hop = &Hop{Symbol: symbol, Index: index, Sheet: sheet}
	return l
}

// Local drops the hop.
func (l Location) Local() Location {
	l.Hop = nil
	return l
}

// ParseLocation parses "<file>.xlsx/<sheet>[/<symbol><index>/<sheet>]".
func ParseLocation(s string) (Location, error) {
	i := strings.Index(strings.ToLower(s), WorkbookExtension+"/")
	if i < 0 {
		return Location{}, fmt.Errorf("%w: no workbook in %q", ErrMalformedExpression, s)
	}
	loc := Location{File: s[:i+len(WorkbookExtension)]}
	rest := strings.Split(s[i+len(WorkbookExtension)+1:], "/")

	switch len(rest) {
	case 1:
		loc.Sheet = rest[0]
	case 3:
		m := hopPattern.FindStringSubmatch(rest[1])
		if m == nil {
			return Location{}, fmt.Errorf("%w: forwarding segment %q", ErrMalformedExpression, rest[1])
		}
		index, _ := strconv.Atoi(m[2])
		loc.Sheet = rest[0]
		loc.Hop = &Hop{Symbol: m[1], Index: index, Sheet: rest[2]}
	default:
		return Location{}, fmt.Errorf("%w: location %q", ErrMalformedExpression, s)
	}
	if loc.Sheet == "" || (loc.Hop != nil && loc.Hop.Sheet == "") {
		return Location{}, fmt.Errorf("%w: empty sheet in %q", ErrMalformedExpression, s)
	}
	return loc, nil
}
