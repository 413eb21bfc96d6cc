// Package models defines data structures shared by the matcher components.
package models

// ReadType selects which property of a cell carries the data.
type ReadType int

const (
	// ReadNone marks an unset read type.
	ReadNone ReadType = iota
	// ReadContent reads the cell text.
	ReadContent
	// ReadWidth reads the number of columns a merged cell spans.
	ReadWidth
)

// String returns the suffix used in spreadsheet expressions.
func (r ReadType) String() string {
	switch r {
	case ReadContent:
		return "c"
	case ReadWidth:
		return "w"
	default:
		return ""
	}
}

// ParseReadType converts an expression suffix into a ReadType.
func ParseReadType(s string) ReadType {
	switch s {
	case "c", "C":
		return ReadContent
	case "w", "W":
		return ReadWidth
	default:
		return ReadNone
	}
}

// CellPosition locates a cell and the property read from it.
type CellPosition struct {
	// Row is the row index (1-based).
	Row int `json:"row" yaml:"row"`
	// Col is the column index (1-based).
	Col int `json:"col" yaml:"col"`
	// Read is the property the match was made on.
	Read ReadType `json:"read" yaml:"read"`
}

// Valid reports whether the position addresses a real cell with a read type.
func (p CellPosition) Valid() bool {
	return p.Row > 0 && p.Col > 0 && p.Read != ReadNone
}
