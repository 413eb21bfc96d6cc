package parser

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultMarkerExpression recognizes "x" and "X" as cross-table markers.
const DefaultMarkerExpression = `lower(trim(cell)) == "x"`

// Marker decides whether a cell marks membership in a cross table.
type Marker struct {
	source  string
	program *vm.Program
}

// CompileMarker compiles a boolean expression over the variable cell.
func CompileMarker(source string) (*Marker, error) {
	if source == "" {
		source = DefaultMarkerExpression
	}
	program, err := expr.Compile(source, expr.Env(map[string]any{"cell": ""}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid marker expression %q: %w", source, err)
	}
	return &Marker{source: source, program: program}, nil
}

// Match evaluates the expression for one cell value.
func (m *Marker) Match(value string) bool {
	if value == "" {
		return false
	}
	out, err := expr.Run(m.program, map[string]any{"cell": value})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// String returns the expression source.
func (m *Marker) String() string {
	return m.source
}
