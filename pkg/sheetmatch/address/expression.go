package address

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two expression layouts.
type Kind int

const (
	// Linear expressions pair a value line with a name line.
	Linear Kind = iota
	// Cross expressions address a name/value matrix with marker cells.
	Cross
)

// Expression is a parsed spreadsheet expression.
type Expression struct {
	Kind Kind
	// Source is where the value side lives.
	Source Location
	// Anchor is the top-left corner of a cross table's data field.
	Anchor CellSpec
	Value  CellSpec
	// NameSource is where the name side lives. It differs from Source only
	// for forwarded expressions.
	NameSource Location
	Name       CellSpec
}

// NewLinear builds a linear expression with both sides on one sheet.
func NewLinear(loc Location, value, name CellSpec) Expression {
	return Expression{Kind: Linear, Source: loc, Value: value, NameSource: loc, Name: name}
}

// NewForwarded builds a linear expression whose values live behind a hop.
func NewForwarded(source Location, value CellSpec, nameSource Location, name CellSpec) Expression {
	return Expression{Kind: Linear, Source: source, Value: value, NameSource: nameSource, Name: name}
}

// NewCross builds a cross-table expression.
func NewCross(loc Location, anchor, value, name CellSpec) Expression {
	return Expression{Kind: Cross, Source: loc, Anchor: anchor, Value: value, NameSource: loc, Name: name}
}

// Forwarded reports whether the value side goes through a hop.
func (e Expression) Forwarded() bool {
	return e.Source.Hop != nil
}

// String formats the expression.
func (e Expression) String() string {
	if e.Kind == Cross {
		return fmt.Sprintf("%s/@%s;%s;%s", e.Source, e.Anchor, e.Value, e.Name)
	}
	if e.NameSource.String() != e.Source.String() {
		return fmt.Sprintf("%s/@%s;%s/@%s", e.Source, e.Value, e.NameSource, e.Name)
	}
	return fmt.Sprintf("%s/@%s;%s", e.Source, e.Value, e.Name)
}

// NameExpression returns the name side with its full prefix.
func (e Expression) NameExpression() string {
	return fmt.Sprintf("%s/@%s", e.NameSource, e.Name)
}

// Parse parses a linear or cross-table expression.
func Parse(s string) (Expression, error) {
	parts := strings.Split(s, ";")
	if len(parts) < 2 || len(parts) > 3 {
		return Expression{}, fmt.Errorf("%w: %q", ErrMalformedExpression, s)
	}

	loc, first, err := splitPrefixed(parts[0])
	if err != nil {
		return Expression{}, err
	}

	if len(parts) == 3 {
		value, err := ParseCellSpec(parts[1])
		if err != nil {
			return Expression{}, err
		}
		name, err := ParseCellSpec(parts[2])
		if err != nil {
			return Expression{}, err
		}
		return NewCross(loc, first, value, name), nil
	}

	nameLoc := loc
	nameSpec := parts[1]
	if strings.Contains(nameSpec, "/@") {
		if nameLoc, nameSpec, err = splitPrefix(nameSpec); err != nil {
			return Expression{}, err
		}
	}
	name, err := ParseCellSpec(nameSpec)
	if err != nil {
		return Expression{}, err
	}
	return NewForwarded(loc, first, nameLoc, name), nil
}

func splitPrefixed(s string) (Location, CellSpec, error) {
	loc, spec, err := splitPrefix(s)
	if err != nil {
		return Location{}, CellSpec{}, err
	}
	cell, err := ParseCellSpec(spec)
	if err != nil {
		return Location{}, CellSpec{}, err
	}
	return loc, cell, nil
}

func splitPrefix(s string) (Location, string, error) {
	i := strings.LastIndex(s, "/@")
	if i < 0 {
		return Location{}, "", fmt.Errorf("%w: missing \"/@\" in %q", ErrMalformedExpression, s)
	}
	loc, err := ParseLocation(s[:i])
	if err != nil {
		return Location{}, "", err
	}
	return loc, s[i+2:], nil
}
