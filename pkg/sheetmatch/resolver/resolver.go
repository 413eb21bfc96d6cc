// Package resolver reads the values a learned spreadsheet expression holds
// for a record identity.
package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
)

// ErrUnresolvablePath indicates an expression that does not match the
// current workbook contents.
var ErrUnresolvablePath = errors.New("unresolvable path")

// Resolver reads values from workbooks.
type Resolver struct {
	books  *parser.Cache
	marker *parser.Marker
}

// New creates a resolver sharing the given workbook cache.
func New(books *parser.Cache, marker *parser.Marker) *Resolver {
	return &Resolver{books: books, marker: marker}
}

// Resolve returns the values expression holds for identity. Linear
// expressions yield one value unless they are forwarded, in which case every
// entry of the forwarded line is returned. Cross expressions yield one value
// per marker on the identity's line.
func (r *Resolver) Resolve(expression, identity string) ([]string, error) {
	e, err := address.Parse(expression)
	if err != nil {
		return nil, err
	}
	switch {
	case e.Kind == address.Cross:
		return r.cross(e, identity)
	case e.Forwarded():
		return r.forwarded(e, identity)
	default:
		return r.linear(e, identity)
	}
}

// Names returns the distinct identities listed on the name axis of
// expression, in sheet order.
func (r *Resolver) Names(expression string) ([]string, error) {
	e, err := address.Parse(expression)
	if err != nil {
		return nil, err
	}
	sheet, err := r.sheet(e.NameSource)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	for _, cell := range entries(sheet, e.Name) {
		name := strings.TrimSpace(cell.Value)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func (r *Resolver) linear(e address.Expression, identity string) ([]string, error) {
	sheet, err := r.sheet(e.NameSource)
	if err != nil {
		return nil, err
	}
	nameCell, err := find(sheet, e.Name, identity)
	if err != nil {
		return nil, err
	}

	var cell parser.Cell
	if e.Name.Fixed == address.FixedColumn {
		cell = sheet.Cell(e.Value.Row, nameCell.Col)
	} else {
		cell = sheet.Cell(nameCell.Row, e.Value.Col)
	}
	value, ok := read(cell, e.Value.Read)
	if !ok {
		return nil, fmt.Errorf("%w: no value for %q at %s", ErrUnresolvablePath, identity, e)
	}
	return []string{value}, nil
}

func (r *Resolver) forwarded(e address.Expression, identity string) ([]string, error) {
	sheet, err := r.sheet(e.NameSource)
	if err != nil {
		return nil, err
	}
	nameCell, err := find(sheet, e.Name, identity)
	if err != nil {
		return nil, err
	}

	hop := e.Source.Hop
	var forward parser.Cell
	if e.Name.Fixed == address.FixedColumn {
		forward = sheet.Cell(hop.Index, nameCell.Col)
	} else {
		forward = sheet.Cell(nameCell.Row, hop.Index)
	}
	if forward.Empty() {
		return nil, fmt.Errorf("%w: no forwarding file for %q at %s", ErrUnresolvablePath, identity, e)
	}

	wb, err := r.books.OpenForwarded(forward.Value)
	if err != nil {
		return nil, err
	}
	target, err := wb.Sheet(hop.Sheet)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, cell := range entries(target, e.Value) {
		if cell.Empty() {
			continue
		}
		if v, ok := read(cell, e.Value.Read); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

func (r *Resolver) cross(e address.Expression, identity string) ([]string, error) {
	sheet, err := r.sheet(e.Source)
	if err != nil {
		return nil, err
	}
	nameCell, err := find(sheet, e.Name, identity)
	if err != nil {
		return nil, err
	}

	var values []string
	if e.Name.Fixed == address.FixedColumn {
		for row := e.Anchor.Row; row <= sheet.Rows(); row++ {
			if r.marker.Match(sheet.Cell(row, nameCell.Col).Value) {
				values = appendValue(values, sheet.Cell(row, e.Value.Col))
			}
		}
		return values, nil
	}
	for col := e.Anchor.Col; col <= sheet.Cols(); col++ {
		if r.marker.Match(sheet.Cell(nameCell.Row, col).Value) {
			values = appendValue(values, sheet.Cell(e.Value.Row, col))
		}
	}
	return values, nil
}

func (r *Resolver) sheet(loc address.Location) (*parser.Sheet, error) {
	wb, err := r.books.Open(loc.File)
	if err != nil {
		return nil, err
	}
	return wb.Sheet(loc.Sheet)
}

// entries returns the cells of the line a spec starts.
func entries(sheet *parser.Sheet, spec address.CellSpec) []parser.Cell {
	var cells []parser.Cell
	if spec.Fixed == address.FixedColumn {
		for col := spec.Col; col <= sheet.Cols(); col++ {
			cells = append(cells, sheet.Cell(spec.Row, col))
		}
		return cells
	}
	for row := spec.Row; row <= sheet.Rows(); row++ {
		cells = append(cells, sheet.Cell(row, spec.Col))
	}
	return cells
}

func find(sheet *parser.Sheet, spec address.CellSpec, identity string) (parser.Cell, error) {
	identity = strings.TrimSpace(identity)
	for _, cell := range entries(sheet, spec) {
		if strings.TrimSpace(cell.Value) == identity {
			return cell, nil
		}
	}
	return parser.Cell{}, fmt.Errorf("%w: %q not found in %s from %s", ErrUnresolvablePath, identity, sheet.Name, spec)
}

func read(cell parser.Cell, rt models.ReadType) (string, bool) {
	if rt == models.ReadWidth {
		return strconv.Itoa(cell.Width), true
	}
	v := strings.TrimSpace(cell.Value)
	return v, v != ""
}

func appendValue(values []string, cell parser.Cell) []string {
	if v := strings.TrimSpace(cell.Value); v != "" {
		values = append(values, v)
	}
	return values
}
