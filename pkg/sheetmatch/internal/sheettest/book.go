// Package sheettest builds small workbooks for tests.
package sheettest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Book wraps an excelize file under construction.
type Book struct {
	t      testing.TB
	f      *excelize.File
	styles map[string]int
}

// New creates a workbook with the given sheets.
func New(t testing.TB, sheets ...string) *Book {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("Failed to create sheet %q: %v", name, err)
		}
	}
	return &Book{t: t, f: f, styles: make(map[string]int)}
}

// Set writes a value.
func (b *Book) Set(sheet, axis string, value any) *Book {
	b.t.Helper()
	if err := b.f.SetCellValue(sheet, axis, value); err != nil {
		b.t.Fatalf("Failed to set %s!%s: %v", sheet, axis, err)
	}
	return b
}

// Fill colors a cell with a solid pattern fill, e.g. "#DDEBF7".
func (b *Book) Fill(sheet, axis, color string) *Book {
	b.t.Helper()
	id, ok := b.styles[color]
	if !ok {
		var err error
		id, err = b.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			b.t.Fatalf("Failed to create style: %v", err)
		}
		b.styles[color] = id
	}
	if err := b.f.SetCellStyle(sheet, axis, axis, id); err != nil {
		b.t.Fatalf("Failed to style %s!%s: %v", sheet, axis, err)
	}
	return b
}

// Header writes a value and colors its cell.
func (b *Book) Header(sheet, axis string, value any, color string) *Book {
	return b.Set(sheet, axis, value).Fill(sheet, axis, color)
}

// Row writes consecutive values along a row starting at axis.
func (b *Book) Row(sheet, axis string, values ...any) *Book {
	b.t.Helper()
	col, row, err := excelize.CellNameToCoordinates(axis)
	if err != nil {
		b.t.Fatalf("Invalid axis %q: %v", axis, err)
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		name, _ := excelize.CoordinatesToCellName(col+i, row)
		b.Set(sheet, name, v)
	}
	return b
}

// Merge merges a range.
func (b *Book) Merge(sheet, from, to string) *Book {
	b.t.Helper()
	if err := b.f.MergeCell(sheet, from, to); err != nil {
		b.t.Fatalf("Failed to merge %s:%s: %v", from, to, err)
	}
	return b
}

// Save writes the workbook into dir and returns its path.
func (b *Book) Save(dir, name string) string {
	b.t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		b.t.Fatalf("Failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := b.f.SaveAs(path); err != nil {
		b.t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}
