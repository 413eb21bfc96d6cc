package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/internal/sheettest"
)

func TestOpenWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := sheettest.New(t, "Workers", "Teams").
		Header("Workers", "A2", "Id", "#DDEBF7").
		Header("Workers", "B2", "Job", "#ddebf7").
		Row("Workers", "A3", "W1", "engineer").
		Set("Teams", "A1", "Team A").
		Merge("Teams", "A1", "C1").
		Save(dir, "root.xlsx")

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}

	if len(wb.Sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(wb.Sheets))
	}

	workers, err := wb.Sheet("Workers")
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}
	if workers.Rows() != 3 || workers.Cols() != 2 {
		t.Errorf("Expected 3x2 grid, got %dx%d", workers.Rows(), workers.Cols())
	}
	if c := workers.Cell(2, 2); c.Value != "Job" || c.Color != "DDEBF7" {
		t.Errorf("Expected colored header 'Job', got %+v", c)
	}
	if c := workers.Cell(3, 1); c.Value != "W1" || c.Color != "" || c.Width != 1 {
		t.Errorf("Expected plain 'W1', got %+v", c)
	}
	if c := workers.Cell(9, 9); !c.Empty() || c.Width != 1 {
		t.Errorf("Expected empty cell outside grid, got %+v", c)
	}

	teams, _ := wb.Sheet("Teams")
	if c := teams.Cell(1, 1); c.Width != 3 {
		t.Errorf("Expected merged width 3, got %d", c.Width)
	}

	if _, err := wb.Sheet("Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
}

func TestLines(t *testing.T) {
	dir := t.TempDir()
	path := sheettest.New(t, "S").
		Row("S", "A1", "a", "b", "c").
		Row("S", "A2", "d", "e", "f").
		Save(dir, "lines.xlsx")

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	s := wb.Sheets[0]

	if s.Lines(ByRow) != 2 || s.Lines(ByColumn) != 3 {
		t.Errorf("Unexpected line counts %d/%d", s.Lines(ByRow), s.Lines(ByColumn))
	}

	row := s.Line(ByRow, 2)
	if len(row) != 3 || row[1].Value != "e" {
		t.Errorf("Unexpected row %+v", row)
	}
	col := s.Line(ByColumn, 3)
	if len(col) != 2 || col[0].Value != "c" || col[1].Value != "f" || col[1].Row != 2 {
		t.Errorf("Unexpected column %+v", col)
	}
}

func TestCacheOpenForwarded(t *testing.T) {
	dir := t.TempDir()
	sheettest.New(t, "Members").Set("Members", "A1", "x").Save(dir, "team-a.xlsx")

	cache := NewCache(dir)
	wb, err := cache.OpenForwarded(" team-a.xlsx ")
	if err != nil {
		t.Fatalf("OpenForwarded failed: %v", err)
	}
	again, _ := cache.Open(filepath.Join(dir, "team-a.xlsx"))
	if wb != again {
		t.Error("Expected cached workbook to be reused")
	}

	if _, err := cache.OpenForwarded("missing.xlsx"); !errors.Is(err, ErrForwardFileNotFound) {
		t.Errorf("Expected ErrForwardFileNotFound, got %v", err)
	}
	if _, err := OpenWorkbook(filepath.Join(dir, "nope.xlsx")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#ddebf7", "DDEBF7"},
		{"FFDDEBF7", "DDEBF7"},
		{"DDEBF7", "DDEBF7"},
		{"", ""},
	}

	for _, tt := range tests {
		if result := NormalizeColor(tt.input); result != tt.expected {
			t.Errorf("NormalizeColor(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestMarker(t *testing.T) {
	m, err := CompileMarker("")
	if err != nil {
		t.Fatalf("CompileMarker failed: %v", err)
	}

	tests := []struct {
		input    string
		expected bool
	}{
		{"x", true},
		{"X", true},
		{" x ", true},
		{"", false},
		{"xx", false},
		{"Java", false},
	}
	for _, tt := range tests {
		if result := m.Match(tt.input); result != tt.expected {
			t.Errorf("Match(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}

	custom, err := CompileMarker(`cell in ["yes", "1"]`)
	if err != nil {
		t.Fatalf("CompileMarker failed: %v", err)
	}
	if !custom.Match("yes") || custom.Match("x") {
		t.Error("Custom marker expression not applied")
	}

	if _, err := CompileMarker("cell +"); err == nil {
		t.Error("Expected compile error")
	}
}
