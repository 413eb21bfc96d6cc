package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrFileNotFound indicates the workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrForwardFileNotFound indicates a forwarding cell names a missing workbook.
var ErrForwardFileNotFound = errors.New("forward file not found")

// ErrSheetNotFound indicates an expression names a sheet the workbook lacks.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is an in-memory copy of every sheet of a file.
type Workbook struct {
	Path   string
	Sheets []*Sheet
	byName map[string]*Sheet
}

// OpenWorkbook loads all sheets of the file and closes it.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{Path: path, byName: make(map[string]*Sheet)}
	colors := NewColorCache()
	for _, sheetName := range f.GetSheetList() {
		sheet, err := LoadSheet(f, sheetName, colors)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheetName, path, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
		wb.byName[sheetName] = sheet
	}
	return wb, nil
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	sheet, ok := w.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, name, w.Path)
	}
	return sheet, nil
}

// Cache keeps opened workbooks so forwarded files are read once per run.
type Cache struct {
	nestedDir string
	books     map[string]*Workbook
}

// NewCache creates a cache resolving forwarded file names in nestedDir.
func NewCache(nestedDir string) *Cache {
	return &Cache{nestedDir: nestedDir, books: make(map[string]*Workbook)}
}

// Open returns the workbook at path, loading it on first use.
func (c *Cache) Open(path string) (*Workbook, error) {
	if wb, ok := c.books[path]; ok {
		return wb, nil
	}
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	c.books[path] = wb
	return wb, nil
}

// OpenForwarded opens the workbook a forwarding cell names.
func (c *Cache) OpenForwarded(name string) (*Workbook, error) {
	name = strings.TrimSpace(name)
	path := filepath.Join(c.nestedDir, name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty file name in %s", ErrForwardFileNotFound, c.nestedDir)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrForwardFileNotFound, path)
	}
	return c.Open(path)
}
