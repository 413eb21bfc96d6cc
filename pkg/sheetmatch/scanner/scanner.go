// Package scanner searches workbooks for the layouts that encode a set of
// value-name pairs and votes every finding as a spreadsheet expression.
//
// Three layouts are recognized on every sheet: row-wise tables (one record
// per row below a colored header row), column-wise tables (one record per
// column right of a colored header column) and cross tables (names along one
// axis, values along the other, marker cells at the intersections). A row-
// or column-wise table may forward into secondary workbooks through a
// configured header; the forwarded file is then searched for the value.
package scanner

import (
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
)

// Settings supplies the per-sheet layout configuration.
type Settings interface {
	// HeaderColor returns the fill color of header cells on sheet.
	HeaderColor(sheet string) (string, error)
	// ForwardHeader returns the forwarding header name of sheet, if any.
	ForwardHeader(sheet string) (string, bool)
	// ForwardSymbol returns the segment name of forwarded hops.
	ForwardSymbol() string
	// WidthAllowed reports whether merged widths are compared on sheet.
	WidthAllowed(sheet string) bool
}

// Voter receives the expressions found for the pairs of one tree path.
type Voter interface {
	Vote(expression string) error
}

// Scanner finds value-name pairs in workbooks.
type Scanner struct {
	settings Settings
	books    *parser.Cache
	marker   *parser.Marker
	logger   *slog.Logger
}

// New creates a scanner. books resolves forwarded file names; a nil logger
// falls back to slog.Default().
func New(settings Settings, books *parser.Cache, marker *parser.Marker, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{settings: settings, books: books, marker: marker, logger: logger}
}

// Scan searches every sheet of the workbook and votes each finding.
func (s *Scanner) Scan(workbookPath string, pairs []models.ValueNamePair, voter Voter) error {
	found, err := s.Find(workbookPath, pairs)
	if err != nil {
		return err
	}
	for _, expr := range found {
		if err := voter.Vote(expr.String()); err != nil {
			return err
		}
	}
	return nil
}

// Find returns every expression encoding the pairs, one per confirmed line
// or cross table.
func (s *Scanner) Find(workbookPath string, pairs []models.ValueNamePair) ([]address.Expression, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	wb, err := s.books.Open(workbookPath)
	if err != nil {
		return nil, err
	}

	var found []address.Expression
	for _, sheet := range wb.Sheets {
		loc := address.Location{File: workbookPath, Sheet: sheet.Name}
		for _, o := range []parser.Orientation{parser.ByRow, parser.ByColumn} {
			ls, err := s.newLineScan(loc, sheet, o, pairs, false)
			if err != nil {
				return nil, err
			}
			exprs, err := ls.pairs()
			if err != nil {
				return nil, fmt.Errorf("%s scan of %s: %w", o, loc, err)
			}
			found = append(found, exprs...)
		}

		if expr, ok := s.findCross(loc, sheet, pairs); ok {
			found = append(found, expr)
		}
	}

	s.logger.Debug("scanned workbook", "path", workbookPath, "pairs", len(pairs), "found", len(found))
	return found, nil
}
