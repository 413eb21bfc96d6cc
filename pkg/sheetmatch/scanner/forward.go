package scanner

import (
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
)

// follow opens the workbook named by a forwarding cell and searches it for
// the missing values, row-wise then column-wise per sheet. The first value
// found below a header wins.
func (s *Scanner) follow(fileName string, values []string) (*hopResult, error) {
	wb, err := s.books.OpenForwarded(fileName)
	if err != nil {
		return nil, err
	}

	pool := make([]models.ValueNamePair, 0, len(values))
	for _, v := range values {
		pool = append(pool, models.ValueNamePair{Value: v})
	}

	for _, sheet := range wb.Sheets {
		loc := address.Location{File: wb.Path, Sheet: sheet.Name}
		for _, o := range []parser.Orientation{parser.ByRow, parser.ByColumn} {
			ls, err := s.newLineScan(loc, sheet, o, pool, true)
			if err != nil {
				return nil, err
			}
			spec, ok, err := ls.firstValue()
			if err != nil {
				return nil, err
			}
			if ok {
				s.logger.Debug("followed forwarding", "file", wb.Path, "sheet", sheet.Name, "spec", spec.String())
				return &hopResult{sheet: sheet.Name, spec: spec}, nil
			}
		}
	}
	return nil, nil
}
