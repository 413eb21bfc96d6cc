package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// applyMerges records the span of every merged range on the cells it covers.
func (s *Sheet) applyMerges(f *excelize.File) error {
	merged, err := f.GetMergeCells(s.Name)
	if err != nil {
		return err
	}
	for _, mc := range merged {
		c1, r1, c2, r2, ok := parseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if !ok {
			continue
		}
		width := c2 - c1 + 1
		for r := r1; r <= r2 && r <= s.rows; r++ {
			for c := c1; c <= c2 && c <= s.cols; c++ {
				s.cells[r-1][c-1].Width = width
			}
		}
	}
	return nil
}

// parseRange parses a range string like $A$1:$D$10.
func parseRange(rangeStr string) (c1, r1, c2, r2 int, ok bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return 0, 0, 0, 0, false
	}

	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return 0, 0, 0, 0, false
	}
	c2, r2, err = excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return 0, 0, 0, 0, false
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return c1, r1, c2, r2, true
}
