package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// ColorCache maps style indexes of one workbook to normalized fill colors.
type ColorCache struct {
	byStyle map[int]string
}

// NewColorCache creates an empty cache.
func NewColorCache() *ColorCache {
	return &ColorCache{byStyle: make(map[int]string)}
}

// Fill returns the normalized fill color of a cell.
func (c *ColorCache) Fill(f *excelize.File, sheetName, axis string) (string, error) {
	idx, err := f.GetCellStyle(sheetName, axis)
	if err != nil {
		return "", err
	}
	if color, ok := c.byStyle[idx]; ok {
		return color, nil
	}

	style, err := f.GetStyle(idx)
	if err != nil {
		return "", err
	}
	color := ""
	if style != nil && style.Fill.Pattern > 0 && len(style.Fill.Color) > 0 {
		color = NormalizeColor(style.Fill.Color[0])
	}
	c.byStyle[idx] = color
	return color, nil
}

// NormalizeColor converts "#ddebf7", "FFDDEBF7" and "DDEBF7" to "DDEBF7".
func NormalizeColor(color string) string {
	color = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(color) == 8 {
		color = color[2:]
	}
	return color
}

// IsBackground reports whether a color counts as no fill.
func IsBackground(color string) bool {
	return color == "" || color == "FFFFFF"
}
