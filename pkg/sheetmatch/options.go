// Package sheetmatch learns where the values of a tree document live in a set
// of spreadsheets and rebuilds the tree from spreadsheet contents.
package sheetmatch

import "log/slog"

// Options configures a Matcher.
type Options struct {
	// Logger receives progress and data-quality warnings. Defaults to
	// slog.Default().
	Logger *slog.Logger
	// TemplatePath is the template Generate fills. BuildTemplate sets it
	// when empty.
	TemplatePath string
	// IncludeHistograms specifies whether trained models keep the full
	// candidate table of every path. If nil, defaults to true.
	IncludeHistograms *bool
}

// DefaultOptions returns default matcher options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldIncludeHistograms returns whether to keep candidate tables.
func (o Options) ShouldIncludeHistograms() bool {
	if o.IncludeHistograms != nil {
		return *o.IncludeHistograms
	}
	return true
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
