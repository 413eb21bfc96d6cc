package sheetmatch

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/classifier"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/cluster"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/config"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/generator"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/resolver"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/walker"
)

// Invalid input.
var (
	ErrEmptyKey            = classifier.ErrEmptyKey
	ErrMalformedExpression = address.ErrMalformedExpression
	ErrMultipleIndexes     = treepath.ErrMultipleIndexes
)

// Missing resources.
var (
	ErrFileNotFound        = parser.ErrFileNotFound
	ErrForwardFileNotFound = parser.ErrForwardFileNotFound
	ErrSheetNotFound       = parser.ErrSheetNotFound
	ErrMissingKey          = config.ErrMissingKey
	ErrInvalidValue        = config.ErrInvalidValue
)

// Structural mismatches between tree, spreadsheets and model.
var (
	ErrIdentifierMissing   = walker.ErrIdentifierMissing
	ErrNoNodes             = walker.ErrNoNodes
	ErrUnassignablePath    = cluster.ErrUnassignablePath
	ErrUnresolvablePath    = resolver.ErrUnresolvablePath
	ErrTemplateNodeMissing = generator.ErrTemplateNodeMissing
	ErrExpressionMissing   = generator.ErrExpressionMissing
)

// ErrNotTrained indicates generation without a trained or loaded model.
var ErrNotTrained = errors.New("no trained model")

// ErrNoTemplate indicates generation without a template path.
var ErrNoTemplate = errors.New("no template configured")

// Stage names used in StageError.
const (
	StageWalk     = "walk"
	StageScan     = "scan"
	StageResolve  = "resolve"
	StageTemplate = "template"
	StageCluster  = "cluster"
	StageGenerate = "generate"
)

// StageError represents an error in one step of training or generation.
type StageError struct {
	Stage string
	Path  string // tree path or file the stage was working on
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed for %q: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage, path string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Path:  path,
		Err:   err,
	}
}
