package sheetmatch

import (
	"log/slog"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/classifier"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/cluster"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/config"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/generator"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/resolver"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/scanner"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/walker"
)

// Matcher trains a mapping from a tree document to spreadsheets and
// generates tree documents from it.
type Matcher struct {
	cfg      *config.Config
	opts     Options
	logger   *slog.Logger
	model    *Model
	template string
}

// New creates a matcher.
func New(cfg *config.Config, opts Options) *Matcher {
	return &Matcher{cfg: cfg, opts: opts, logger: opts.logger(), template: opts.TemplatePath}
}

// Model returns the current model, or nil before training.
func (m *Matcher) Model() *Model {
	return m.model
}

// SetModel replaces the current model, e.g. with one read by LoadModel.
func (m *Matcher) SetModel(model *Model) {
	m.model = model
}

// Train walks the tree at sourceTreePath, scans the workbook at sinkPath for
// every value-carrying path and resolves the votes into a model. Forwarded
// workbooks are opened from nestedDir.
func (m *Matcher) Train(sourceTreePath, sinkPath, nestedDir string) (*Model, error) {
	w, err := walker.Open(sourceTreePath, m.cfg.Identifier(), m.cfg.ListRoots(), m.logger)
	if err != nil {
		return nil, NewStageError(StageWalk, sourceTreePath, err)
	}
	walked, err := w.Walk()
	if err != nil {
		return nil, NewStageError(StageWalk, sourceTreePath, err)
	}

	marker, err := m.cfg.Marker()
	if err != nil {
		return nil, err
	}
	sc := scanner.New(m.cfg, parser.NewCache(nestedDir), marker, m.logger)
	cl := classifier.New(m.logger)

	for _, target := range walked.Targets {
		if err := cl.Register(treepath.Normalize(target.Path)); err != nil {
			return nil, NewStageError(StageScan, target.Path, err)
		}
		if err := sc.Scan(sinkPath, target.Pairs, cl); err != nil {
			return nil, NewStageError(StageScan, target.Path, err)
		}
	}

	res := cl.Resolve()
	inverted, err := cl.InvertResolution(res)
	if err != nil {
		return nil, NewStageError(StageResolve, "", err)
	}

	model := &Model{
		Workbook:  sinkPath,
		NestedDir: nestedDir,
		NamePaths: walked.NamePaths,
		Ambiguous: res.Ambiguous,
		Unmatched: res.Unmatched,
	}
	for _, mp := range res.Mappings {
		if inverted[mp.Sink] == mp.Tree {
			model.Mappings = append(model.Mappings, mp)
		}
	}
	if m.opts.ShouldIncludeHistograms() {
		model.Histograms = cl.Dump()
	}

	m.logger.Info("training finished",
		"paths", cl.Len(),
		"mapped", len(model.Mappings),
		"ambiguous", len(model.Ambiguous),
		"unmatched", len(model.Unmatched))
	m.model = model
	return model, nil
}

// BuildTemplate collapses the tree at sourceTreePath into a template at
// templatePath. Later calls to Generate fill it unless the options named a
// template already.
func (m *Matcher) BuildTemplate(sourceTreePath, templatePath string) error {
	if err := generator.BuildTemplate(sourceTreePath, templatePath, m.cfg.ListRoots()); err != nil {
		return NewStageError(StageTemplate, sourceTreePath, err)
	}
	if m.template == "" {
		m.template = templatePath
	}
	return nil
}

// Generate fills the template with the current spreadsheet contents and
// writes the tree to outputPath. It returns the number of records inserted.
func (m *Matcher) Generate(outputPath string) (int, error) {
	if m.model == nil {
		return 0, ErrNotTrained
	}
	if m.template == "" {
		return 0, ErrNoTemplate
	}

	clusters, err := cluster.Build(m.model.NamePaths, m.model.TreePaths())
	if err != nil {
		return 0, NewStageError(StageCluster, "", err)
	}

	marker, err := m.cfg.Marker()
	if err != nil {
		return 0, err
	}
	source := resolver.New(parser.NewCache(m.model.NestedDir), marker)
	g, err := generator.Open(m.template, source, m.logger)
	if err != nil {
		return 0, NewStageError(StageGenerate, m.template, err)
	}

	n, err := g.Generate(clusters, m.model.Expressions())
	if err != nil {
		return 0, NewStageError(StageGenerate, outputPath, err)
	}
	if err := g.WriteToFile(outputPath); err != nil {
		return 0, NewStageError(StageGenerate, outputPath, err)
	}

	m.logger.Info("generation finished", "records", n, "output", outputPath)
	return n, nil
}
