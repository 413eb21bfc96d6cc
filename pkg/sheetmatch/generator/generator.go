// Package generator rebuilds a tree document from a collapsed template and
// the values a learned mapping reads from spreadsheets.
package generator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/walker"
)

var (
	// ErrTemplateNodeMissing indicates a record type the template has no
	// representative for.
	ErrTemplateNodeMissing = errors.New("template node not found")
	// ErrExpressionMissing indicates a cluster member without a learned
	// expression.
	ErrExpressionMissing = errors.New("no expression for path")
)

// ValueSource reads the values of learned expressions.
type ValueSource interface {
	Resolve(expression, identity string) ([]string, error)
	Names(expression string) ([]string, error)
}

// Generator fills a template document.
type Generator struct {
	doc    *etree.Document
	source ValueSource
	logger *slog.Logger
}

// New creates a generator writing into doc, which must hold a collapsed
// template.
func New(doc *etree.Document, source ValueSource, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{doc: doc, source: source, logger: logger}
}

// Open reads the template at path.
func Open(path string, source ValueSource, logger *slog.Logger) (*Generator, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("unable to read template: %w", err)
	}
	return New(doc, source, logger), nil
}

// Generate replaces the representative record of every cluster with one
// record per identity found on the spreadsheet, filled through expressions,
// which maps tree paths to spreadsheet expressions. It returns the number of
// records inserted.
func (g *Generator) Generate(clusters []models.PathCluster, expressions map[string]string) (int, error) {
	for _, c := range clusters {
		for _, m := range c.Members {
			if err := treepath.CheckExpandable(m); err != nil {
				return 0, err
			}
			if expressions[m] == "" {
				return 0, fmt.Errorf("%w: %s", ErrExpressionMissing, m)
			}
		}
	}

	total := 0
	for _, c := range clusters {
		n, err := g.cluster(c, expressions)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// WriteToFile writes the generated document indented.
func (g *Generator) WriteToFile(path string) error {
	return write(g.doc, path)
}

func (g *Generator) cluster(c models.PathCluster, expressions map[string]string) (int, error) {
	if len(c.Members) == 0 {
		g.logger.Warn("record type without learned paths skipped", "root", c.Root)
		return 0, nil
	}

	segs := treepath.Segments(c.Root)
	if len(segs) != 2 {
		return 0, fmt.Errorf("%w: %s", ErrTemplateNodeMissing, c.Root)
	}
	parent := g.doc.FindElement("//" + segs[0])
	if parent == nil {
		return 0, fmt.Errorf("%w: %s", ErrTemplateNodeMissing, c.Root)
	}
	representative := parent.SelectElement(segs[1])
	if representative == nil {
		return 0, fmt.Errorf("%w: %s", ErrTemplateNodeMissing, c.Root)
	}

	template := representative.Copy()
	parent.RemoveChild(representative)
	blank(template, c)

	identities, err := g.source.Names(expressions[c.Members[0]])
	if err != nil {
		return 0, fmt.Errorf("unable to enumerate records of %s: %w", c.Root, err)
	}

	for _, id := range identities {
		record := template.Copy()
		ensure(record, treepath.Relative(c.NamePath)).SetText(id)
		for _, m := range c.Members {
			values, err := g.source.Resolve(expressions[m], id)
			if err != nil {
				return 0, fmt.Errorf("unable to resolve %s for %q: %w", m, id, err)
			}
			fill(record, template, m, values)
		}
		prune(record, c.Members)
		parent.AddChild(record)
	}

	g.logger.Debug("generated records", "root", c.Root, "count", len(identities))
	return len(identities), nil
}

// fill writes values at the member path below record. Paths without a
// placeholder take the first value; indexed paths get one sibling per value,
// cloned from the blank template when the record has too few.
func fill(record, template *etree.Element, path string, values []string) {
	if len(values) == 0 {
		return
	}
	attr := treepath.AttributeName(path)
	rel := treepath.Relative(treepath.NodePath(path))

	prefix, tag, suffix, ok := treepath.SplitIndexed(rel)
	if !ok {
		set(ensure(record, rel), attr, values[0])
		return
	}

	parent := ensure(record, prefix)
	for k, v := range values {
		siblings := parent.SelectElements(tag)
		var item *etree.Element
		switch {
		case k < len(siblings):
			item = siblings[k]
		case len(siblings) == 0:
			item = blankItem(template, prefix, tag)
			parent.AddChild(item)
		default:
			item = blankItem(template, prefix, tag)
			parent.InsertChildAt(siblings[len(siblings)-1].Index()+1, item)
		}
		set(ensure(item, suffix), attr, v)
	}
}

// blankItem returns a copy of the template's representative repeated node.
func blankItem(template *etree.Element, prefix []string, tag string) *etree.Element {
	if nodes := walker.Select(template, append(append([]string(nil), prefix...), tag)); len(nodes) > 0 {
		return nodes[0].Copy()
	}
	return etree.NewElement(tag)
}

// ensure follows segments from el, creating missing elements. Indexed
// segments pick that sibling when present, placeholders pick the first.
func ensure(el *etree.Element, segments []string) *etree.Element {
	current := el
	for _, seg := range segments {
		tag, index := treepath.ParseSegment(seg)
		matches := current.SelectElements(tag)
		switch {
		case index > 0 && index <= len(matches):
			current = matches[index-1]
		case len(matches) > 0:
			current = matches[0]
		default:
			current = current.CreateElement(tag)
		}
	}
	return current
}

func set(el *etree.Element, attr, value string) {
	if attr != "" {
		el.CreateAttr(attr, value)
		return
	}
	el.SetText(value)
}

// blank clears every value the cluster writes, leaving the structure. The
// identifying field is cleared too.
func blank(template *etree.Element, c models.PathCluster) {
	for _, n := range walker.Select(template, treepath.Relative(c.NamePath)) {
		n.SetText("")
	}
	for _, m := range c.Members {
		attr := treepath.AttributeName(m)
		for _, n := range walker.Select(template, treepath.Relative(treepath.NodePath(m))) {
			if attr == "" {
				n.SetText("")
			} else if n.SelectAttr(attr) != nil {
				n.CreateAttr(attr, "")
			}
		}
	}
}

// prune drops member attributes left empty.
func prune(record *etree.Element, members []string) {
	for _, m := range members {
		attr := treepath.AttributeName(m)
		if attr == "" {
			continue
		}
		for _, n := range walker.Select(record, treepath.Relative(treepath.NodePath(m))) {
			if a := n.SelectAttr(attr); a != nil && a.Value == "" {
				n.RemoveAttr(attr)
			}
		}
	}
}
