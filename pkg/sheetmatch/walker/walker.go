// Package walker turns a source tree into training targets: every tree path
// that carries a value, paired with the identifiers of the records holding
// it.
package walker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
)

// ErrIdentifierMissing indicates a blueprint record without identifying field.
var ErrIdentifierMissing = errors.New("identifying field not found")

// ErrNoNodes indicates a path that selects nothing in the tree.
var ErrNoNodes = errors.New("path yields no nodes")

// Target is one tree path with its training evidence.
type Target struct {
	Path  string
	Pairs []models.ValueNamePair
}

// Result is the output of a walk.
type Result struct {
	// Targets holds the value-carrying paths in document order. Paths still
	// carry concrete sibling indexes.
	Targets []Target
	// NamePaths holds the identifying-field path of every record type.
	NamePaths []string
}

// Walker reads a source tree.
type Walker struct {
	doc        *etree.Document
	identifier string
	listRoots  []string
	logger     *slog.Logger
}

// record is one child of a list root together with its identity.
type record struct {
	el *etree.Element
	id string
}

// New creates a walker over a parsed document.
func New(doc *etree.Document, identifier string, listRoots []string, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{doc: doc, identifier: identifier, listRoots: listRoots, logger: logger}
}

// Open reads the document at path.
func Open(path, identifier string, listRoots []string, logger *slog.Logger) (*Walker, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("unable to read tree document: %w", err)
	}
	return New(doc, identifier, listRoots, logger), nil
}

// Walk enumerates the targets below every list root. The first record of a
// list is the blueprint whose shape decides which paths exist.
func (w *Walker) Walk() (*Result, error) {
	res := &Result{}
	seen := make(map[string]bool)

	for _, tag := range w.listRoots {
		roots := w.doc.FindElements("//" + tag)
		if len(roots) == 0 {
			w.logger.Warn("list root not found", "tag", tag)
		}
		for _, root := range roots {
			children := root.ChildElements()
			if len(children) == 0 {
				continue
			}
			records, err := w.records(root.Tag, children)
			if err != nil {
				return nil, err
			}

			acc := &accumulator{walker: w, records: records, names: seen, result: res}
			acc.node(children[0], treepath.Join(root.Tag, children[0].Tag), nil)
		}
	}

	w.logger.Debug("walked tree", "targets", len(res.Targets), "record_types", len(res.NamePaths))
	return res, nil
}

func (w *Walker) records(rootTag string, children []*etree.Element) ([]record, error) {
	var records []record
	for i, el := range children {
		idEl := el.FindElement(".//" + w.identifier)
		if idEl == nil {
			if i == 0 {
				return nil, fmt.Errorf("%w: %q below %s/%s", ErrIdentifierMissing, w.identifier, rootTag, el.Tag)
			}
			w.logger.Warn("record without identifying field skipped", "path", treepath.Join(rootTag, el.Tag), "index", i+1)
			continue
		}
		records = append(records, record{el: el, id: strings.TrimSpace(idEl.Text())})
	}
	return records, nil
}

// accumulator collects the targets of one list root.
type accumulator struct {
	walker  *Walker
	records []record
	names   map[string]bool
	result  *Result
}

func (a *accumulator) node(el *etree.Element, path string, rel []string) {
	if strings.TrimSpace(el.Text()) != "" {
		a.add(path, rel, "")
	}
	for _, attr := range el.Attr {
		a.add(path+"/"+treepath.AttributePrefix+attr.Key, rel, attr.Key)
	}

	children := el.ChildElements()
	if Repeated(children) {
		for i, child := range children {
			seg := treepath.Indexed(child.Tag, i+1)
			a.node(child, path+"/"+seg, appendSegment(rel, seg))
		}
		return
	}
	for _, child := range children {
		if child.Tag == a.walker.identifier {
			namePath := path + "/" + child.Tag
			if !a.names[namePath] {
				a.names[namePath] = true
				a.result.NamePaths = append(a.result.NamePaths, namePath)
			}
			continue
		}
		a.node(child, path+"/"+child.Tag, appendSegment(rel, child.Tag))
	}
}

// add pairs the value at rel of every record with the record's identity.
func (a *accumulator) add(path string, rel []string, attr string) {
	var pairs []models.ValueNamePair
	for _, r := range a.records {
		nodes := Select(r.el, rel)
		if len(nodes) == 0 {
			continue
		}
		if v := valueOf(nodes[0], attr); v != "" {
			pairs = append(pairs, models.ValueNamePair{Value: v, Name: r.id})
		}
	}
	if len(pairs) == 0 {
		return
	}
	a.result.Targets = append(a.result.Targets, Target{Path: path, Pairs: pairs})
}

// Values resolves a tree path to the values it holds in every record.
func (w *Walker) Values(path string) ([]string, error) {
	segs := treepath.Segments(path)
	if len(segs) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrNoNodes, path)
	}
	attr := treepath.AttributeName(path)
	rel := treepath.Relative(treepath.NodePath(path))

	var values []string
	matched := false
	for _, root := range w.doc.FindElements("//" + segs[0]) {
		recordTag, _ := treepath.ParseSegment(segs[1])
		for _, rec := range root.SelectElements(recordTag) {
			for _, n := range Select(rec, rel) {
				matched = true
				if v := valueOf(n, attr); v != "" {
					values = append(values, v)
				}
			}
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: %s", ErrNoNodes, path)
	}
	return values, nil
}

// Select follows relative segments from el. A segment with an index picks
// that sibling; one without picks every child with the tag.
func Select(el *etree.Element, segments []string) []*etree.Element {
	current := []*etree.Element{el}
	for _, seg := range segments {
		tag, index := treepath.ParseSegment(seg)
		var next []*etree.Element
		for _, c := range current {
			matches := c.SelectElements(tag)
			if index > 0 {
				if index <= len(matches) {
					next = append(next, matches[index-1])
				}
				continue
			}
			next = append(next, matches...)
		}
		current = next
	}
	return current
}

func valueOf(el *etree.Element, attr string) string {
	if attr != "" {
		return strings.TrimSpace(el.SelectAttrValue(attr, ""))
	}
	return strings.TrimSpace(el.Text())
}

// Repeated reports whether there are several children all sharing one tag.
func Repeated(children []*etree.Element) bool {
	if len(children) < 2 {
		return false
	}
	for _, c := range children[1:] {
		if c.Tag != children[0].Tag {
			return false
		}
	}
	return true
}

func appendSegment(rel []string, seg string) []string {
	out := make([]string, len(rel), len(rel)+1)
	copy(out, rel)
	return append(out, seg)
}
