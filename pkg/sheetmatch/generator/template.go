package generator

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/walker"
)

// IndentSpaces is the indentation used for written documents.
const IndentSpaces = 2

// BuildTemplate reads the tree at sourcePath, collapses it and writes the
// result to templatePath.
func BuildTemplate(sourcePath, templatePath string, listRoots []string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(sourcePath); err != nil {
		return fmt.Errorf("unable to read tree document: %w", err)
	}
	Collapse(doc, listRoots)
	return write(doc, templatePath)
}

// Collapse reduces doc in place to a template: every list root keeps only its
// first record, and within it every run of same-tag siblings is cut down to
// the first sibling.
func Collapse(doc *etree.Document, listRoots []string) {
	for _, tag := range listRoots {
		for _, root := range doc.FindElements("//" + tag) {
			children := root.ChildElements()
			if len(children) == 0 {
				continue
			}
			for _, c := range children[1:] {
				root.RemoveChild(c)
			}
			collapse(children[0])
		}
	}
}

func collapse(el *etree.Element) {
	children := el.ChildElements()
	if walker.Repeated(children) {
		for _, c := range children[1:] {
			el.RemoveChild(c)
		}
		children = children[:1]
	}
	for _, c := range children {
		collapse(c)
	}
}

func write(doc *etree.Document, path string) error {
	doc.Indent(IndentSpaces)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("unable to write tree document: %w", err)
	}
	return nil
}
