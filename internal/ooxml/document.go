package ooxml

import (
	"fmt"

	"github.com/ppiankov/apa7/internal/model"
)

// Document is the main document part of a package, parsed for editing.
type Document struct {
	pkg    *Package
	tree   *Node
	body   *Node
	styles *Styles
}

// LoadDocument parses word/document.xml and word/styles.xml.
func LoadDocument(p *Package) (*Document, error) {
	tree, err := p.XML(DocumentPart)
	if err != nil {
		return nil, err
	}
	root := tree.Root()
	if root.Name != "w:document" {
		return nil, fmt.Errorf("%w: document element is %s, want w:document", model.ErrInvalidDocument, root.Name)
	}
	body := root.Child("w:body")
	if body == nil {
		return nil, fmt.Errorf("%w: document has no body", model.ErrInvalidDocument)
	}
	styles, err := LoadStyles(p)
	if err != nil {
		return nil, err
	}
	return &Document{pkg: p, tree: tree, body: body, styles: styles}, nil
}

// Package returns the package the document belongs to.
func (d *Document) Package() *Package { return d.pkg }

// Body returns the w:body element.
func (d *Document) Body() *Node { return d.body }

// Styles returns the style index.
func (d *Document) Styles() *Styles { return d.styles }

// Sections returns every section property block: the trailing body
// w:sectPr and any w:sectPr carried in paragraph properties.
func (d *Document) Sections() []*Node {
	var out []*Node
	for _, p := range d.body.Elements("w:p") {
		if sp := p.Child("w:pPr").Child("w:sectPr"); sp != nil {
			out = append(out, sp)
		}
	}
	if sp := d.body.Child("w:sectPr"); sp != nil {
		out = append(out, sp)
	}
	return out
}

// FinalSection returns the body-level w:sectPr, creating it when the
// converter did not write one.
func (d *Document) FinalSection() *Node {
	if sp := d.body.Child("w:sectPr"); sp != nil {
		return sp
	}
	sp := NewElement("w:sectPr")
	d.body.AppendChild(sp)
	return sp
}

// Commit writes the edited tree back into the package.
func (d *Document) Commit() {
	d.pkg.SetXML(DocumentPart, d.tree)
}
