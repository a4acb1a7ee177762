package format

import (
	"fmt"
	"path"
	"strings"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// applyMargins sets the APA page margin on every section, keeping header,
// footer and gutter distances. It returns the number of sections changed.
func (f *Formatter) applyMargins(doc *ooxml.Document) int {
	page := f.rules.Page
	m := ooxml.Twips(page.Margin)

	doc.FinalSection()
	sections := doc.Sections()
	for _, sp := range sections {
		old := sp.Child("w:pgMar")
		sp.Replace(ooxml.NewElement("w:pgMar",
			"w:top", m,
			"w:right", m,
			"w:bottom", m,
			"w:left", m,
			"w:header", old.AttrOr("w:header", ooxml.Twips(page.Header)),
			"w:footer", old.AttrOr("w:footer", ooxml.Twips(page.Footer)),
			"w:gutter", old.AttrOr("w:gutter", "0"),
		))
		if sp.Child("w:pgSz") == nil {
			sp.Insert(ooxml.NewElement("w:pgSz",
				"w:w", ooxml.Twips(page.Width),
				"w:h", ooxml.Twips(page.Height),
			))
		}
	}
	return len(sections)
}

// ensurePageNumbers makes the final section's default header carry a PAGE
// field. A document without a default header gets a new header part. An
// existing header is never overwritten; the result reports whether the
// header shows page numbers.
func (f *Formatter) ensurePageNumbers(doc *ooxml.Document) (bool, error) {
	pkg := doc.Package()
	sp := doc.FinalSection()

	for _, ref := range sp.Elements("w:headerReference") {
		if ref.AttrOr("w:type", "default") != "default" {
			continue
		}
		return headerHasPageField(pkg, ref.AttrOr("r:id", ""))
	}

	name := nextHeaderName(pkg)
	pkg.SetXML(name, ooxml.PageNumberHeader(f.rules.MustDirective(model.RoleBody)))
	if err := pkg.SetContentTypeOverride(name, ooxml.ContentTypeHeader); err != nil {
		return false, err
	}
	id, err := pkg.AddRelationship(ooxml.DocumentPart, ooxml.RelTypeHeader, path.Base(name))
	if err != nil {
		return false, err
	}

	root := doc.Body().Parent
	if _, ok := root.Attr("xmlns:r"); !ok {
		root.SetAttr("xmlns:r", ooxml.NSR)
	}
	sp.Insert(ooxml.NewElement("w:headerReference", "w:type", "default", "r:id", id))
	return true, nil
}

func headerHasPageField(pkg *ooxml.Package, id string) (bool, error) {
	rels, err := pkg.Relationships(ooxml.DocumentPart, ooxml.RelTypeHeader)
	if err != nil {
		return false, err
	}
	target, ok := rels[id]
	if !ok {
		return false, fmt.Errorf("%w: header relationship %q not found", model.ErrInvalidDocument, id)
	}
	name := resolveTarget(ooxml.DocumentPart, target)
	if !pkg.Has(name) {
		return false, fmt.Errorf("%w: header part %s not found", model.ErrInvalidDocument, name)
	}
	hdr, err := pkg.XML(name)
	if err != nil {
		return false, err
	}
	return ooxml.HasPageField(hdr), nil
}

// resolveTarget turns a relationship target into a part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

func nextHeaderName(pkg *ooxml.Package) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("word/header%d.xml", i)
		if !pkg.Has(name) {
			return name
		}
	}
}
