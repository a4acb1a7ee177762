package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/apa7/internal/model"
)

// Well-known part names.
const (
	ContentTypesPart = "[Content_Types].xml"
	PackageRelsPart  = "_rels/.rels"
	DocumentPart     = "word/document.xml"
	DocumentRelsPart = "word/_rels/document.xml.rels"
	StylesPart       = "word/styles.xml"
	SettingsPart     = "word/settings.xml"
	CorePropsPart    = "docProps/core.xml"
	AppPropsPart     = "docProps/app.xml"
)

// Namespaces and relationship types.
const (
	NSW             = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelTypeHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"

	ContentTypeHeader = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
)

// fixedModTime is stamped on every written entry so output is reproducible.
var fixedModTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

type part struct {
	name string
	data []byte
}

// Package is an in-memory word-processing package. Part order is kept so a
// saved package lists its entries the way the source did.
type Package struct {
	parts []*part
	index map[string]*part
}

// New creates an empty package.
func New() *Package {
	return &Package{index: make(map[string]*part)}
}

// Open reads a .docx file.
func Open(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrInputNotFound, filename)
		}
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return Read(data)
}

// Read parses a package from bytes and checks the parts every
// word-processing document must carry.
func Read(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", model.ErrInvalidDocument, err)
	}

	p := New()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", model.ErrInvalidDocument, f.Name, err)
		}
		p.SetPart(f.Name, content)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) validate() error {
	for _, name := range []string{ContentTypesPart, DocumentPart} {
		if !p.Has(name) {
			return fmt.Errorf("%w: missing required file: %s", model.ErrInvalidDocument, name)
		}
	}
	return nil
}

// Has reports whether the package contains a part.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Names returns the part names in package order.
func (p *Package) Names() []string {
	names := make([]string, len(p.parts))
	for i, pt := range p.parts {
		names[i] = pt.name
	}
	return names
}

// Part returns the raw bytes of a part.
func (p *Package) Part(name string) ([]byte, bool) {
	pt, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return pt.data, true
}

// SetPart replaces a part, or appends it when new.
func (p *Package) SetPart(name string, data []byte) {
	if pt, ok := p.index[name]; ok {
		pt.data = data
		return
	}
	pt := &part{name: name, data: data}
	p.parts = append(p.parts, pt)
	p.index[name] = pt
}

// XML parses a part into a node tree.
func (p *Package) XML(name string) (*Node, error) {
	data, ok := p.Part(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing part %s", model.ErrInvalidDocument, name)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidDocument, name, err)
	}
	return doc, nil
}

// SetXML serialises a node tree into a part.
func (p *Package) SetXML(name string, doc *Node) {
	p.SetPart(name, Marshal(doc))
}

// WriteTo writes the package as a zip archive. The content types part is
// always written first.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	ordered := make([]*part, 0, len(p.parts))
	if ct, ok := p.index[ContentTypesPart]; ok {
		ordered = append(ordered, ct)
	}
	for _, pt := range p.parts {
		if pt.name != ContentTypesPart {
			ordered = append(ordered, pt)
		}
	}

	for _, pt := range ordered {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pt.name,
			Method:   zip.Deflate,
			Modified: fixedModTime,
		})
		if err != nil {
			return cw.n, fmt.Errorf("create %s: %w", pt.name, err)
		}
		if _, err := fw.Write(pt.data); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("close archive: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the package as a zip archive.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package to filename. The file is written next to its
// destination and renamed into place, so a failed save leaves no partial
// output behind.
func (p *Package) Save(filename string) (err error) {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = p.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// SetContentTypeOverride registers the content type of a part in
// [Content_Types].xml.
func (p *Package) SetContentTypeOverride(partName, contentType string) error {
	doc, err := p.XML(ContentTypesPart)
	if err != nil {
		return err
	}
	root := doc.Root()
	target := "/" + strings.TrimPrefix(partName, "/")
	for _, o := range root.Elements("Override") {
		if o.AttrOr("PartName", "") == target {
			o.SetAttr("ContentType", contentType)
			p.SetXML(ContentTypesPart, doc)
			return nil
		}
	}
	root.AppendChild(NewElement("Override", "PartName", target, "ContentType", contentType))
	p.SetXML(ContentTypesPart, doc)
	return nil
}

// RelsPartFor returns the relationships part name of a source part.
func RelsPartFor(source string) string {
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// AddRelationship adds a relationship from source to target and returns
// its id. An existing relationship with the same type and target is reused.
func (p *Package) AddRelationship(source, relType, target string) (string, error) {
	relsName := RelsPartFor(source)

	var doc *Node
	if p.Has(relsName) {
		var err error
		if doc, err = p.XML(relsName); err != nil {
			return "", err
		}
	} else {
		doc = &Node{Type: DocumentNode}
		doc.AppendChild(&Node{Type: ProcInstNode, Name: "xml", Data: `version="1.0" encoding="UTF-8" standalone="yes"`})
		doc.AppendChild(NewElement("Relationships", "xmlns", NSRelationships))
	}
	root := doc.Root()

	used := make(map[string]bool)
	for _, rel := range root.Elements("Relationship") {
		id := rel.AttrOr("Id", "")
		if rel.AttrOr("Type", "") == relType && rel.AttrOr("Target", "") == target {
			return id, nil
		}
		used[id] = true
	}

	id := ""
	for i := 1; ; i++ {
		id = "rId" + strconv.Itoa(i)
		if !used[id] {
			break
		}
	}
	root.AppendChild(NewElement("Relationship", "Id", id, "Type", relType, "Target", target))
	p.SetXML(relsName, doc)
	return id, nil
}

// Relationships returns id → target for the relationships of type relType
// declared by source.
func (p *Package) Relationships(source, relType string) (map[string]string, error) {
	relsName := RelsPartFor(source)
	out := make(map[string]string)
	if !p.Has(relsName) {
		return out, nil
	}
	doc, err := p.XML(relsName)
	if err != nil {
		return nil, err
	}
	for _, rel := range doc.Root().Elements("Relationship") {
		if rel.AttrOr("Type", "") == relType {
			out[rel.AttrOr("Id", "")] = rel.AttrOr("Target", "")
		}
	}
	return out, nil
}
