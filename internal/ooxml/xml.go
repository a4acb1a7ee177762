package ooxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse builds a node tree from an XML part. The returned node is a
// DocumentNode holding the prolog and the document element.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	doc := &Node{Type: DocumentNode}
	cur := doc

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{Type: ElementNode, Name: qualify(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: qualify(a.Name), Value: a.Value})
			}
			cur.AppendChild(el)
			cur = el
		case xml.EndElement:
			if cur.Type != ElementNode || cur.Name != qualify(t.Name) {
				return nil, fmt.Errorf("parse xml: unexpected end element %s", qualify(t.Name))
			}
			cur = cur.Parent
		case xml.CharData:
			if cur == doc {
				// whitespace between prolog and root is not kept
				continue
			}
			cur.AppendChild(&Node{Type: TextNode, Data: string(t)})
		case xml.Comment:
			cur.AppendChild(&Node{Type: CommentNode, Data: string(t)})
		case xml.ProcInst:
			cur.AppendChild(&Node{Type: ProcInstNode, Name: t.Target, Data: string(t.Inst)})
		case xml.Directive:
			cur.AppendChild(&Node{Type: DirectiveNode, Data: string(t)})
		}
	}

	if cur != doc {
		return nil, fmt.Errorf("parse xml: unclosed element %s", cur.Name)
	}
	if doc.Root() == nil {
		return nil, errors.New("parse xml: no document element")
	}
	return doc, nil
}

func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;",
	)
)

// Marshal serialises a node tree back to bytes.
func Marshal(n *Node) []byte {
	var buf bytes.Buffer
	write(&buf, n)
	return buf.Bytes()
}

func write(buf *bytes.Buffer, n *Node) {
	switch n.Type {
	case DocumentNode:
		for i, c := range n.Children {
			write(buf, c)
			if c.Type == ProcInstNode && i+1 < len(n.Children) {
				buf.WriteString("\r\n")
			}
		}
	case ElementNode:
		buf.WriteByte('<')
		buf.WriteString(n.Name)
		for _, a := range n.Attrs {
			buf.WriteByte(' ')
			buf.WriteString(a.Name)
			buf.WriteString(`="`)
			attrEscaper.WriteString(buf, a.Value)
			buf.WriteByte('"')
		}
		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			write(buf, c)
		}
		buf.WriteString("</")
		buf.WriteString(n.Name)
		buf.WriteByte('>')
	case TextNode:
		textEscaper.WriteString(buf, n.Data)
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Data)
		buf.WriteString("-->")
	case ProcInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.Name)
		if n.Data != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Data)
		}
		buf.WriteString("?>")
	case DirectiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.Data)
		buf.WriteByte('>')
	}
}
