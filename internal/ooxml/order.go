package ooxml

// WordprocessingML property containers are xsd:sequence types: Word rejects
// a document whose property children are out of order. schemaOrder lists
// the sequence for every container this package edits.
var schemaOrder = map[string][]string{
	"w:pPr": {
		"w:pStyle", "w:keepNext", "w:keepLines", "w:pageBreakBefore", "w:framePr",
		"w:widowControl", "w:numPr", "w:suppressLineNumbers", "w:pBdr", "w:shd",
		"w:tabs", "w:suppressAutoHyphens", "w:kinsoku", "w:wordWrap",
		"w:overflowPunct", "w:topLinePunct", "w:autoSpaceDE", "w:autoSpaceDN",
		"w:bidi", "w:adjustRightInd", "w:snapToGrid", "w:spacing", "w:ind",
		"w:contextualSpacing", "w:mirrorIndents", "w:suppressOverlap", "w:jc",
		"w:textDirection", "w:textAlignment", "w:textboxTightWrap",
		"w:outlineLvl", "w:divId", "w:cnfStyle", "w:rPr", "w:sectPr",
		"w:pPrChange",
	},
	"w:rPr": {
		"w:rStyle", "w:rFonts", "w:b", "w:bCs", "w:i", "w:iCs", "w:caps",
		"w:smallCaps", "w:strike", "w:dstrike", "w:outline", "w:shadow",
		"w:emboss", "w:imprint", "w:noProof", "w:snapToGrid", "w:vanish",
		"w:webHidden", "w:color", "w:spacing", "w:w", "w:kern", "w:position",
		"w:sz", "w:szCs", "w:highlight", "w:u", "w:effect", "w:bdr", "w:shd",
		"w:fitText", "w:vertAlign", "w:rtl", "w:cs", "w:em", "w:lang",
		"w:eastAsianLayout", "w:specVanish", "w:oMath",
	},
	"w:tblPr": {
		"w:tblStyle", "w:tblpPr", "w:tblOverlap", "w:bidiVisual",
		"w:tblStyleRowBandSize", "w:tblStyleColBandSize", "w:tblW", "w:jc",
		"w:tblCellSpacing", "w:tblInd", "w:tblBorders", "w:shd", "w:tblLayout",
		"w:tblCellMar", "w:tblLook", "w:tblCaption", "w:tblDescription",
	},
	"w:tcPr": {
		"w:cnfStyle", "w:tcW", "w:gridSpan", "w:hMerge", "w:vMerge",
		"w:tcBorders", "w:shd", "w:noWrap", "w:tcMar", "w:textDirection",
		"w:tcFitText", "w:vAlign", "w:hideMark",
	},
	"w:sectPr": {
		"w:headerReference", "w:footerReference", "w:footnotePr", "w:endnotePr",
		"w:type", "w:pgSz", "w:pgMar", "w:paperSrc", "w:pgBorders",
		"w:lnNumType", "w:pgNumType", "w:cols", "w:formProt", "w:vAlign",
		"w:noEndnote", "w:titlePg", "w:textDirection", "w:bidi", "w:rtlGutter",
		"w:docGrid", "w:printerSettings", "w:sectPrChange",
	},
	"w:tblBorders": {"w:top", "w:left", "w:start", "w:bottom", "w:right", "w:end", "w:insideH", "w:insideV"},
	"w:tcBorders":  {"w:top", "w:left", "w:start", "w:bottom", "w:right", "w:end", "w:insideH", "w:insideV", "w:tl2br", "w:tr2bl"},
	"w:tblCellMar": {"w:top", "w:left", "w:start", "w:bottom", "w:right", "w:end"},
	"w:tcMar":      {"w:top", "w:left", "w:start", "w:bottom", "w:right", "w:end"},
	"w:style": {
		"w:name", "w:aliases", "w:basedOn", "w:next", "w:link", "w:autoRedefine",
		"w:hidden", "w:uiPriority", "w:semiHidden", "w:unhideWhenUsed",
		"w:qFormat", "w:locked", "w:personal", "w:personalCompose",
		"w:personalReply", "w:rsid", "w:pPr", "w:rPr", "w:tblPr", "w:trPr",
		"w:tcPr", "w:tblStylePr",
	},
	// first-class children of a paragraph and a run
	"w:p":   {"w:pPr"},
	"w:r":   {"w:rPr"},
	"w:tc":  {"w:tcPr"},
	"w:tbl": {"w:tblPr", "w:tblGrid"},
}

func orderIndex(parent, child string) int {
	for i, name := range schemaOrder[parent] {
		if name == child {
			return i
		}
	}
	return -1
}

// insertOrdered inserts c among n's children at the position the schema
// sequence requires. Children not listed in the sequence are passed over.
func (n *Node) insertOrdered(c *Node) {
	idx := orderIndex(n.Name, c.Name)
	if idx < 0 {
		n.AppendChild(c)
		return
	}
	for i, existing := range n.Children {
		if existing.Type != ElementNode {
			continue
		}
		ei := orderIndex(n.Name, existing.Name)
		if ei > idx || (ei < 0 && isTrailingContent(n.Name)) {
			n.InsertChild(i, c)
			return
		}
	}
	n.AppendChild(c)
}

// isTrailingContent reports whether unlisted children of parent are content
// that must follow the listed properties (runs after w:pPr, text after w:rPr).
func isTrailingContent(parent string) bool {
	switch parent {
	case "w:p", "w:r", "w:tc", "w:tbl":
		return true
	}
	return false
}

// Ensure returns the child element with the given name, creating it at its
// schema position when absent.
func (n *Node) Ensure(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := NewElement(name)
	n.insertOrdered(c)
	return c
}

// Replace removes every child named like c and inserts c at its schema
// position.
func (n *Node) Replace(c *Node) *Node {
	n.RemoveElements(c.Name)
	n.insertOrdered(c)
	return c
}

// Insert adds c at its schema position without removing siblings of the
// same name.
func (n *Node) Insert(c *Node) *Node {
	n.insertOrdered(c)
	return c
}
