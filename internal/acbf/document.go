package acbf

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const (
	rootTag = "ACBF"

	nsACBF11 = "http://www.acbf.info/xml/acbf/1.1"
	nsACBF12 = "http://www.acbf.info/xml/acbf/1.2"

	// FileExtension identifies candidate metadata entries in an archive.
	FileExtension = ".acbf"

	// DefaultFileName is used when writing to an archive that has no
	// metadata entry yet.
	DefaultFileName = "comic_metadata.acbf"

	scanMarker = "[Scan]"
)

// parseDocument parses raw bytes into an XML document.
func parseDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return doc, nil
}

// validateRoot checks that root identifies a supported ACBF document.
// A wrong root tag fails as ErrNotACBF; a correct tag under an unknown
// namespace fails as ErrUnsupportedVersion.
func validateRoot(root *etree.Element) error {
	if root.Tag != rootTag {
		return fmt.Errorf("%w: root element is <%s>", ErrNotACBF, root.Tag)
	}
	switch ns := root.NamespaceURI(); ns {
	case "", nsACBF11, nsACBF12:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, ns)
	}
}

// stripNamespaces removes the namespace prefix from every element so all
// later lookups use plain tags. Running it twice is a no-op. This matches
// what the official ACBF editor does, and sidesteps prefix bookkeeping at
// the cost of collapsing any foreign namespaces into the document.
func stripNamespaces(e *etree.Element) {
	e.Space = ""
	var drop []string
	for _, a := range e.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			drop = append(drop, a.FullKey())
		}
	}
	for _, key := range drop {
		e.RemoveAttr(key)
	}
	for _, child := range e.ChildElements() {
		stripNamespaces(child)
	}
}

// loadDocument parses, validates and normalizes an ACBF entry in one step.
func loadDocument(data []byte) (*etree.Document, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	if err := validateRoot(doc.Root()); err != nil {
		return nil, err
	}
	stripNamespaces(doc.Root())
	return doc, nil
}

// isACBFBytes reports whether data parses and carries an ACBF root tag in
// any namespace. This is the cheap detection check; version screening
// happens in validateRoot.
func isACBFBytes(data []byte) bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return false
	}
	root := doc.Root()
	return root != nil && root.Tag == rootTag
}

// serializeRoot re-indents and renders the tree as UTF-8 XML with a
// declaration.
func serializeRoot(root *etree.Element) ([]byte, error) {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.SetRoot(root.Copy())
	out.Indent(2)
	data, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize ACBF document: %w", err)
	}
	return data, nil
}

// findDescendant returns the first element with the given tag anywhere
// under e, in document order.
func findDescendant(e *etree.Element, tag string) *etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findDescendant(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// elementText returns the trimmed text of e, or "" when e is nil.
func elementText(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text())
}

// clearElement empties an element in place: children, attributes and text
// are dropped but the element itself stays where it is.
func clearElement(e *etree.Element) {
	e.Child = nil
	e.Attr = nil
}
