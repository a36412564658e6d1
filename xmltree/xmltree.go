// Package xmltree converts XML documents as a tree of Go structs.
//
// The xmltree package provides routines for accessing an XML document
// as a tree, along with functionality to resolve namespace-prefixed
// strings at any point in the tree. Trees may also be built from
// scratch with New and SetText, and written back out with Marshal;
// this is how SOAP payloads are assembled.
package xmltree // import "github.com/CognitoIQ/go-wsdl/xmltree"

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const recursionLimit = 3000

var errDeepXML = errors.New("xmltree: xml document too deeply nested")

// An Element represents a single element in an XML document. Elements
// may have zero or more children. The byte array used by the Content
// field is shared among all elements in the document, and should not
// be modified. An Element also captures xml namespace prefixes, so
// that arbitrary QNames in attribute values can be resolved.
type Element struct {
	xml.StartElement
	// The raw inner XML of the element. For elements created
	// with New, Content holds escaped character data.
	Content  []byte
	Children []Element
	// A list of defined XML namespace prefixes, from least specific to
	// most specific. The Space field is the canonical xml namespace,
	// and the Local field is the prefix.
	Scope []xml.Name
}

// New creates an empty Element with the given name. An Element with
// an empty namespace inherits the default namespace of its parent
// when it is encoded.
func New(space, local string) Element {
	return Element{StartElement: xml.StartElement{
		Name: xml.Name{Space: space, Local: local},
	}}
}

// SetText replaces the contents of an Element with the character
// data s. Any children are removed.
func (el *Element) SetText(s string) {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	el.Content = buf.Bytes()
	el.Children = nil
}

// Text returns the character data directly contained by the Element,
// with entities and CDATA sections decoded. Text inside child
// elements is not included.
func (el *Element) Text() string {
	if len(el.Content) == 0 {
		return ""
	}
	if bytes.IndexAny(el.Content, "<&") < 0 {
		return string(el.Content)
	}
	var buf strings.Builder
	d := xml.NewDecoder(bytes.NewReader(el.Content))
	d.Strict = false
	depth := 0
	for {
		tok, err := d.RawToken()
		if err != nil {
			break
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				buf.Write(tok)
			}
		}
	}
	return buf.String()
}

// Attr gets the value of the first attribute whose name matches the
// space and local arguments. If space is the empty string, only
// attributes' local names are considered when looking for a match.
// If an attribute could not be found, the empty string is returned.
func (el *Element) Attr(space, local string) string {
	v, _ := el.LookupAttr(space, local)
	return v
}

// LookupAttr is like Attr, but its second return value reports
// whether the attribute was present at all.
func (el *Element) LookupAttr(space, local string) (string, bool) {
	for _, v := range el.StartElement.Attr {
		if v.Name.Local != local {
			continue
		}
		if space == "" || space == v.Name.Space {
			return v.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child of the Element whose name
// matches space and local, or nil. If space is the empty string,
// any namespace is matched.
func (el *Element) Child(space, local string) *Element {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Local == local && (space == "" || c.Name.Space == space) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child of the Element whose name
// matches space and local. If space is the empty string, any
// namespace is matched.
func (el *Element) ChildrenNamed(space, local string) []*Element {
	var result []*Element
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Local == local && (space == "" || c.Name.Space == space) {
			result = append(result, c)
		}
	}
	return result
}

// Unmarshal parses the XML encoding of the Element and stores the
// result in the value pointed to by v. Unmarshal follows the same
// rules as xml.Unmarshal, but only parses the portion of the XML
// document contained by the Element. Modifications made to the tree
// after it was parsed are respected.
func Unmarshal(el *Element, v interface{}) error {
	return xml.Unmarshal(Marshal(el), v)
}

// Resolve translates an XML QName (namespace-prefixed string) to an
// xml.Name with a canonicalized namespace in its Space field.  This can
// be used when working with XSD documents, which put QNames in attribute
// values. If qname does not have a prefix, the default namespace is used.If
// a namespace prefix cannot be resolved, the returned value's Space field
// will be the unresolved prefix. Use the ResolveNS function to detect when
// a namespace prefix cannot be resolved.
func (el *Element) Resolve(qname string) xml.Name {
	name, _ := el.ResolveNS(qname)
	return name
}

// The ResolveNS method is like Resolve, but returns false for its second
// return value if a namespace prefix cannot be resolved.
func (el *Element) ResolveNS(qname string) (xml.Name, bool) {
	var prefix, local string
	parts := strings.SplitN(qname, ":", 2)
	if len(parts) == 2 {
		prefix, local = parts[0], parts[1]
	} else {
		prefix, local = "", parts[0]
	}
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Local == prefix {
			return xml.Name{Space: el.Scope[i].Space, Local: local}, true
		}
	}
	return xml.Name{Space: prefix, Local: local}, false
}

// ResolveDefault is like Resolve, but allows for the default namespace to
// be overridden. The namespace of strings without a namespace prefix
// (known as an NCName in XML terminology) will be defaultns.
func (el *Element) ResolveDefault(qname, defaultns string) xml.Name {
	if defaultns == "" || strings.Contains(qname, ":") {
		return el.Resolve(qname)
	}
	return xml.Name{Space: defaultns, Local: qname}
}

// Prefix is the inverse of Resolve. It uses the closest prefix
// defined for a namespace to create a string of the form
// prefix:local. If the namespace cannot be found, an empty string
// is returned.
func (el *Element) Prefix(name xml.Name) (qname string) {
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Space == name.Space {
			if el.Scope[i].Local == "" {
				return name.Local
			}
			return el.Scope[i].Local + ":" + name.Local
		}
	}
	return ""
}

func (el *Element) pushNS(tag xml.StartElement) {
	var scope []xml.Name
	for _, attr := range tag.Attr {
		if attr.Name.Space == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value, Local: attr.Name.Local})
		} else if attr.Name.Local == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value})
		}
	}
	if len(scope) > 0 {
		el.Scope = append(el.Scope, scope...)
		// Ensure that future additions to the scope create
		// a new backing array. This prevents the scope from
		// being clobbered during parsing.
		el.Scope = el.Scope[:len(el.Scope):len(el.Scope)]
	}
}

// Save some typing when scanning xml
type scanner struct {
	*xml.Decoder
	tok xml.Token
	err error
}

func (s *scanner) scan() bool {
	if s.err != nil {
		return false
	}
	s.tok, s.err = s.Token()
	return s.err == nil
}

// Parse builds a tree of Elements by reading an XML document.  The
// byte slice passed to Parse is expected to be a valid XML document
// with a single root element. Documents declaring an encoding other
// than UTF-8 are converted to UTF-8 first, so the Content of every
// Element is always UTF-8.
func Parse(doc []byte) (*Element, error) {
	doc, err := toUTF8(doc)
	if err != nil {
		return nil, err
	}
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.CharsetReader = keepCharset
	scanner := scanner{Decoder: d}
	root := new(Element)

	for scanner.scan() {
		if start, ok := scanner.tok.(xml.StartElement); ok {
			root.StartElement = start
			break
		}
	}
	if scanner.err != nil {
		return nil, scanner.err
	}
	if err := root.parse(&scanner, doc, 0); err != nil {
		return nil, err
	}
	return root, nil
}

// The document has already been converted; the declaration is
// left as-is.
func keepCharset(label string, r io.Reader) (io.Reader, error) {
	return r, nil
}

// toUTF8 converts doc to UTF-8 if its XML declaration names another
// encoding.
func toUTF8(doc []byte) ([]byte, error) {
	var label string
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.CharsetReader = func(l string, r io.Reader) (io.Reader, error) {
		label = l
		return r, nil
	}
	for {
		tok, err := d.RawToken()
		if err != nil {
			// Let the real parse report it.
			return doc, nil
		}
		if _, ok := tok.(xml.StartElement); ok {
			break
		}
	}
	if label == "" {
		return doc, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (el *Element) parse(scanner *scanner, data []byte, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	el.pushNS(el.StartElement)

	begin := scanner.InputOffset()
	end := begin
walk:
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			child := Element{StartElement: tok.Copy(), Scope: el.Scope}
			if err := child.parse(scanner, data, depth+1); err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			if tok.Name != el.Name {
				return fmt.Errorf("Expecting </%s>, got </%s>", el.Prefix(el.Name), el.Prefix(tok.Name))
			}
			el.Content = data[int(begin):int(end)]
			break walk
		}
		end = scanner.InputOffset()
	}
	return scanner.err
}

// The walk method calls the walkFunc for each of the Element's children.
func (el *Element) walk(fn walkFunc) {
	for i := 0; i < len(el.Children); i++ {
		fn(&el.Children[i])
	}
}

// SetAttr adds an XML attribute to an Element's existing Attributes.
// If the attribute already exists, it is replaced.
func (el *Element) SetAttr(space, local, value string) {
	for i, a := range el.StartElement.Attr {
		if a.Name.Local != local {
			continue
		}
		if space == "" || a.Name.Space == space {
			el.StartElement.Attr[i].Value = value
			return
		}
	}
	el.StartElement.Attr = append(el.StartElement.Attr, xml.Attr{
		Name:  xml.Name{Space: space, Local: local},
		Value: value,
	})
}

// walkFunc is the type of the function called for each of an Element's
// children.
type walkFunc func(*Element)

// SearchFunc traverses the Element tree in depth-first order and returns
// a slice of Elements for which the function fn returns true.
func (root *Element) SearchFunc(fn func(*Element) bool) []*Element {
	var results []*Element
	var search func(el *Element)

	search = func(el *Element) {
		if fn(el) {
			results = append(results, el)
		}
		el.walk(search)
	}
	root.walk(search)
	return results
}

// Search searches the Element tree for Elements with an xml tag
// matching the name and xml namespace. If space is the empty string,
// any namespace is matched.
func (root *Element) Search(space, local string) []*Element {
	return root.SearchFunc(func(el *Element) bool {
		if local != el.Name.Local {
			return false
		}
		return space == "" || space == el.Name.Space
	})
}

// Find returns the first Element below root, in depth-first order,
// whose name matches space and local, or nil.
func (root *Element) Find(space, local string) *Element {
	var found *Element
	var search func(el *Element) bool
	search = func(el *Element) bool {
		for i := range el.Children {
			c := &el.Children[i]
			if c.Name.Local == local && (space == "" || c.Name.Space == space) {
				found = c
				return true
			}
			if search(c) {
				return true
			}
		}
		return false
	}
	search(root)
	return found
}
