package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const xmlURL = "http://www.w3.org/XML/1998/namespace"

// Marshal produces the XML encoding of an Element
// as a self-contained document. The xmltree package
// may adjust the declarations of XML namespaces if
// the Element has been modified, or is part of a larger
// scope, such that the document produced by Marshal
// is a valid XML document.
func Marshal(el *Element) []byte {
	var buf bytes.Buffer
	if err := Encode(&buf, el); err != nil {
		// bytes.Buffer.Write should never return an error
		panic(err)
	}
	return buf.Bytes()
}

// MarshalIndent is like Marshal, but adds line breaks and
// indentation before each child element, and a trailing newline.
// Character data is written unchanged.
func MarshalIndent(el *Element, prefix, indent string) []byte {
	var buf bytes.Buffer
	enc := encoder{w: bufio.NewWriter(&buf), prefix: prefix, indent: indent, pretty: true}
	if err := enc.encode(el, nil, 0); err != nil {
		panic(err)
	}
	enc.w.WriteByte('\n')
	if err := enc.w.Flush(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Encode writes the XML encoding of the Element to w.
// Encode returns any errors encountered writing to w.
func Encode(w io.Writer, el *Element) error {
	enc := encoder{w: bufio.NewWriter(w)}
	if err := enc.encode(el, nil, 0); err != nil {
		return err
	}
	return enc.w.Flush()
}

type encoder struct {
	w              *bufio.Writer
	prefix, indent string
	pretty         bool
}

// lookupPrefix finds the innermost prefix bound to ns that has not
// been shadowed by a later declaration.
func lookupPrefix(scope []xml.Name, ns string) (string, bool) {
	shadowed := make(map[string]bool)
	for i := len(scope) - 1; i >= 0; i-- {
		decl := scope[i]
		if shadowed[decl.Local] {
			continue
		}
		if decl.Space == ns {
			return decl.Local, true
		}
		shadowed[decl.Local] = true
	}
	return "", false
}

func lookupNS(scope []xml.Name, prefix string) (string, bool) {
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i].Local == prefix {
			return scope[i].Space, true
		}
	}
	return "", false
}

// This could be used to print a subset of an XML document,
// or a document that has been modified. In such an event,
// namespace declarations must be "pulled" in, so they can
// be resolved properly. Declarations are emitted only where
// the enclosing scope does not already provide them.
func (e *encoder) encode(el *Element, scope []xml.Name, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	scope = scope[:len(scope):len(scope)]

	var decls []xml.Name
	declare := func(name xml.Name) {
		decls = append(decls, name)
		scope = append(scope, name)
	}
	for _, ns := range el.Scope {
		if have, ok := lookupNS(scope, ns.Local); !ok || have != ns.Space {
			declare(ns)
		}
	}

	tag := el.Name.Local
	if el.Name.Space != "" {
		if p, ok := lookupPrefix(scope, el.Name.Space); !ok {
			declare(xml.Name{Space: el.Name.Space})
		} else if p != "" {
			tag = p + ":" + tag
		}
	}

	if e.pretty && depth > 0 {
		e.newline(depth)
	}
	e.w.WriteByte('<')
	e.w.WriteString(tag)
	for _, attr := range el.StartElement.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		name := attr.Name.Local
		switch attr.Name.Space {
		case "":
		case xmlURL, "xml":
			name = "xml:" + name
		default:
			p, ok := lookupPrefix(scope, attr.Name.Space)
			if !ok || p == "" {
				p = fmt.Sprintf("ns%d", len(scope))
				declare(xml.Name{Space: attr.Name.Space, Local: p})
			}
			name = p + ":" + name
		}
		e.w.WriteByte(' ')
		e.w.WriteString(name)
		e.w.WriteString(`="`)
		xml.EscapeText(e.w, []byte(attr.Value))
		e.w.WriteByte('"')
	}
	for _, ns := range decls {
		e.w.WriteString(" xmlns")
		if ns.Local != "" {
			e.w.WriteByte(':')
			e.w.WriteString(ns.Local)
		}
		e.w.WriteString(`="`)
		xml.EscapeText(e.w, []byte(ns.Space))
		e.w.WriteByte('"')
	}

	if len(el.Children) == 0 && len(el.Content) == 0 {
		_, err := e.w.WriteString(" />")
		return err
	}
	e.w.WriteByte('>')
	if len(el.Children) == 0 {
		e.w.Write(el.Content)
	}
	for i := range el.Children {
		if err := e.encode(&el.Children[i], scope, depth+1); err != nil {
			return err
		}
	}
	if e.pretty && len(el.Children) > 0 {
		e.newline(depth)
	}
	e.w.WriteString("</")
	e.w.WriteString(tag)
	_, err := e.w.WriteString(">")
	return err
}

func (e *encoder) newline(depth int) {
	e.w.WriteByte('\n')
	e.w.WriteString(e.prefix)
	for i := 0; i < depth; i++ {
		e.w.WriteString(e.indent)
	}
}
