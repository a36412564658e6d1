package xsd

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

// Parse reads the type declarations below root. root may be a
// <schema> element, or an element whose children are <schema>
// elements, such as the <types> section of a WSDL document. Schemas
// without a targetNamespace attribute use targetNS.
//
// Declarations from every schema are merged into one map. When a
// qualified name is declared twice, the later declaration replaces
// the earlier one and a warning is logged, unless the
// RejectDuplicateTypes option is set.
func Parse(root *xmltree.Element, targetNS string, opts ...Option) (*Schema, error) {
	var cfg Config
	cfg.Option(opts...)
	return cfg.Parse(root, targetNS)
}

// Parse is like the package-level Parse function, but uses the
// options in cfg.
func (cfg *Config) Parse(root *xmltree.Element, targetNS string) (schema *Schema, err error) {
	defer catchParseError(&err)

	p := parser{cfg: cfg, schema: &Schema{Types: make(map[xml.Name]Type)}}
	if root.Name == (xml.Name{Space: schemaNS, Local: "schema"}) {
		p.parseSchema(root, targetNS)
	} else {
		walk(root, func(el *xmltree.Element) {
			if el.Name.Local == "schema" {
				p.parseSchema(el, targetNS)
			}
		})
	}
	p.placeHoisted()
	return p.schema, nil
}

type parser struct {
	cfg    *Config
	schema *Schema
	// Anonymous field types, in document order. They are named
	// once every declaration is known.
	hoisted []hoist
}

// An anonymous type found in the field of a complex type.
type hoist struct {
	owner *ComplexType
	field string
	// the name the type would like: that of its field
	want xml.Name
	typ  Type
}

func (p *parser) add(name xml.Name, t Type) {
	if _, ok := p.schema.Types[name]; ok {
		if p.cfg.strict {
			stop(&DuplicateTypeError{Name: name})
		}
		p.cfg.warnf("type %s is declared more than once; the last declaration wins", Ref(name))
	}
	p.cfg.debugf("parsed %T %s", t, Ref(name))
	p.schema.Types[name] = t
}

func (p *parser) parseSchema(root *xmltree.Element, outerNS string) {
	tns := root.Attr("", "targetNamespace")
	if tns == "" {
		tns = outerNS
	}
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "element":
			name := requireName(el, tns)
			t := p.parseTopElement(el, tns, name)
			// <element name="X" type="tns:X"/> declares nothing new
			if s, ok := t.(*Simple); ok && s.Base == SimpleType(Ref(name)) {
				p.cfg.debugf("element %s has the type of the same name", Ref(name))
				return
			}
			p.add(name, t)
		case "complexType":
			name := requireName(el, tns)
			p.add(name, p.parseComplexType(el, tns, name))
		case "simpleType":
			name := requireName(el, tns)
			p.add(name, p.parseSimpleType(el, tns, name))
		case "import":
			ns, ok := el.LookupAttr("", "namespace")
			if !ok {
				stop(attributeNotFound("namespace"))
			}
			p.schema.Imports = append(p.schema.Imports, ns)
		case "annotation":
		default:
			p.cfg.logf("schema %s: skipping unsupported top-level <%s>", tns, el.Name.Local)
		}
	})
}

func requireName(el *xmltree.Element, tns string) xml.Name {
	name, ok := el.LookupAttr("", "name")
	if !ok || name == "" {
		stop(attributeNotFound("name"))
	}
	return xml.Name{Space: tns, Local: name}
}

// A top-level element is an inline type, or an alias for a named
// type.
func (p *parser) parseTopElement(el *xmltree.Element, tns string, name xml.Name) Type {
	if t := p.parseInlineType(el, tns, name); t != nil {
		return t
	}
	if typ, ok := el.LookupAttr("", "type"); ok {
		return &Simple{
			Name: name,
			Base: parseType(el.ResolveDefault(typ, tns)),
			Doc:  annotationText(el),
		}
	}
	stop(&SchemaError{Kind: Empty, Name: name.Local})
	return nil
}

// parseInlineType parses the first anonymous complexType or
// simpleType child of el, if any, as the type called name.
func (p *parser) parseInlineType(el *xmltree.Element, tns string, name xml.Name) Type {
	var t Type
	walk(el, func(child *xmltree.Element) {
		if t != nil {
			return
		}
		switch child.Name.Local {
		case "complexType":
			t = p.parseComplexType(child, tns, name)
		case "simpleType":
			t = p.parseSimpleType(child, tns, name)
		}
	})
	return t
}

func (p *parser) parseComplexType(root *xmltree.Element, tns string, name xml.Name) Type {
	t := &ComplexType{Name: name, Fields: make(map[string]Field)}
	dataset := false
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "sequence":
			if isDataSet(el) {
				dataset = true
				return
			}
			p.parseSequence(t, el, tns)
		case "annotation":
			t.Doc = annotationText(root)
		default:
			p.cfg.logf("%s: skipping <%s>; only <sequence> is supported in complex types",
				Ref(name), el.Name.Local)
		}
	})
	if dataset {
		p.cfg.debugf("%s is a DataSet", Ref(name))
		return Template{Name: name}
	}
	return t
}

func (p *parser) parseSequence(t *ComplexType, seq *xmltree.Element, tns string) {
	walk(seq, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "element":
			f := p.parseField(el, tns, t)
			if _, ok := t.Fields[f.Name]; ok {
				p.cfg.warnf("%s: field %q is declared more than once", Ref(t.Name), f.Name)
			}
			t.Fields[f.Name] = f
		case "annotation":
		default:
			p.cfg.logf("%s: skipping <%s> in sequence", Ref(t.Name), el.Name.Local)
		}
	})
}

func (p *parser) parseField(el *xmltree.Element, tns string, owner *ComplexType) Field {
	attr := parseAttribute(el)
	doc := annotationText(el)

	if ref, ok := el.LookupAttr("", "ref"); ok {
		target := el.ResolveDefault(ref, tns)
		return Field{Name: target.Local, Attr: attr, Type: parseType(target), Doc: doc}
	}
	name, ok := el.LookupAttr("", "name")
	if !ok || name == "" {
		stop(attributeNotFound("name"))
	}
	if typ, ok := el.LookupAttr("", "type"); ok {
		return Field{Name: name, Attr: attr, Type: parseType(el.ResolveDefault(typ, tns)), Doc: doc}
	}

	// Anonymous types are hoisted out of the field. Their final
	// name is chosen by placeHoisted; the slot is taken first so
	// that outer types are named before the types nested in them.
	i := len(p.hoisted)
	want := xml.Name{Space: tns, Local: name}
	p.hoisted = append(p.hoisted, hoist{owner: owner, field: name, want: want})
	inline := p.parseInlineType(el, tns, want)
	if inline == nil {
		stop(attributeNotFound("type"))
	}
	p.hoisted[i].typ = inline
	return Field{Name: name, Attr: attr, Doc: doc}
}

// placeHoisted declares the anonymous field types. Each is named
// after its field, unless a declared type or an earlier anonymous
// type has that name, in which case it is called Owner_field. A
// number is appended if that is taken too.
func (p *parser) placeHoisted() {
	placed := make(map[SimpleType]bool)
	for _, h := range p.hoisted {
		name := h.want
		if _, taken := p.schema.Types[name]; taken || name == h.owner.Name {
			base := h.owner.Name.Local + "_" + h.field
			name.Local = base
			for i := 2; p.schema.Types[name] != nil; i++ {
				name.Local = base + strconv.Itoa(i)
			}
			p.cfg.logf("%s: the type of field %s is called %s", Ref(h.owner.Name), h.field, name.Local)
		}
		p.cfg.debugf("parsed %T %s", h.typ, Ref(name))
		p.schema.Types[name] = rename(h.typ, name)

		// A field declared twice keeps its last declaration.
		if f := h.owner.Fields[h.field]; f.Type == nil || placed[f.Type] {
			f.Type = Ref(name)
			h.owner.Fields[h.field] = f
		}
		placed[Ref(name)] = true
	}
}

func rename(t Type, name xml.Name) Type {
	switch t := t.(type) {
	case *ComplexType:
		t.Name = name
	case *Simple:
		t.Name = name
	case Template:
		return Template{Name: name}
	}
	return t
}

func (p *parser) parseSimpleType(root *xmltree.Element, tns string, name xml.Name) Type {
	var t *Simple
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
		case "restriction":
			if t != nil {
				return
			}
			base, ok := el.LookupAttr("", "base")
			if !ok {
				stop(attributeNotFound("base"))
			}
			t = &Simple{Name: name, Base: parseType(el.ResolveDefault(base, tns))}
		default:
			stop(&SchemaError{Kind: Unsupported, Name: el.Name.Local})
		}
	})
	if t == nil {
		stop(&SchemaError{Kind: Empty, Name: name.Local})
	}
	t.Doc = annotationText(root)
	return t
}

// parseAttribute reads nillable, minOccurs and maxOccurs. When only
// one bound is given, the other takes its XML Schema default of 1.
func parseAttribute(el *xmltree.Element) TypeAttribute {
	a := TypeAttribute{
		Nillable:  parseBool(el, "nillable"),
		MinOccurs: parseOccurs(el, "minOccurs"),
		MaxOccurs: parseOccurs(el, "maxOccurs"),
	}
	switch {
	case a.MinOccurs == nil && a.MaxOccurs != nil:
		a.MinOccurs = Occurs(1)
	case a.MinOccurs != nil && a.MaxOccurs == nil:
		a.MaxOccurs = Occurs(1)
	}
	return a.Normalize()
}

func parseOccurs(el *xmltree.Element, attr string) *Occurrence {
	s, ok := el.LookupAttr("", attr)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "unbounded" {
		return Occurs(Unbounded)
	}
	n, err := strconv.Atoi(s)
	if err == nil && n < 0 {
		err = strconv.ErrRange
	}
	if err != nil {
		stop(&SchemaError{Kind: InvalidValue, Name: attr, Err: err})
	}
	return Occurs(Occurrence(n))
}

func parseBool(el *xmltree.Element, attr string) bool {
	switch s := strings.TrimSpace(el.Attr("", attr)); s {
	case "", "0", "false":
		return false
	case "1", "true":
		return true
	default:
		stop(&SchemaError{Kind: InvalidValue, Name: attr, Err: strconv.ErrSyntax})
	}
	return false
}

// annotationText joins the <documentation> inside the <annotation>
// children of el, separated by blank lines.
func annotationText(el *xmltree.Element) string {
	var docs []string
	for _, ann := range el.ChildrenNamed(schemaNS, "annotation") {
		for _, doc := range ann.ChildrenNamed(schemaNS, "documentation") {
			if text := strings.TrimSpace(doc.Text()); text != "" {
				docs = append(docs, text)
			}
		}
	}
	return strings.Join(docs, "\n\n")
}
