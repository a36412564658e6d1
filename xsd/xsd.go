// Package xsd parses type declarations in XML Schema documents.
//
// The xsd package implements a parser for the subset of the XML Schema
// standard that appears in the types section of typical WSDL
// documents. This package is intended for use in code-generation
// programs for SOAP clients, and as such, does not validate XML Schema
// documents. Complex types are understood only as a sequence of
// elements; simple types only as a restriction of a base type.
//
// Types are kept in a flat map keyed by their qualified name. A type
// never contains another type; fields refer to other types by name
// through a Ref, so mutually recursive schemas pose no problem.
package xsd // import "github.com/CognitoIQ/go-wsdl/xsd"

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/CognitoIQ/go-wsdl/internal/ordered"
)

// Namespace is the XML Schema namespace. Built-in types are
// declared in it.
const Namespace = "http://www.w3.org/2001/XMLSchema"

const schemaNS = Namespace

// A SimpleType is the type of a field's content. It is either a
// Builtin or a Ref to a type declared in the schema.
type SimpleType interface {
	// just for compile-time type checking
	isSimpleType()
}

// A Ref refers to another type in the schema by its qualified name.
// It is a lookup key, not an ownership edge; the referenced type may
// not exist, or may refer back to the referring type.
type Ref xml.Name

func (Ref) isSimpleType() {}

func (r Ref) String() string {
	return "{" + r.Space + "}" + r.Local
}

// MarshalText renders a Ref as {namespace}local.
func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// An Occurrence is the value of a minOccurs or maxOccurs
// attribute. The special value Unbounded means a field may be
// repeated any number of times.
type Occurrence int

// Unbounded is the Occurrence of maxOccurs="unbounded".
const Unbounded Occurrence = -1

// Occurs returns a pointer to an Occurrence of n.
func Occurs(n Occurrence) *Occurrence {
	return &n
}

func (o Occurrence) String() string {
	if o == Unbounded {
		return "unbounded"
	}
	return strconv.Itoa(int(o))
}

// MarshalText renders an Occurrence the way it appears in a schema.
func (o Occurrence) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// A TypeAttribute holds the cardinality of a field. A nil MinOccurs
// or MaxOccurs means the bound was absent.
type TypeAttribute struct {
	Nillable  bool        `yaml:"nillable"`
	MinOccurs *Occurrence `yaml:"minOccurs,omitempty"`
	MaxOccurs *Occurrence `yaml:"maxOccurs,omitempty"`
}

func occursIs(o *Occurrence, n Occurrence) bool {
	return o != nil && *o == n
}

// Normalize collapses equivalent attribute combinations:
//
//	(nillable=false, min=1, max=1)         -> no bounds
//	(nillable=false, min=0, max=1)         -> nillable, no bounds
//	(nillable=true, min=0|1, max=unbounded) -> not nillable, min=0, max=unbounded
//
// A repeated field is never also an optional single value. Normalize
// is idempotent.
func (a TypeAttribute) Normalize() TypeAttribute {
	switch {
	case !a.Nillable && occursIs(a.MinOccurs, 1) && occursIs(a.MaxOccurs, 1):
		return TypeAttribute{}
	case !a.Nillable && occursIs(a.MinOccurs, 0) && occursIs(a.MaxOccurs, 1):
		return TypeAttribute{Nillable: true}
	case a.Nillable && (occursIs(a.MinOccurs, 0) || occursIs(a.MinOccurs, 1)) && occursIs(a.MaxOccurs, Unbounded):
		return TypeAttribute{MinOccurs: Occurs(0), MaxOccurs: Occurs(Unbounded)}
	}
	return a
}

// Repeated reports whether a field holds a list of values: both of
// its bounds are present.
func (a TypeAttribute) Repeated() bool {
	return a.MinOccurs != nil && a.MaxOccurs != nil
}

// A Field is one element in the sequence of a complex type.
type Field struct {
	// The tag of the element, as written in the schema.
	Name string        `yaml:"name"`
	Attr TypeAttribute `yaml:"attr"`
	Type SimpleType    `yaml:"type"`
	Doc  string        `yaml:"doc,omitempty"`
}

// A Type is one of *Simple, *ComplexType, Import, Template or Enum.
type Type interface {
	// just for compile-time type checking
	isType()
}

// A Simple type is a restriction of, or alias for, another type.
// Facets of the restriction are not kept.
type Simple struct {
	Name xml.Name
	Base SimpleType
	Doc  string
}

func (*Simple) isType() {}

// A ComplexType is a sequence of fields. Fields are stored by name;
// use Names to visit them in order.
type ComplexType struct {
	Name   xml.Name
	Fields map[string]Field
	Doc    string
}

func (*ComplexType) isType() {}

// Names returns the names of the fields of t in lexicographic order.
func (t *ComplexType) Names() []string {
	return ordered.Keys(t.Fields)
}

// An Import records an imported namespace. It carries no type
// information of its own.
type Import struct {
	Namespace string
}

func (Import) isType() {}

// A Template is a .NET DataSet: an inline schema followed by
// arbitrary content. Its rows are found under
// diffgram/DocumentElement, and their type is chosen by the user of
// the generated code.
type Template struct {
	Name xml.Name
}

func (Template) isType() {}

// An Enum is a restriction to a set of values. The parser does not
// produce Enums; they exist so that code which consumes a Schema
// handles them explicitly.
type Enum struct {
	Name   xml.Name
	Values []string
}

func (Enum) isType() {}

// A Schema is the set of types declared in one or more <schema>
// elements.
type Schema struct {
	Types map[xml.Name]Type
	// Namespaces named by <import> elements, in document order.
	Imports []string
}

// Compare orders qualified names by namespace, then by local name.
func Compare(a, b xml.Name) int {
	if c := strings.Compare(a.Space, b.Space); c != 0 {
		return c
	}
	return strings.Compare(a.Local, b.Local)
}

// Less reports whether a sorts before b.
func Less(a, b xml.Name) bool {
	return Compare(a, b) < 0
}

// Names returns the names of all types in m, in order.
func Names(m map[xml.Name]Type) []xml.Name {
	return ordered.KeysFunc(m, Compare)
}

// LookupLocal finds a type by its local name alone, as used by WSDL
// message parts once their prefix has been stripped. If more than
// one namespace declares the name, the one in namespace prefer wins,
// then the first in order.
func (s *Schema) LookupLocal(local, prefer string) (xml.Name, bool) {
	if _, ok := s.Types[xml.Name{Space: prefer, Local: local}]; ok {
		return xml.Name{Space: prefer, Local: local}, true
	}
	for _, name := range Names(s.Types) {
		if name.Local == local {
			return name, true
		}
	}
	return xml.Name{}, false
}
