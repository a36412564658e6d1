package xsd

import (
	"encoding/xml"
	"fmt"
)

// A Builtin is one of the built-in XML Schema types that has a
// direct Go equivalent. Every other type, including built-ins not
// listed here, is treated as a Ref.
//
// http://www.w3.org/TR/xmlschema-2/#built-in-datatypes
type Builtin int

func (Builtin) isSimpleType() {}

const (
	Boolean Builtin = iota
	String
	Float
	Int
	Long
	DateTime
	Base64Binary
	AnyType
)

var builtinNames = [...]string{
	Boolean:      "boolean",
	String:       "string",
	Float:        "float",
	Int:          "int",
	Long:         "long",
	DateTime:     "dateTime",
	Base64Binary: "base64Binary",
	AnyType:      "anyType",
}

// Name returns the canonical name of the built-in type.
func (b Builtin) Name() xml.Name {
	return xml.Name{Space: schemaNS, Local: b.String()}
}

func (b Builtin) String() string {
	if b < 0 || int(b) >= len(builtinNames) {
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
	return builtinNames[b]
}

// MarshalText renders a Builtin by its schema name.
func (b Builtin) MarshalText() ([]byte, error) {
	return []byte("xs:" + b.String()), nil
}

// ParseBuiltin looks up a Builtin by name. If qname
// does not name a built-in type, ParseBuiltin returns
// a non-nil error.
func ParseBuiltin(qname xml.Name) (Builtin, error) {
	if qname.Space == schemaNS {
		for i, name := range builtinNames {
			if name == qname.Local {
				return Builtin(i), nil
			}
		}
	}
	return -1, fmt.Errorf("xsd:%s is not a built-in", qname.Local)
}

// parseType classifies a resolved type name.
func parseType(name xml.Name) SimpleType {
	if b, err := ParseBuiltin(name); err == nil {
		return b
	}
	return Ref(name)
}
