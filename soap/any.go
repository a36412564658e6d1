package soap

import (
	"encoding"
	"encoding/xml"
	"reflect"
	"strings"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

// Any holds the content of an xs:anyType element as it was
// received.
type Any struct {
	xmltree.Element
}

// ToElements returns the child elements of a.
func (a *Any) ToElements() []xmltree.Element {
	return a.Children
}

// FromElement keeps a copy of el.
func (a *Any) FromElement(el *xmltree.Element) error {
	a.Element = *el
	return nil
}

// MarshalText returns the character data of a, for elements without
// children.
func (a *Any) MarshalText() ([]byte, error) {
	return []byte(a.Text()), nil
}

// DiffgramNS is the namespace of the diffgram wrapper around the
// rows of a .NET DataSet.
const DiffgramNS = "urn:schemas-microsoft-com:xml-diffgram-v1"

// FromTemplate decodes the rows of a .NET DataSet. el is the element
// holding the DataSet; its rows are the children of
// diffgram/DocumentElement. *T must implement Unmarshaler.
func FromTemplate[T any](el *xmltree.Element) ([]T, error) {
	diffgram := el.Child("", "diffgram")
	if diffgram == nil {
		return nil, &FieldError{Field: "diffgram", Err: ErrMissingElement}
	}
	doc := diffgram.Child("", "DocumentElement")
	if doc == nil {
		return nil, &FieldError{Field: "DocumentElement", Err: ErrMissingElement}
	}
	if len(doc.Children) == 0 {
		return nil, nil
	}
	rows := make([]T, len(doc.Children))
	for i := range doc.Children {
		u, ok := any(&rows[i]).(Unmarshaler)
		if !ok {
			return nil, &FieldError{
				Field: doc.Children[i].Name.Local,
				Err:   &UnsupportedRowError{Type: reflect.TypeOf(&rows[i])},
			}
		}
		if err := u.FromElement(&doc.Children[i]); err != nil {
			return nil, &FieldError{Field: doc.Children[i].Name.Local, Err: err}
		}
	}
	return rows, nil
}

// ToTemplate is the inverse of FromTemplate. Each row is named by its
// XMLName method if it has one, otherwise by its Go type name. Rows
// whose pointer implements neither Marshaler nor
// encoding.TextMarshaler are encoded as empty elements.
func ToTemplate[T any](rows []T) []xmltree.Element {
	doc := xmltree.New("", "DocumentElement")
	for i := range rows {
		row := &rows[i]
		tag := rowName(row)
		switch v := any(row).(type) {
		case Marshaler:
			doc.Children = append(doc.Children, Node(tag, v))
		case encoding.TextMarshaler:
			text, _ := v.MarshalText()
			doc.Children = append(doc.Children, TextNode(tag, string(text)))
		default:
			doc.Children = append(doc.Children, xmltree.New("", tag))
		}
	}
	diffgram := xmltree.New(DiffgramNS, "diffgram")
	diffgram.Scope = []xml.Name{{Space: DiffgramNS, Local: "diffgr"}}
	diffgram.Children = []xmltree.Element{doc}
	return []xmltree.Element{diffgram}
}

type xmlNamer interface {
	XMLName() string
}

func rowName(row interface{}) string {
	if n, ok := row.(xmlNamer); ok {
		return n.XMLName()
	}
	name := reflect.TypeOf(row).Elem().Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "Row"
	}
	return name
}

// An UnsupportedRowError is returned by FromTemplate for a row type
// that cannot be decoded.
type UnsupportedRowError struct {
	Type reflect.Type
}

func (e *UnsupportedRowError) Error() string {
	return e.Type.String() + " does not implement soap.Unmarshaler"
}
