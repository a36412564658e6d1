package soap

import (
	"encoding"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

// Lookup returns the child of el named tag. Only direct children
// are considered, so a field never picks up the element of a nested
// value. Namespaces are not compared.
func Lookup(el *xmltree.Element, tag string) (*xmltree.Element, error) {
	if c := el.Child("", tag); c != nil {
		return c, nil
	}
	return nil, &FieldError{Field: tag, Err: ErrMissingElement}
}

// Field parses the text of the child of el named tag.
func Field[T any](el *xmltree.Element, tag string, parse func(string) (T, error)) (T, error) {
	var zero T
	c, err := Lookup(el, tag)
	if err != nil {
		return zero, err
	}
	v, err := parse(c.Text())
	if err != nil {
		return zero, &FieldError{Field: tag, Err: err}
	}
	return v, nil
}

// Fields parses the text of every child of el named tag. No
// matching elements is a nil list, not an error.
func Fields[T any](el *xmltree.Element, tag string, parse func(string) (T, error)) ([]T, error) {
	var result []T
	for _, c := range el.ChildrenNamed("", tag) {
		v, err := parse(c.Text())
		if err != nil {
			return nil, &FieldError{Field: tag, Err: err}
		}
		result = append(result, v)
	}
	return result, nil
}

// Complex decodes the child of el named tag into a new T.
func Complex[T any, PT interface {
	*T
	Unmarshaler
}](el *xmltree.Element, tag string) (T, error) {
	var v T
	c, err := Lookup(el, tag)
	if err != nil {
		return v, err
	}
	if err := PT(&v).FromElement(c); err != nil {
		return v, &FieldError{Field: tag, Err: err}
	}
	return v, nil
}

// ComplexList decodes every child of el named tag.
func ComplexList[T any, PT interface {
	*T
	Unmarshaler
}](el *xmltree.Element, tag string) ([]T, error) {
	list := el.ChildrenNamed("", tag)
	if len(list) == 0 {
		return nil, nil
	}
	result := make([]T, len(list))
	for i, c := range list {
		if err := PT(&result[i]).FromElement(c); err != nil {
			return nil, &FieldError{Field: tag, Err: err}
		}
	}
	return result, nil
}

// Optional turns the result of Field or Complex into an optional
// value. Any error, including a missing element, yields nil.
//
//	v.Email = soap.Optional(soap.Field(el, "email", soap.ParseString))
func Optional[T any](v T, err error) *T {
	if err != nil {
		return nil
	}
	return &v
}

// OptionalList is Optional for the results of Fields and
// ComplexList. An empty list is absent, and yields nil, as a nil
// list and an empty one are written the same way.
func OptionalList[T any](v []T, err error) *[]T {
	if err != nil || len(v) == 0 {
		return nil
	}
	return &v
}

// TextNode creates an element named tag containing text.
func TextNode(tag, text string) xmltree.Element {
	el := xmltree.New("", tag)
	el.SetText(text)
	return el
}

// Node creates an element named tag whose children are the elements
// of v. If v has no elements and implements encoding.TextMarshaler,
// its text is used instead.
func Node(tag string, v Marshaler) xmltree.Element {
	el := xmltree.New("", tag)
	el.Children = v.ToElements()
	if len(el.Children) == 0 {
		if m, ok := v.(encoding.TextMarshaler); ok {
			if text, err := m.MarshalText(); err == nil {
				el.SetText(string(text))
			}
		}
	}
	return el
}

// ParseBool parses an xs:boolean: true, false, 1 or 0.
func ParseBool(s string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}

// ParseInt parses an xs:int or xs:long.
func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// ParseFloat accepts the XML Schema spellings INF, -INF and NaN.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ParseString returns s unchanged.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseDateTime parses an xs:dateTime. A value without a time zone
// is taken to be in UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(time.RFC3339Nano, s+"Z"); err2 == nil {
		return t, nil
	}
	return time.Time{}, err
}

// FormatBool formats an xs:boolean as true or false.
func FormatBool(v bool) string { return strconv.FormatBool(v) }

// FormatInt formats an xs:int or xs:long in base 10.
func FormatInt(v int64) string { return strconv.FormatInt(v, 10) }

// FormatFloat is the inverse of ParseFloat.
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatString returns v unchanged.
func FormatString(v string) string { return v }

// FormatDateTime formats an xs:dateTime in RFC 3339 form.
func FormatDateTime(v time.Time) string { return v.Format(time.RFC3339Nano) }
