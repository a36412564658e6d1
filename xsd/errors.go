package xsd

import (
	"encoding/xml"
	"fmt"
)

// An ErrorKind classifies a SchemaError.
type ErrorKind int

const (
	// A required element is missing.
	ElementNotFound ErrorKind = iota + 1
	// A required attribute is missing.
	AttributeNotFound
	// The schema uses a construct the parser does not support.
	Unsupported
	// An attribute has a value that cannot be parsed.
	InvalidValue
	// An element that must have content has none.
	Empty
)

func (k ErrorKind) String() string {
	switch k {
	case ElementNotFound:
		return "element not found"
	case AttributeNotFound:
		return "attribute not found"
	case Unsupported:
		return "unsupported schema construct"
	case InvalidValue:
		return "invalid value"
	case Empty:
		return "empty element"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// A SchemaError reports a document that does not have the structure
// the parser requires. Name is the element, attribute or construct
// at fault.
type SchemaError struct {
	Kind ErrorKind
	Name string
	// Location of the error in the document, such as
	// "definitions>types>schema>complexType(Person)".
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	msg := e.Kind.String() + ": " + e.Name
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		msg = "error at " + e.Path + ": " + msg
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Is matches a target *SchemaError with the same Kind, and the
// same Name unless the target's Name is empty.
func (e *SchemaError) Is(target error) bool {
	t, ok := target.(*SchemaError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Name == "" || t.Name == e.Name)
}

// A DuplicateTypeError is returned, when the RejectDuplicateTypes
// option is set, for a type declared more than once.
type DuplicateTypeError struct {
	Name xml.Name
}

func (e *DuplicateTypeError) Error() string {
	return "duplicate declaration of type " + Ref(e.Name).String()
}

func elementNotFound(name string) *SchemaError {
	return &SchemaError{Kind: ElementNotFound, Name: name}
}

func attributeNotFound(name string) *SchemaError {
	return &SchemaError{Kind: AttributeNotFound, Name: name}
}
