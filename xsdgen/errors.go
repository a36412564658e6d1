package xsdgen

import "fmt"

// An ErrorKind classifies an Error.
type ErrorKind int

const (
	// A schema type has no Go representation.
	UnsupportedType ErrorKind = iota + 1
	// An operation has no input message.
	MissingInput
	// Two schema types map to the same Go name.
	NameCollision
)

// An Error is returned when a valid schema or WSDL document cannot
// be turned into Go source. Name is the schema type or operation at
// fault.
type Error struct {
	Kind ErrorKind
	Name string
	// Extra detail, such as the construct that is not supported.
	Detail string
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case UnsupportedType:
		msg = "unsupported type " + e.Name
	case MissingInput:
		msg = "operation " + e.Name + " has no input message"
	case NameCollision:
		msg = "more than one type maps to the Go name " + e.Name
	default:
		msg = fmt.Sprintf("xsdgen error %d for %s", int(e.Kind), e.Name)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches a target *Error of the same Kind, and the same Name
// unless the target's Name is empty.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Name == "" || t.Name == e.Name)
}
