package wsdl

import "github.com/CognitoIQ/go-wsdl/xsd"

// A ParseError is returned for a document that is not well-formed
// XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed WSDL document: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func elementNotFound(name string) error {
	return &xsd.SchemaError{Kind: xsd.ElementNotFound, Name: name}
}

func attributeNotFound(name string) error {
	return &xsd.SchemaError{Kind: xsd.AttributeNotFound, Name: name}
}
