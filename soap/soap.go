// Package soap is the runtime used by clients generated with the
// wsdlgen package.
//
// Generated types implement Marshaler and Unmarshaler, converting
// themselves to and from the children of an xmltree.Element. The
// helper functions in this package do the per-field work, and OneWay
// and RequestResponse carry a call over HTTP as a SOAP 1.1 envelope.
package soap // import "github.com/CognitoIQ/go-wsdl/soap"

import "github.com/CognitoIQ/go-wsdl/xmltree"

// EnvelopeNS is the namespace of the SOAP 1.1 envelope.
const EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// A Marshaler can convert itself into a sequence of XML elements,
// one per field.
type Marshaler interface {
	ToElements() []xmltree.Element
}

// An Unmarshaler can fill itself from the children of an XML element.
type Unmarshaler interface {
	FromElement(el *xmltree.Element) error
}
