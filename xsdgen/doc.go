// Package xsdgen generates Go source code from xml schema documents.
//
// The xsdgen package generates type declarations and accompanying
// methods for converting values to and from xmltree elements, for
// use with the soap package. Each complex type becomes a struct with
// ToElements and FromElement methods; each simple type becomes a
// named type with the same methods. A .NET DataSet becomes a generic
// type whose row type is chosen by the caller, and any type that
// refers to one becomes generic as well.
package xsdgen // import "github.com/CognitoIQ/go-wsdl/xsdgen"
