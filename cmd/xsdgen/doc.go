/*
xsdgen generates Go type declarations and their SOAP serialization
methods from a standalone XML Schema document.

Usage:

	xsdgen [flags] FILE.xsd [OUTPUT]

Given a document whose root is an <xs:schema> element, xsdgen creates
a Go source file containing a type declaration for each type defined
in the schema, with ToElements and FromElement methods using the soap
package of this module. No client code is generated; use wsdlgen for
that.

FILE and OUTPUT may be "-" for stdin and stdout. The default OUTPUT is
a Go file next to FILE, named after it in snake case.

The -r flag can be used to specify a series of replacement rules. A replacement
rule is a string of the form

	regex -> replacement

For example, the rule

	Array_Of_soapenc_(.*) -> ${1}Array

will transform the identifier Array_Of_soapenc_boolean to booleanArray.
All identifiers are passed through the defined substitution rules.

Flags may also be set in a YAML file named by --config, or in
environment variables prefixed with XSDGEN_.

The xsdgen command may be used with the go generate command. Simply
embed a comment in your go source like so:

	//go:generate xsdgen -pkg people people.xsd
*/
package main
