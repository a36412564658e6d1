/*
wsdlgen generates a Go client for a SOAP service from its WSDL
definition.

Usage:

	wsdlgen [flags] INPUT [OUTPUT]
	wsdlgen all [flags] INPUT...

The generated file declares a Go type for every type in the
document's schema, a wrapper type for each message, and a client type
named after the service with one method per operation. It imports the
soap and xmltree packages of this module.

INPUT and OUTPUT may be "-" for stdin and stdout. The default OUTPUT
is a Go file next to INPUT, named after it in snake case. Nothing is
written unless generation succeeds.

The -r flag can be used to specify a series of replacement rules. A
replacement rule is a string of the form

	regex -> replacement

For example, the rule

	SoapIn$ -> Request

will transform the message name GetWeatherSoapIn to GetWeatherRequest.
All type and message names are passed through the defined substitution
rules.

With --diff, the generated source is compared to OUTPUT instead of
being written. Differences are printed and the exit status is 1.

Every flag may also be given in a YAML file named by --config, or in an
environment variable prefixed with WSDLGEN_, such as WSDLGEN_PKG.

The all subcommand generates the default OUTPUT of each INPUT, up to
--jobs documents at a time.

The wsdlgen command may be used with the go generate command. Simply
embed a comment in your go source like so:

	//go:generate wsdlgen -pkg weather weather.wsdl
*/
package main
