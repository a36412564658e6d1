package xsdgen

import "github.com/CognitoIQ/go-wsdl/xsd"

// How a built-in type is declared, parsed and formatted. AnyType has
// no text form; it is handled like a complex type.
type builtin struct {
	expr, parse, format string
}

var builtinTbl = [...]builtin{
	xsd.Boolean:      {"bool", "soap.ParseBool", "soap.FormatBool"},
	xsd.String:       {"string", "soap.ParseString", "soap.FormatString"},
	xsd.Float:        {"float64", "soap.ParseFloat", "soap.FormatFloat"},
	xsd.Int:          {"int64", "soap.ParseInt", "soap.FormatInt"},
	xsd.Long:         {"int64", "soap.ParseInt", "soap.FormatInt"},
	xsd.DateTime:     {"time.Time", "soap.ParseDateTime", "soap.FormatDateTime"},
	xsd.Base64Binary: {"string", "soap.ParseString", "soap.FormatString"},
	xsd.AnyType:      {"soap.Any", "", ""},
}

func builtinInfo(b xsd.Builtin) (builtin, bool) {
	if b < 0 || int(b) >= len(builtinTbl) || builtinTbl[b].expr == "" {
		return builtin{}, false
	}
	return builtinTbl[b], true
}

// Returns true if values of t are written as text.
func scalar(t xsd.SimpleType) bool {
	b, ok := t.(xsd.Builtin)
	return ok && b != xsd.AnyType
}
