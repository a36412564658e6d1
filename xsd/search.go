package xsd

import (
	"encoding/xml"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

// Search predicates for the xmltree.Element.Search method
type predicate func(el *xmltree.Element) bool

func and(fns ...predicate) predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if !f(el) {
				return false
			}
		}
		return true
	}
}

func hasChild(fn predicate) predicate {
	return func(el *xmltree.Element) bool {
		for i := range el.Children {
			if fn(&el.Children[i]) {
				return true
			}
		}
		return false
	}
}

func isElem(space, local string) predicate {
	return func(el *xmltree.Element) bool {
		if el.Name.Local != local {
			return false
		}
		return space == "" || el.Name.Space == space
	}
}

// refersTo matches elements whose ref attribute resolves to name.
func refersTo(name xml.Name) predicate {
	return func(el *xmltree.Element) bool {
		ref, ok := el.LookupAttr("", "ref")
		return ok && el.Resolve(ref) == name
	}
}

// A .NET DataSet is declared as
//
//	<s:sequence>
//	  <s:element ref="s:schema" />
//	  <s:any />
//	</s:sequence>
var isDataSet = and(
	isElem(schemaNS, "sequence"),
	hasChild(and(isElem(schemaNS, "element"), refersTo(xml.Name{Space: schemaNS, Local: "schema"}))),
	hasChild(isElem(schemaNS, "any")),
)
