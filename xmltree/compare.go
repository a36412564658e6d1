package xmltree

import (
	"encoding/xml"
	"sort"
	"strings"
)

// Equal returns true if two xmltree.Elements are equal, ignoring
// differences in white space, sub-element order, and namespace prefixes.
// Character data is compared after entities are decoded. Neither tree
// is modified.
func Equal(a, b *Element) bool {
	return equal(a, b, 0)
}

func sortedChildren(el *Element) []Element {
	list := append([]Element(nil), el.Children...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name.Space+list[i].Name.Local < list[j].Name.Space+list[j].Name.Local
	})
	return list
}

func equal(a, b *Element, depth int) bool {
	if depth > recursionLimit {
		return false
	}
	if !equalElement(a, b) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	if len(a.Children) == 0 {
		return strings.TrimSpace(a.Text()) == strings.TrimSpace(b.Text())
	}
	ac, bc := sortedChildren(a), sortedChildren(b)
	for i := range ac {
		if !equal(&ac[i], &bc[i], depth+1) {
			return false
		}
	}
	return true
}

func equalElement(a, b *Element) bool {
	if a.Name != b.Name {
		return false
	}
	attrs := make(map[xml.Name]string)
	for _, a := range a.StartElement.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		attrs[a.Name] = a.Value
	}

	n := 0
	for _, a := range b.StartElement.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if v, ok := attrs[a.Name]; !ok || v != a.Value {
			return false
		}
		n++
	}
	return n == len(attrs)
}
