package xsd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

// When working with an xml tree structure, we naturally have some
// pretty deep function calls.  To save some typing, we use panic/recover
// to bubble the errors up. These panics are not exposed to the user.
type parseError struct {
	err  error
	path []*xmltree.Element
}

// Breadcrumbs formats a path of elements, innermost last, as
// "definitions>types>schema>complexType(Person)".
func Breadcrumbs(path []*xmltree.Element) string {
	crumbs := make([]string, 0, len(path))
	for _, el := range path {
		piece := el.Name.Local
		if name := el.Attr("", "name"); name != "" {
			piece = fmt.Sprintf("%s(%s)", piece, name)
		}
		crumbs = append(crumbs, piece)
	}
	return strings.Join(crumbs, ">")
}

// WithPath prefixes the location of a *SchemaError found in err with
// path. Other errors are wrapped with the path.
func WithPath(path []*xmltree.Element, err error) error {
	prefix := Breadcrumbs(path)
	if prefix == "" {
		return err
	}
	var serr *SchemaError
	if errors.As(err, &serr) {
		if serr.Path == "" {
			serr.Path = prefix
		} else {
			serr.Path = prefix + ">" + serr.Path
		}
		return err
	}
	return fmt.Errorf("error at %s: %w", prefix, err)
}

func (err parseError) error() error {
	path := make([]*xmltree.Element, len(err.path))
	for i, el := range err.path {
		path[len(path)-1-i] = el
	}
	return WithPath(path, err.err)
}

func stop(err error) {
	panic(parseError{err: err})
}

// walk calls fn on each child of root in the XML Schema namespace.
func walk(root *xmltree.Element, fn func(*xmltree.Element)) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(parseError); ok {
				err.path = append(err.path, root)
				panic(err)
			} else {
				panic(r)
			}
		}
	}()
	for i := 0; i < len(root.Children); i++ {
		// We don't care about elements outside of the
		// XML schema namespace
		if root.Children[i].Name.Space != schemaNS {
			continue
		}
		fn(&root.Children[i])
	}
}

// defer catchParseError(&err)
func catchParseError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(parseError)
		if !ok {
			panic(r)
		}
		*err = perr.error()
	}
}
