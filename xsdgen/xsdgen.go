package xsdgen

import (
	"encoding/xml"
	"fmt"
	"go/ast"
	"maps"
	"strconv"
	"strings"

	"github.com/CognitoIQ/go-wsdl/internal/dependency"
	"github.com/CognitoIQ/go-wsdl/internal/gen"
	"github.com/CognitoIQ/go-wsdl/internal/naming"
	"github.com/CognitoIQ/go-wsdl/xsd"
)

// Import paths of the packages used by generated code.
const (
	SOAPPackage    = "github.com/CognitoIQ/go-wsdl/soap"
	XMLTreePackage = "github.com/CognitoIQ/go-wsdl/xmltree"
)

// Methods every generated type has. Fields may not use these names.
var methodNames = []string{"ToElements", "FromElement", "MarshalText"}

// Code is the Go source generated for the types of a schema, along
// with the names chosen for them. It is used by the wsdlgen package
// to refer to the types it wraps.
type Code struct {
	cfg   *Config
	types map[xml.Name]xsd.Type
	// Go names of declared types. Types skipped because their
	// name collides with another are absent.
	names map[xml.Name]string
	taken map[string]xml.Name
	// Types declared here that the schema only referred to.
	synthesized map[xml.Name]bool
	generic     map[xml.Name]bool
	decls       []ast.Decl
}

// GenCode generates Go declarations for every type in schema, in
// name order. The schema is not modified.
func (cfg *Config) GenCode(schema *xsd.Schema) (*Code, error) {
	code := &Code{
		cfg:         cfg,
		types:       maps.Clone(schema.Types),
		names:       make(map[xml.Name]string),
		taken:       make(map[string]xml.Name),
		synthesized: make(map[xml.Name]bool),
		generic:     make(map[xml.Name]bool),
	}
	if code.types == nil {
		code.types = make(map[xml.Name]xsd.Type)
	}
	if err := code.checkSupported(); err != nil {
		return nil, err
	}
	code.declareMissingBuiltins()
	if err := code.assignNames(); err != nil {
		return nil, err
	}
	code.propagateGenerics()

	for _, name := range xsd.Names(code.types) {
		goName, ok := code.names[name]
		if !ok {
			continue
		}
		decls, err := code.genType(name, goName, code.types[name])
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", xsd.Ref(name), err)
		}
		code.decls = append(code.decls, decls...)
	}
	return code, nil
}

// Decls returns the generated declarations.
func (c *Code) Decls() []ast.Decl { return c.decls }

// NameOf returns the Go name of a schema type. The second return
// value is false if the schema does not declare the type; the name
// is then a best guess.
func (c *Code) NameOf(name xml.Name) (string, bool) {
	if s, ok := c.names[name]; ok {
		return s, true
	}
	return c.cfg.NameOf(name), false
}

// Generic reports whether the Go type for name takes a type
// parameter.
func (c *Code) Generic(name xml.Name) bool { return c.generic[name] }

// Taken reports whether a Go type called ident has been declared.
func (c *Code) Taken(ident string) bool {
	_, ok := c.taken[ident]
	return ok
}

// Lookup finds a type by the local name used in a WSDL message part.
func (c *Code) Lookup(local, prefer string) (xml.Name, bool) {
	return (&xsd.Schema{Types: c.types}).LookupLocal(local, prefer)
}

// GenAST returns a file holding the generated declarations. The
// imports are the packages used by generated code plus extra;
// unused imports are removed by gen.FormattedSource.
func (c *Code) GenAST(extra ...string) (*ast.File, error) {
	pkgname := c.cfg.pkgname
	if pkgname == "" {
		pkgname = "ws"
	}
	paths := append([]string{"time", SOAPPackage, XMLTreePackage}, extra...)
	file := &ast.File{
		Name:  ast.NewIdent(pkgname),
		Decls: append([]ast.Decl{gen.Imports(paths...)}, c.decls...),
	}
	if c.cfg.pkgHeader != "" {
		gen.PackageDoc(file, c.cfg.pkgHeader)
	}
	return file, nil
}

func (c *Code) checkSupported() error {
	for _, name := range xsd.Names(c.types) {
		switch t := c.types[name].(type) {
		case xsd.Import:
			return &Error{Kind: UnsupportedType, Name: xsd.Ref(name).String(), Detail: "unresolved import of " + t.Namespace}
		case xsd.Enum:
			return &Error{Kind: UnsupportedType, Name: xsd.Ref(name).String(), Detail: "enumeration"}
		}
	}
	return nil
}

// refs returns the names of the types t refers to.
func refs(t xsd.Type) []xml.Name {
	var result []xml.Name
	switch t := t.(type) {
	case *xsd.ComplexType:
		for _, name := range t.Names() {
			if ref, ok := t.Fields[name].Type.(xsd.Ref); ok {
				result = append(result, xml.Name(ref))
			}
		}
	case *xsd.Simple:
		if ref, ok := t.Base.(xsd.Ref); ok {
			result = append(result, xml.Name(ref))
		}
	}
	return result
}

// XML Schema built-ins outside the supported set, such as
// xs:decimal, are declared as strings so that the output compiles.
func (c *Code) declareMissingBuiltins() {
	for _, name := range xsd.Names(c.types) {
		for _, ref := range refs(c.types[name]) {
			if ref.Space != xsd.Namespace {
				continue
			}
			if _, ok := c.types[ref]; ok {
				continue
			}
			c.cfg.warnf("xs:%s is not supported; it is declared as a string", ref.Local)
			c.types[ref] = &xsd.Simple{
				Name: ref,
				Base: xsd.String,
				Doc:  fmt.Sprintf("An xs:%s, kept in its lexical form.", ref.Local),
			}
			c.synthesized[ref] = true
		}
	}
}

func (c *Code) assignNames() error {
	for _, name := range xsd.Names(c.types) {
		goName := c.cfg.NameOf(name)
		if c.synthesized[name] && c.Taken(goName) {
			goName = "XSD" + goName
		}
		if prev, ok := c.taken[goName]; ok {
			if c.cfg.strict {
				return &Error{
					Kind:   NameCollision,
					Name:   goName,
					Detail: xsd.Ref(prev).String() + " and " + xsd.Ref(name).String(),
				}
			}
			c.cfg.warnf("%s and %s both map to the Go type %s; skipping %[2]s",
				xsd.Ref(prev), xsd.Ref(name), goName)
			continue
		}
		c.names[name] = goName
		c.taken[goName] = name
	}
	return nil
}

// A DataSet is generic in its row type, and so is any type that
// refers to a generic type. The reference graph may have cycles, so
// the walk is repeated until nothing changes.
func (c *Code) propagateGenerics() {
	var graph dependency.Graph[string]
	keys := make(map[string]xml.Name, len(c.types))
	for _, name := range xsd.Names(c.types) {
		key := xsd.Ref(name).String()
		keys[key] = name
		graph.AddNode(key)
		if _, ok := c.types[name].(xsd.Template); ok {
			c.generic[name] = true
		}
		for _, ref := range refs(c.types[name]) {
			graph.Add(key, xsd.Ref(ref).String())
		}
	}
	for changed := true; changed; {
		changed = false
		graph.Flatten(func(key string) {
			name, ok := keys[key]
			if !ok || c.generic[name] {
				return
			}
			for _, dep := range graph.Dependencies(key) {
				if c.generic[keys[dep]] {
					c.cfg.debugf("%s is generic because it refers to %s", key, dep)
					c.generic[name] = true
					changed = true
					return
				}
			}
		})
	}
}

// TypeExpr returns the Go type expression for a field or base type.
// param is the type argument given to generic types.
func (c *Code) TypeExpr(t xsd.SimpleType, param string) string {
	switch t := t.(type) {
	case xsd.Builtin:
		if b, ok := builtinInfo(t); ok {
			return b.expr
		}
		return "string"
	case xsd.Ref:
		name, ok := c.NameOf(xml.Name(t))
		if !ok {
			c.cfg.logf("type %s is not declared; referring to it as %s", t, name)
		}
		if c.generic[xml.Name(t)] {
			name += "[" + param + "]"
		}
		return name
	}
	panic(fmt.Sprintf("unexpected %T in TypeExpr", t))
}

// Details of a struct field passed to the method templates.
type fieldSpec struct {
	Name, Tag, Doc string
	// Go type, and the type of one value of it
	Type, Elem string
	// For text fields, the functions that convert the value.
	Parse, Format  string
	Scalar         bool
	List, Optional bool
}

func (c *Code) fields(t *xsd.ComplexType, param string) []fieldSpec {
	used := make(map[string]bool)
	for _, m := range methodNames {
		used[m] = true
	}
	var result []fieldSpec
	for _, tag := range t.Names() {
		f := t.Fields[tag]
		name := naming.Exported(tag)
		for i := 2; used[name]; i++ {
			name = naming.Exported(tag) + strconv.Itoa(i)
		}
		used[name] = true

		spec := fieldSpec{
			Name:     name,
			Tag:      strconv.Quote(tag),
			Doc:      f.Doc,
			Elem:     c.TypeExpr(f.Type, param),
			Scalar:   scalar(f.Type),
			List:     f.Attr.Repeated(),
			Optional: f.Attr.Nillable,
		}
		if spec.Scalar {
			b, _ := builtinInfo(f.Type.(xsd.Builtin))
			spec.Parse, spec.Format = b.parse, b.format
		}
		spec.Type = spec.Elem
		if spec.List {
			spec.Type = "[]" + spec.Type
		}
		if spec.Optional {
			spec.Type = "*" + spec.Type
		}
		result = append(result, spec)
	}
	return result
}

func (c *Code) genType(name xml.Name, goName string, t xsd.Type) ([]ast.Decl, error) {
	switch t := t.(type) {
	case *xsd.ComplexType:
		return c.genComplex(name, goName, t)
	case *xsd.Simple:
		return c.genSimple(name, goName, t)
	case xsd.Template:
		return c.genTemplate(goName)
	}
	return nil, &Error{Kind: UnsupportedType, Name: goName, Detail: fmt.Sprintf("%T", t)}
}

// typeDecl renders a type declaration and parses it.
func typeDecl(goName, tparams, doc, body string) ([]ast.Decl, error) {
	var buf strings.Builder
	if doc != "" {
		for _, line := range strings.Split(doc, "\n") {
			buf.WriteString(strings.TrimRight("// "+strings.TrimSpace(line), " ") + "\n")
		}
	}
	fmt.Fprintf(&buf, "type %s%s %s", goName, tparams, body)
	return gen.Declarations(buf.String())
}

// receiver returns the receiver type and type parameter list of a
// generated type.
func (c *Code) receiver(name xml.Name, goName string) (recv, tparams, param string) {
	if c.generic[name] {
		return goName + "[T]", "[T any]", "T"
	}
	return goName, "", "T"
}

func (c *Code) genComplex(name xml.Name, goName string, t *xsd.ComplexType) ([]ast.Decl, error) {
	recv, tparams, param := c.receiver(name, goName)
	fields := c.fields(t, param)

	var body strings.Builder
	body.WriteString("struct {\n")
	for _, f := range fields {
		if f.Doc != "" {
			for _, line := range strings.Split(f.Doc, "\n") {
				body.WriteString("// " + strings.TrimSpace(line) + "\n")
			}
		}
		fmt.Fprintf(&body, "%s %s\n", f.Name, f.Type)
	}
	body.WriteString("}")

	decls, err := typeDecl(goName, tparams, t.Doc, body.String())
	if err != nil {
		return nil, err
	}
	methods, err := c.methods(recv, fields)
	if err != nil {
		return nil, err
	}
	return append(decls, methods...), nil
}

func (c *Code) methods(recv string, fields []fieldSpec) ([]ast.Decl, error) {
	needErr := false
	for _, f := range fields {
		if !f.Optional {
			needErr = true
		}
	}
	marshal, err := gen.Func("ToElements").
		Receiver("v *"+recv).
		Returns("[]xmltree.Element").
		BodyTmpl(`
			var result []xmltree.Element
			{{ range . -}}
			{{ if .Scalar -}}
				{{ if and .Optional .List -}}
				if v.{{.Name}} != nil {
					for _, x := range *v.{{.Name}} {
						result = append(result, soap.TextNode({{.Tag}}, {{.Format}}(x)))
					}
				}
				{{ else if .List -}}
				for _, x := range v.{{.Name}} {
					result = append(result, soap.TextNode({{.Tag}}, {{.Format}}(x)))
				}
				{{ else if .Optional -}}
				if v.{{.Name}} != nil {
					result = append(result, soap.TextNode({{.Tag}}, {{.Format}}(*v.{{.Name}})))
				}
				{{ else -}}
				result = append(result, soap.TextNode({{.Tag}}, {{.Format}}(v.{{.Name}})))
				{{ end -}}
			{{ else -}}
				{{ if and .Optional .List -}}
				if v.{{.Name}} != nil {
					for i := range *v.{{.Name}} {
						result = append(result, soap.Node({{.Tag}}, &(*v.{{.Name}})[i]))
					}
				}
				{{ else if .List -}}
				for i := range v.{{.Name}} {
					result = append(result, soap.Node({{.Tag}}, &v.{{.Name}}[i]))
				}
				{{ else if .Optional -}}
				if v.{{.Name}} != nil {
					result = append(result, soap.Node({{.Tag}}, v.{{.Name}}))
				}
				{{ else -}}
				result = append(result, soap.Node({{.Tag}}, &v.{{.Name}}))
				{{ end -}}
			{{ end -}}
			{{ end -}}
			return result
		`, fields).
		Decl()
	if err != nil {
		return nil, err
	}

	unmarshal, err := gen.Func("FromElement").
		Receiver("v *"+recv).
		Args("el *xmltree.Element").
		Returns("error").
		BodyTmpl(`
			{{ if .NeedErr -}}
			var err error
			{{ end -}}
			{{ range .Fields -}}
			{{ if .Scalar -}}
				{{ if and .Optional .List -}}
				v.{{.Name}} = soap.OptionalList(soap.Fields(el, {{.Tag}}, {{.Parse}}))
				{{ else if .List -}}
				if v.{{.Name}}, err = soap.Fields(el, {{.Tag}}, {{.Parse}}); err != nil {
					return err
				}
				{{ else if .Optional -}}
				v.{{.Name}} = soap.Optional(soap.Field(el, {{.Tag}}, {{.Parse}}))
				{{ else -}}
				if v.{{.Name}}, err = soap.Field(el, {{.Tag}}, {{.Parse}}); err != nil {
					return err
				}
				{{ end -}}
			{{ else -}}
				{{ if and .Optional .List -}}
				v.{{.Name}} = soap.OptionalList(soap.ComplexList[{{.Elem}}](el, {{.Tag}}))
				{{ else if .List -}}
				if v.{{.Name}}, err = soap.ComplexList[{{.Elem}}](el, {{.Tag}}); err != nil {
					return err
				}
				{{ else if .Optional -}}
				v.{{.Name}} = soap.Optional(soap.Complex[{{.Elem}}](el, {{.Tag}}))
				{{ else -}}
				if v.{{.Name}}, err = soap.Complex[{{.Elem}}](el, {{.Tag}}); err != nil {
					return err
				}
				{{ end -}}
			{{ end -}}
			{{ end -}}
			return nil
		`, struct {
			NeedErr bool
			Fields  []fieldSpec
		}{needErr, fields}).
		Decl()
	if err != nil {
		return nil, err
	}
	return []ast.Decl{marshal, unmarshal}, nil
}

func (c *Code) genSimple(name xml.Name, goName string, t *xsd.Simple) ([]ast.Decl, error) {
	recv, tparams, param := c.receiver(name, goName)
	doc := t.Doc

	b, ok := t.Base.(xsd.Builtin)
	if !ok || !scalar(b) {
		// Embedding the base type promotes its methods.
		return typeDecl(goName, tparams, doc, "struct {\n"+c.TypeExpr(t.Base, param)+"\n}")
	}
	info, _ := builtinInfo(b)
	decls, err := typeDecl(goName, tparams, doc, info.expr)
	if err != nil {
		return nil, err
	}
	dot := struct{ Type, Base, Parse, Format string }{goName, info.expr, info.parse, info.format}

	fns := []*gen.Function{
		gen.Func("ToElements").
			Comment("ToElements returns no elements; the value of v is its text.").
			Receiver("v *"+recv).
			Returns("[]xmltree.Element").
			Body("return nil"),
		gen.Func("FromElement").
			Receiver("v *"+recv).
			Args("el *xmltree.Element").
			Returns("error").
			BodyTmpl(`
				x, err := {{.Parse}}(el.Text())
				if err != nil {
					return err
				}
				*v = {{.Type}}(x)
				return nil
			`, dot),
		gen.Func("MarshalText").
			Receiver("v *"+recv).
			Returns("[]byte", "error").
			BodyTmpl(`return []byte({{.Format}}({{.Base}}(*v))), nil`, dot),
	}
	for _, fn := range fns {
		decl, err := fn.Decl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (c *Code) genTemplate(goName string) ([]ast.Decl, error) {
	doc := goName + " holds the rows of a DataSet.\n" +
		"T is the type of a row; *T must implement soap.Unmarshaler."
	decls, err := typeDecl(goName, "[T any]", doc, "struct {\nRows []T\n}")
	if err != nil {
		return nil, err
	}
	fns := []*gen.Function{
		gen.Func("ToElements").
			Receiver("v *" + goName + "[T]").
			Returns("[]xmltree.Element").
			Body("return soap.ToTemplate(v.Rows)"),
		gen.Func("FromElement").
			Receiver("v *"+goName+"[T]").
			Args("el *xmltree.Element").
			Returns("error").
			Body(`
				rows, err := soap.FromTemplate[T](el)
				if err != nil {
					return err
				}
				v.Rows = rows
				return nil
			`),
	}
	for _, fn := range fns {
		decl, err := fn.Decl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}
