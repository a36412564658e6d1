// Package wsdlgen generates Go source code from wsdl documents.
//
// The wsdlgen package generates Go source for calling the various
// methods defined in a WSDL (Web Service Definition Language) document.
// The generated code declares the types of the document's schema,
// a wrapper type for each message and a client type with a method for
// each operation. It depends on the soap and xmltree packages of this
// module.
//
// Code generation for the wsdlgen package can be configured by using
// the provided Option functions.
package wsdlgen // import "github.com/CognitoIQ/go-wsdl/wsdlgen"

import (
	"encoding/xml"
	"fmt"
	"go/ast"
	"strings"

	"github.com/CognitoIQ/go-wsdl/internal/gen"
	"github.com/CognitoIQ/go-wsdl/internal/naming"
	"github.com/CognitoIQ/go-wsdl/wsdl"
	"github.com/CognitoIQ/go-wsdl/xsd"
	"github.com/CognitoIQ/go-wsdl/xsdgen"
)

// Types conforming to the Logger interface can receive information about
// the code generation process.
type Logger interface {
	Printf(format string, v ...interface{})
}

type printer struct {
	*Config
	code *xsdgen.Code
	wsdl *wsdl.Definition
	file *ast.File

	service  string
	messages map[string]message
	// Go identifiers declared so far, besides the schema types.
	taken map[string]bool

	serviceDecls, messageDecls, opDecls, faultDecls []ast.Decl
}

// The Go side of a WSDL message.
type message struct {
	name    string
	generic bool
}

// expr returns the type expression for the message, using param as
// the type argument of generic messages.
func (m message) expr(param string) string {
	if m.generic {
		return m.name + "[" + param + "]"
	}
	return m.name
}

// Provides aspects about an RPC call to the template for the function
// bodies.
type opArgs struct {
	Service   string
	Namespace string
	// Name of the method element
	Method  string
	In, Out string
}

// Fields of the generated client type. Operations may not use these
// names as methods.
var serviceFields = map[string]bool{"BaseURL": true, "HTTPClient": true, "Session": true}

// GenAST creates a Go source file containing type and method
// declarations that can be used to access the service described by
// def.
func (cfg *Config) GenAST(def *wsdl.Definition) (*ast.File, error) {
	if cfg.pkgName == "" {
		cfg.Option(PackageName("ws"))
	}
	schema := def.Types
	if schema == nil {
		schema = &xsd.Schema{}
	}
	cfg.verbosef("generating type declarations from xml schema")
	code, err := cfg.xsdgen.GenCode(schema)
	if err != nil {
		return nil, err
	}
	file, err := code.GenAST("context", "net/http")
	if err != nil {
		return nil, err
	}
	file.Name = ast.NewIdent(cfg.pkgName)

	header := cfg.pkgHeader
	if header == "" {
		header = fmt.Sprintf("Package %s is a client for the %s SOAP service.", cfg.pkgName, def.Name)
	}
	if def.Doc != "" {
		header += "\n\n" + def.Doc
	}
	gen.PackageDoc(file, header)

	p := &printer{
		Config:   cfg,
		wsdl:     def,
		file:     file,
		code:     code,
		messages: make(map[string]message),
		taken:    make(map[string]bool),
	}
	cfg.verbosef("generating function definitions from WSDL")
	return p.genAST()
}

func (p *printer) genAST() (*ast.File, error) {
	if err := p.genService(); err != nil {
		return nil, err
	}
	for _, name := range p.wsdl.MessageNames() {
		if err := p.genMessage(p.wsdl.Messages[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range p.wsdl.OperationNames() {
		if p.opFilter != nil && !p.opFilter(name) {
			p.debugf("skipping operation %s", name)
			continue
		}
		if err := p.operation(p.wsdl.Operations[name]); err != nil {
			return nil, err
		}
	}
	for _, decls := range [][]ast.Decl{p.serviceDecls, p.messageDecls, p.opDecls, p.faultDecls} {
		p.file.Decls = append(p.file.Decls, decls...)
	}
	return p.file, nil
}

// ident returns name, with suffix appended if name is already in
// use.
func (p *printer) ident(name, suffix string) string {
	if p.code.Taken(name) || p.taken[name] {
		p.verbosef("%s is already declared; using %s%s", name, name, suffix)
		name += suffix
	}
	p.taken[name] = true
	return name
}

func (p *printer) genService() error {
	p.service = p.ident(naming.Exported(p.wsdl.Name), "Service")
	p.taken[p.service+"Address"] = true
	p.taken["New"+p.service] = true
	p.taken["New"+p.service+"WithClient"] = true

	decls, err := gen.Declarations(fmt.Sprintf(`
		// %[1]s is a client for the %[2]s service. Calls made through
		// the same %[1]s share its session cookie, and run one at a time.
		type %[1]s struct {
			// URL that requests are posted to.
			BaseURL    string
			HTTPClient *http.Client
			Session    soap.Session
		}`, p.service, p.wsdl.Name))
	if err != nil {
		return err
	}
	p.serviceDecls = append(p.serviceDecls, decls...)

	if p.wsdl.Address != "" {
		addr, err := gen.ConstString(p.service+"Address", p.wsdl.Address,
			fmt.Sprintf("%sAddress is the location of the service given in its definition.", p.service))
		if err != nil {
			return err
		}
		p.serviceDecls = append(p.serviceDecls, addr)
	}
	fns := []*gen.Function{
		gen.Func("New"+p.service).
			Comment(fmt.Sprintf("New%[1]s returns a %[1]s that posts requests to baseURL\nwith http.DefaultClient.", p.service)).
			Args("baseURL string").
			Returns("*"+p.service).
			Body(`return &%s{BaseURL: baseURL, HTTPClient: http.DefaultClient}`, p.service),
		gen.Func("New"+p.service+"WithClient").
			Comment(fmt.Sprintf("New%[1]sWithClient is like New%[1]s, with a caller-supplied\nhttp.Client.", p.service)).
			Args("baseURL string", "client *http.Client").
			Returns("*"+p.service).
			Body(`return &%s{BaseURL: baseURL, HTTPClient: client}`, p.service),
	}
	for _, fn := range fns {
		decl, err := fn.Decl()
		if err != nil {
			return err
		}
		p.serviceDecls = append(p.serviceDecls, decl)
	}
	return nil
}

func (p *printer) genMessage(msg wsdl.Message) error {
	tns := p.wsdl.TargetNamespace
	elem, ok := p.code.Lookup(msg.PartElement, tns)
	if !ok {
		elem = xml.Name{Space: tns, Local: msg.PartElement}
		p.logf("message %s: element %s is not declared in the types section", msg.Name, msg.PartElement)
	}
	elemName, _ := p.code.NameOf(elem)
	m := message{
		name:    p.ident(p.xsdgen.NameOf(xml.Name{Space: tns, Local: msg.Name}), "Message"),
		generic: p.code.Generic(elem),
	}
	p.messages[msg.Name] = m

	tparams, embed := "", elemName
	if m.generic {
		tparams, embed = "[T any]", elemName+"[T]"
	}
	decls, err := gen.Declarations(fmt.Sprintf(`
		// %s is the %s message. It carries a single %s.
		type %s%s struct {
			%s
		}`, m.name, msg.Name, msg.PartElement, m.name, tparams, embed))
	if err != nil {
		return err
	}
	p.debugf("message %s wraps %s", msg.Name, xsd.Ref(elem))
	p.messageDecls = append(p.messageDecls, decls...)
	return nil
}

func (p *printer) lookupMessage(op wsdl.Operation, name string) (message, error) {
	m, ok := p.messages[name]
	if !ok {
		return m, fmt.Errorf("operation %s: message %s is not defined", op.Name, name)
	}
	return m, nil
}

func (p *printer) operation(op wsdl.Operation) error {
	if op.Input == "" {
		return &xsdgen.Error{Kind: xsdgen.MissingInput, Name: op.Name}
	}
	in, err := p.lookupMessage(op, op.Input)
	if err != nil {
		return err
	}
	if op.Output == "" {
		if len(op.Faults) > 0 {
			p.logf("operation %s declares faults but no output; no code is generated for it", op.Name)
			return nil
		}
		return p.oneWay(op, in)
	}
	out, err := p.lookupMessage(op, op.Output)
	if err != nil {
		return err
	}
	if len(op.Faults) > 0 {
		return p.faulting(op, in, out)
	}
	return p.requestResponse(op, in, out)
}

// fn starts the declaration of the Go function for op. Operations
// whose messages are generic become package-level functions, as
// methods cannot take type parameters.
func (p *printer) fn(op wsdl.Operation, in, out message) *gen.Function {
	var params []string
	if in.generic {
		params = append(params, "I any")
	}
	if out.generic {
		params = append(params, "O any")
	}
	args := []string{"ctx context.Context", "in *" + in.expr("I")}

	name := naming.Exported(op.Name)
	var fn *gen.Function
	if len(params) > 0 {
		fn = gen.Func(p.ident(name, "Call")).
			TypeParams(params...).
			Args(append([]string{"ctx context.Context", "c *" + p.service}, args[1:]...)...)
	} else {
		if serviceFields[name] {
			name += "Call"
		}
		fn = gen.Func(name).
			Receiver("c *" + p.service).
			Args(args...)
	}
	if op.Doc != "" {
		fn.Comment(op.Doc)
	}
	return fn
}

func (p *printer) args(op wsdl.Operation, in, out message) opArgs {
	return opArgs{
		Service:   p.service,
		Namespace: p.wsdl.TargetNamespace,
		Method:    op.Name,
		In:        in.expr("I"),
		Out:       out.expr("O"),
	}
}

func (p *printer) addFunc(fn *gen.Function) error {
	decl, err := fn.Decl()
	if err != nil {
		return err
	}
	p.opDecls = append(p.opDecls, decl)
	return nil
}

func (p *printer) oneWay(op wsdl.Operation, in message) error {
	fn := p.fn(op, in, message{}).
		Returns("error").
		BodyTmpl(`
			return soap.OneWay(ctx, c.HTTPClient, c.BaseURL, {{quote .Namespace}}, {{quote .Method}}, in)
		`, p.args(op, in, message{}))
	return p.addFunc(fn)
}

func (p *printer) requestResponse(op wsdl.Operation, in, out message) error {
	fn := p.fn(op, in, out).
		Returns("*"+out.expr("O"), "error").
		BodyTmpl(`
			var out {{.Out}}
			err := soap.RequestResponse(ctx, c.HTTPClient, c.BaseURL, &c.Session,
				{{quote .Namespace}}, {{quote .Method}}, in, &out)
			if err != nil {
				return nil, err
			}
			return &out, nil
		`, p.args(op, in, out))
	return p.addFunc(fn)
}

// Operations with faults are declared with a typed fault result, but
// decoding fault details is not supported.
func (p *printer) faulting(op wsdl.Operation, in, out message) error {
	union := p.ident(naming.Exported(op.Name)+"Error", "Fault")

	var variants []message
	seen := make(map[string]bool)
	for _, name := range op.Faults {
		if seen[name] {
			continue
		}
		seen[name] = true
		m, err := p.lookupMessage(op, name)
		if err != nil {
			return err
		}
		variants = append(variants, m)
	}

	fn := p.fn(op, in, out).
		Returns("*"+out.expr("O"), union, "error").
		Body(`return nil, nil, soap.ErrNotImplemented`)
	doc := fmt.Sprintf("%s is not implemented, and always returns\nsoap.ErrNotImplemented.", fn.Name())
	if op.Doc != "" {
		doc = op.Doc + "\n\n" + doc
	}
	if err := p.addFunc(fn.Comment(doc)); err != nil {
		return err
	}
	return p.faultUnion(op, union, variants)
}

func (p *printer) faultUnion(op wsdl.Operation, union string, variants []message) error {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.name
	}
	marker := "is" + union
	decls, err := gen.Declarations(fmt.Sprintf(`
		// %s is one of the faults of the %s operation:
		// %s.
		type %[1]s interface {
			%[4]s()
		}`, union, op.Name, strings.Join(names, ", "), marker))
	if err != nil {
		return err
	}
	p.faultDecls = append(p.faultDecls, decls...)

	for _, v := range variants {
		recv := "*" + v.name
		if v.generic {
			recv += "[T]"
		}
		decls, err := gen.Declarations(fmt.Sprintf("func (%s) %s() {}", recv, marker))
		if err != nil {
			return err
		}
		p.faultDecls = append(p.faultDecls, decls...)
	}
	return nil
}
