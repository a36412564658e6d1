// Package wsdl parses Web Service Definition Language documents.
//
// The wsdl package implements a parser for the parts of a WSDL 1.1
// document needed to generate a SOAP client: the types section,
// messages, the operations of the first port type, and the service
// name and address. Bindings are not interpreted; a single
// document/literal SOAP-over-HTTP style is assumed.
package wsdl // import "github.com/CognitoIQ/go-wsdl/wsdl"

import (
	"strings"

	"github.com/CognitoIQ/go-wsdl/internal/ordered"
	"github.com/CognitoIQ/go-wsdl/xmltree"
	"github.com/CognitoIQ/go-wsdl/xsd"
)

const (
	wsdlNS   = "http://schemas.xmlsoap.org/wsdl/"
	soapNS   = "http://schemas.xmlsoap.org/wsdl/soap/"
	soap12NS = "http://schemas.xmlsoap.org/wsdl/soap12/"
)

// A Definition contains all information necessary to generate Go code
// from a wsdl document. It is not modified after Parse returns.
type Definition struct {
	// The name of the service.
	Name            string `yaml:"name"`
	TargetNamespace string `yaml:"targetNamespace"`
	// Location of the first SOAP port of the service, if any.
	Address string      `yaml:"address,omitempty"`
	Doc     string      `yaml:"doc,omitempty"`
	Types   *xsd.Schema `yaml:"-"`
	// Messages and Operations are keyed by their names.
	Messages   map[string]Message   `yaml:"messages"`
	Operations map[string]Operation `yaml:"operations"`
}

// A Message names the single element sent or received in a call.
type Message struct {
	Name     string `yaml:"name"`
	PartName string `yaml:"partName"`
	// Local name of the element (or type) of the part. The
	// namespace prefix is stripped.
	PartElement string `yaml:"partElement"`
}

// An Operation describes an RPC call that can be made against
// the remote server. Input, Output and Faults hold message names;
// an empty Input or Output means the operation has none.
type Operation struct {
	Name   string   `yaml:"name"`
	Doc    string   `yaml:"doc,omitempty"`
	Input  string   `yaml:"input,omitempty"`
	Output string   `yaml:"output,omitempty"`
	Faults []string `yaml:"faults,omitempty"`
}

// MessageNames returns the names of d's messages in sorted order.
func (d *Definition) MessageNames() []string { return ordered.Keys(d.Messages) }

// OperationNames returns the names of d's operations in sorted order.
func (d *Definition) OperationNames() []string { return ordered.Keys(d.Operations) }

// Parse reads a WSDL definition from data.
func Parse(data []byte, opts ...Option) (*Definition, error) {
	var cfg xsd.Config
	cfg.Option(opts...)

	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	p := parser{cfg: &cfg}
	p.logger, p.loglevel = cfg.Logger()

	def, err := p.parse(root)
	if err != nil {
		return nil, xsd.WithPath([]*xmltree.Element{root}, err)
	}
	return def, nil
}

type parser struct {
	cfg      *xsd.Config
	logger   Logger
	loglevel int
}

func (p *parser) logf(format string, v ...interface{}) {
	if p.logger != nil && p.loglevel > 0 {
		p.logger.Printf(format, v...)
	}
}

func (p *parser) debugf(format string, v ...interface{}) {
	if p.logger != nil && p.loglevel > 3 {
		p.logger.Printf(format, v...)
	}
}

func (p *parser) parse(root *xmltree.Element) (*Definition, error) {
	tns, ok := root.LookupAttr("", "targetNamespace")
	if !ok {
		return nil, attributeNotFound("targetNamespace")
	}
	def := &Definition{
		TargetNamespace: tns,
		Doc:             documentation(root),
		Messages:        make(map[string]Message),
		Operations:      make(map[string]Operation),
	}

	types := root.Child(wsdlNS, "types")
	if types == nil {
		return nil, elementNotFound("types")
	}
	schema, err := p.cfg.Parse(types, tns)
	if err != nil {
		return nil, err
	}
	def.Types = schema

	for _, el := range root.ChildrenNamed(wsdlNS, "message") {
		msg, err := parseMessage(el)
		if err != nil {
			return nil, xsd.WithPath([]*xmltree.Element{el}, err)
		}
		def.Messages[msg.Name] = msg
	}

	portType := root.Child(wsdlNS, "portType")
	if portType == nil {
		return nil, elementNotFound("portType")
	}
	for _, el := range portType.ChildrenNamed(wsdlNS, "operation") {
		op, err := parseOperation(el)
		if err != nil {
			return nil, xsd.WithPath([]*xmltree.Element{portType, el}, err)
		}
		if _, ok := def.Operations[op.Name]; ok {
			p.logf("operation %s is declared more than once; the last declaration wins", op.Name)
		}
		def.Operations[op.Name] = op
	}

	service := root.Child(wsdlNS, "service")
	if service == nil {
		return nil, elementNotFound("service")
	}
	if def.Name, ok = service.LookupAttr("", "name"); !ok {
		return nil, xsd.WithPath([]*xmltree.Element{service}, attributeNotFound("name"))
	}
	def.Address = serviceAddress(service)

	p.debugf("parsed service %s with %d types, %d messages and %d operations",
		def.Name, len(schema.Types), len(def.Messages), len(def.Operations))
	return def, nil
}

func parseMessage(el *xmltree.Element) (Message, error) {
	var msg Message
	var ok bool
	if msg.Name, ok = el.LookupAttr("", "name"); !ok {
		return msg, attributeNotFound("name")
	}
	part := el.Child(wsdlNS, "part")
	if part == nil {
		return msg, elementNotFound("part")
	}
	if msg.PartName, ok = part.LookupAttr("", "name"); !ok {
		return msg, attributeNotFound("name")
	}
	elem, ok := part.LookupAttr("", "element")
	if !ok {
		// rpc-style parts name a type instead
		if elem, ok = part.LookupAttr("", "type"); !ok {
			return msg, attributeNotFound("element")
		}
	}
	msg.PartElement = stripPrefix(elem)
	return msg, nil
}

func parseOperation(el *xmltree.Element) (Operation, error) {
	var op Operation
	var ok bool
	if op.Name, ok = el.LookupAttr("", "name"); !ok {
		return op, attributeNotFound("name")
	}
	for i := range el.Children {
		child := &el.Children[i]
		if child.Name.Local == "documentation" {
			op.Doc = strings.TrimSpace(child.Text())
			continue
		}
		message, ok := child.LookupAttr("", "message")
		if !ok {
			continue
		}
		switch child.Name.Local {
		case "input":
			op.Input = stripPrefix(message)
		case "output":
			op.Output = stripPrefix(message)
		case "fault":
			op.Faults = append(op.Faults, stripPrefix(message))
		default:
			return op, elementNotFound("operation member")
		}
	}
	return op, nil
}

// serviceAddress returns the location of the first SOAP port of the
// service.
func serviceAddress(service *xmltree.Element) string {
	for _, port := range service.ChildrenNamed(wsdlNS, "port") {
		for _, ns := range []string{soapNS, soap12NS} {
			if addr := port.Child(ns, "address"); addr != nil {
				if loc, ok := addr.LookupAttr("", "location"); ok {
					return loc
				}
			}
		}
	}
	return ""
}

func documentation(el *xmltree.Element) string {
	if doc := el.Child(wsdlNS, "documentation"); doc != nil {
		return strings.TrimSpace(doc.Text())
	}
	return ""
}

func stripPrefix(qname string) string {
	if i := strings.LastIndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
