package xsdgen

import (
	"fmt"
	"go/ast"

	"github.com/CognitoIQ/go-wsdl/internal/gen"
	"github.com/CognitoIQ/go-wsdl/xmltree"
	"github.com/CognitoIQ/go-wsdl/xsd"
)

// GenAST creates an *ast.File containing type declarations and
// associated methods for every type in schema.
func (cfg *Config) GenAST(schema *xsd.Schema) (*ast.File, error) {
	code, err := cfg.GenCode(schema)
	if err != nil {
		return nil, err
	}
	return code.GenAST()
}

// GenSource reads a standalone XML Schema document and returns
// formatted Go source for its types.
func (cfg *Config) GenSource(data []byte) ([]byte, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("malformed schema document: %w", err)
	}
	schema, err := xsd.Parse(root, root.Attr("", "targetNamespace"), cfg.ParseOptions()...)
	if err != nil {
		return nil, err
	}
	file, err := cfg.GenAST(schema)
	if err != nil {
		return nil, err
	}
	return gen.FormattedSource(file)
}
