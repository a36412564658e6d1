package wsdlgen

import (
	"github.com/CognitoIQ/go-wsdl/internal/gen"
	"github.com/CognitoIQ/go-wsdl/wsdl"
)

// Parse parses a WSDL document with the logging and duplicate type
// settings of cfg.
func (cfg *Config) Parse(data []byte) (*wsdl.Definition, error) {
	return wsdl.Parse(data, cfg.parseOptions()...)
}

// The GenSource method parses a WSDL document and converts the AST
// returned by GenAST to formatted Go source code.
func (cfg *Config) GenSource(data []byte) ([]byte, error) {
	def, err := cfg.Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.debugf("parsed service %s with %d operations", def.Name, len(def.Operations))
	file, err := cfg.GenAST(def)
	if err != nil {
		return nil, err
	}
	return gen.FormattedSource(file)
}
