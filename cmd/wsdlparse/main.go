// Command wsdlparse prints the model that wsdlgen builds from a WSDL
// document, as YAML. It is useful for finding out why a type or
// operation is not generated the way you expect.
//
// Usage:
//
//	wsdlparse [-types] [-ns xmlns] FILE.wsdl
//
// With -types, the schema types are printed instead of the messages
// and operations. -ns limits them to one target namespace.
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CognitoIQ/go-wsdl/internal/commandline"
	"github.com/CognitoIQ/go-wsdl/wsdl"
	"github.com/CognitoIQ/go-wsdl/xsd"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wsdlparse:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		types   bool
		ns      string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "wsdlparse [flags] FILE.wsdl",
		Short:         "Print the parsed form of a WSDL document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := commandline.ReadInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var opts []wsdl.Option
			if verbose {
				log := commandline.NewLogger(cmd.ErrOrStderr(), false)
				opts = append(opts, wsdl.LogOutput(commandline.Logger{Logger: log}), wsdl.LogLevel(1))
			}
			def, err := wsdl.Parse(data, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if types {
				return dump(cmd.OutOrStdout(), schemaView(def.Types, ns))
			}
			return dump(cmd.OutOrStdout(), def)
		},
	}
	cmd.Flags().BoolVar(&types, "types", false, "print the schema types")
	cmd.Flags().StringVar(&ns, "ns", "", "print only types in this namespace")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log what the parser skips")
	return cmd
}

func dump(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type typeView struct {
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"`
	Base   interface{} `yaml:"base,omitempty"`
	Doc    string      `yaml:"doc,omitempty"`
	Fields []xsd.Field `yaml:"fields,omitempty"`
	Values []string    `yaml:"values,omitempty"`
}

// schemaView flattens the types of s into a list, in the order the
// generator visits them.
func schemaView(s *xsd.Schema, ns string) []typeView {
	if s == nil {
		return nil
	}
	var result []typeView
	for _, name := range xsd.Names(s.Types) {
		if ns != "" && name.Space != ns {
			continue
		}
		result = append(result, view(name, s.Types[name]))
	}
	return result
}

func view(name xml.Name, t xsd.Type) typeView {
	v := typeView{Name: xsd.Ref(name).String()}
	switch t := t.(type) {
	case *xsd.Simple:
		v.Kind, v.Base, v.Doc = "simple", t.Base, t.Doc
	case *xsd.ComplexType:
		v.Kind, v.Doc = "complex", t.Doc
		for _, field := range t.Names() {
			v.Fields = append(v.Fields, t.Fields[field])
		}
	case xsd.Import:
		v.Kind, v.Base = "import", t.Namespace
	case xsd.Template:
		v.Kind = "template"
	case xsd.Enum:
		v.Kind, v.Values = "enum", t.Values
	}
	return v
}
