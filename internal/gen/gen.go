// Package gen builds the go/ast declarations of generated clients.
//
// Most code is written as Go source text, often through text/template,
// and parsed into declarations. This keeps the templates readable
// while letting the generators assemble and reorder whole files.
package gen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

// All declarations are parsed into one FileSet, so that each keeps
// positions consistent with its own comments when printed.
var fset = token.NewFileSet()

// Imports creates an import declaration for the given
// package paths. Unused imports are removed later by
// FormattedSource.
func Imports(paths ...string) *ast.GenDecl {
	decl := &ast.GenDecl{Tok: token.IMPORT}
	for _, path := range paths {
		decl.Specs = append(decl.Specs, &ast.ImportSpec{
			Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(path)},
		})
	}
	return decl
}

// ConstString declares the untyped string constant name, with doc
// as its comment.
func ConstString(name, val, doc string) (ast.Decl, error) {
	decls, err := Declarations(commentText(doc) + "const " + name + " = " + strconv.Quote(val))
	if err != nil {
		return nil, err
	}
	return decls[0], nil
}

// PackageDoc inserts package-level comments into a file,
// preceding the "package" statement.
func PackageDoc(file *ast.File, comments ...string) *ast.File {
	if len(comments) == 0 {
		return file
	}
	file.Doc = CommentGroup(comments...)
	return file
}

// CommentGroup creates a comment group from strings, one comment
// per line.
func CommentGroup(comments ...string) *ast.CommentGroup {
	var group ast.CommentGroup
	for _, v := range comments {
		line := bufio.NewScanner(strings.NewReader(v))
		for line.Scan() {
			group.List = append(group.List, &ast.Comment{
				Text: strings.TrimRight("// "+strings.TrimSpace(line.Text()), " "),
			})
		}
	}
	return &group
}

// commentText renders s as // comment lines.
func commentText(s string) string {
	var buf strings.Builder
	for _, c := range CommentGroup(s).List {
		buf.WriteString(c.Text)
		buf.WriteString("\n")
	}
	return buf.String()
}

// A Function is a builder for a function or method declaration.
// Errors are kept until Decl is called.
type Function struct {
	name, receiver, godoc string
	typeParams            []string
	args, returns         []string
	err                   error
	body                  string
}

// Func starts the declaration of the function name.
func Func(name string) *Function {
	return &Function{name: name}
}

// Name returns the name of the function.
func (fn *Function) Name() string {
	return fn.name
}

// Decl generates Go source for a Func. An error is returned if the
// body, or parameters cannot be parsed.
func (fn *Function) Decl() (*ast.FuncDecl, error) {
	if fn.err != nil {
		return nil, fn.err
	}
	if fn.name == "" {
		return nil, errors.New("function name unset")
	}
	if len(fn.body) == 0 {
		return nil, fmt.Errorf("function body for %s unset", fn.name)
	}

	var buf strings.Builder
	buf.WriteString(commentText(fn.godoc))
	buf.WriteString("func ")
	if fn.receiver != "" {
		fmt.Fprintf(&buf, "(%s) ", fn.receiver)
	}
	buf.WriteString(fn.name)
	if len(fn.typeParams) > 0 {
		fmt.Fprintf(&buf, "[%s]", strings.Join(fn.typeParams, ", "))
	}
	fmt.Fprintf(&buf, "(%s)", strings.Join(fn.args, ", "))
	switch {
	case len(fn.returns) == 1 && !strings.Contains(strings.TrimSpace(fn.returns[0]), " "):
		fmt.Fprintf(&buf, " %s", fn.returns[0])
	case len(fn.returns) > 0:
		fmt.Fprintf(&buf, " (%s)", strings.Join(fn.returns, ", "))
	}
	fmt.Fprintf(&buf, " {\n%s\n}", strings.TrimSpace(fn.body))

	decls, err := Declarations(buf.String())
	if err != nil {
		return nil, fmt.Errorf("could not parse function %s: %v in\n%s", fn.name, err, buf.String())
	}
	if len(decls) == 1 {
		if decl, ok := decls[0].(*ast.FuncDecl); ok {
			return decl, nil
		}
	}
	return nil, fmt.Errorf("%s is not a single function", fn.name)
}

// Body sets the body of a function. The body should not include
// enclosing braces.
func (fn *Function) Body(format string, v ...interface{}) *Function {
	fn.body = fmt.Sprintf(format, v...)
	return fn
}

var tmplFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

// BodyTmpl executes tmpl with dot to produce the body of the
// function. Templates may call quote to produce a Go string literal.
func (fn *Function) BodyTmpl(tmpl string, dot interface{}) *Function {
	var buf bytes.Buffer
	t, err := template.New(fn.name).Funcs(tmplFuncs).Parse(tmpl)
	if err == nil {
		err = t.Execute(&buf, dot)
	}
	if err != nil {
		fn.err = fmt.Errorf("body of %s: %w", fn.name, err)
		return fn
	}
	fn.body = buf.String()
	return fn
}

// Returns sets the return values of a function. Each return
// value should be a string matching the Go syntax for a
// single return value.
func (fn *Function) Returns(values ...string) *Function {
	fn.returns = values
	return fn
}

// Comment sets the Godoc comments for the function.
func (fn *Function) Comment(s string) *Function {
	fn.godoc = s
	return fn
}

// Args sets the arguments that a function takes.
func (fn *Function) Args(args ...string) *Function {
	fn.args = args
	return fn
}

// TypeParams makes the function generic. Each parameter has
// the form "name constraint".
func (fn *Function) TypeParams(params ...string) *Function {
	fn.typeParams = params
	return fn
}

// Receiver turns the function into a method operating on
// the specified type.
func (fn *Function) Receiver(receiver string) *Function {
	fn.receiver = receiver
	return fn
}

// Declarations parses a list of Go source code blocks and converts
// them into *ast.Decl values. Doc comments are kept. If a parsing
// error occurs, it is returned immediately and no further parsing
// takes place.
func Declarations(blocks ...string) ([]ast.Decl, error) {
	var buf bytes.Buffer
	decls := make([]ast.Decl, 0, len(blocks))
	for _, block := range blocks {
		fmt.Fprintf(&buf, "package tmp\n%s\n", block)
		file, err := parser.ParseFile(fset, "", buf.Bytes(), parser.ParseComments)
		if err != nil {
			return decls, err
		}
		decls = append(decls, file.Decls...)
		buf.Reset()
	}
	return decls, nil
}

// FormattedSource converts an abstract syntax tree to
// formatted Go source code, with its imports trimmed and grouped.
// Declarations are printed one at a time, each followed by a blank
// line.
func FormattedSource(file *ast.File) ([]byte, error) {
	var buf bytes.Buffer

	// The package comment has no position, so go/printer would not
	// know where to put it.
	if file.Doc != nil {
		for _, v := range file.Doc.List {
			io.WriteString(&buf, v.Text)
			io.WriteString(&buf, "\n")
		}
	}
	fmt.Fprintf(&buf, "package %s\n", file.Name.Name)
	for _, decl := range file.Decls {
		io.WriteString(&buf, "\n")
		if err := format.Node(&buf, fset, decl); err != nil {
			return nil, err
		}
		io.WriteString(&buf, "\n")
	}
	out, err := imports.Process("", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("%v in %s", err, buf.String())
	}
	return out, nil
}
