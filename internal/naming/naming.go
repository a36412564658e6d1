// Package naming converts schema identifiers into Go identifiers.
//
// Schema names come in every convention imaginable: PascalCase,
// camelCase, ALLCAPS, names with dashes and dots. Everything is
// first split into lower-case words with ToSnake, and the words are
// then reassembled in the form Go expects.
package naming

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToSnake converts a mixed-case identifier into lower-case words
// separated by underscores. An underscore is inserted before an
// upper-case rune that follows a lower-case rune, or that starts a
// new word in a run of capitals ("UserID" -> "user_id",
// "XMLParser" -> "xml_parser"). ToSnake is idempotent.
func ToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	var last rune
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && last != '_' {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
		last = r
	}
	return strings.ToLower(b.String())
}

// Words from golint's list that read better in upper case.
var initialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true,
	"DNS": true, "EOF": true, "GUID": true, "HTML": true, "HTTP": true,
	"HTTPS": true, "ID": true, "IP": true, "JSON": true, "LHS": true,
	"QPS": true, "RAM": true, "RHS": true, "RPC": true, "SLA": true,
	"SMTP": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "UID": true,
	"UUID": true, "URI": true, "URL": true, "UTF8": true, "VM": true,
	"XML": true, "XMPP": true, "XSRF": true, "XSS": true,
}

func words(s string) []string {
	return strings.FieldsFunc(ToSnake(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func join(words []string, first func(string) string) string {
	// cases.Caser is stateful; one per call keeps this safe for
	// concurrent generators.
	title := cases.Title(language.Und)
	var b strings.Builder
	for i, w := range words {
		switch {
		case i == 0 && first != nil:
			b.WriteString(first(w))
		case initialisms[strings.ToUpper(w)]:
			b.WriteString(strings.ToUpper(w))
		default:
			b.WriteString(title.String(w))
		}
	}
	return b.String()
}

// Exported returns s as an exported Go identifier. Characters that
// are not valid in an identifier act as word boundaries, and common
// initialisms are upper-cased: Exported("user_id") == "UserID".
func Exported(s string) string {
	name := join(words(s), nil)
	if name == "" {
		return "X"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "X" + name
	}
	return name
}

// Unexported returns s as an unexported Go identifier, suitable for
// local variables and parameters. Go keywords get a trailing
// underscore.
func Unexported(s string) string {
	name := join(words(s), strings.ToLower)
	if name == "" {
		return "x"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "x" + name
	}
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}

// FileName derives the name of a Go source file from the path of a
// schema document: the base name, without extension, in snake case.
func FileName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := strings.Join(words(base), "_")
	if name == "" {
		name = "wsdl"
	}
	return name + ".go"
}
