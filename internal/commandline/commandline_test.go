package commandline

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestReplaceRuleList(t *testing.T) {
	var rules ReplaceRuleList
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.VarP(&rules, "replace", "r", "replacement rule")
	if err := fs.Parse([]string{"-r", "^Array[Oo]f(.*) -> ${1}List", "--replace", "Soap$ -> "}); err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	tests := []struct{ in, want string }{
		{"ArrayOfString", "StringList"},
		{"GetWeatherSoap", "GetWeather"},
		{"Person", "Person"},
	}
	for _, tt := range tests {
		if got := rules.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := rules.String(); got != "^Array[Oo]f(.*) -> ${1}List, Soap$ -> " {
		t.Errorf("String() = %q", got)
	}
}

func TestReplaceRuleInvalid(t *testing.T) {
	var rules ReplaceRuleList
	if err := rules.Set("no arrow here"); err == nil {
		t.Error("expected an error for a rule without ->")
	}
	if err := rules.Set("([ -> x"); err == nil {
		t.Error("expected an error for a bad regex")
	}
}

func TestStrings(t *testing.T) {
	var s Strings
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&s, "port", "port name")
	if err := fs.Parse([]string{"--port", "a", "--port", "b"}); err != nil {
		t.Fatal(err)
	}
	if s.String() != "a,b" {
		t.Errorf("String() = %q", s.String())
	}
}
