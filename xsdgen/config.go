package xsdgen

import (
	"encoding/xml"
	"regexp"

	"github.com/CognitoIQ/go-wsdl/internal/naming"
	"github.com/CognitoIQ/go-wsdl/xsd"
)

// A Config holds user-defined overrides and filters that are used when
// generating Go source code from an xsd document.
type Config struct {
	logger    Logger
	loglevel  int
	pkgname   string
	pkgHeader string
	strict    bool
	// Transform for names
	nameTransform func(xml.Name) xml.Name
}

func (cfg *Config) warnf(format string, v ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, v...)
	}
}
func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}
func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// DefaultOptions are the default options for Go source code generation.
var DefaultOptions = []Option{
	PackageName("ws"),
}

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Types implementing the Logger interface can receive
// debug information from the code generation process.
// The Logger interface is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogOutput specifies an optional Logger for warnings and debug
// information about the code generation process.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the error log
// configured with the LogOutput option. The level parameter should
// be a positive integer between 1 and 5, with 5 providing the greatest
// verbosity.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// PackageName specifies the name of the generated Go
// package.
func PackageName(name string) Option {
	return func(cfg *Config) Option {
		prev := cfg.pkgname
		cfg.pkgname = name
		return PackageName(prev)
	}
}

// PackageComment specifies the first line of package-level Godoc
// comments.
func PackageComment(comment string) Option {
	return func(cfg *Config) Option {
		prev := cfg.pkgHeader
		cfg.pkgHeader = comment
		return PackageComment(prev)
	}
}

// RejectDuplicateTypes makes it an error for two schema types to
// map to the same Go name, and for a schema to declare a type twice.
// By default the first type in name order keeps the Go name, the
// others are skipped, and a warning is logged.
func RejectDuplicateTypes(reject bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.strict
		cfg.strict = reject
		return RejectDuplicateTypes(prev)
	}
}

// Replace allows for substitution rules for all identifiers to
// be specified. If an invalid regular expression is called, no action
// is taken. The Replace option is additive; subsitutions will be
// applied in the order that each option was applied in.
func Replace(pat, repl string) Option {
	reg, err := regexp.Compile(pat)

	return func(cfg *Config) Option {
		if err != nil {
			cfg.warnf("invalid regex %q passed to Replace: %v", pat, err)
			return replaceNameTransform(cfg.nameTransform)
		}
		return ReplaceRegexp(reg, repl)(cfg)
	}
}

// ReplaceRegexp is like Replace, for an already compiled pattern.
func ReplaceRegexp(reg *regexp.Regexp, repl string) Option {
	return func(cfg *Config) Option {
		prev := cfg.nameTransform
		return replaceNameTransform(func(name xml.Name) xml.Name {
			if prev != nil {
				name = prev(name)
			}
			s := reg.ReplaceAllString(name.Local, repl)
			if s != name.Local {
				cfg.debugf("changed %s -> %s", name.Local, s)
			}
			name.Local = s
			return name
		})(cfg)
	}
}

func replaceNameTransform(fn func(xml.Name) xml.Name) Option {
	return func(cfg *Config) Option {
		prev := cfg.nameTransform
		cfg.nameTransform = fn
		return replaceNameTransform(prev)
	}
}

// NameOf returns the Go identifier for a schema name, after any
// Replace rules are applied.
func (cfg *Config) NameOf(name xml.Name) string {
	if cfg.nameTransform != nil {
		name = cfg.nameTransform(name)
	}
	return naming.Exported(name.Local)
}

// ParseOptions returns the xsd package options matching the logging
// and strictness settings of cfg.
func (cfg *Config) ParseOptions() []xsd.Option {
	return []xsd.Option{
		xsd.LogOutput(cfg.logger),
		xsd.LogLevel(cfg.loglevel),
		xsd.RejectDuplicateTypes(cfg.strict),
	}
}
