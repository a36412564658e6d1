package wsdlgen

import (
	"regexp"

	"github.com/CognitoIQ/go-wsdl/wsdl"
	"github.com/CognitoIQ/go-wsdl/xsdgen"
)

// A Config contains parameters for the various code generation processes.
// Users may modify the output of the wsdlgen package's code generation
// by using a Config's Option method to change these parameters.
type Config struct {
	pkgName   string
	pkgHeader string
	logger    Logger
	loglevel  int
	strict    bool
	xsdgen    xsdgen.Config
	opFilter  func(name string) bool
}

func (cfg *Config) logf(format string, args ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, args...)
	}
}

func (cfg *Config) verbosef(format string, args ...interface{}) {
	if cfg.loglevel > 0 {
		cfg.logf(format, args...)
	}
}

func (cfg *Config) debugf(format string, args ...interface{}) {
	if cfg.loglevel > 2 {
		cfg.logf(format, args...)
	}
}

// Option applies the provides Options to a Config, modifying the
// code generation process. The return value of Option can be
// used to revert the effects of the final parameter.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// XSDOption controls the generation of type declarations according
// to the xsdgen package.
func (cfg *Config) XSDOption(opts ...xsdgen.Option) (previous xsdgen.Option) {
	return cfg.xsdgen.Option(opts...)
}

// parseOptions returns the options passed to wsdl.Parse.
func (cfg *Config) parseOptions() []wsdl.Option {
	return []wsdl.Option{
		wsdl.LogOutput(cfg.logger),
		wsdl.LogLevel(cfg.loglevel),
		wsdl.RejectDuplicateTypes(cfg.strict),
	}
}

// An Option modifies code generation parameters. The return value of an
// Option can be used to undo its effect.
type Option func(*Config) Option

// DefaultOptions are the default options for Go source code generation.
var DefaultOptions = []Option{
	PackageName("ws"),
}

// The OnlyOperations option defines a whitelist of WSDL operations to
// generate code for. Types and messages are generated regardless.
// With no arguments, every operation is generated.
func OnlyOperations(ops ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.opFilter
		if len(ops) == 0 {
			cfg.opFilter = nil
		} else {
			cfg.opFilter = func(name string) bool {
				for _, op := range ops {
					if op == name {
						return true
					}
				}
				return false
			}
		}
		return opFilter(prev)
	}
}

func opFilter(fn func(string) bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.opFilter
		cfg.opFilter = fn
		return opFilter(prev)
	}
}

// PackageName specifies the name of the generated Go package.
func PackageName(name string) Option {
	return func(cfg *Config) Option {
		prev := cfg.pkgName
		cfg.pkgName = name
		cfg.xsdgen.Option(xsdgen.PackageName(name))
		return PackageName(prev)
	}
}

// PackageComment specifies the first line of package-level Godoc comments.
// If the input WSDL file provides package-level comments, they are added after
// the provided comment, separated by a newline.
func PackageComment(comment string) Option {
	return func(cfg *Config) Option {
		prev := cfg.pkgHeader
		cfg.pkgHeader = comment
		return PackageComment(prev)
	}
}

// LogLevel sets the level of verbosity for log messages generated during
// the code generation process.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		cfg.xsdgen.Option(xsdgen.LogLevel(level))
		return LogLevel(prev)
	}
}

// LogOutput sets the destination for log messages generated during
// code generation.
func LogOutput(dest Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = dest
		cfg.xsdgen.Option(xsdgen.LogOutput(dest))
		return LogOutput(prev)
	}
}

// RejectDuplicateTypes makes a type declared twice, or two types
// sharing a Go name, an error rather than a warning.
func RejectDuplicateTypes(reject bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.strict
		cfg.strict = reject
		cfg.xsdgen.Option(xsdgen.RejectDuplicateTypes(reject))
		return RejectDuplicateTypes(prev)
	}
}

// Replace adds a substitution rule applied to the names of types and
// messages. See xsdgen.Replace.
func Replace(pat, repl string) Option {
	return func(cfg *Config) Option {
		return xsdOption(cfg.xsdgen.Option(xsdgen.Replace(pat, repl)))
	}
}

// ReplaceRegexp is like Replace, for an already compiled pattern.
func ReplaceRegexp(reg *regexp.Regexp, repl string) Option {
	return func(cfg *Config) Option {
		return xsdOption(cfg.xsdgen.Option(xsdgen.ReplaceRegexp(reg, repl)))
	}
}

func xsdOption(opt xsdgen.Option) Option {
	return func(cfg *Config) Option {
		return xsdOption(cfg.xsdgen.Option(opt))
	}
}
