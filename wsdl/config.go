package wsdl

import "github.com/CognitoIQ/go-wsdl/xsd"

// Types implementing the Logger interface can receive warnings and
// debug information from the parser. The Logger interface is
// implemented by *log.Logger.
type Logger = xsd.Logger

// An Option customizes parsing. The options of the xsd package
// apply to the types section of the document.
type Option = xsd.Option

// LogOutput specifies an optional Logger for warnings and debug
// information about the parsed document.
func LogOutput(l Logger) Option { return xsd.LogOutput(l) }

// LogLevel sets the verbosity of messages sent to the logger
// configured with the LogOutput option.
func LogLevel(level int) Option { return xsd.LogLevel(level) }

// RejectDuplicateTypes makes a type declared twice in the types
// section an error instead of a warning.
func RejectDuplicateTypes(reject bool) Option { return xsd.RejectDuplicateTypes(reject) }
