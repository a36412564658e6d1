package xsd

// A Config holds options for parsing schema documents.
type Config struct {
	logger   Logger
	loglevel int
	strict   bool
}

// Types implementing the Logger interface can receive
// warnings and debug information from the parser.
// The Logger interface is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// LogOutput specifies an optional Logger for warnings about
// skipped or replaced declarations, and debug information.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the logger
// configured with the LogOutput option. Warnings are always sent;
// level 1 adds a trace of skipped constructs, and levels above 3
// add a line for every declaration parsed.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// RejectDuplicateTypes makes a second declaration of the same
// qualified type name an error. By default the later declaration
// replaces the earlier one, and a warning is logged.
func RejectDuplicateTypes(reject bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.strict
		cfg.strict = reject
		return RejectDuplicateTypes(prev)
	}
}

// Strict reports whether the RejectDuplicateTypes option is set.
func (cfg *Config) Strict() bool { return cfg.strict }

// Logger returns the configured Logger and level, so that packages
// building on the parser can share its settings.
func (cfg *Config) Logger() (Logger, int) { return cfg.logger, cfg.loglevel }

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
