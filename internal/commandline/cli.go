package commandline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CognitoIQ/go-wsdl/internal/naming"
)

// ErrDiffers is returned in --diff mode when the generated source
// does not match the existing output file.
var ErrDiffers = errors.New("generated source differs from the existing output")

// Stdio is the file name standing for stdin or stdout.
const Stdio = "-"

// Logger adapts a zerolog.Logger to the Printf interface used by the
// code generators.
type Logger struct {
	zerolog.Logger
}

// Printf logs a message at info level.
func (l Logger) Printf(format string, v ...interface{}) {
	l.Info().Msgf(format, v...)
}

// NewLogger returns a console logger writing to w. debug lowers the
// level from info to debug. The logger may be shared by goroutines.
func NewLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: zerolog.SyncWriter(w), TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// LogLevel maps the --verbose and --debug flags to a generator log
// level.
func LogLevel(v *viper.Viper) int {
	switch {
	case v.GetBool("debug"):
		return 5
	case v.GetBool("verbose"):
		return 1
	}
	return 0
}

// Bind loads flags, environment variables with the given prefix and
// the YAML file named by the --config flag into v. Flags set on the
// command line take precedence.
func Bind(v *viper.Viper, cmd *cobra.Command, envPrefix string) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// ReplaceRules returns the rules given on the command line or, if the
// flag was not used, the "replace" list of the config file.
func ReplaceRules(v *viper.Viper, cmd *cobra.Command, rules ReplaceRuleList) (ReplaceRuleList, error) {
	if f := cmd.Flags().Lookup("replace"); f != nil && f.Changed {
		return rules, nil
	}
	var result ReplaceRuleList
	for _, s := range v.GetStringSlice("replace") {
		if err := result.Set(s); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ReadInput reads the named file, or stdin if name is "-".
func ReadInput(stdin io.Reader, name string) ([]byte, error) {
	if name == Stdio {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// OutputPath returns the default output file for input: a Go file
// next to it, named after it.
func OutputPath(input string) string {
	if input == Stdio {
		return Stdio
	}
	return filepath.Join(filepath.Dir(input), naming.FileName(input))
}

// WriteOutput writes src to the named file, or to stdout if name is
// "-".
func WriteOutput(stdout io.Writer, name string, src []byte) error {
	if name == Stdio {
		_, err := stdout.Write(src)
		return err
	}
	return os.WriteFile(name, src, 0666)
}

// Diff prints a line diff between the file name and src to w. It
// returns ErrDiffers if they are different. A missing file is
// treated as empty.
func Diff(w io.Writer, name string, src []byte) error {
	old, err := os.ReadFile(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	var buf bytes.Buffer
	if !lineDiff(&buf, name, string(old), string(src)) {
		return nil
	}
	// one write, so that concurrent diffs do not interleave
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return ErrDiffers
}

// Lines of unchanged text kept around each change.
const diffContext = 3

func lineDiff(w io.Writer, name, old, new string) bool {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true
		}
	}
	if !changed {
		return false
	}
	fmt.Fprintf(w, "--- %s\n+++ %s (generated)\n", name, name)
	for i, d := range diffs {
		text := strings.SplitAfter(d.Text, "\n")
		if text[len(text)-1] == "" {
			text = text[:len(text)-1]
		}
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
			text = trimContext(text, i > 0, i < len(diffs)-1)
		}
		for _, line := range text {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			io.WriteString(w, prefix+line)
		}
	}
	return true
}

// trimContext keeps diffContext lines after a preceding change and
// before a following one.
func trimContext(lines []string, before, after bool) []string {
	if len(lines) <= 2*diffContext {
		return lines
	}
	var head, tail []string
	if before {
		head = lines[:diffContext]
	}
	if after {
		tail = lines[len(lines)-diffContext:]
	}
	result := append([]string{}, head...)
	result = append(result, "@@\n")
	return append(result, tail...)
}

// A LockedWriter serializes writes to W.
type LockedWriter struct {
	mu sync.Mutex
	W  io.Writer
}

func (w *LockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.W.Write(p)
}
