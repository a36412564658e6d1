package main // import "github.com/CognitoIQ/go-wsdl/cmd/wsdlgen"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/CognitoIQ/go-wsdl/internal/commandline"
	"github.com/CognitoIQ/go-wsdl/wsdlgen"
)

type command struct {
	v       *viper.Viper
	log     zerolog.Logger
	replace commandline.ReplaceRuleList
	ops     commandline.Strings
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, commandline.ErrDiffers) {
			fmt.Fprintln(os.Stderr, "wsdlgen:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &command{v: viper.New()}
	root := &cobra.Command{
		Use:               "wsdlgen [flags] INPUT [OUTPUT]",
		Short:             "Generate a Go SOAP client from a WSDL document",
		Args:              cobra.RangeArgs(1, 2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.init,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := commandline.OutputPath(args[0])
			if len(args) > 1 {
				output = args[1]
			}
			return c.generate(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], output)
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "YAML file holding default flag values")
	flags.String("pkg", "ws", "name of the generated package")
	flags.String("comment", "", "first line of the package comment")
	flags.BoolP("verbose", "v", false, "print verbose output")
	flags.Bool("debug", false, "print debug output")
	flags.Bool("strict", false, "reject duplicate type declarations")
	flags.Bool("diff", false, "print the difference with the existing output instead of writing it")
	flags.Var(&c.ops, "op", "generate only this operation (can be used multiple times)")
	flags.VarP(&c.replace, "replace", "r", "replacement rule 'regex -> repl' (can be used multiple times)")

	root.AddCommand(c.allCmd())
	return root
}

func (c *command) allCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all [flags] INPUT...",
		Short: "Generate the default output of several documents at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := c.v.GetInt("jobs")
			if jobs < 1 {
				jobs = 1
			}
			stdout := &commandline.LockedWriter{W: cmd.OutOrStdout()}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for _, input := range args {
				if input == commandline.Stdio {
					return errors.New("all: stdin is not supported")
				}
				input := input
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					return c.generate(nil, stdout, input, commandline.OutputPath(input))
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().IntP("jobs", "j", runtime.GOMAXPROCS(0), "number of documents to generate at once")
	return cmd
}

func (c *command) init(cmd *cobra.Command, args []string) error {
	if err := commandline.Bind(c.v, cmd, "WSDLGEN"); err != nil {
		return err
	}
	c.log = commandline.NewLogger(cmd.ErrOrStderr(), c.v.GetBool("debug"))
	rules, err := commandline.ReplaceRules(c.v, cmd, c.replace)
	if err != nil {
		return err
	}
	c.replace = rules
	if len(c.ops) == 0 {
		c.ops = c.v.GetStringSlice("op")
	}
	return nil
}

// config returns a new Config for each document, so that documents
// can be generated concurrently.
func (c *command) config() *wsdlgen.Config {
	var cfg wsdlgen.Config
	cfg.Option(wsdlgen.DefaultOptions...)
	cfg.Option(
		wsdlgen.LogOutput(commandline.Logger{Logger: c.log}),
		wsdlgen.LogLevel(commandline.LogLevel(c.v)),
		wsdlgen.RejectDuplicateTypes(c.v.GetBool("strict")),
		wsdlgen.OnlyOperations(c.ops...),
	)
	if pkg := c.v.GetString("pkg"); pkg != "" {
		cfg.Option(wsdlgen.PackageName(pkg))
	}
	if comment := c.v.GetString("comment"); comment != "" {
		cfg.Option(wsdlgen.PackageComment(comment))
	}
	for _, rule := range c.replace {
		cfg.Option(wsdlgen.ReplaceRegexp(rule.From, rule.To))
	}
	return &cfg
}

func (c *command) generate(stdin io.Reader, stdout io.Writer, input, output string) error {
	data, err := commandline.ReadInput(stdin, input)
	if err != nil {
		return err
	}
	src, err := c.config().GenSource(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if c.v.GetBool("diff") && output != commandline.Stdio {
		return commandline.Diff(stdout, output, src)
	}
	if err := commandline.WriteOutput(stdout, output, src); err != nil {
		return err
	}
	c.log.Debug().Str("input", input).Str("output", output).Msg("generated")
	return nil
}
