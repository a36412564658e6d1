package main // import "github.com/CognitoIQ/go-wsdl/cmd/xsdgen"

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CognitoIQ/go-wsdl/internal/commandline"
	"github.com/CognitoIQ/go-wsdl/xsdgen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, commandline.ErrDiffers) {
			fmt.Fprintln(os.Stderr, "xsdgen:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		v       = viper.New()
		replace commandline.ReplaceRuleList
		log     zerolog.Logger
	)
	cmd := &cobra.Command{
		Use:           "xsdgen [flags] FILE.xsd [OUTPUT]",
		Short:         "Generate Go types from an XML Schema document",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := commandline.Bind(v, cmd, "XSDGEN"); err != nil {
				return err
			}
			log = commandline.NewLogger(cmd.ErrOrStderr(), v.GetBool("debug"))
			rules, err := commandline.ReplaceRules(v, cmd, replace)
			replace = rules
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], commandline.OutputPath(args[0])
			if len(args) > 1 {
				output = args[1]
			}

			var cfg xsdgen.Config
			cfg.Option(xsdgen.DefaultOptions...)
			cfg.Option(
				xsdgen.LogOutput(commandline.Logger{Logger: log}),
				xsdgen.LogLevel(commandline.LogLevel(v)),
				xsdgen.RejectDuplicateTypes(v.GetBool("strict")),
				xsdgen.PackageName(v.GetString("pkg")),
			)
			if comment := v.GetString("comment"); comment != "" {
				cfg.Option(xsdgen.PackageComment(comment))
			}
			for _, rule := range replace {
				cfg.Option(xsdgen.ReplaceRegexp(rule.From, rule.To))
			}

			data, err := commandline.ReadInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			src, err := cfg.GenSource(data)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if v.GetBool("diff") && output != commandline.Stdio {
				return commandline.Diff(cmd.OutOrStdout(), output, src)
			}
			return commandline.WriteOutput(cmd.OutOrStdout(), output, src)
		},
	}
	flags := cmd.Flags()
	flags.String("config", "", "YAML file holding default flag values")
	flags.String("pkg", "ws", "name of the generated package")
	flags.String("comment", "", "first line of the package comment")
	flags.BoolP("verbose", "v", false, "print verbose output")
	flags.Bool("debug", false, "print debug output")
	flags.Bool("strict", false, "reject duplicate type declarations and name collisions")
	flags.Bool("diff", false, "print the difference with the existing output instead of writing it")
	flags.VarP(&replace, "replace", "r", "replacement rule 'regex -> repl' (can be used multiple times)")
	return cmd
}
