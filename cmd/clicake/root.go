package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aledsdavies/clicake/core/types"
	"github.com/aledsdavies/clicake/internal/logging"
	"github.com/aledsdavies/clicake/runnable"
	"github.com/aledsdavies/clicake/runtime/parser"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app carries the state of one CLI execution
type app struct {
	registry *runnable.Registry
	environ  []string
	stdout   io.Writer
	stderr   io.Writer

	flags    flagValues
	settings settings
	logger   *slog.Logger
}

func newApp(reg *runnable.Registry, environ []string, stdout, stderr io.Writer) *app {
	return &app{
		registry: reg,
		environ:  environ,
		stdout:   stdout,
		stderr:   stderr,
		settings: defaultSettings(),
		logger:   logging.Discard(),
	}
}

// rootCmd builds the command tree. Global flags must come before the target
// name; everything after it is handed to the target untouched.
func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clicake [flags] <target> [tokens...]",
		Short: "Run Go functions from the command line",
		Long: `clicake binds command-line tokens to a registered target and prints its result.

Tokens before the first flag are positional arguments. "--name" followed by
zero, one or many values binds true, a scalar or a list. Values are coerced
to True/False/None, integers and floats where they parse as such.`,
		Example: `  clicake echo Hello World! --capitalize
  clicake --no-print sum 1 7 8
  clicake inspect a --n 1 2`,
		Args:             cobra.ArbitraryArgs,
		SilenceErrors:    true,
		SilenceUsage:     true,
		TraverseChildren: true,
		RunE:             a.runTarget,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd, root.Flags())
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	a.bindFlags(root.Flags())
	root.Flags().SetInterspersed(false)

	root.AddCommand(a.inspectCmd(), a.schemaCmd(), a.listCmd())
	return root
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&a.flags.config, "config", "", "Path to an HCL config file (default $"+configEnvVar+")")
	fs.StringVar(&a.flags.logLevel, "log-level", "warn", "Log level: "+strings.Join(logging.Levels, "|"))
	fs.StringVar(&a.flags.logFormat, "log-format", "text", "Log format: "+strings.Join(logging.Formats, "|"))
	fs.BoolVar(&a.flags.noPrint, "no-print", false, "Do not print the target's result")
	fs.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
}

// setup resolves settings and installs the logger before any command runs
func (a *app) setup(cmd *cobra.Command, flags *pflag.FlagSet) error {
	s, err := resolveSettings(flags, a.flags, a.environ)
	a.settings = s
	if err != nil {
		return err
	}

	a.logger = logging.New(s.LogLevel, s.LogFormat, a.stderr)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	a.logger.Debug("settings resolved",
		"log_level", s.LogLevel,
		"print", s.Print,
		"aliases", len(s.Aliases))
	return nil
}

func (a *app) runTarget(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	r, tokens, err := a.resolve(args[0], args[1:])
	if err != nil {
		return err
	}

	_, err = r.RunCLI(cmd.Context(), runnable.Config{
		Args:        tokens,
		PrintOutput: runnable.Bool(a.settings.Print),
		Stdout:      cmd.OutOrStdout(),
		Logger:      a.logger,
	})
	return err
}

// resolve finds a target by name or alias. Alias arguments are placed
// before the given tokens.
func (a *app) resolve(name string, tokens []string) (*runnable.Runnable, []string, error) {
	target := name
	args := append([]string{}, tokens...)
	if al, ok := a.settings.Aliases[name]; ok {
		target = al.Target
		args = append(append([]string{}, al.Args...), tokens...)
		a.logger.Debug("alias expanded", "alias", name, "target", target, "args", args)
	}

	r, ok := a.registry.Lookup(target)
	if !ok {
		return nil, nil, a.unknownTarget(name, target)
	}
	return r, args, nil
}

func (a *app) unknownTarget(name, target string) error {
	err := &CLIError{
		Type:    "target",
		Message: fmt.Sprintf("unknown target %q", target),
		Hint:    "Run 'clicake list' to see available targets",
	}
	if name != target {
		err.Details = fmt.Sprintf("alias %q points to %q, which is not registered", name, target)
		return err
	}

	candidates := a.targetNames()
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		err.Hint = fmt.Sprintf("Did you mean '%s'?", ranks[0].Target)
	}
	return err
}

func (a *app) targetNames() []string {
	names := a.registry.Names()
	for name := range a.settings.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "inspect [tokens...]",
		Short:              "Show how tokens are parsed, without running a target",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := parser.Parse(args)
			fingerprint, err := parsed.Fingerprint()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, parsed)
			_, _ = fmt.Fprintf(out, "fingerprint: %s\n", fingerprint)
			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <target>",
		Short: "Print a target's calling contract as JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.resolve(args[0], nil)
			if err != nil {
				return err
			}

			schema, err := types.SignatureToJSONSchema(r.Signature())
			if err != nil {
				return err
			}
			data, err := schema.ToJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered targets and configured aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range a.registry.Names() {
				r, _ := a.registry.Lookup(name)
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", name, r.Signature().Description)
			}

			aliases := make([]string, 0, len(a.settings.Aliases))
			for name := range a.settings.Aliases {
				aliases = append(aliases, name)
			}
			sort.Strings(aliases)
			for _, name := range aliases {
				al := a.settings.Aliases[name]
				_, _ = fmt.Fprintf(tw, "%s\t-> %s\n", name, strings.TrimSpace(al.Target+" "+strings.Join(al.Args, " ")))
			}
			return tw.Flush()
		},
	}
}
