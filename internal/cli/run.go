package cli

import (
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/output"
	"github.com/arthur-debert/tidyup/pkg/rules"
	"github.com/arthur-debert/tidyup/pkg/runner"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type runOptions struct {
	format string
}

func newRunCmd(g *globalOptions) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Organize your files",
		Long: `Run applies every enabled rule of the configuration.

Files are moved, renamed and deleted for real. Use "tidyup sim" first to see
what would happen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, g, ro, false)
		},
	}
	ro.addFlags(cmd)
	return cmd
}

func newSimCmd(g *globalOptions) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Simulate a run without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, g, ro, true)
		},
	}
	ro.addFlags(cmd)
	return cmd
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatText, "Output format: text or json")
}

// isInteractive reports whether prompts can be shown to the user
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newReporter(format string, w io.Writer) (types.Reporter, error) {
	switch format {
	case formatText:
		return output.NewTerminal(w, isInteractive()), nil
	case formatJSON:
		return output.NewJSON(w), nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format).
		WithDetail("available", []string{formatText, formatJSON})
}

func runRules(cmd *cobra.Command, g *globalOptions, ro *runOptions, simulate bool) error {
	logger := logging.GetLogger("cli.run")

	reporter, err := newReporter(ro.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Settings.Simulate && !simulate {
		logger.Info().Msg("simulate is set in the configuration, simulating")
		simulate = true
	}

	environ := types.Environ()
	ruleset, warnings, err := rules.BuildAll(cfg, rules.BuildOptions{Environ: environ, Now: timeNow()})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	counts, err := runner.Run(ctx, ruleset, runner.Options{
		Simulate: simulate,
		Reporter: reporter,
		Trasher:  trash.New(cfg.Settings.TrashDir),
		Now:      timeNow,
		Environ:  environ,
	})
	if err != nil {
		return err
	}
	if counts.Fail > 0 {
		return errors.Newf(errors.ErrAction, "%d of %d resources failed", counts.Fail, counts.Done+counts.Fail)
	}
	return nil
}
