// Package cli implements the tidyup command line.
package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tidyup/internal/version"
	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configPath string
	workingDir string
	noColor    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "tidyup",
		Short: "A rule based file organizer",
		Long: `tidyup walks the folders you configure, selects files with filters and
applies actions to them: move, rename, copy, trash, run a command...

Use "tidyup sim" to preview what "tidyup run" would do.`,
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			if opts.noColor || termenv.EnvNoColor() {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if opts.workingDir != "" {
				if err := os.Chdir(filesystem.ExpandUser(opts.workingDir)); err != nil {
					return errors.Wrapf(err, errors.ErrInvalidInput, "cannot change to %s", opts.workingDir)
				}
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	flags.StringVarP(&opts.workingDir, "working-dir", "C", "", "Change to this directory before running")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newSimCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	installHelpTopics(rootCmd)
	return rootCmd
}

// path returns the configuration file selected by the flags
func (o *globalOptions) path() string {
	if o.configPath == "" {
		return config.DefaultPath()
	}
	return filesystem.ExpandUser(o.configPath)
}

// loadConfig loads the configuration and raises the log level when the
// settings ask for more than the flags did
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.path())
	if err != nil {
		return nil, err
	}
	if cfg.Settings.Verbosity > o.verbosity {
		logging.SetupLogger(cfg.Settings.Verbosity)
	}
	return cfg, nil
}
