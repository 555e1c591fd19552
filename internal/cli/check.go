package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/tidyup/pkg/output/styles"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/rules"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// timeNow is replaced in tests
var timeNow = time.Now

func newCheckCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long: `Check loads the configuration and builds every rule without walking any
location. Problems are reported the same way "run" would report them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			ruleset, warnings, err := rules.BuildAll(cfg, rules.BuildOptions{
				Environ: types.Environ(),
				Now:     timeNow(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rule := range ruleset {
				state := ""
				if !rule.Enabled {
					state = styles.GetStyle("Muted").Render(" (disabled)")
				}
				_, _ = fmt.Fprintf(out, "%s%s\n", styles.GetStyle("Location").Render(rule.Name), state)
				for _, loc := range rule.Locations {
					_, _ = fmt.Fprintf(out, "  %s\n", loc)
				}
				_, _ = fmt.Fprintf(out, "  %d filter(s) [%s], %d action(s)\n",
					len(rule.Filters), rule.FilterMode, len(rule.Actions))
			}
			for _, w := range warnings {
				_, _ = fmt.Fprintln(out, styles.GetStyle("Warning").Render("warning: "+w))
			}
			_, _ = fmt.Fprintln(out, styles.GetStyle("Success").Render(
				fmt.Sprintf("%s: %d rule(s) OK", cfg.Path, len(ruleset))))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available filters and actions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, styles.GetStyle("RuleHeader").Render("Filters"))
			for _, name := range registry.Filters() {
				_, _ = fmt.Fprintf(out, "  %s\n", name)
			}
			_, _ = fmt.Fprintln(out, styles.GetStyle("RuleHeader").Render("Actions"))
			for _, name := range registry.Actions() {
				_, _ = fmt.Fprintf(out, "  %s\n", name)
			}
		},
	}
}
