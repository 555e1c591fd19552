package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/tidyup/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "tidyup version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "Built:  %s\n", version.Date)
		},
	}
}
