package cli

import (
	"embed"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tidyup/pkg/cobrax/topics"
	"github.com/arthur-debert/tidyup/pkg/logging"
)

//go:embed help
var helpFS embed.FS

func installHelpTopics(root *cobra.Command) {
	var renderer topics.Renderer = topics.PlainRenderer{}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		renderer = topics.NewGlamourRenderer()
	}
	m, err := topics.Load(helpFS, "help", topics.Options{Renderer: renderer})
	if err != nil {
		logger := logging.GetLogger("cli")
		logger.Warn().Err(err).Msg("help topics unavailable")
		return
	}
	m.Install(root)
}
