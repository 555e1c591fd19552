package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/output/styles"
)

// Execute runs the command line and returns the process exit code
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// printError writes err and its details for the user
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, styles.GetStyle("Error").Render("Error: "+errors.Message(err)))

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", k, details[k])
	}
}
