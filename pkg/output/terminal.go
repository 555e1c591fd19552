package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/output/styles"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(text string, def bool) (bool, error)

// Terminal is a human readable types.Reporter
type Terminal struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	confirm     ConfirmFunc

	// path of the current resource, printed on first use
	pending string
}

var _ types.Reporter = (*Terminal)(nil)

// NewTerminal creates a terminal reporter writing to w. Confirmation prompts
// are only shown when interactive is set; otherwise their default is used.
func NewTerminal(w io.Writer, interactive bool) *Terminal {
	return &Terminal{w: w, interactive: interactive, confirm: ptermConfirm}
}

// WithConfirm replaces the prompt used for confirmations
func (t *Terminal) WithConfirm(fn ConfirmFunc) *Terminal {
	t.confirm = fn
	return t
}

func ptermConfirm(text string, def bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultText(text).
		WithDefaultValue(def).
		Show()
}

func (t *Terminal) println(s string) {
	_, _ = fmt.Fprintln(t.w, s)
}

// SimulationBanner marks the start and end of a simulated run
func (t *Terminal) SimulationBanner() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(styles.GetStyle("SimulationBanner").Render("SIMULATION"))
}

// RuleStarted prints the rule header
func (t *Terminal) RuleStarted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = ""
	t.println(styles.GetStyle("RuleHeader").Render("⚙ " + name))
}

// LocationStarted prints the location being walked
func (t *Terminal) LocationStarted(desc string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = ""
	t.println(styles.GetStyle("Location").Render(desc))
}

// ResourceVisited remembers the resource; its path is printed lazily
func (t *Terminal) ResourceVisited(desc string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = desc
}

func (t *Terminal) flushPath() {
	if t.pending == "" {
		return
	}
	t.println(styles.GetStyle("Path").Render(t.pending))
	t.pending = ""
}

func (t *Terminal) line(source, style, text string) string {
	return fmt.Sprintf("    - %s %s",
		styles.GetStyle("Source").Render("("+source+")"),
		styles.GetStyle(style).Render(text))
}

// Message prints an action or filter message under the current resource
func (t *Terminal) Message(source, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushPath()
	t.println(t.line(source, "Message", text))
}

// Error prints an error under the current resource
func (t *Terminal) Error(source, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushPath()
	t.println(t.line(source, "Error", "ERROR! "+text))
}

// Confirm asks the user and falls back to def when not interactive or the
// prompt fails.
func (t *Terminal) Confirm(source, text string, def bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushPath()
	if !t.interactive || t.confirm == nil {
		t.println(t.line(source, "Muted", fmt.Sprintf("%s (non-interactive, answering %v)", text, def)))
		return def
	}
	answer, err := t.confirm(text, def)
	if err != nil {
		logger := logging.GetLogger("output.terminal")
		logger.Warn().Err(err).Msg("confirmation prompt failed")
		return def
	}
	return answer
}

// Summary prints the final counts
func (t *Terminal) Summary(done, fail int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = ""
	if done == 0 && fail == 0 {
		t.println(styles.GetStyle("Muted").Render("Nothing to do."))
		return
	}
	msg := styles.GetStyle("Success").Render(fmt.Sprintf("success %d", done))
	if fail > 0 {
		msg += " / " + styles.GetStyle("Fail").Render(fmt.Sprintf("fail %d", fail))
	}
	t.println(msg)
}
