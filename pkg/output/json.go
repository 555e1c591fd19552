package output

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/tidyup/pkg/types"
)

// JSON reports every event as one JSON object per line. Objects carry a
// "type" field naming the event plus its payload.
type JSON struct {
	mu     sync.Mutex
	log    zerolog.Logger
	rule   string
	path   string
	simRun bool
}

var _ types.Reporter = (*JSON)(nil)

// NewJSON creates a JSON reporter writing to w
func NewJSON(w io.Writer) *JSON {
	return &JSON{log: zerolog.New(w)}
}

func (j *JSON) event(kind string) *zerolog.Event {
	return j.log.Log().Str("type", kind)
}

func (j *JSON) SimulationBanner() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.simRun = !j.simRun
	j.event("simulation").Bool("start", j.simRun).Send()
}

func (j *JSON) RuleStarted(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rule, j.path = name, ""
	j.event("rule").Str("rule", name).Send()
}

func (j *JSON) LocationStarted(desc string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.path = ""
	j.event("location").Str("rule", j.rule).Str("location", desc).Send()
}

// ResourceVisited only tracks the path; it is attached to later events
func (j *JSON) ResourceVisited(desc string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.path = desc
}

func (j *JSON) Message(source, text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.event("action").Str("rule", j.rule).Str("path", j.path).
		Str("sender", source).Str("msg", text).Send()
}

func (j *JSON) Error(source, text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.event("error").Str("rule", j.rule).Str("path", j.path).
		Str("sender", source).Str("msg", text).Send()
}

// Confirm never prompts; it records the question and returns def
func (j *JSON) Confirm(source, text string, def bool) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.event("confirm").Str("rule", j.rule).Str("path", j.path).
		Str("sender", source).Str("msg", text).Bool("answer", def).Send()
	return def
}

func (j *JSON) Summary(done, fail int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.event("report").Int("success", done).Int("errors", fail).Send()
}
