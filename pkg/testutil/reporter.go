package testutil

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/types"
)

// Event is one recorded reporter call
type Event struct {
	Kind   string
	Source string
	Text   string
}

func (e Event) String() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Text)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Kind, e.Source, e.Text)
}

// Recorder is a types.Reporter that records every call
type Recorder struct {
	Events []Event

	// ConfirmAnswer is returned by Confirm. When nil the default is returned.
	ConfirmAnswer *bool

	Done, Fail int
}

var _ types.Reporter = (*Recorder)(nil)

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(kind, source, text string) {
	r.Events = append(r.Events, Event{Kind: kind, Source: source, Text: text})
}

func (r *Recorder) SimulationBanner()           { r.add("simulation", "", "") }
func (r *Recorder) RuleStarted(name string)     { r.add("rule", "", name) }
func (r *Recorder) LocationStarted(desc string) { r.add("location", "", desc) }
func (r *Recorder) ResourceVisited(desc string) { r.add("resource", "", desc) }
func (r *Recorder) Message(source, text string) { r.add("message", source, text) }
func (r *Recorder) Error(source, text string)   { r.add("error", source, text) }

func (r *Recorder) Confirm(source, text string, def bool) bool {
	r.add("confirm", source, text)
	if r.ConfirmAnswer != nil {
		return *r.ConfirmAnswer
	}
	return def
}

func (r *Recorder) Summary(done, fail int) {
	r.Done, r.Fail = done, fail
	r.add("summary", "", fmt.Sprintf("done=%d fail=%d", done, fail))
}

// Kind returns the events of one kind
func (r *Recorder) Kind(kind string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Texts returns the text of every event of one kind
func (r *Recorder) Texts(kind string) []string {
	var out []string
	for _, e := range r.Kind(kind) {
		out = append(out, e.Text)
	}
	return out
}

// Trace renders all events, one per line
func (r *Recorder) Trace() string {
	lines := make([]string, len(r.Events))
	for i, e := range r.Events {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// Reset forgets every recorded event
func (r *Recorder) Reset() {
	r.Events = nil
	r.Done, r.Fail = 0, 0
}
