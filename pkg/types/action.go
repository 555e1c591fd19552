package types

import "github.com/arthur-debert/tidyup/pkg/resource"

// Env is what an action gets to know about the run it is part of
type Env struct {
	// Simulate is set when destination mutating calls must be skipped
	Simulate bool

	// Reporter receives the action's messages and confirmation prompts
	Reporter Reporter

	// Trasher moves resources to the recoverable-delete area
	Trasher Trasher
}

// Action applies an effect to a matched resource.
//
// The returned map, when non-nil, is deep merged into the resource context
// before the next action runs. A returned error aborts the remaining
// actions of this resource.
type Action interface {
	Name() string
	Apply(ctx *resource.Context, env Env) (map[string]any, error)
}

// ActionFactory creates an Action from the arguments given in the config
type ActionFactory func(args Args) (Action, error)

// Print emits a message for source through the env's reporter
func (e Env) Print(source, msg string) {
	if e.Reporter != nil {
		e.Reporter.Message(source, msg)
	}
}
