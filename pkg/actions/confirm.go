package actions

import (
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// ConfirmActionName is the name used to reference this action
const ConfirmActionName = "confirm"

const defaultConfirmMessage = "Continue?"

// ConfirmAction asks the user before the remaining actions run. Declining
// stops the chain for this resource.
type ConfirmAction struct {
	msg *template.Template
	def bool
}

type confirmArgs struct {
	Msg     string `mapstructure:"msg"`
	Default bool   `mapstructure:"default"`
}

// NewConfirmAction creates a ConfirmAction
func NewConfirmAction(args types.Args) (*ConfirmAction, error) {
	var a confirmArgs
	if err := args.Bind([]string{"msg"}, &a); err != nil {
		return nil, err
	}
	if a.Msg == "" {
		a.Msg = defaultConfirmMessage
	}
	msg, err := template.New(a.Msg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "invalid message")
	}
	return &ConfirmAction{msg: msg, def: a.Default}, nil
}

func (a *ConfirmAction) Name() string {
	return ConfirmActionName
}

func (a *ConfirmAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	text, err := render(a.msg, ctx)
	if err != nil {
		return nil, err
	}
	answer := a.def
	if env.Reporter != nil {
		answer = env.Reporter.Confirm(ConfirmActionName, text, a.def)
	}
	if !answer {
		return nil, errors.New(errors.ErrAction, "aborted by user")
	}
	return nil, nil
}

func init() {
	registry.MustRegisterAction(ConfirmActionName, func(args types.Args) (types.Action, error) {
		return NewConfirmAction(args)
	})
}
