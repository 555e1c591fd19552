package actions

import (
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// EchoActionName is the name used to reference this action
const EchoActionName = "echo"

// EchoAction prints a rendered message, e.g. `echo: "Found {size.human}"`
type EchoAction struct {
	msg *template.Template
}

type echoArgs struct {
	Msg string `mapstructure:"msg"`
}

// NewEchoAction creates an EchoAction
func NewEchoAction(args types.Args) (*EchoAction, error) {
	var a echoArgs
	if err := args.Bind([]string{"msg"}, &a); err != nil {
		return nil, err
	}
	msg, err := mustTemplate(EchoActionName, "a message", a.Msg)
	if err != nil {
		return nil, err
	}
	return &EchoAction{msg: msg}, nil
}

func (a *EchoAction) Name() string {
	return EchoActionName
}

func (a *EchoAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	text, err := render(a.msg, ctx)
	if err != nil {
		return nil, err
	}
	env.Print(EchoActionName, text)
	return nil, nil
}

func init() {
	registry.MustRegisterAction(EchoActionName, func(args types.Args) (types.Action, error) {
		return NewEchoAction(args)
	})
}
