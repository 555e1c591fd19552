package actions

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// ShellActionName is the name used to reference this action
const ShellActionName = "shell"

// ShellAction runs a rendered command and adds its result under `shell`:
// `{shell.output}` is the standard output without trailing newlines and
// `{shell.returncode}` the exit status.
//
// By default the command is a POSIX shell script run by an embedded
// interpreter, so pipes and redirections work the same on every platform.
// With `shell: false` it is split into words and executed directly.
type ShellAction struct {
	cmd             *template.Template
	shell           bool
	runInSimulation bool
	ignoreErrors    bool
}

type shellArgs struct {
	Cmd             string `mapstructure:"cmd"`
	Shell           *bool  `mapstructure:"shell"`
	RunInSimulation bool   `mapstructure:"run_in_simulation"`
	IgnoreErrors    bool   `mapstructure:"ignore_errors"`
}

// NewShellAction creates a ShellAction
func NewShellAction(args types.Args) (*ShellAction, error) {
	var a shellArgs
	if err := args.Bind([]string{"cmd"}, &a); err != nil {
		return nil, err
	}
	cmd, err := mustTemplate(ShellActionName, "a command", a.Cmd)
	if err != nil {
		return nil, err
	}
	return &ShellAction{
		cmd:             cmd,
		shell:           a.Shell == nil || *a.Shell,
		runInSimulation: a.RunInSimulation,
		ignoreErrors:    a.IgnoreErrors,
	}, nil
}

func (a *ShellAction) Name() string {
	return ShellActionName
}

func (a *ShellAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	logger := logging.GetLogger("actions.shell")
	cmd, err := render(a.cmd, ctx)
	if err != nil {
		return nil, err
	}

	if env.Simulate && !a.runInSimulation {
		env.Print(ShellActionName, fmt.Sprintf("** not run in simulation ** $ %s", cmd))
		return shellResult("", 0), nil
	}

	env.Print(ShellActionName, fmt.Sprintf("$ %s", cmd))
	environ := environOf(ctx)
	var res commandResult
	if a.shell {
		res, err = runScript(context.Background(), cmd, environ)
	} else {
		res, err = runArgv(context.Background(), cmd, environ)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("cmd", cmd).Int("returncode", res.code).Msg("command finished")

	if res.code != 0 && !a.ignoreErrors {
		e := errors.Newf(errors.ErrAction, "command exited with status %d", res.code)
		if msg := strings.TrimSpace(res.stderr); msg != "" {
			e = e.WithDetail("stderr", msg)
			e.Message += ": " + msg
		}
		return nil, e
	}
	return shellResult(res.stdout, res.code), nil
}

func shellResult(output string, code int) map[string]any {
	return map[string]any{
		"shell": map[string]any{
			"output":     strings.TrimRight(output, "\r\n"),
			"returncode": int64(code),
		},
	}
}

type commandResult struct {
	stdout, stderr string
	code           int
}

func runScript(ctx context.Context, script string, environ []string) (commandResult, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return commandResult{}, errors.Wrap(err, errors.ErrAction, "invalid shell command")
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return commandResult{}, errors.Wrap(err, errors.ErrInternal, "failed to create shell interpreter")
	}

	res := commandResult{}
	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if !stderrors.As(err, &status) {
			return commandResult{}, errors.Wrap(err, errors.ErrAction, "command failed")
		}
		res.code = int(status)
	}
	res.stdout, res.stderr = stdout.String(), stderr.String()
	return res, nil
}

func runArgv(ctx context.Context, line string, environ []string) (commandResult, error) {
	argv, err := shellwords.Parse(line)
	if err != nil {
		return commandResult{}, errors.Wrap(err, errors.ErrAction, "invalid command")
	}
	if len(argv) == 0 {
		return commandResult{}, errors.New(errors.ErrAction, "empty command")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = environ
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	res := commandResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return commandResult{}, errors.Wrapf(err, errors.ErrAction, "cannot run %s", argv[0])
		}
		res.code = exitErr.ExitCode()
	}
	res.stdout, res.stderr = stdout.String(), stderr.String()
	return res, nil
}

// environOf returns the environment snapshot of the run as KEY=value pairs
func environOf(ctx *resource.Context) []string {
	raw, _ := ctx.Get(types.KeyEnv)
	vars, _ := raw.(map[string]any)
	out := make([]string, 0, len(vars))
	for k, v := range vars {
		out = append(out, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(out)
	return out
}

func init() {
	registry.MustRegisterAction(ShellActionName, func(args types.Args) (types.Action, error) {
		return NewShellAction(args)
	})
}
