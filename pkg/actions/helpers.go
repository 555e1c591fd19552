package actions

import (
	"fmt"

	"github.com/arthur-debert/tidyup/pkg/conflict"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// conflictOptions are shared by the actions that may land on an occupied
// destination
type conflictOptions struct {
	policy   conflict.Policy
	template *template.Template
}

func newConflictOptions(onConflict, renameTemplate string) (conflictOptions, error) {
	if onConflict == "" {
		onConflict = string(conflict.RenameNew)
	}
	policy, err := conflict.ParsePolicy(onConflict)
	if err != nil {
		return conflictOptions{}, err
	}
	if renameTemplate == "" {
		renameTemplate = conflict.DefaultRenameTemplate
	}
	tmpl, err := template.New(renameTemplate)
	if err != nil {
		return conflictOptions{}, errors.Wrap(err, errors.ErrConfig, "invalid rename_template")
	}
	return conflictOptions{policy: policy, template: tmpl}, nil
}

func (o conflictOptions) resolve(fsys types.FS, path string, env types.Env, source string) (conflict.Result, error) {
	return conflict.Resolve(conflict.Request{
		FS:       fsys,
		Path:     path,
		Policy:   o.policy,
		Template: o.template,
		Simulate: env.Simulate,
		Print:    func(msg string) { env.Print(source, msg) },
		Trasher:  env.Trasher,
	})
}

// render renders tmpl against the current context of the resource
func render(tmpl *template.Template, ctx *resource.Context) (string, error) {
	out, err := tmpl.Render(ctx.Bindings())
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrAction, "cannot render %q", tmpl.String())
	}
	return out, nil
}

// relocated is the context update pointing the next action at fsys/path
func relocated(fsys types.FS, path string) map[string]any {
	return map[string]any{
		types.KeyFS:     fsys,
		types.KeyFSPath: path,
	}
}

func mustTemplate(name, field, src string) (*template.Template, error) {
	if src == "" {
		return nil, errors.Newf(errors.ErrConfig, "%s requires %s", name, field)
	}
	tmpl, err := template.New(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, fmt.Sprintf("invalid %s", field))
	}
	return tmpl, nil
}
