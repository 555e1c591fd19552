package pipeline

import (
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// ActionPipeline applies actions in order and reports whether all of them
// succeeded. The first failure is reported and stops the chain; effects of
// the actions that already ran are kept.
func ActionPipeline(actions []types.Action, ctx *resource.Context, env types.Env) bool {
	logger := logging.GetLogger("pipeline.action")

	for _, a := range actions {
		// A previous action may have moved the resource
		types.RefreshPath(ctx)

		updates, err := a.Apply(ctx, env)
		if err != nil {
			cause := err
			err = errors.Wrapf(err, errors.ErrAction, "action %s failed", a.Name())
			logger.Debug().Err(err).Str("action", a.Name()).Bool("simulate", env.Simulate).Msg("action error")
			if env.Reporter != nil {
				env.Reporter.Error(a.Name(), errors.Message(cause))
			}
			return false
		}
		if updates != nil {
			ctx.Merge(updates)
		}
	}
	return true
}
