// Package runner sweeps rules over their locations: every resource found is
// filtered, and matches run through the rule's actions.
package runner

import (
	"context"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/pipeline"
	"github.com/arthur-debert/tidyup/pkg/rules"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// Options configure a run
type Options struct {
	// Simulate runs every pipeline but skips mutating calls
	Simulate bool

	// Reporter receives every event of the run. Required.
	Reporter types.Reporter

	// Trasher backs the trash action and conflict policy
	Trasher types.Trasher

	// Now stamps resource contexts. Defaults to time.Now.
	Now func() time.Time

	// Environ is the environment visible to templates and commands.
	// Defaults to the process environment.
	Environ map[string]string
}

// Counts are the outcomes of a run. A resource is done when all its
// actions succeeded and failed when one of them did not; resources that
// did not match are not counted.
type Counts struct {
	Done int
	Fail int
}

// Run sweeps rules in order. Resource failures are reported and counted;
// the run only stops on a walk error of a location that does not ignore
// errors, or when ctx is cancelled between two resources.
func Run(ctx context.Context, ruleset []*rules.Rule, opts Options) (Counts, error) {
	logger := logging.GetLogger("runner")
	defer logging.LogOperationStart(logger, "run")()

	if opts.Reporter == nil {
		return Counts{}, errors.New(errors.ErrInternal, "run without a reporter")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Environ == nil {
		opts.Environ = types.Environ()
	}
	env := types.Env{Simulate: opts.Simulate, Reporter: opts.Reporter, Trasher: opts.Trasher}

	var counts Counts
	if opts.Simulate {
		opts.Reporter.SimulationBanner()
	}
	for _, rule := range ruleset {
		if !rule.Enabled {
			logger.Debug().Str("rule", rule.Name).Msg("rule disabled, skipping")
			continue
		}
		opts.Reporter.RuleStarted(rule.Name)
		for _, loc := range rule.Locations {
			if err := sweep(ctx, rule, loc, env, opts, &counts); err != nil {
				return counts, err
			}
		}
	}
	if opts.Simulate {
		opts.Reporter.SimulationBanner()
	}

	logger.Info().Int("done", counts.Done).Int("fail", counts.Fail).Bool("simulate", opts.Simulate).Msg("run finished")
	opts.Reporter.Summary(counts.Done, counts.Fail)
	return counts, nil
}

// sweep processes one location of rule
func sweep(ctx context.Context, rule *rules.Rule, loc rules.Location, env types.Env, opts Options, counts *Counts) error {
	logger := logging.GetLogger("runner").With().Str("rule", rule.Name).Str("location", loc.String()).Logger()
	opts.Reporter.LocationStarted(loc.String())

	onError := func(path string, err error) {
		opts.Reporter.Error("walker", errors.Message(err))
	}
	for path, err := range loc.Walk(rule.Targets, onError) {
		if err != nil {
			return errors.Wrapf(err, errors.ErrLocation, "cannot walk %s", loc.String()).
				WithDetail("rule", rule.Name)
		}
		if err := ctx.Err(); err != nil {
			logger.Info().Msg("run cancelled")
			return errors.Wrap(err, errors.ErrInternal, "run cancelled")
		}

		opts.Reporter.ResourceVisited(filesystem.Describe(loc.FS, path))
		rctx := types.NewContext(loc.FS, loc.Path, path, opts.Now(), opts.Environ)

		if !pipeline.FilterPipeline(rule.Filters, rule.FilterMode, rctx, opts.Reporter) {
			continue
		}
		if pipeline.ActionPipeline(rule.Actions, rctx, env) {
			counts.Done++
		} else {
			counts.Fail++
		}
	}
	return nil
}
