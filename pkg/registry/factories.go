package registry

import (
	"fmt"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
)

var (
	filterFactories = New[types.FilterFactory]()
	actionFactories = New[types.ActionFactory]()
)

// RegisterFilter registers a filter factory under name
func RegisterFilter(name string, factory types.FilterFactory) error {
	return filterFactories.Register(name, factory)
}

// RegisterAction registers an action factory under name
func RegisterAction(name string, factory types.ActionFactory) error {
	return actionFactories.Register(name, factory)
}

// MustRegisterFilter registers a filter factory and panics on failure
func MustRegisterFilter(name string, factory types.FilterFactory) {
	if err := RegisterFilter(name, factory); err != nil {
		panic(fmt.Sprintf("failed to register filter %s: %v", name, err))
	}
}

// MustRegisterAction registers an action factory and panics on failure
func MustRegisterAction(name string, factory types.ActionFactory) {
	if err := RegisterAction(name, factory); err != nil {
		panic(fmt.Sprintf("failed to register action %s: %v", name, err))
	}
}

// NewFilter builds the filter registered under name
func NewFilter(name string, args types.Args) (types.Filter, error) {
	factory, err := filterFactories.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrConfig, "%q is not a valid filter", name).
			WithDetail("available", filterFactories.List())
	}
	f, err := factory(args)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "filter %s", name)
	}
	return f, nil
}

// NewAction builds the action registered under name
func NewAction(name string, args types.Args) (types.Action, error) {
	factory, err := actionFactories.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrConfig, "%q is not a valid action", name).
			WithDetail("available", actionFactories.List())
	}
	a, err := factory(args)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "action %s", name)
	}
	return a, nil
}

// Filters returns the names of all registered filters
func Filters() []string {
	return filterFactories.List()
}

// Actions returns the names of all registered actions
func Actions() []string {
	return actionFactories.List()
}
