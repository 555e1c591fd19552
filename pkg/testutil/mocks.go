package testutil

import (
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// MockFilter is a mock implementation of the types.Filter interface for testing.
type MockFilter struct {
	NameValue   string
	MatchesFunc func(ctx *resource.Context) (bool, error)
	ParseFunc   func(ctx *resource.Context) (map[string]any, error)

	// Calls counts Matches invocations
	Calls int
}

// Name returns the mock's name.
func (m *MockFilter) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock-filter"
}

// Matches runs the mock's match function.
func (m *MockFilter) Matches(ctx *resource.Context) (bool, error) {
	m.Calls++
	if m.MatchesFunc != nil {
		return m.MatchesFunc(ctx)
	}
	return true, nil
}

// Parse runs the mock's parse function.
func (m *MockFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(ctx)
	}
	return nil, nil
}

// StaticFilter returns a mock filter with a fixed result
func StaticFilter(name string, match bool, updates map[string]any) *MockFilter {
	return &MockFilter{
		NameValue:   name,
		MatchesFunc: func(*resource.Context) (bool, error) { return match, nil },
		ParseFunc:   func(*resource.Context) (map[string]any, error) { return updates, nil },
	}
}

// MockAction is a mock implementation of the types.Action interface for testing.
type MockAction struct {
	NameValue string
	ApplyFunc func(ctx *resource.Context, env types.Env) (map[string]any, error)

	// Calls counts Apply invocations
	Calls int
}

// Name returns the mock's name.
func (m *MockAction) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock-action"
}

// Apply runs the mock's apply function.
func (m *MockAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	m.Calls++
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, env)
	}
	return nil, nil
}

// Bool returns a pointer to b, for Recorder.ConfirmAnswer
func Bool(b bool) *bool {
	return &b
}
