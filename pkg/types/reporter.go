package types

// Reporter receives every progress and result notification of a run.
// The engine never renders output itself.
type Reporter interface {
	SimulationBanner()
	RuleStarted(name string)
	LocationStarted(desc string)
	ResourceVisited(desc string)
	Message(source, text string)
	Error(source, text string)
	Confirm(source, text string, def bool) bool
	Summary(done, fail int)
}

// Trasher moves a resource to a recoverable-delete area
type Trasher interface {
	Trash(fsys FS, path string) error
}
