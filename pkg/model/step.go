package model

import "context"

// Step is the build-step contract consumed by an external, dependency-aware
// build orchestrator. Inputs and outputs are absolute paths the orchestrator
// uses to schedule and invalidate steps; Build performs the side effects.
//
// Steps are synchronous and must be safe to invoke repeatedly: an
// interrupted run may leave partial state on disk, but never a completion
// marker that falsely claims success.
type Step interface {
	Name() string
	Inputs() []string
	Outputs() []string
	Describe() map[string]any
	Build(ctx context.Context) error
}
