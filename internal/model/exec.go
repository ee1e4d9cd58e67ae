package model

import "time"

// ExecutionResult is the captured outcome of one child process.
type ExecutionResult struct {
	Stdout string
	Stderr string

	// ExitCode is only meaningful when Exited is true. A child that failed
	// to spawn or was killed on timeout has no exit code.
	ExitCode int
	Exited   bool

	TimedOut  bool
	Truncated bool // stdout hit the capture cap
	Duration  time.Duration

	// Err is set when the process could not be started at all.
	Err error `json:"-" yaml:"-"`
}

// Success reports a clean zero exit.
func (r ExecutionResult) Success() bool {
	return r.Err == nil && !r.TimedOut && r.Exited && r.ExitCode == 0
}
