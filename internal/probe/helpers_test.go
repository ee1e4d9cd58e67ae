package probe

import (
	"context"
	"sync"

	"shellenv/internal/model"
	"shellenv/internal/procrun"
)

// scriptedRunner answers each spawn with a canned result chosen by fn and
// records every Spec it saw.
type scriptedRunner struct {
	mu    sync.Mutex
	specs []procrun.Spec
	fn    func(spec procrun.Spec) model.ExecutionResult
}

func (r *scriptedRunner) Run(_ context.Context, spec procrun.Spec) model.ExecutionResult {
	r.mu.Lock()
	r.specs = append(r.specs, spec)
	r.mu.Unlock()
	return r.fn(spec)
}

func (r *scriptedRunner) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s.Name)
	}
	return out
}

func ok(stdout string) model.ExecutionResult {
	return model.ExecutionResult{Stdout: stdout, Exited: true}
}

func exit(code int, stderr string) model.ExecutionResult {
	return model.ExecutionResult{Stderr: stderr, ExitCode: code, Exited: true}
}

func staticHost(env model.EnvMap) func() model.EnvMap {
	return func() model.EnvMap { return env.Clone() }
}
