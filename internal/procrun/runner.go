// Package procrun spawns bounded child processes and captures their output.
//
// Every child gets its own process group, a closed stdin, capped output
// buffers and an optional wall-clock timeout after which the whole group is
// killed. A run settles exactly once: either the child exits or the
// deadline fires and the kill is reaped.
package procrun

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/cli/safeexec"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

const (
	// DefaultMaxStderr bounds stderr capture when a Spec sets no limit.
	DefaultMaxStderr = 64 * 1024

	// waitDelay bounds how long Wait keeps copying output after the child
	// is gone, in case a grandchild inherited the pipes.
	waitDelay = 2 * time.Second
)

// Spec describes one child process.
type Spec struct {
	Name string
	Args []string
	Dir  string
	Env  []string // nil inherits the host environment

	Timeout   time.Duration // 0 means no deadline beyond ctx
	MaxStdout int64         // 0 means unlimited

	// CrossPlatform routes the spawn through SpawnCrossPlatform so Windows
	// .cmd/.bat targets go through the system shell.
	CrossPlatform bool
}

// Runner runs a Spec to completion. Implementations never panic and report
// spawn failures through ExecutionResult.Err.
type Runner interface {
	Run(ctx context.Context, spec Spec) model.ExecutionResult
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	Flavor pathutil.Flavor
}

// NewExecRunner returns a runner for the given flavor.
func NewExecRunner(f pathutil.Flavor) *ExecRunner {
	return &ExecRunner{Flavor: f}
}

// Run starts the process described by spec and waits for it.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) model.ExecutionResult {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	if spec.CrossPlatform {
		c, err := SpawnCrossPlatform(r.Flavor, spec.Name, spec.Args, spec.Env)
		if err != nil {
			return model.ExecutionResult{Err: err}
		}
		cmd = c
	} else {
		bin, err := resolveBinary(spec.Name)
		if err != nil {
			return model.ExecutionResult{Err: err}
		}
		cmd = exec.Command(bin, spec.Args...) //nolint:gosec // callers validate names
	}
	return wait(ctx, cmd, spec)
}

// resolveBinary turns a bare program name into a path using safeexec,
// which never falls back to the current directory on Windows.
func resolveBinary(name string) (string, error) {
	if name == "" {
		return "", errors.New("empty command name")
	}
	if strings.ContainsAny(name, `/\`) {
		return name, nil
	}
	return safeexec.LookPath(name)
}

func wait(ctx context.Context, cmd *exec.Cmd, spec Spec) model.ExecutionResult {
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	configureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	stdout := newHeadWriter(spec.MaxStdout)
	stderr := newHeadWriter(DefaultMaxStderr)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return model.ExecutionResult{Err: err, Duration: time.Since(start)}
	}

	// Wait in a goroutine so we can react to ctx cancellation/timeouts.
	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	killed := false
	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-ctx.Done():
		// If process already finished, do not kill.
		select {
		case waitErr = <-waitCh:
		default:
			killed = true
			killProcessGroup(cmd)
			waitErr = <-waitCh
		}
	}

	res := model.ExecutionResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated(),
		Duration:  time.Since(start),
	}
	if killed {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
		} else {
			res.Err = ctx.Err()
		}
		return res
	}
	if ps := cmd.ProcessState; ps != nil {
		res.Exited = ps.Exited()
		res.ExitCode = ps.ExitCode()
	} else if waitErr != nil {
		res.Err = waitErr
	}
	return res
}
