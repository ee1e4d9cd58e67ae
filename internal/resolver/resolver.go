// Package resolver turns a bare command name into an absolute executable
// path using the user's real environment.
//
// Lookups never fail loudly: every problem is logged and reported as
// "not found".
package resolver

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/procrun"
)

const (
	// LookupTimeout bounds every lookup subprocess.
	LookupTimeout = 5 * time.Second
	// MaxLookupOutput caps what we read from a lookup subprocess.
	MaxLookupOutput = 10 * 1024
)

// DefaultExtensions are the executable kinds FindExecutable accepts.
var DefaultExtensions = []string{".exe", ".cmd"}

var commandNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]{0,127}$`)

// ValidCommandName reports whether name is safe to hand to a lookup
// subprocess. Anything with a shell metacharacter, separator or dot fails.
func ValidCommandName(name string) bool {
	return commandNamePattern.MatchString(name)
}

// EnvSource supplies the environment lookups run in.
type EnvSource interface {
	Get(ctx context.Context) model.EnvMap
}

// strategy is one way of finding a command.
type strategy interface {
	label() string
	find(ctx context.Context, name string) (string, bool)
}

type strategyFunc struct {
	name string
	fn   func(ctx context.Context, name string) (string, bool)
}

func (s strategyFunc) label() string { return s.name }

func (s strategyFunc) find(ctx context.Context, name string) (string, bool) {
	return s.fn(ctx, name)
}

// Resolver finds executables. It is safe for concurrent use.
type Resolver struct {
	flavor pathutil.Flavor
	runner procrun.Runner
	env    EnvSource
	exists pathutil.FileChecker
	getwd  func() (string, error)
	exts   []string

	strategies []strategy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFileChecker replaces the filesystem existence check.
func WithFileChecker(fc pathutil.FileChecker) Option {
	return func(r *Resolver) { r.exists = fc }
}

// WithGetwd replaces how the working directory is determined.
func WithGetwd(fn func() (string, error)) Option {
	return func(r *Resolver) { r.getwd = fn }
}

// WithExtensions replaces the extension allow-list used by FindExecutable.
func WithExtensions(exts ...string) Option {
	return func(r *Resolver) { r.exts = exts }
}

// New builds a resolver. The strategy chain is fixed here, once, by flavor.
func New(f pathutil.Flavor, runner procrun.Runner, env EnvSource, opts ...Option) *Resolver {
	r := &Resolver{
		flavor: f,
		runner: runner,
		env:    env,
		exists: pathutil.FileExists,
		getwd:  os.Getwd,
		exts:   DefaultExtensions,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.strategies = []strategy{strategyFunc{"shell-env", r.FindCommandInShellEnv}}
	if f.IsWindows() {
		r.strategies = append(r.strategies,
			strategyFunc{"where", r.FindExecutable},
			strategyFunc{"mise", r.FindViaMise},
		)
	}
	return r
}

// Flavor returns the platform the resolver was built for.
func (r *Resolver) Flavor() pathutil.Flavor { return r.flavor }

// FindExecutableInEnv tries every strategy in order and returns the first
// hit. Strategies never run in parallel.
func (r *Resolver) FindExecutableInEnv(ctx context.Context, name string) (string, bool) {
	start := time.Now()
	for _, s := range r.strategies {
		if p, ok := s.find(ctx, name); ok {
			logutil.Debug("command resolved", "command", name, "strategy", s.label(),
				"path", p, "elapsed", time.Since(start))
			return p, true
		}
	}
	logutil.Debug("command not found", "command", name, "flavor", r.flavor.String(), "elapsed", time.Since(start))
	return "", false
}

func (r *Resolver) validate(name string) bool {
	if ValidCommandName(name) {
		return true
	}
	logutil.Warn("rejected unsafe command name", "command", name, "flavor", r.flavor.String())
	return false
}

// lookup runs a bounded lookup command in the cached environment and
// returns its stdout lines when it exits cleanly.
func (r *Resolver) lookup(ctx context.Context, env model.EnvMap, name string, args ...string) ([]string, bool) {
	start := time.Now()
	res := r.runner.Run(ctx, procrun.Spec{
		Name:      name,
		Args:      args,
		Env:       env.Environ(),
		Timeout:   LookupTimeout,
		MaxStdout: MaxLookupOutput,
	})
	switch {
	case res.TimedOut:
		logutil.WarnContext(ctx, "lookup timed out", "lookup", name, "args", args, "elapsed", time.Since(start))
		return nil, false
	case res.Err != nil:
		logutil.DebugContext(ctx, "lookup failed to start", "lookup", name, "err", res.Err)
		return nil, false
	case !res.Success():
		logutil.DebugContext(ctx, "lookup exited non-zero", "lookup", name, "args", args, "code", res.ExitCode,
			"elapsed", time.Since(start))
		return nil, false
	}

	var lines []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, len(lines) > 0
}
