// Package app wires the environment cache, resolver and Git Bash locator
// into the operations the CLI, TUI and web front ends call.
package app

import (
	"context"
	"time"

	"shellenv/internal/config"
	"shellenv/internal/envcache"
	"shellenv/internal/gitbash"
	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/probe"
	"shellenv/internal/procrun"
	"shellenv/internal/report"
	"shellenv/internal/resolver"
)

// Options configures New. Zero values pick the host defaults.
type Options struct {
	Flavor    pathutil.Flavor
	Runner    procrun.Runner
	Prober    probe.Prober
	Store     gitbash.ConfigStore
	DirExists pathutil.FileChecker

	// IncludeEnv keeps the full environment in snapshots.
	IncludeEnv bool

	ResolverOptions []resolver.Option
	GitBashOptions  []gitbash.Option
}

// App is safe for concurrent use by the TUI and web handlers.
type App struct {
	flavor    pathutil.Flavor
	runner    procrun.Runner
	cache     *envcache.Cache
	resolver  *resolver.Resolver
	gitBash   *gitbash.Locator
	dirExists pathutil.FileChecker
	withEnv   bool
}

func New(opts Options) *App {
	if opts.Runner == nil {
		opts.Runner = procrun.NewExecRunner(opts.Flavor)
	}
	if opts.Prober == nil {
		opts.Prober = probe.New(opts.Flavor, opts.Runner)
	}
	if opts.Store == nil {
		opts.Store = config.NewMemory()
	}
	if opts.DirExists == nil {
		opts.DirExists = pathutil.DirExists
	}

	cache := envcache.New(opts.Prober, opts.Flavor)
	res := resolver.New(opts.Flavor, opts.Runner, cache, opts.ResolverOptions...)
	return &App{
		flavor:    opts.Flavor,
		runner:    opts.Runner,
		cache:     cache,
		resolver:  res,
		gitBash:   gitbash.New(opts.Flavor, opts.Store, res, opts.GitBashOptions...),
		dirExists: opts.DirExists,
		withEnv:   opts.IncludeEnv,
	}
}

func (a *App) Flavor() pathutil.Flavor { return a.flavor }

// Env returns the cached environment, re-probing first when refresh is set.
func (a *App) Env(ctx context.Context, refresh bool) model.EnvMap {
	if refresh {
		return a.cache.Refresh(ctx)
	}
	return a.cache.Get(ctx)
}

// Snapshot analyzes the current environment.
func (a *App) Snapshot(ctx context.Context, refresh bool) report.Snapshot {
	env := a.Env(ctx, refresh)
	return report.NewSnapshot(env, a.flavor, a.GitBash(ctx), a.dirExists, a.withEnv)
}

// Which resolves a command name to an absolute path.
func (a *App) Which(ctx context.Context, name string) (string, bool) {
	return a.resolver.FindExecutableInEnv(ctx, name)
}

func (a *App) GitBash(ctx context.Context) model.GitBashPathInfo {
	return a.gitBash.Locate(ctx)
}

// SetGitBash stores a user-chosen bash.exe.
func (a *App) SetGitBash(path string) error {
	return a.gitBash.SetManualPath(path)
}

// Exec runs name with args in the probed environment and returns its
// stdout. Bare command names are resolved first.
func (a *App) Exec(ctx context.Context, name string, args []string, timeout time.Duration) (string, error) {
	env := a.Env(ctx, false)
	target := name
	if resolver.ValidCommandName(name) {
		if p, ok := a.Which(ctx, name); ok {
			target = p
		}
	}
	logutil.Debug("exec", "command", name, "resolved", target, "args", args)
	return procrun.ExecuteCommand(ctx, a.runner, target, args, procrun.ExecOptions{
		Capture: true,
		Env:     env.Environ(),
		Timeout: timeout,
	})
}
