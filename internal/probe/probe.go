// Package probe discovers the environment a user's tools actually run
// with. A GUI-launched process inherits a stale environment, so on POSIX
// we ask a login shell and on Windows we read PATH from the registry.
package probe

import (
	"context"
	"errors"
	"os"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/procrun"
)

// ErrProbeFailed wraps every probe failure.
var ErrProbeFailed = errors.New("environment probe failed")

// Prober captures a fresh environment.
type Prober interface {
	Probe(ctx context.Context) (model.EnvMap, error)
}

// HostEnv returns this process's own environment.
func HostEnv() model.EnvMap {
	return model.FromEnviron(os.Environ())
}

// FallbackEnv is what callers get when probing fails: the host
// environment with the tool-bin directory appended.
func FallbackEnv(host model.EnvMap, f pathutil.Flavor) model.EnvMap {
	return pathutil.AppendToolBin(host, f)
}

// New picks the prober for the flavor. Called once at startup.
func New(f pathutil.Flavor, r procrun.Runner) Prober {
	if f.IsWindows() {
		return &RegistryProber{Registry: &RegQueryReader{Runner: r}}
	}
	return &LoginShellProber{Runner: r}
}
