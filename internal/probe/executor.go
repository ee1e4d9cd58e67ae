package probe

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/procrun"
)

// LoginShellTimeout bounds the login shell. A profile that blocks on a
// prompt or a read would otherwise hang the probe forever.
const LoginShellTimeout = 15 * time.Second

// LoginShellProber runs `<shell> -ilc env` and parses the result.
type LoginShellProber struct {
	Runner  procrun.Runner
	Host    func() model.EnvMap // defaults to HostEnv
	GOOS    string              // defaults to runtime.GOOS
	Timeout time.Duration       // defaults to LoginShellTimeout
}

// Probe implements Prober.
func (p *LoginShellProber) Probe(ctx context.Context) (model.EnvMap, error) {
	host := HostEnv()
	if p.Host != nil {
		host = p.Host()
	}
	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = LoginShellTimeout
	}

	home := pathutil.HomeDir(host, pathutil.Posix)
	shell := DetectShell(host, goos)

	start := time.Now()
	res := p.Runner.Run(ctx, procrun.Spec{
		Name:    shell.Path(),
		Args:    shell.EnvCommand(),
		Dir:     home,
		Env:     host.Environ(),
		Timeout: timeout,
	})
	elapsed := time.Since(start)

	switch {
	case res.TimedOut:
		logutil.Warn("login shell timed out", "shell", shell.Path(), "timeout", timeout)
		return nil, fmt.Errorf("%w: %s timed out after %s", ErrProbeFailed, shell.Name(), timeout)
	case res.Err != nil:
		logutil.Warn("login shell failed to start", "shell", shell.Path(), "err", res.Err)
		return nil, fmt.Errorf("%w: start %s: %v", ErrProbeFailed, shell.Path(), res.Err)
	case !res.Exited:
		return nil, fmt.Errorf("%w: %s terminated abnormally", ErrProbeFailed, shell.Name())
	case res.ExitCode != 0:
		logutil.Warn("login shell exited non-zero", "shell", shell.Path(), "code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr))
		return nil, fmt.Errorf("%w: %s exited with code %d", ErrProbeFailed, shell.Name(), res.ExitCode)
	}

	// Plenty of profiles print harmless warnings.
	if s := strings.TrimSpace(res.Stderr); s != "" {
		logutil.Debug("login shell stderr", "shell", shell.Name(), "stderr", s)
	}

	env := ParseEnv(res.Stdout)
	if len(env) == 0 {
		return nil, fmt.Errorf("%w: %s printed no environment", ErrProbeFailed, shell.Name())
	}
	logutil.Debug("login shell environment captured", "shell", shell.Name(), "vars", len(env), "elapsed", elapsed)

	// The tool-bin dir hangs off the shell's HOME when it reports one.
	if h := strings.TrimSpace(env["HOME"]); h != "" {
		home = h
	}
	return pathutil.WithToolBin(env, pathutil.ToolBinDir(home, pathutil.Posix), pathutil.Posix), nil
}
