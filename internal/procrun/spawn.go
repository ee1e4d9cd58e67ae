package procrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

// ErrTimeout is wrapped by ExecuteCommand when the child was killed at its
// deadline.
var ErrTimeout = errors.New("command timed out")

// CommandError is returned by ExecuteCommand for a non-zero exit.
type CommandError struct {
	Name     string
	ExitCode int
	Exited   bool
	Stderr   string
}

func (e *CommandError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	if !e.Exited {
		return fmt.Sprintf("command %s terminated abnormally", e.Name)
	}
	return fmt.Sprintf("command %s exited with code %d", e.Name, e.ExitCode)
}

// ShellWrap decides how a command is launched. On Windows, anything that
// is not an .exe goes through cmd.exe so .cmd/.bat shims get the shell's
// own quoting; rebuilding cmd.exe quoting by hand breaks as soon as both
// the path and an argument contain spaces. Everything else runs directly.
//
// It returns the program, its argv (without the program) and, for the
// shell case, the raw command line Windows should see.
func ShellWrap(f pathutil.Flavor, name string, args []string, comspec string) (prog string, argv []string, rawLine string, shell bool) {
	if !f.IsWindows() || f.HasExt(name, ".exe") {
		return name, args, "", false
	}
	if comspec == "" {
		comspec = "cmd.exe"
	}
	parts := make([]string, 0, 1+len(args))
	parts = append(parts, quoteForCmd(name))
	for _, a := range args {
		parts = append(parts, quoteForCmd(a))
	}
	inner := `"` + strings.Join(parts, " ") + `"`
	argv = []string{"/d", "/s", "/c", inner}
	rawLine = quoteForCmd(comspec) + " /d /s /c " + inner
	return comspec, argv, rawLine, true
}

// quoteForCmd wraps tokens containing spaces in double quotes. Anything
// already quoted is left alone.
func quoteForCmd(s string) string {
	if s == "" {
		return `""`
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) > 1 {
		return s
	}
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

// SpawnCrossPlatform builds (but does not start) the exec.Cmd for name,
// applying the Windows shell rule from ShellWrap.
func SpawnCrossPlatform(f pathutil.Flavor, name string, args []string, env []string) (*exec.Cmd, error) {
	comspec := ""
	if f.IsWindows() {
		comspec = lookupComSpec(env)
	}
	prog, argv, raw, shell := ShellWrap(f, name, args, comspec)
	bin, err := resolveBinary(prog)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(bin, argv...) //nolint:gosec // callers validate names
	if shell {
		setRawCmdLine(cmd, raw)
	}
	return cmd, nil
}

func lookupComSpec(env []string) string {
	if env == nil {
		return os.Getenv("ComSpec")
	}
	if v, ok := model.FromEnviron(env).Get("ComSpec", true); ok {
		return v
	}
	return ""
}

// ExecOptions configures ExecuteCommand.
type ExecOptions struct {
	Capture bool // return stdout on success; otherwise ""
	Env     []string
	Dir     string
	Timeout time.Duration
}

// ExecuteCommand runs name through SpawnCrossPlatform semantics and
// returns stdout on exit code 0. A non-zero exit yields *CommandError with
// the captured stderr; a timeout yields an error wrapping ErrTimeout.
func ExecuteCommand(ctx context.Context, r Runner, name string, args []string, opts ExecOptions) (string, error) {
	res := r.Run(ctx, Spec{
		Name:          name,
		Args:          args,
		Dir:           opts.Dir,
		Env:           opts.Env,
		Timeout:       opts.Timeout,
		CrossPlatform: true,
	})
	switch {
	case res.TimedOut:
		return "", fmt.Errorf("%s: %w after %s", name, ErrTimeout, opts.Timeout)
	case res.Err != nil:
		return "", fmt.Errorf("spawn %s: %w", name, res.Err)
	case res.Success():
		if opts.Capture {
			return res.Stdout, nil
		}
		return "", nil
	}
	return "", &CommandError{Name: name, ExitCode: res.ExitCode, Exited: res.Exited, Stderr: res.Stderr}
}
