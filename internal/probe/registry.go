package probe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/procrun"
)

// RegistryTimeout bounds each `reg query` call.
const RegistryTimeout = 3 * time.Second

// ErrRegistryUnavailable means neither registry scope could be read.
var ErrRegistryUnavailable = fmt.Errorf("%w: registry PATH unavailable", ErrProbeFailed)

// RegistryScope selects the machine-wide or per-user environment key.
type RegistryScope int

const (
	MachineScope RegistryScope = iota
	UserScope
)

// Key returns the registry key holding the scope's environment.
func (s RegistryScope) Key() string {
	if s == UserScope {
		return `HKEY_CURRENT_USER\Environment`
	}
	return `HKEY_LOCAL_MACHINE\SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
}

func (s RegistryScope) String() string {
	if s == UserScope {
		return "user"
	}
	return "machine"
}

// RegistryReader reads the raw (unexpanded) Path value of one scope.
type RegistryReader interface {
	ReadPath(ctx context.Context, scope RegistryScope) (string, error)
}

// RegQueryReader reads the registry through `reg query <key> /v Path`.
type RegQueryReader struct {
	Runner  procrun.Runner
	Timeout time.Duration // defaults to RegistryTimeout
}

// ReadPath implements RegistryReader.
func (r *RegQueryReader) ReadPath(ctx context.Context, scope RegistryScope) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = RegistryTimeout
	}
	res := r.Runner.Run(ctx, procrun.Spec{
		Name:      "reg",
		Args:      []string{"query", scope.Key(), "/v", "Path"},
		Timeout:   timeout,
		MaxStdout: 64 * 1024,
	})
	switch {
	case res.TimedOut:
		return "", fmt.Errorf("reg query %s: timed out after %s", scope, timeout)
	case res.Err != nil:
		return "", fmt.Errorf("reg query %s: %w", scope, res.Err)
	case !res.Success():
		return "", fmt.Errorf("reg query %s: exit code %d: %s", scope, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	value, ok := parseRegQuery(res.Stdout)
	if !ok {
		return "", fmt.Errorf("reg query %s: no Path value in output", scope)
	}
	return value, nil
}

// parseRegQuery extracts the data of the Path value from reg.exe output:
//
//	HKEY_CURRENT_USER\Environment
//	    Path    REG_EXPAND_SZ    %USERPROFILE%\bin;C:\tools
func parseRegQuery(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, typ := range []string{"REG_EXPAND_SZ", "REG_SZ"} {
			idx := strings.Index(line, typ)
			if idx < 0 {
				continue
			}
			name := strings.TrimSpace(line[:idx])
			if name != "" && !strings.EqualFold(name, "Path") {
				continue
			}
			return strings.TrimSpace(line[idx+len(typ):]), true
		}
	}
	return "", false
}

// ReadCombinedPath reads both scopes independently and joins them, system
// first. It only fails when both reads fail.
func ReadCombinedPath(ctx context.Context, reader RegistryReader) (string, error) {
	var parts []string
	var errs []error
	for _, scope := range []RegistryScope{MachineScope, UserScope} {
		v, err := reader.ReadPath(ctx, scope)
		if err != nil {
			logutil.Debug("registry PATH read failed", "scope", scope.String(), "err", err)
			errs = append(errs, err)
			continue
		}
		if v = strings.Trim(strings.TrimSpace(v), ";"); v != "" {
			parts = append(parts, v)
		}
	}
	if len(errs) == 2 {
		return "", fmt.Errorf("%w: %w", ErrRegistryUnavailable, errors.Join(errs...))
	}
	return strings.Join(parts, ";"), nil
}

var percentVar = regexp.MustCompile(`%([^%;\\/]+)%`)

// ExpandPercentVars replaces %NAME% tokens with values from env, matching
// names case-insensitively. Unknown names stay as they are.
func ExpandPercentVars(value string, env model.EnvMap) string {
	return percentVar.ReplaceAllStringFunc(value, func(tok string) string {
		name := tok[1 : len(tok)-1]
		if v, ok := env.Get(name, true); ok {
			return v
		}
		return tok
	})
}
