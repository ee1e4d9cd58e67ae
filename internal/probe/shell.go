package probe

import (
	"path"
	"strings"

	"shellenv/internal/model"
)

// Shell is the login shell used to harvest the user's environment.
type Shell interface {
	Path() string
	Name() string
	// EnvCommand returns the args that make the shell source its login
	// and interactive profiles and then print its environment.
	EnvCommand() []string
}

type loginShell struct {
	path string
}

func (s loginShell) Path() string { return s.path }

func (s loginShell) Name() string {
	name := path.Base(s.path)
	// Login shells are sometimes reported as "-zsh".
	return strings.TrimPrefix(name, "-")
}

// All the shells we care about (bash, zsh, ksh, fish, dash) accept -i -l -c.
func (s loginShell) EnvCommand() []string {
	return []string{"-ilc", "env"}
}

// DetectShell returns the user's shell from SHELL, defaulting to zsh on
// macOS (its stock shell) and bash everywhere else.
func DetectShell(env model.EnvMap, goos string) Shell {
	if sh := strings.TrimSpace(env["SHELL"]); sh != "" {
		return loginShell{path: sh}
	}
	if goos == "darwin" {
		return loginShell{path: "/bin/zsh"}
	}
	return loginShell{path: "/bin/bash"}
}
