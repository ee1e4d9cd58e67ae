package resolver

import (
	"context"
	"strings"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

// gitInstallRoots are the environment variables naming where Git for
// Windows is usually installed, with the sub-path to append.
var gitInstallRoots = []struct {
	env string
	sub []string
}{
	{"ProgramFiles", nil},
	{"ProgramFiles(x86)", nil},
	{"LOCALAPPDATA", []string{"Programs"}},
}

// CommonGitRoots returns the directories that usually contain a Git for
// Windows install. They are not checked for existence.
func CommonGitRoots(env model.EnvMap) []string {
	var roots []string
	for _, root := range gitInstallRoots {
		base, ok := env.Get(root.env, true)
		if !ok || strings.TrimSpace(base) == "" {
			continue
		}
		roots = append(roots, pathutil.Windows.Join(append([]string{base}, root.sub...)...))
	}
	return roots
}

// FindExecutable is the Windows where.exe fallback. It sees .cmd shims
// that the shell-env lookup skips, and it refuses anything that lives in
// the working directory.
func (r *Resolver) FindExecutable(ctx context.Context, name string) (string, bool) {
	if !r.flavor.IsWindows() || !r.validate(name) {
		return "", false
	}
	env := r.env.Get(ctx)

	if strings.EqualFold(name, "git") {
		for _, root := range CommonGitRoots(env) {
			candidate := r.flavor.Join(root, "Git", "cmd", "git.exe")
			if r.exists(candidate) {
				return candidate, true
			}
		}
	}

	lines, ok := r.lookup(ctx, env, "where.exe", name)
	if !ok {
		return "", false
	}
	cwd, err := r.getwd()
	if err != nil {
		logutil.Debug("getwd failed", "err", err)
		cwd = ""
	}
	for _, line := range lines {
		if !r.flavor.IsAbs(line) || !r.allowedExt(line) {
			continue
		}
		if cwd != "" && r.flavor.WithinDir(r.flavor.Dir(line), cwd) {
			logutil.WarnContext(ctx, "skipping executable in working directory", "command", name, "path", line, "cwd", cwd)
			continue
		}
		return line, true
	}
	return "", false
}

func (r *Resolver) allowedExt(p string) bool {
	for _, ext := range r.exts {
		if r.flavor.HasExt(p, ext) {
			return true
		}
	}
	return false
}
