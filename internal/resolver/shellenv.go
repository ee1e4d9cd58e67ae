package resolver

import (
	"context"

	"shellenv/internal/logutil"
)

// posixLookupScript receives the command name as $1 so the name is never
// part of the script text.
const posixLookupScript = `command -v "$1"`

// FindCommandInShellEnv looks name up in the cached login environment.
// On POSIX it asks `sh` for `command -v`; on Windows it asks `where`
// and only accepts .exe results, since shims need a shell to run.
func (r *Resolver) FindCommandInShellEnv(ctx context.Context, name string) (string, bool) {
	if !r.validate(name) {
		return "", false
	}
	env := r.env.Get(ctx)

	if r.flavor.IsWindows() {
		lines, ok := r.lookup(ctx, env, "where", name)
		if !ok {
			return "", false
		}
		for _, line := range lines {
			if r.flavor.IsAbs(line) && r.flavor.HasExt(line, ".exe") {
				return line, true
			}
		}
		logutil.Debug("where found no .exe", "command", name, "candidates", lines)
		return "", false
	}

	lines, ok := r.lookup(ctx, env, "/bin/sh", "-c", posixLookupScript, "--", name)
	if !ok {
		return "", false
	}
	// Aliases, functions and builtins come back as bare words.
	if p := lines[0]; r.flavor.IsAbs(p) {
		return p, true
	}
	logutil.Debug("command -v returned a non-path", "command", name, "result", lines[0])
	return "", false
}
