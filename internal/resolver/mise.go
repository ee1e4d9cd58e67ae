package resolver

import (
	"context"

	"shellenv/internal/logutil"
)

// FindViaMise asks the mise version manager where it keeps name. Its
// shims are invisible to the other strategies.
func (r *Resolver) FindViaMise(ctx context.Context, name string) (string, bool) {
	if !r.flavor.IsWindows() || !r.validate(name) {
		return "", false
	}
	env := r.env.Get(ctx)

	mise, ok := r.findMiseExecutable(ctx)
	if !ok {
		return "", false
	}
	lines, ok := r.lookup(ctx, env, mise, "which", name)
	if !ok {
		return "", false
	}
	p := lines[0]
	if !r.flavor.IsAbs(p) || !r.exists(p) {
		logutil.Debug("mise returned an unusable path", "command", name, "path", p)
		return "", false
	}
	return p, true
}

func (r *Resolver) findMiseExecutable(ctx context.Context) (string, bool) {
	lines, ok := r.lookup(ctx, r.env.Get(ctx), "where.exe", "mise")
	if !ok {
		return "", false
	}
	for _, line := range lines {
		if r.flavor.IsAbs(line) && r.flavor.HasExt(line, ".exe") {
			return line, true
		}
	}
	return "", false
}
