package pathutil

import (
	"strings"

	"shellenv/internal/model"
)

// SplitList splits a PATH value, dropping empty segments.
func SplitList(value string, f Flavor) []string {
	var out []string
	for _, seg := range strings.Split(value, f.ListSeparator()) {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// AppendSegment adds dir to the end of a PATH value unless an equivalent
// segment is already present. Existing segments keep their order and their
// original spelling.
func AppendSegment(value, dir string, f Flavor) string {
	segs := SplitList(value, f)
	if dir == "" {
		return strings.Join(segs, f.ListSeparator())
	}
	want := f.Normalize(dir)
	for _, s := range segs {
		if f.Normalize(s) == want {
			return strings.Join(segs, f.ListSeparator())
		}
	}
	segs = append(segs, dir)
	return strings.Join(segs, f.ListSeparator())
}

// SetPath writes value to every PATH-like key, creating the flavor's
// default key when none exists. env is modified in place.
func SetPath(env model.EnvMap, value string, f Flavor) {
	keys := env.PathKeys()
	if len(keys) == 0 {
		env[f.DefaultPathKey()] = value
		return
	}
	for _, k := range keys {
		env[k] = value
	}
}

// CurrentPath returns the PATH value the flavor considers canonical:
// the default casing if present, otherwise the first PATH-like key.
func CurrentPath(env model.EnvMap, f Flavor) string {
	if v, ok := env[f.DefaultPathKey()]; ok {
		return v
	}
	if keys := env.PathKeys(); len(keys) > 0 {
		return env[keys[0]]
	}
	return ""
}

// AppendToolBin returns a copy of env whose PATH-like keys all end with
// the tool-bin directory. Applying it twice is a no-op.
func AppendToolBin(env model.EnvMap, f Flavor) model.EnvMap {
	return WithToolBin(env, ToolBinDir(HomeDir(env, f), f), f)
}

// WithToolBin is AppendToolBin with an explicit directory, for callers
// that already know which home the directory belongs to.
func WithToolBin(env model.EnvMap, dir string, f Flavor) model.EnvMap {
	out := env.Clone()
	SetPath(out, AppendSegment(CurrentPath(out, f), dir, f), f)
	return out
}
