// Package pathutil holds the path and PATH-string helpers shared by the
// probes, the resolver and the Git Bash locator.
//
// Everything here is parameterized by a Flavor instead of runtime.GOOS so
// Windows behaviour can be exercised on any host.
package pathutil

import (
	"path"
	"runtime"
	"strings"
)

// Flavor selects path and environment semantics for a target OS.
type Flavor int

const (
	Posix Flavor = iota
	Windows
)

// Host returns the flavor of the running OS.
func Host() Flavor {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Posix
}

func (f Flavor) String() string {
	if f == Windows {
		return "windows"
	}
	return "posix"
}

// IsWindows is a shorthand used at the few call sites that branch.
func (f Flavor) IsWindows() bool { return f == Windows }

// FoldKeys reports whether env var names are case-insensitive.
func (f Flavor) FoldKeys() bool { return f == Windows }

// ListSeparator separates PATH segments.
func (f Flavor) ListSeparator() string {
	if f == Windows {
		return ";"
	}
	return ":"
}

// DefaultPathKey is the canonical casing used when no PATH-like key exists.
func (f Flavor) DefaultPathKey() string {
	if f == Windows {
		return "Path"
	}
	return "PATH"
}

// Clean is filepath.Clean for the flavor. Windows paths accept both
// separators and always come back with backslashes.
func (f Flavor) Clean(p string) string {
	if f != Windows {
		if p == "" {
			return ""
		}
		return path.Clean(p)
	}
	if p == "" {
		return ""
	}
	s := strings.ReplaceAll(p, `\`, "/")
	vol := ""
	switch {
	case strings.HasPrefix(s, "//"):
		// UNC: keep the extra leading slash that path.Clean would collapse.
		vol = "/"
		s = s[1:]
	case len(s) >= 2 && s[1] == ':':
		vol = s[:2]
		s = s[2:]
	}
	c := s
	if s != "" {
		c = path.Clean(s)
	}
	return strings.ReplaceAll(vol+c, "/", `\`)
}

// Join joins elements with the flavor's separator and cleans the result.
func (f Flavor) Join(elem ...string) string {
	var parts []string
	for _, e := range elem {
		if e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if f != Windows {
		return path.Join(parts...)
	}
	return f.Clean(strings.Join(parts, `\`))
}

// Dir returns all but the last element of p.
func (f Flavor) Dir(p string) string {
	if f != Windows {
		return path.Dir(p)
	}
	c := f.Clean(p)
	vol := ""
	if len(c) >= 2 && c[1] == ':' {
		vol = c[:2]
		c = c[2:]
	}
	i := strings.LastIndex(c, `\`)
	switch {
	case i < 0:
		return vol + "."
	case i == 0:
		return vol + `\`
	}
	return vol + c[:i]
}

// Base returns the last element of p.
func (f Flavor) Base(p string) string {
	if f != Windows {
		return path.Base(p)
	}
	c := f.Clean(p)
	if i := strings.LastIndex(c, `\`); i >= 0 {
		return c[i+1:]
	}
	if len(c) >= 2 && c[1] == ':' {
		return c[2:]
	}
	return c
}

// IsAbs reports whether p is absolute. On Windows that means a drive
// letter followed by a separator, or a UNC path.
func (f Flavor) IsAbs(p string) bool {
	if f != Windows {
		return strings.HasPrefix(p, "/")
	}
	if strings.HasPrefix(p, `\\`) || strings.HasPrefix(p, "//") {
		return true
	}
	if len(p) < 3 || p[1] != ':' || (p[2] != '\\' && p[2] != '/') {
		return false
	}
	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}

// Normalize prepares a path for equality checks: cleaned, without a
// trailing separator, and lower-cased on Windows.
func (f Flavor) Normalize(p string) string {
	c := f.Clean(strings.TrimSpace(p))
	if f == Windows {
		if len(c) > 3 || (len(c) > 1 && c[1] != ':') {
			c = strings.TrimRight(c, `\`)
		}
		return strings.ToLower(c)
	}
	if len(c) > 1 {
		c = strings.TrimRight(c, "/")
	}
	return c
}

// SamePath compares two paths after normalization.
func (f Flavor) SamePath(a, b string) bool {
	return f.Normalize(a) == f.Normalize(b)
}

// WithinDir reports whether p is dir itself or somewhere below it.
func (f Flavor) WithinDir(p, dir string) bool {
	np, nd := f.Normalize(p), f.Normalize(dir)
	if np == "" || nd == "" {
		return false
	}
	if np == nd {
		return true
	}
	sep := "/"
	if f == Windows {
		sep = `\`
	}
	if strings.HasSuffix(nd, sep) {
		return strings.HasPrefix(np, nd)
	}
	return strings.HasPrefix(np, nd+sep)
}

// HasExt reports whether p ends in ext, case-insensitively on Windows.
func (f Flavor) HasExt(p, ext string) bool {
	if f == Windows {
		return strings.HasSuffix(strings.ToLower(p), strings.ToLower(ext))
	}
	return strings.HasSuffix(p, ext)
}
