package model

import (
	"sort"
	"strings"
)

// EnvMap maps environment variable names to values.
//
// Maps handed out by the environment cache are shared snapshots; callers
// must Clone before changing anything.
type EnvMap map[string]string

// FromEnviron builds an EnvMap from "KEY=value" pairs (os.Environ format).
// Entries without '=' are ignored. Windows pseudo-variables like "=C:=C:\"
// are skipped since their key would be empty.
func FromEnviron(environ []string) EnvMap {
	env := make(EnvMap, len(environ))
	for _, kv := range environ {
		idx := strings.IndexByte(kv, '=')
		if idx <= 0 {
			continue
		}
		env[kv[:idx]] = kv[idx+1:]
	}
	return env
}

// Get returns the value for key. An exact match always wins; when fold is
// true (Windows) a case-insensitive match is tried next.
func (e EnvMap) Get(key string, fold bool) (string, bool) {
	if v, ok := e[key]; ok {
		return v, true
	}
	if !fold {
		return "", false
	}
	// Deterministic pick if several casings coexist.
	keys := e.sortedKeys()
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			return e[k], true
		}
	}
	return "", false
}

// PathKeys returns every key that case-insensitively equals "path", sorted.
func (e EnvMap) PathKeys() []string {
	var keys []string
	for k := range e {
		if strings.EqualFold(k, "path") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (e EnvMap) Clone() EnvMap {
	out := make(EnvMap, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Environ renders the map in os.Environ format, sorted by key so that
// child processes see a stable environment.
func (e EnvMap) Environ() []string {
	keys := e.sortedKeys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}

func (e EnvMap) sortedKeys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
