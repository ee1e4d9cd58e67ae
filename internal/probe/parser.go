package probe

import (
	"strings"

	"shellenv/internal/model"
)

// ParseEnv parses `env` output: one KEY=value per line, split on the first
// '='. Lines without '=' are skipped. Multi-line values cannot be told
// apart from new entries, so their continuation lines are dropped unless
// they happen to contain '='.
func ParseEnv(out string) model.EnvMap {
	env := make(model.EnvMap)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSuffix(line, "\r")
		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}
		env[line[:idx]] = line[idx+1:]
	}
	return env
}
