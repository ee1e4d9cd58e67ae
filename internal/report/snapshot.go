package report

import (
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

// Snapshot is everything the report, TUI and web views show.
type Snapshot struct {
	Version string                `json:"version" yaml:"version"`
	Flavor  string                `json:"flavor" yaml:"flavor"`
	Shell   string                `json:"shell,omitempty" yaml:"shell,omitempty"`
	PathKey string                `json:"pathKey" yaml:"pathKey"`
	ToolBin string                `json:"toolBin" yaml:"toolBin"`
	Entries []model.PathEntry     `json:"entries" yaml:"entries"`
	Counts  Counts                `json:"counts" yaml:"counts"`
	GitBash model.GitBashPathInfo `json:"gitBash" yaml:"gitBash"`
	Env     model.EnvMap          `json:"env,omitempty" yaml:"env,omitempty"`
}

// NewSnapshot analyzes env. The full environment is only kept when
// withEnv is set since it often carries secrets.
func NewSnapshot(env model.EnvMap, f pathutil.Flavor, gitBash model.GitBashPathInfo, dirExists pathutil.FileChecker, withEnv bool) Snapshot {
	toolBin := pathutil.ToolBinDir(pathutil.HomeDir(env, f), f)
	entries := Analyze(pathutil.CurrentPath(env, f), f, toolBin, dirExists)

	s := Snapshot{
		Version: model.Version,
		Flavor:  f.String(),
		PathKey: pathKey(env, f),
		ToolBin: toolBin,
		Entries: entries,
		Counts:  Count(entries),
		GitBash: gitBash,
	}
	if !f.IsWindows() {
		s.Shell = env["SHELL"]
	}
	if withEnv {
		s.Env = env
	}
	return s
}

func pathKey(env model.EnvMap, f pathutil.Flavor) string {
	if _, ok := env[f.DefaultPathKey()]; ok {
		return f.DefaultPathKey()
	}
	if keys := env.PathKeys(); len(keys) > 0 {
		return keys[0]
	}
	return f.DefaultPathKey()
}
