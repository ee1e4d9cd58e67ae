package model

// GitBashSource records how the Git Bash path was obtained.
type GitBashSource string

const (
	GitBashSourceNone   GitBashSource = ""
	GitBashSourceEnv    GitBashSource = "env"
	GitBashSourceManual GitBashSource = "manual"
	GitBashSourceAuto   GitBashSource = "auto"
)

// Valid reports whether s is one of the persisted source values.
func (s GitBashSource) Valid() bool {
	switch s {
	case GitBashSourceEnv, GitBashSourceManual, GitBashSourceAuto:
		return true
	}
	return false
}

// GitBashPathInfo describes the POSIX-compatible shell used on Windows.
// Both fields are empty when nothing usable was found.
type GitBashPathInfo struct {
	Path   string        `json:"path" yaml:"path"`
	Source GitBashSource `json:"source" yaml:"source"`
}

// Found reports whether a path is set.
func (i GitBashPathInfo) Found() bool {
	return i.Path != ""
}
