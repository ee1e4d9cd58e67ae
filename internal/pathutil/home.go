package pathutil

import (
	"os"
	"strings"

	"shellenv/internal/model"
)

// ToolBinRelDir is where bundled helper binaries are installed, relative
// to the user's home directory.
var ToolBinRelDir = []string{".cherrystudio", "bin"}

// HomeDir picks the best available home directory from env: HOME, then
// USERPROFILE, then HOMEDRIVE+HOMEPATH, and finally the OS default.
func HomeDir(env model.EnvMap, f Flavor) string {
	fold := f.FoldKeys()
	for _, key := range []string{"HOME", "USERPROFILE"} {
		if v, ok := env.Get(key, fold); ok && strings.TrimSpace(v) != "" {
			return f.Clean(strings.TrimSpace(v))
		}
	}
	drive, _ := env.Get("HOMEDRIVE", fold)
	p, _ := env.Get("HOMEPATH", fold)
	if drive != "" && p != "" {
		return f.Join(drive, p)
	}
	if h, err := os.UserHomeDir(); err == nil {
		return f.Clean(h)
	}
	return ""
}

// ToolBinDir returns <home>/.cherrystudio/bin.
func ToolBinDir(home string, f Flavor) string {
	return f.Join(append([]string{home}, ToolBinRelDir...)...)
}
