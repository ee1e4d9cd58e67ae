package pathutil

import "os"

// FileChecker reports whether a regular file exists at path. Components
// take one so tests can describe a Windows filesystem on any host.
type FileChecker func(path string) bool

// FileExists is the os-backed FileChecker.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
