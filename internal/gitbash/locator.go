// Package gitbash finds the bash.exe shipped with Git for Windows.
// On every other platform it finds nothing.
package gitbash

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/resolver"
)

// OverrideEnv names the variable that forces a specific bash.exe.
const OverrideEnv = "CHERRY_STUDIO_GIT_BASH_PATH"

// Config keys.
const (
	KeyPath   = "GitBashPath"
	KeySource = "GitBashPathSource"
)

// ErrInvalidPath is returned by SetManualPath for a path that fails Validate.
var ErrInvalidPath = errors.New("not an existing bash.exe")

// ConfigStore persists the discovered path between runs.
type ConfigStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// GitFinder locates git.exe.
type GitFinder interface {
	FindExecutable(ctx context.Context, name string) (string, bool)
}

// Locator resolves the Git Bash path, re-evaluating on every call:
// override variable, then persisted config, then discovery.
type Locator struct {
	flavor pathutil.Flavor
	store  ConfigStore
	git    GitFinder
	env    func() model.EnvMap
	exists pathutil.FileChecker
}

// Option configures a Locator.
type Option func(*Locator)

// WithEnv replaces where the override and install-root variables are read.
func WithEnv(env func() model.EnvMap) Option {
	return func(l *Locator) { l.env = env }
}

// WithFileChecker replaces the filesystem existence check.
func WithFileChecker(fc pathutil.FileChecker) Option {
	return func(l *Locator) { l.exists = fc }
}

func New(f pathutil.Flavor, store ConfigStore, git GitFinder, opts ...Option) *Locator {
	l := &Locator{
		flavor: f,
		store:  store,
		git:    git,
		env:    func() model.EnvMap { return model.FromEnviron(os.Environ()) },
		exists: pathutil.FileExists,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the Git Bash path and where it came from, or an empty
// info when none can be found.
func (l *Locator) Locate(ctx context.Context) model.GitBashPathInfo {
	if !l.flavor.IsWindows() {
		return model.GitBashPathInfo{}
	}
	env := l.env()

	if v, ok := env.Get(OverrideEnv, true); ok && strings.TrimSpace(v) != "" {
		v = strings.TrimSpace(v)
		if l.Validate(v) {
			l.persist(v, model.GitBashSourceEnv)
			return model.GitBashPathInfo{Path: v, Source: model.GitBashSourceEnv}
		}
	}

	if p, src, ok := l.persisted(); ok {
		switch {
		case src == model.GitBashSourceEnv:
			// The override that produced this entry is no longer in effect.
			logutil.Debug("dropping git bash path from a removed override", "path", p)
			l.forget()
		case l.Validate(p):
			return model.GitBashPathInfo{Path: p, Source: src}
		default:
			l.forget()
		}
	}

	if p, ok := l.discover(ctx, env); ok {
		l.persist(p, model.GitBashSourceAuto)
		return model.GitBashPathInfo{Path: p, Source: model.GitBashSourceAuto}
	}
	logutil.Debug("git bash not found")
	return model.GitBashPathInfo{}
}

// Validate reports whether p is an existing file named bash.exe.
func (l *Locator) Validate(p string) bool {
	p = strings.TrimSpace(p)
	if p == "" {
		return false
	}
	if !strings.EqualFold(pathutil.Windows.Base(p), "bash.exe") {
		logutil.Warn("rejected git bash path: not bash.exe", "path", p)
		return false
	}
	if !l.exists(p) {
		logutil.Warn("rejected git bash path: file does not exist", "path", p)
		return false
	}
	return true
}

// SetManualPath stores a user-chosen path.
func (l *Locator) SetManualPath(p string) error {
	p = strings.TrimSpace(p)
	if !l.Validate(p) {
		return fmt.Errorf("git bash %q: %w", p, ErrInvalidPath)
	}
	if err := l.store.Set(KeyPath, p); err != nil {
		return err
	}
	return l.store.Set(KeySource, string(model.GitBashSourceManual))
}

// Clear forgets any persisted path.
func (l *Locator) Clear() error {
	return errors.Join(l.store.Delete(KeyPath), l.store.Delete(KeySource))
}

// Candidates lists every path discovery would check, in order.
func (l *Locator) Candidates(gitPath string, env model.EnvMap) []string {
	w := pathutil.Windows
	var out []string
	if gitPath != "" {
		gitDir := w.Dir(gitPath)
		// Installer (Git\cmd\git.exe), portable (Git\bin\git.exe) and
		// MSYS2 layouts. A stock msys64\mingw64\bin\git.exe keeps bash one
		// level further up, in msys64\usr\bin.
		out = append(out,
			w.Join(w.Dir(gitDir), "bin", "bash.exe"),
			w.Join(gitDir, "bash.exe"),
			w.Join(w.Dir(gitDir), "usr", "bin", "bash.exe"),
			w.Join(w.Dir(w.Dir(gitDir)), "usr", "bin", "bash.exe"),
		)
	}
	for _, root := range resolver.CommonGitRoots(env) {
		out = append(out, w.Join(root, "Git", "bin", "bash.exe"))
	}
	return slices.CompactFunc(out, strings.EqualFold)
}

func (l *Locator) discover(ctx context.Context, env model.EnvMap) (string, bool) {
	git, ok := l.git.FindExecutable(ctx, "git")
	if !ok {
		git = ""
	}
	for _, c := range l.Candidates(git, env) {
		if l.exists(c) {
			logutil.Debug("git bash discovered", "path", c, "git", git)
			return c, true
		}
	}
	return "", false
}

func (l *Locator) persisted() (string, model.GitBashSource, bool) {
	p, ok := l.store.Get(KeyPath)
	if !ok || strings.TrimSpace(p) == "" {
		return "", model.GitBashSourceNone, false
	}
	src, _ := l.store.Get(KeySource)
	source := model.GitBashSource(src)
	if !source.Valid() {
		source = model.GitBashSourceManual
	}
	return p, source, true
}

func (l *Locator) persist(p string, src model.GitBashSource) {
	if cur, ok := l.store.Get(KeyPath); ok && cur == p {
		if s, _ := l.store.Get(KeySource); s == string(src) {
			return
		}
	}
	err := errors.Join(l.store.Set(KeyPath, p), l.store.Set(KeySource, string(src)))
	if err != nil {
		logutil.Warn("could not persist git bash path", "path", p, "source", string(src), "err", err)
	}
}

func (l *Locator) forget() {
	if err := l.Clear(); err != nil {
		logutil.Warn("could not clear git bash path", "err", err)
	}
}
