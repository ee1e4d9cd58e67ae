package gitbash

import (
	"context"
	"errors"
	"testing"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

type memStore map[string]string

func (m memStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memStore) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m memStore) Delete(key string) error {
	delete(m, key)
	return nil
}

type gitAt string

func (g gitAt) FindExecutable(context.Context, string) (string, bool) {
	return string(g), g != ""
}

func fileSet(paths ...string) pathutil.FileChecker {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

const (
	installerBash = `C:\Program Files\Git\bin\bash.exe`
	overrideBash  = `D:\tools\Git\bin\bash.exe`
)

var baseEnv = model.EnvMap{"ProgramFiles": `C:\Program Files`, "LOCALAPPDATA": `C:\Users\u\AppData\Local`}

func newLocator(store memStore, git gitAt, env model.EnvMap, files ...string) *Locator {
	return New(pathutil.Windows, store, git,
		WithEnv(func() model.EnvMap { return env }),
		WithFileChecker(fileSet(files...)),
	)
}

func withOverride(v string) model.EnvMap {
	env := baseEnv.Clone()
	env[OverrideEnv] = v
	return env
}

func TestLocateNoopOnPosix(t *testing.T) {
	store := memStore{}
	l := New(pathutil.Posix, store, gitAt(`/usr/bin/git`), WithFileChecker(fileSet(installerBash)))
	if info := l.Locate(t.Context()); info.Found() {
		t.Fatalf("expected nothing on posix, got %+v", info)
	}
	if len(store) != 0 {
		t.Fatalf("posix must not touch config: %v", store)
	}
}

func TestOverrideWinsOverPersisted(t *testing.T) {
	store := memStore{KeyPath: installerBash, KeySource: "manual"}
	l := newLocator(store, "", withOverride(overrideBash), installerBash, overrideBash)

	info := l.Locate(t.Context())
	if info.Path != overrideBash || info.Source != model.GitBashSourceEnv {
		t.Fatalf("got %+v", info)
	}
	if store[KeyPath] != overrideBash || store[KeySource] != "env" {
		t.Fatalf("override should be persisted with source env, got %v", store)
	}
}

func TestInvalidOverrideFallsThrough(t *testing.T) {
	cases := []struct {
		name     string
		override string
	}{
		{"missing_file", `D:\nope\bash.exe`},
		{"wrong_name", `D:\tools\Git\bin\sh.exe`},
		{"lookalike_name", `D:\tools\mybash.exe`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memStore{KeyPath: installerBash, KeySource: "auto"}
			l := newLocator(store, "", withOverride(tc.override), installerBash, `D:\tools\Git\bin\sh.exe`, `D:\tools\mybash.exe`)
			info := l.Locate(t.Context())
			if info.Path != installerBash || info.Source != model.GitBashSourceAuto {
				t.Fatalf("got %+v", info)
			}
		})
	}
}

func TestPersistedPathIsReusedWithoutDiscovery(t *testing.T) {
	store := memStore{KeyPath: `E:\Git\bin\BASH.EXE`, KeySource: "manual"}
	l := newLocator(store, gitAt(`C:\Program Files\Git\cmd\git.exe`), baseEnv, `E:\Git\bin\BASH.EXE`, installerBash)
	info := l.Locate(t.Context())
	if info.Path != `E:\Git\bin\BASH.EXE` || info.Source != model.GitBashSourceManual {
		t.Fatalf("got %+v", info)
	}
}

func TestStaleEnvEntryIsRediscovered(t *testing.T) {
	store := memStore{KeyPath: overrideBash, KeySource: "env"}
	l := newLocator(store, gitAt(`C:\Program Files\Git\cmd\git.exe`), baseEnv, overrideBash, installerBash)
	info := l.Locate(t.Context())
	if info.Path != installerBash || info.Source != model.GitBashSourceAuto {
		t.Fatalf("got %+v", info)
	}
	if store[KeySource] != "auto" {
		t.Fatalf("rediscovered path should be persisted as auto, got %v", store)
	}
}

func TestDiscoveryLayouts(t *testing.T) {
	cases := []struct {
		name  string
		git   gitAt
		files []string
		want  string
	}{
		{
			name:  "installer",
			git:   `C:\Program Files\Git\cmd\git.exe`,
			files: []string{installerBash, `C:\Program Files\Git\cmd\bash.exe`},
			want:  installerBash,
		},
		{
			name:  "portable",
			git:   `D:\PortableGit\bin\git.exe`,
			files: []string{`D:\PortableGit\bin\bash.exe`},
			want:  `D:\PortableGit\bin\bash.exe`,
		},
		{
			name:  "msys2",
			git:   `C:\msys64\mingw64\bin\git.exe`,
			files: []string{`C:\msys64\usr\bin\bash.exe`},
			want:  `C:\msys64\usr\bin\bash.exe`,
		},
		{
			name:  "usr_bin_beside_git_dir",
			git:   `C:\msys64\mingw64\bin\git.exe`,
			files: []string{`C:\msys64\mingw64\usr\bin\bash.exe`, `C:\msys64\usr\bin\bash.exe`},
			want:  `C:\msys64\mingw64\usr\bin\bash.exe`,
		},
		{
			name:  "common_root_without_git",
			files: []string{`C:\Users\u\AppData\Local\Programs\Git\bin\bash.exe`},
			want:  `C:\Users\u\AppData\Local\Programs\Git\bin\bash.exe`,
		},
		{
			name:  "common_root_when_layouts_miss",
			git:   `D:\weird\git.exe`,
			files: []string{installerBash},
			want:  installerBash,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memStore{}
			l := newLocator(store, tc.git, baseEnv, tc.files...)
			info := l.Locate(t.Context())
			if info.Path != tc.want || info.Source != model.GitBashSourceAuto {
				t.Fatalf("got %+v want %q", info, tc.want)
			}
			if store[KeyPath] != tc.want || store[KeySource] != "auto" {
				t.Fatalf("discovered path not persisted: %v", store)
			}
		})
	}
}

func TestCandidatesOrder(t *testing.T) {
	l := newLocator(memStore{}, "", baseEnv)
	got := l.Candidates(`C:\msys64\mingw64\bin\git.exe`, baseEnv)
	want := []string{
		`C:\msys64\mingw64\bin\bash.exe`,
		`C:\msys64\mingw64\usr\bin\bash.exe`,
		`C:\msys64\usr\bin\bash.exe`,
		`C:\Program Files\Git\bin\bash.exe`,
		`C:\Users\u\AppData\Local\Programs\Git\bin\bash.exe`,
	}
	if len(got) != len(want) {
		t.Fatalf("got %q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestValidateRequiresBashExeName(t *testing.T) {
	files := []string{
		`C:\tools\mybash.exe`,
		`C:\tools\bash.exe.bak`,
		`C:\Git\bin\BASH.EXE`,
		installerBash,
	}
	l := newLocator(memStore{}, "", baseEnv, files...)
	cases := []struct {
		path string
		want bool
	}{
		{`C:\tools\mybash.exe`, false},
		{`C:\tools\bash.exe.bak`, false},
		{`C:\Git\bin\BASH.EXE`, true},
		{installerBash, true},
		{`C:\missing\bash.exe`, false},
		{"", false},
	}
	for _, tc := range cases {
		if got := l.Validate(tc.path); got != tc.want {
			t.Errorf("Validate(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestNothingFound(t *testing.T) {
	store := memStore{KeyPath: `C:\gone\bash.exe`, KeySource: "auto"}
	l := newLocator(store, "", baseEnv)
	if info := l.Locate(t.Context()); info.Found() {
		t.Fatalf("got %+v", info)
	}
	if len(store) != 0 {
		t.Fatalf("invalid persisted entry should be removed, got %v", store)
	}
}

func TestSetManualPathAndClear(t *testing.T) {
	store := memStore{}
	l := newLocator(store, "", baseEnv, overrideBash)

	if err := l.SetManualPath(`C:\nope\bash.exe`); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
	if err := l.SetManualPath(overrideBash); err != nil {
		t.Fatalf("SetManualPath: %v", err)
	}
	if info := l.Locate(t.Context()); info.Path != overrideBash || info.Source != model.GitBashSourceManual {
		t.Fatalf("got %+v", info)
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(store) != 0 {
		t.Fatalf("Clear left %v", store)
	}
}
