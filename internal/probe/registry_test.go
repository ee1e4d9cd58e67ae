package probe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shellenv/internal/model"
	"shellenv/internal/procrun"
)

func TestParseRegQuery(t *testing.T) {
	cases := []struct {
		name   string
		out    string
		want   string
		wantOK bool
	}{
		{
			name:   "expand_sz",
			out:    "\r\nHKEY_CURRENT_USER\\Environment\r\n    Path    REG_EXPAND_SZ    %USERPROFILE%\\bin;C:\\tools\r\n\r\n",
			want:   `%USERPROFILE%\bin;C:\tools`,
			wantOK: true,
		},
		{
			name:   "plain_sz",
			out:    "    PATH    REG_SZ    C:\\Windows",
			want:   `C:\Windows`,
			wantOK: true,
		},
		{
			name:   "bare_value_line",
			out:    `REG_EXPAND_SZ C:\Windows\system32;%SystemRoot%`,
			want:   `C:\Windows\system32;%SystemRoot%`,
			wantOK: true,
		},
		{
			name: "other_value_ignored",
			out:  "    TEMP    REG_EXPAND_SZ    %USERPROFILE%\\Temp",
		},
		{
			name: "error_text",
			out:  "ERROR: The system was unable to find the specified registry key or value.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseRegQuery(tc.out)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("got (%q, %v) want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestExpandPercentVars(t *testing.T) {
	env := model.EnvMap{"SystemRoot": `C:\Windows`, "USERPROFILE": `C:\Users\u`}
	cases := []struct {
		in   string
		want string
	}{
		{`%SystemRoot%\system32`, `C:\Windows\system32`},
		{`%systemroot%\system32`, `C:\Windows\system32`},
		{`%UNKNOWN%\bin`, `%UNKNOWN%\bin`},
		{`%UNKNOWN%\bin;%USERPROFILE%\go\bin`, `%UNKNOWN%\bin;C:\Users\u\go\bin`},
		{`C:\50%;%SystemRoot%`, `C:\50%;C:\Windows`},
		{`no tokens`, `no tokens`},
	}
	for _, tc := range cases {
		if got := ExpandPercentVars(tc.in, env); got != tc.want {
			t.Errorf("ExpandPercentVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

type mapRegistry map[RegistryScope]string

func (m mapRegistry) ReadPath(_ context.Context, scope RegistryScope) (string, error) {
	v, ok := m[scope]
	if !ok {
		return "", errors.New("access denied")
	}
	return v, nil
}

func TestReadCombinedPathOrdering(t *testing.T) {
	cases := []struct {
		name string
		reg  mapRegistry
		want string
	}{
		{"system_before_user", mapRegistry{UserScope: `C:\user`, MachineScope: `C:\sys`}, `C:\sys;C:\user`},
		{"only_system", mapRegistry{MachineScope: `C:\sys;`}, `C:\sys`},
		{"only_user", mapRegistry{UserScope: `C:\user`}, `C:\user`},
		{"empty_user_value", mapRegistry{MachineScope: `C:\sys`, UserScope: ""}, `C:\sys`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadCombinedPath(t.Context(), tc.reg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestReadCombinedPathBothFail(t *testing.T) {
	_, err := ReadCombinedPath(t.Context(), mapRegistry{})
	if !errors.Is(err, ErrRegistryUnavailable) || !errors.Is(err, ErrProbeFailed) {
		t.Fatalf("expected ErrRegistryUnavailable, got %v", err)
	}
}

func TestRegistryProbeEndToEnd(t *testing.T) {
	runner := &scriptedRunner{fn: func(spec procrun.Spec) model.ExecutionResult {
		if spec.Name != "reg" {
			t.Errorf("unexpected spawn of %q", spec.Name)
			return model.ExecutionResult{Err: errors.New("unexpected")}
		}
		if strings.Contains(spec.Args[1], "HKEY_LOCAL_MACHINE") {
			return ok(`REG_EXPAND_SZ C:\Windows\system32;%SystemRoot%`)
		}
		return exit(1, "ERROR: The system was unable to find the specified registry key or value.")
	}}
	p := &RegistryProber{
		Registry: &RegQueryReader{Runner: runner},
		Host: staticHost(model.EnvMap{
			"SystemRoot":  `C:\Windows`,
			"USERPROFILE": `C:\Users\u`,
			"Path":        `C:\stale`,
		}),
	}
	env, err := p.Probe(t.Context())
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	want := `C:\Windows\system32;C:\Windows;C:\Users\u\.cherrystudio\bin`
	if env["Path"] != want {
		t.Fatalf("got Path %q want %q", env["Path"], want)
	}
	for _, name := range runner.names() {
		if name != "reg" {
			t.Fatalf("registry probe spawned %q", name)
		}
	}
	if n := len(runner.names()); n != 2 {
		t.Fatalf("expected two reg queries, got %d", n)
	}
	for _, spec := range runner.specs {
		if spec.Timeout != RegistryTimeout {
			t.Fatalf("reg query must be bounded, got timeout %s", spec.Timeout)
		}
	}
}

func TestRegistryProbePreservesKeyCasing(t *testing.T) {
	p := &RegistryProber{
		Registry: mapRegistry{MachineScope: `C:\sys`},
		Host:     staticHost(model.EnvMap{"PATH": `C:\old`, "USERPROFILE": `C:\u`}),
	}
	env, err := p.Probe(t.Context())
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if _, ok := env["Path"]; ok {
		t.Fatalf("should not invent a Path key when PATH exists: %v", env)
	}
	if env["PATH"] != `C:\sys;C:\u\.cherrystudio\bin` {
		t.Fatalf("unexpected PATH %q", env["PATH"])
	}
}

func TestRegistryProbeUnavailable(t *testing.T) {
	p := &RegistryProber{Registry: mapRegistry{}, Host: staticHost(model.EnvMap{"Path": `C:\old`})}
	if _, err := p.Probe(t.Context()); !errors.Is(err, ErrRegistryUnavailable) {
		t.Fatalf("expected ErrRegistryUnavailable, got %v", err)
	}
}
