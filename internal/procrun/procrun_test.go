package procrun

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

func TestShellWrap(t *testing.T) {
	cases := []struct {
		name      string
		f         pathutil.Flavor
		cmd       string
		args      []string
		wantProg  string
		wantArgv  []string
		wantRaw   string
		wantShell bool
	}{
		{
			name:     "posix_runs_directly",
			f:        pathutil.Posix,
			cmd:      "/usr/bin/git",
			args:     []string{"--version"},
			wantProg: "/usr/bin/git",
			wantArgv: []string{"--version"},
		},
		{
			name:     "windows_exe_runs_directly",
			f:        pathutil.Windows,
			cmd:      `C:\Program Files\Git\cmd\git.EXE`,
			args:     []string{"status"},
			wantProg: `C:\Program Files\Git\cmd\git.EXE`,
			wantArgv: []string{"status"},
		},
		{
			name:      "windows_cmd_shim_goes_through_shell",
			f:         pathutil.Windows,
			cmd:       `C:\Users\u\AppData\Roaming\npm\npx.cmd`,
			args:      []string{"-y", "some pkg"},
			wantProg:  `C:\Windows\system32\cmd.exe`,
			wantArgv:  []string{"/d", "/s", "/c", `"C:\Users\u\AppData\Roaming\npm\npx.cmd -y "some pkg""`},
			wantRaw:   `C:\Windows\system32\cmd.exe /d /s /c "C:\Users\u\AppData\Roaming\npm\npx.cmd -y "some pkg""`,
			wantShell: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog, argv, raw, shell := ShellWrap(tc.f, tc.cmd, tc.args, `C:\Windows\system32\cmd.exe`)
			if prog != tc.wantProg || shell != tc.wantShell || raw != tc.wantRaw {
				t.Fatalf("got prog=%q shell=%v raw=%q", prog, shell, raw)
			}
			if !reflect.DeepEqual(argv, tc.wantArgv) {
				t.Fatalf("argv: got %q want %q", argv, tc.wantArgv)
			}
		})
	}
}

func TestHeadWriterCaps(t *testing.T) {
	w := newHeadWriter(8)
	for _, chunk := range []string{"abc", "defgh", "ijk"} {
		n, err := w.Write([]byte(chunk))
		if err != nil || n != len(chunk) {
			t.Fatalf("Write(%q) = %d, %v", chunk, n, err)
		}
	}
	if got := w.String(); got != "abcdefgh" {
		t.Fatalf("got %q", got)
	}
	if !w.Truncated() {
		t.Fatalf("expected truncated")
	}

	unlimited := newHeadWriter(0)
	_, _ = unlimited.Write([]byte(strings.Repeat("x", 1000)))
	if unlimited.Truncated() || len(unlimited.String()) != 1000 {
		t.Fatalf("unlimited writer should keep everything")
	}
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-specific")
	}
	r := NewExecRunner(pathutil.Posix)
	res := r.Run(t.Context(), Spec{
		Name: "/bin/sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	if res.Err != nil {
		t.Fatalf("unexpected spawn error: %v", res.Err)
	}
	if !res.Exited || res.ExitCode != 3 {
		t.Fatalf("expected exit 3, got exited=%v code=%d", res.Exited, res.ExitCode)
	}
	if res.Stdout != "out\n" || res.Stderr != "err\n" {
		t.Fatalf("got stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if res.Success() {
		t.Fatalf("non-zero exit must not be success")
	}
}

func TestExecRunnerStdoutCap(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-specific")
	}
	r := NewExecRunner(pathutil.Posix)
	res := r.Run(t.Context(), Spec{
		Name:      "/bin/sh",
		Args:      []string{"-c", "i=0; while [ $i -lt 200 ]; do echo 0123456789; i=$((i+1)); done"},
		MaxStdout: 100,
	})
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(res.Stdout) != 100 || !res.Truncated {
		t.Fatalf("expected 100 bytes truncated, got %d truncated=%v", len(res.Stdout), res.Truncated)
	}
}

func TestExecRunnerTimeoutKills(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-specific")
	}
	r := NewExecRunner(pathutil.Posix)
	start := time.Now()
	res := r.Run(t.Context(), Spec{
		Name:    "/bin/sh",
		Args:    []string{"-c", "sleep 30"},
		Timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if res.Exited {
		t.Fatalf("killed child must not report an exit code")
	}
	if elapsed > 5*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestExecRunnerSpawnFailure(t *testing.T) {
	r := NewExecRunner(pathutil.Host())
	res := r.Run(t.Context(), Spec{Name: "/definitely/not/here/tool"})
	if res.Err == nil {
		t.Fatalf("expected spawn error")
	}
	if res.Success() {
		t.Fatalf("spawn failure must not be success")
	}
}

type fakeRunner struct {
	res   model.ExecutionResult
	specs []Spec
}

func (f *fakeRunner) Run(_ context.Context, spec Spec) model.ExecutionResult {
	f.specs = append(f.specs, spec)
	return f.res
}

func TestExecuteCommand(t *testing.T) {
	cases := []struct {
		name       string
		res        model.ExecutionResult
		capture    bool
		want       string
		wantErrSub string
		wantIs     error
	}{
		{
			name:    "capture_stdout",
			res:     model.ExecutionResult{Stdout: "v1.2\n", Exited: true},
			capture: true,
			want:    "v1.2\n",
		},
		{
			name: "no_capture_returns_empty",
			res:  model.ExecutionResult{Stdout: "noise", Exited: true},
			want: "",
		},
		{
			name:       "non_zero_uses_stderr",
			res:        model.ExecutionResult{Stderr: "fatal: not a repo\n", ExitCode: 128, Exited: true},
			wantErrSub: "fatal: not a repo",
		},
		{
			name:       "non_zero_generic_message",
			res:        model.ExecutionResult{ExitCode: 2, Exited: true},
			wantErrSub: "exited with code 2",
		},
		{
			name:   "timeout",
			res:    model.ExecutionResult{TimedOut: true},
			wantIs: ErrTimeout,
		},
		{
			name:       "spawn_error",
			res:        model.ExecutionResult{Err: errors.New("exec: not found")},
			wantErrSub: "spawn",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fr := &fakeRunner{res: tc.res}
			got, err := ExecuteCommand(t.Context(), fr, "tool", []string{"a"}, ExecOptions{Capture: tc.capture, Timeout: time.Second})
			if len(fr.specs) != 1 || !fr.specs[0].CrossPlatform {
				t.Fatalf("expected one cross-platform spawn, got %+v", fr.specs)
			}
			if tc.wantIs != nil {
				if !errors.Is(err, tc.wantIs) {
					t.Fatalf("expected %v, got %v", tc.wantIs, err)
				}
				return
			}
			if tc.wantErrSub != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErrSub) {
					t.Fatalf("error %v does not contain %q", err, tc.wantErrSub)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCommandErrorIsTyped(t *testing.T) {
	fr := &fakeRunner{res: model.ExecutionResult{ExitCode: 1, Exited: true, Stderr: "boom"}}
	_, err := ExecuteCommand(t.Context(), fr, "tool", nil, ExecOptions{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.ExitCode != 1 {
		t.Fatalf("expected *CommandError with exit 1, got %v", err)
	}
}
