package probe

import (
	"testing"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

func TestNewPicksProberByFlavor(t *testing.T) {
	if _, ok := New(pathutil.Windows, nil).(*RegistryProber); !ok {
		t.Fatalf("windows should use the registry prober")
	}
	if _, ok := New(pathutil.Posix, nil).(*LoginShellProber); !ok {
		t.Fatalf("posix should use the login shell prober")
	}
}

func TestFallbackEnvAppendsToolBin(t *testing.T) {
	host := model.EnvMap{"HOME": "/home/u", "PATH": "/usr/bin"}
	env := FallbackEnv(host, pathutil.Posix)
	if env["PATH"] != "/usr/bin:/home/u/.cherrystudio/bin" {
		t.Fatalf("unexpected PATH %q", env["PATH"])
	}
	if host["PATH"] != "/usr/bin" {
		t.Fatalf("host env must not be modified")
	}
}
