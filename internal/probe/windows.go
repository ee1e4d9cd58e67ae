package probe

import (
	"context"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

// RegistryProber builds the Windows environment from the host environment
// plus the live PATH stored in the registry. A child shell's `set` would
// only echo back our own stale PATH, so no shell is involved.
type RegistryProber struct {
	Registry RegistryReader
	Host     func() model.EnvMap // defaults to HostEnv
}

// Probe implements Prober.
func (p *RegistryProber) Probe(ctx context.Context) (model.EnvMap, error) {
	host := HostEnv()
	if p.Host != nil {
		host = p.Host()
	}
	combined, err := ReadCombinedPath(ctx, p.Registry)
	if err != nil {
		logutil.Warn("registry PATH unavailable, keeping inherited PATH", "err", err)
		return nil, err
	}

	env := host.Clone()
	pathutil.SetPath(env, ExpandPercentVars(combined, host), pathutil.Windows)
	return pathutil.AppendToolBin(env, pathutil.Windows), nil
}
