package radiance

import (
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// Config tunes the engine pipeline.
type Config struct {
	// BinDir prefixes the binary names; empty resolves them from PATH.
	BinDir string

	// Total timeout for the oconv+rtrace pipeline. A context deadline can
	// still override this.
	Timeout time.Duration

	// Ambient calculation parameters passed to rtrace.
	AmbientBounces int
	AmbientDivs    int
	AmbientSamples int
	AmbientRes     int
	AmbientAcc     float64
}

func DefaultConfig() Config {
	return Config{
		Timeout:        5 * time.Minute,
		AmbientBounces: 2,
		AmbientDivs:    512,
		AmbientSamples: 128,
		AmbientRes:     16,
		AmbientAcc:     0.25,
	}
}

// ConfigFrom maps the workspace config section onto engine settings,
// falling back to defaults for unset values.
func ConfigFrom(rc domain.RadianceConfig) Config {
	cfg := DefaultConfig()
	cfg.BinDir = rc.BinDir
	if rc.Timeout > 0 {
		cfg.Timeout = rc.Timeout
	}
	if rc.AmbientBounces > 0 {
		cfg.AmbientBounces = rc.AmbientBounces
	}
	if rc.AmbientDivs > 0 {
		cfg.AmbientDivs = rc.AmbientDivs
	}
	if rc.AmbientSamples > 0 {
		cfg.AmbientSamples = rc.AmbientSamples
	}
	if rc.AmbientRes > 0 {
		cfg.AmbientRes = rc.AmbientRes
	}
	if rc.AmbientAcc > 0 {
		cfg.AmbientAcc = rc.AmbientAcc
	}
	return cfg
}
