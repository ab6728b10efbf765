package domain

import "time"

// Config represents the workspace configuration loaded from daylight.yaml.
type Config struct {
	Paths      PathsConfig
	Defaults   DefaultsConfig
	Compliance ComplianceConfig
	Radiance   RadianceConfig
}

// PathsConfig holds workspace-relative directories.
type PathsConfig struct {
	ModelDir   string
	ScenesDir  string
	RunsDir    string
	ReportsDir string
}

// DefaultsConfig seeds analysis parameters when flags or form fields are left blank.
type DefaultsConfig struct {
	Transmittance float64
	GridSize      float64
	PlaneHeight   float64
	SkyLux        float64
}

// ComplianceConfig tunes the pass rule.
type ComplianceConfig struct {
	TargetDF        float64
	MinAreaFraction float64
}

// RadianceConfig tunes the engine invocation.
type RadianceConfig struct {
	BinDir         string // Empty means resolve binaries from PATH.
	AmbientBounces int
	AmbientDivs    int
	AmbientSamples int
	AmbientRes     int
	AmbientAcc     float64
	Timeout        time.Duration
}

// DefaultConfig provides sane defaults if daylight.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			ModelDir:   "model",
			ScenesDir:  "scenes",
			RunsDir:    "runs",
			ReportsDir: "output",
		},
		Defaults: DefaultsConfig{
			Transmittance: 0.6,
			GridSize:      0.2,
			PlaneHeight:   0.5,
			SkyLux:        10000,
		},
		Compliance: ComplianceConfig{
			TargetDF:        2.1,
			MinAreaFraction: 0.5,
		},
		Radiance: RadianceConfig{
			AmbientBounces: 2,
			AmbientDivs:    512,
			AmbientSamples: 128,
			AmbientRes:     16,
			AmbientAcc:     0.25,
			Timeout:        5 * time.Minute,
		},
	}
}

// Params returns the analysis defaults from the config as run parameters.
func (c Config) Params() Params {
	return Params{
		Transmittance: c.Defaults.Transmittance,
		GridSize:      c.Defaults.GridSize,
		PlaneHeight:   c.Defaults.PlaneHeight,
		SkyLux:        c.Defaults.SkyLux,
	}
}

// Rule returns the compliance rule from the config.
func (c Config) Rule() ComplianceRule {
	return ComplianceRule{
		TargetDF:        c.Compliance.TargetDF,
		MinAreaFraction: c.Compliance.MinAreaFraction,
	}
}

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
}
