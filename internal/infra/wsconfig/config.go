// Package wsconfig loads the workspace configuration from daylight.yaml,
// environment variables and built-in defaults.
//
// Precedence (highest to lowest): DAYLIGHT_* env vars > daylight.yaml >
// defaults. Settings nest under a top-level "daylight" key in the file;
// env vars use "__" as the nesting separator, so DAYLIGHT_DEFAULTS__GRID_SIZE
// overrides daylight.defaults.grid_size.
package wsconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

const (
	// ConfigFileName is the workspace marker and config file.
	ConfigFileName = "daylight.yaml"

	envPrefix = "DAYLIGHT_"
	fileKey   = "daylight"
)

// Load reads daylight.yaml from the workspace root and layers env vars on
// top. A missing file is reported as not found so callers can distinguish
// a bare directory from a workspace.
func Load(root string) (domain.Config, error) {
	path := filepath.Join(root, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "wsconfig.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return domain.DefaultConfig(), loadErr(path, err)
	}

	kf := koanf.New(".")
	if err := kf.Load(file.Provider(path), yaml.Parser()); err != nil {
		return domain.DefaultConfig(), invalidErr(path, err)
	}
	if err := k.Merge(kf.Cut(fileKey)); err != nil {
		return domain.DefaultConfig(), invalidErr(path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return domain.DefaultConfig(), loadErr(path, err)
	}

	var dto fileConfig
	if err := k.Unmarshal("", &dto); err != nil {
		return domain.DefaultConfig(), invalidErr(path, err)
	}

	return mapAndValidate(path, dto)
}

// envKey maps DAYLIGHT_DEFAULTS__GRID_SIZE to defaults.grid_size.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func defaults() map[string]any {
	d := domain.DefaultConfig()
	return map[string]any{
		"paths.model_dir":          d.Paths.ModelDir,
		"paths.scenes_dir":         d.Paths.ScenesDir,
		"paths.runs_dir":           d.Paths.RunsDir,
		"paths.reports_dir":        d.Paths.ReportsDir,
		"defaults.transmittance":   d.Defaults.Transmittance,
		"defaults.grid_size":       d.Defaults.GridSize,
		"defaults.plane_height":    d.Defaults.PlaneHeight,
		"defaults.sky_lux":         d.Defaults.SkyLux,
		"compliance.target_df":     d.Compliance.TargetDF,
		"compliance.min_area":      d.Compliance.MinAreaFraction,
		"radiance.bin_dir":         d.Radiance.BinDir,
		"radiance.ambient_bounces": d.Radiance.AmbientBounces,
		"radiance.ambient_divs":    d.Radiance.AmbientDivs,
		"radiance.ambient_samples": d.Radiance.AmbientSamples,
		"radiance.ambient_res":     d.Radiance.AmbientRes,
		"radiance.ambient_acc":     d.Radiance.AmbientAcc,
		"radiance.timeout":         d.Radiance.Timeout.String(),
	}
}

type fileConfig struct {
	Paths struct {
		ModelDir   string `koanf:"model_dir"`
		ScenesDir  string `koanf:"scenes_dir"`
		RunsDir    string `koanf:"runs_dir"`
		ReportsDir string `koanf:"reports_dir"`
	} `koanf:"paths"`

	Defaults struct {
		Transmittance float64 `koanf:"transmittance"`
		GridSize      float64 `koanf:"grid_size"`
		PlaneHeight   float64 `koanf:"plane_height"`
		SkyLux        float64 `koanf:"sky_lux"`
	} `koanf:"defaults"`

	Compliance struct {
		TargetDF float64 `koanf:"target_df"`
		MinArea  float64 `koanf:"min_area"`
	} `koanf:"compliance"`

	Radiance struct {
		BinDir         string  `koanf:"bin_dir"`
		AmbientBounces int     `koanf:"ambient_bounces"`
		AmbientDivs    int     `koanf:"ambient_divs"`
		AmbientSamples int     `koanf:"ambient_samples"`
		AmbientRes     int     `koanf:"ambient_res"`
		AmbientAcc     float64 `koanf:"ambient_acc"`
		Timeout        string  `koanf:"timeout"`
	} `koanf:"radiance"`
}

func mapAndValidate(path string, dto fileConfig) (domain.Config, error) {
	cfg := domain.Config{
		Paths: domain.PathsConfig{
			ModelDir:   dto.Paths.ModelDir,
			ScenesDir:  dto.Paths.ScenesDir,
			RunsDir:    dto.Paths.RunsDir,
			ReportsDir: dto.Paths.ReportsDir,
		},
		Defaults: domain.DefaultsConfig{
			Transmittance: dto.Defaults.Transmittance,
			GridSize:      dto.Defaults.GridSize,
			PlaneHeight:   dto.Defaults.PlaneHeight,
			SkyLux:        dto.Defaults.SkyLux,
		},
		Compliance: domain.ComplianceConfig{
			TargetDF:        dto.Compliance.TargetDF,
			MinAreaFraction: dto.Compliance.MinArea,
		},
		Radiance: domain.RadianceConfig{
			BinDir:         dto.Radiance.BinDir,
			AmbientBounces: dto.Radiance.AmbientBounces,
			AmbientDivs:    dto.Radiance.AmbientDivs,
			AmbientSamples: dto.Radiance.AmbientSamples,
			AmbientRes:     dto.Radiance.AmbientRes,
			AmbientAcc:     dto.Radiance.AmbientAcc,
		},
	}

	if dto.Radiance.Timeout != "" {
		d, err := time.ParseDuration(dto.Radiance.Timeout)
		if err != nil {
			return domain.DefaultConfig(), invalidErr(path,
				fmt.Errorf("field radiance.timeout: %w", err))
		}
		if d < 0 {
			return domain.DefaultConfig(), invalidErr(path,
				fmt.Errorf("field radiance.timeout: %q is negative", dto.Radiance.Timeout))
		}
		cfg.Radiance.Timeout = d
	}

	if err := cfg.Params().Validate(); err != nil {
		return domain.DefaultConfig(), invalidErr(path, err)
	}
	if cfg.Compliance.TargetDF <= 0 || cfg.Compliance.TargetDF >= 100 {
		return domain.DefaultConfig(), invalidErr(path,
			fmt.Errorf("field compliance.target_df: %g is out of range (0, 100)", cfg.Compliance.TargetDF))
	}
	if cfg.Compliance.MinAreaFraction <= 0 || cfg.Compliance.MinAreaFraction > 1 {
		return domain.DefaultConfig(), invalidErr(path,
			fmt.Errorf("field compliance.min_area: %g is out of range (0, 1]", cfg.Compliance.MinAreaFraction))
	}
	for _, dir := range []struct{ field, v string }{
		{"paths.model_dir", cfg.Paths.ModelDir},
		{"paths.scenes_dir", cfg.Paths.ScenesDir},
		{"paths.runs_dir", cfg.Paths.RunsDir},
		{"paths.reports_dir", cfg.Paths.ReportsDir},
	} {
		if strings.TrimSpace(dir.v) == "" {
			return domain.DefaultConfig(), invalidErr(path,
				fmt.Errorf("field %s: directory must not be empty", dir.field))
		}
		if filepath.IsAbs(dir.v) || strings.HasPrefix(dir.v, "..") {
			return domain.DefaultConfig(), invalidErr(path,
				fmt.Errorf("field %s: %q must stay inside the workspace", dir.field, dir.v))
		}
	}

	return cfg, nil
}

func loadErr(path string, err error) error {
	return &domain.OpError{
		Op:   "wsconfig.load",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}

func invalidErr(path string, err error) error {
	return &domain.OpError{
		Op:   "wsconfig.load",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  err,
	}
}
