package wsconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return root
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	root := writeConfig(t, `daylight:
  paths:
    runs_dir: data/runs
  defaults:
    grid_size: 0.25
  radiance:
    bin_dir: /opt/radiance/bin
    timeout: 90s
`)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Paths.RunsDir != "data/runs" {
		t.Errorf("RunsDir = %q, want data/runs", cfg.Paths.RunsDir)
	}
	if cfg.Paths.ModelDir != "model" {
		t.Errorf("ModelDir = %q, want default model", cfg.Paths.ModelDir)
	}
	if cfg.Defaults.GridSize != 0.25 {
		t.Errorf("GridSize = %g, want 0.25", cfg.Defaults.GridSize)
	}
	if cfg.Defaults.Transmittance != 0.6 {
		t.Errorf("Transmittance = %g, want default 0.6", cfg.Defaults.Transmittance)
	}
	if cfg.Radiance.BinDir != "/opt/radiance/bin" {
		t.Errorf("BinDir = %q, want /opt/radiance/bin", cfg.Radiance.BinDir)
	}
	if cfg.Radiance.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Radiance.Timeout)
	}
	if cfg.Radiance.AmbientDivs != 512 {
		t.Errorf("AmbientDivs = %d, want default 512", cfg.Radiance.AmbientDivs)
	}
	if cfg.Compliance.TargetDF != 2.1 {
		t.Errorf("TargetDF = %g, want default 2.1", cfg.Compliance.TargetDF)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := writeConfig(t, `daylight:
  defaults:
    grid_size: 0.25
`)
	t.Setenv("DAYLIGHT_DEFAULTS__GRID_SIZE", "0.5")
	t.Setenv("DAYLIGHT_RADIANCE__AMBIENT_BOUNCES", "3")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Defaults.GridSize != 0.5 {
		t.Errorf("GridSize = %g, want env override 0.5", cfg.Defaults.GridSize)
	}
	if cfg.Radiance.AmbientBounces != 3 {
		t.Errorf("AmbientBounces = %d, want env override 3", cfg.Radiance.AmbientBounces)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "daylight: [\n"},
		{"bad timeout", "daylight:\n  radiance:\n    timeout: soon\n"},
		{"negative timeout", "daylight:\n  radiance:\n    timeout: -5s\n"},
		{"zero grid size", "daylight:\n  defaults:\n    grid_size: 0\n"},
		{"target df too high", "daylight:\n  compliance:\n    target_df: 150\n"},
		{"min area above one", "daylight:\n  compliance:\n    min_area: 1.5\n"},
		{"absolute model dir", "daylight:\n  paths:\n    model_dir: /etc/models\n"},
		{"escaping runs dir", "daylight:\n  paths:\n    runs_dir: ../elsewhere\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeConfig(t, tt.content)
			_, err := Load(root)
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected KindInvalidConfig, got: %v", err)
			}
		})
	}
}
