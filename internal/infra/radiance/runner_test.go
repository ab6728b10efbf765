package radiance

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// writeFakeBinaries stubs the engine with shell scripts so the pipeline
// can be exercised without Radiance installed.
func writeFakeBinaries(t *testing.T, rtraceScript string) string {
	t.Helper()
	bin := t.TempDir()

	scripts := map[string]string{
		"oconv":  "#!/bin/sh\necho FAKEOCT\n",
		"gensky": "#!/bin/sh\nexit 0\n",
		"rtrace": rtraceScript,
	}
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(bin, name), []byte(body), 0o755); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return bin
}

const echoingRtrace = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "RADIANCE 5.4a (fake)"
  exit 0
fi
while read line; do
  echo "10 10 10"
done
`

func testJob(t *testing.T) domain.SimulationJob {
	t.Helper()
	s := domain.Space{
		Code: "A203", Width: 2, Depth: 2, Height: 2.6,
		Windows: []domain.Window{
			{Tag: "w1", Wall: domain.WallBack, LocX: 0.4, Width: 1.0, LocY: 0.9, Height: 1.2, WallLength: 2},
		},
	}
	p := domain.Params{Transmittance: 0.6, GridSize: 1.0, PlaneHeight: 0.5, SkyLux: 10000}
	g, err := domain.BuildGrid(s, p)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	return domain.SimulationJob{
		ModelName:    "Test",
		Space:        s,
		Params:       p,
		Grid:         g,
		Reflectances: domain.DefaultReflectances(),
	}
}

func TestSimulate(t *testing.T) {
	bin := writeFakeBinaries(t, echoingRtrace)
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.BinDir = bin
	r := NewRunner(root, cfg, WithNow(func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}))

	out, err := r.Simulate(context.Background(), testJob(t))
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}

	if len(out.Lux) != 4 {
		t.Fatalf("expected 4 points, got %d", len(out.Lux))
	}
	// 10 W/m2 per channel with unit weight sum => 1790 lux.
	for i, v := range out.Lux {
		if math.Abs(v-1790) > 1e-9 {
			t.Fatalf("lux[%d] = %g, want 1790", i, v)
		}
	}

	if !strings.Contains(out.Engine.Version, "RADIANCE") {
		t.Fatalf("expected version banner, got %q", out.Engine.Version)
	}
	if !strings.Contains(out.SceneDir, "20240301T120000Z_a203") {
		t.Fatalf("unexpected scene dir %q", out.SceneDir)
	}

	for _, name := range []string{materialsFile, skyFile, roomFile, gridFile, octreeFile} {
		if _, err := os.Stat(filepath.Join(out.SceneDir, name)); err != nil {
			t.Fatalf("missing scene file %s: %v", name, err)
		}
	}

	oct, err := os.ReadFile(filepath.Join(out.SceneDir, octreeFile))
	if err != nil || !strings.Contains(string(oct), "FAKEOCT") {
		t.Fatalf("octree not captured from oconv stdout: %q err=%v", oct, err)
	}
}

func TestSimulate_PointCountMismatch(t *testing.T) {
	short := `#!/bin/sh
if [ "$1" = "-version" ]; then exit 0; fi
echo "10 10 10"
`
	bin := writeFakeBinaries(t, short)

	cfg := DefaultConfig()
	cfg.BinDir = bin
	r := NewRunner(t.TempDir(), cfg)

	_, err := r.Simulate(context.Background(), testJob(t))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution kind, got %v", err)
	}
}

func TestSimulate_MissingBinaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BinDir = t.TempDir() // empty: no binaries

	r := NewRunner(t.TempDir(), cfg)
	_, err := r.Simulate(context.Background(), testJob(t))
	if !domain.IsKind(err, domain.KindEngineMissing) {
		t.Fatalf("expected engine_missing, got %v", err)
	}
}

func TestSimulate_EngineFailure(t *testing.T) {
	failing := `#!/bin/sh
if [ "$1" = "-version" ]; then exit 0; fi
echo "rtrace: fatal - boom" >&2
exit 1
`
	bin := writeFakeBinaries(t, failing)

	cfg := DefaultConfig()
	cfg.BinDir = bin
	r := NewRunner(t.TempDir(), cfg)

	_, err := r.Simulate(context.Background(), testJob(t))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr tail in error, got %v", err)
	}
}
