package radiance

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

const defaultScenesDir = "scenes"

type Runner struct {
	cfg       Config
	rootDir   string
	scenesDir string
	log       *slog.Logger
	now       func() time.Time

	versionOnce sync.Once
	version     string
}

type Option func(*Runner)

func WithScenesDir(dir string) Option {
	return func(r *Runner) { r.scenesDir = dir }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(root string, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		rootDir:   root,
		scenesDir: defaultScenesDir,
		log:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.Simulator = (*Runner)(nil)

// Simulate writes a scene folder for the job, compiles it with oconv and
// traces the sensor grid with rtrace. The scene folder is retained on disk
// either way so failed runs can be inspected.
func (r *Runner) Simulate(ctx context.Context, job domain.SimulationJob) (domain.SimulationOutput, error) {
	start := r.now()
	out := domain.SimulationOutput{Engine: domain.EngineInfo{Name: "radiance"}}

	if len(job.Grid.Points) == 0 {
		return out, &domain.OpError{
			Op:   "radiance.run",
			Kind: domain.KindInvalidParams,
			Err:  errors.New("empty sensor grid"),
		}
	}

	oconvBin, err := r.binary("oconv")
	if err != nil {
		return out, err
	}
	rtraceBin, err := r.binary("rtrace")
	if err != nil {
		return out, err
	}
	// gensky runs indirectly through the !command in the sky file, so its
	// absence would otherwise only surface as an oconv failure.
	if _, err := r.binary("gensky"); err != nil {
		return out, err
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	dir, err := r.sceneDir(job, start)
	if err != nil {
		return out, err
	}
	out.SceneDir = dir

	if err := WriteScene(dir, job); err != nil {
		return out, err
	}
	r.log.Debug("radiance.scene_written", "dir", dir, "points", len(job.Grid.Points))

	octPath := filepath.Join(dir, octreeFile)
	if err := r.oconv(ctx, oconvBin, dir, octPath); err != nil {
		return out, err
	}

	raw, err := r.rtrace(ctx, rtraceBin, dir)
	if err != nil {
		return out, err
	}

	lux, err := parseIrradiance(raw, len(job.Grid.Points))
	if err != nil {
		return out, &domain.OpError{
			Op:   "radiance.parse",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	out.Lux = lux
	out.Engine.Version = r.engineVersion(ctx, rtraceBin)
	out.Duration = r.now().Sub(start)

	r.log.Info("radiance.run_finished",
		"space", job.Space.Code,
		"points", len(lux),
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out, nil
}

func (r *Runner) binary(name string) (string, error) {
	if r.cfg.BinDir != "" {
		p := filepath.Join(r.cfg.BinDir, name)
		if _, err := os.Stat(p); err != nil {
			return "", &domain.OpError{
				Op:   "radiance.run",
				Kind: domain.KindEngineMissing,
				Path: p,
				Err:  fmt.Errorf("%s not found in radiance.bin_dir: %w", name, err),
			}
		}
		return p, nil
	}

	p, err := exec.LookPath(name)
	if err != nil {
		return "", &domain.OpError{
			Op:   "radiance.run",
			Kind: domain.KindEngineMissing,
			Err:  fmt.Errorf("%s not found in PATH (install Radiance or set radiance.bin_dir): %w", name, err),
		}
	}
	return p, nil
}

func (r *Runner) sceneDir(job domain.SimulationJob, ts time.Time) (string, error) {
	slug := slugify(job.Space.Code)
	if slug == "" {
		slug = "space"
	}
	dir := filepath.Join(r.rootDir, r.scenesDir,
		fmt.Sprintf("%s_%s", ts.UTC().Format("20060102T150405Z"), slug))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "radiance.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	return dir, nil
}

// oconv compiles the scene into an octree on stdout. Materials come first
// so the geometry can reference them.
func (r *Runner) oconv(ctx context.Context, bin, dir, octPath string) error {
	f, err := os.Create(octPath)
	if err != nil {
		return &domain.OpError{
			Op:   "radiance.oconv",
			Kind: domain.KindExecution,
			Path: octPath,
			Err:  err,
		}
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, bin, materialsFile, skyFile, roomFile)
	cmd.Dir = dir
	cmd.Stdout = f
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return r.execError(ctx, "radiance.oconv", dir, stderr.Bytes(), err)
	}
	r.logStderr("oconv", stderr.Bytes())
	return nil
}

func (r *Runner) rtrace(ctx context.Context, bin, dir string) ([]byte, error) {
	pts, err := os.Open(filepath.Join(dir, gridFile))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "radiance.rtrace",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	defer pts.Close()

	args := []string{
		"-I", "-h", "-w",
		"-ab", strconv.Itoa(r.cfg.AmbientBounces),
		"-ad", strconv.Itoa(r.cfg.AmbientDivs),
		"-as", strconv.Itoa(r.cfg.AmbientSamples),
		"-ar", strconv.Itoa(r.cfg.AmbientRes),
		"-aa", strconv.FormatFloat(r.cfg.AmbientAcc, 'f', -1, 64),
		octreeFile,
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdin = pts
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, r.execError(ctx, "radiance.rtrace", dir, stderr.Bytes(), err)
	}
	r.logStderr("rtrace", stderr.Bytes())
	return stdout.Bytes(), nil
}

func (r *Runner) execError(ctx context.Context, op, dir string, stderr []byte, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	} else if msg := lastLine(stderr); msg != "" {
		err = fmt.Errorf("%s: %w", msg, err)
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Path: dir,
		Err:  err,
	}
}

// engineVersion probes rtrace -version once per runner.
func (r *Runner) engineVersion(ctx context.Context, bin string) string {
	r.versionOnce.Do(func() {
		out, err := exec.CommandContext(ctx, bin, "-version").Output()
		if err != nil {
			return
		}
		r.version = strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	})
	return r.version
}

func (r *Runner) logStderr(tool string, b []byte) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			r.log.Debug("radiance.stderr", "tool", tool, "line", line)
		}
	}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// slugify produces a safe path component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
