package radiance

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

// Binaries the pipeline needs on the host.
var requiredBinaries = []string{"oconv", "rtrace", "gensky"}

type Doctor struct {
	binDir string
}

func NewDoctor(binDir string) *Doctor {
	return &Doctor{binDir: binDir}
}

var _ ports.EngineDoctor = (*Doctor)(nil)

// Check probes every required binary and captures its version banner.
func (d *Doctor) Check(ctx context.Context) []domain.EngineCheck {
	checks := make([]domain.EngineCheck, 0, len(requiredBinaries))
	for _, name := range requiredBinaries {
		checks = append(checks, d.checkOne(ctx, name))
	}
	return checks
}

func (d *Doctor) checkOne(ctx context.Context, name string) domain.EngineCheck {
	c := domain.EngineCheck{Binary: name}

	if d.binDir != "" {
		p := filepath.Join(d.binDir, name)
		if _, err := os.Stat(p); err != nil {
			c.Err = err.Error()
			return c
		}
		c.Path = p
	} else {
		p, err := exec.LookPath(name)
		if err != nil {
			c.Err = err.Error()
			return c
		}
		c.Path = p
	}

	// gensky has no version flag; the tracing tools banner on -version.
	if name == "gensky" {
		return c
	}
	out, err := exec.CommandContext(ctx, c.Path, "-version").Output()
	if err == nil {
		c.Version = strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	}
	return c
}
