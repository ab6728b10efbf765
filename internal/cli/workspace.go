package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/infra/jsonmodel"
	"github.com/mdjska/daylight-analysis/internal/infra/logger"
	"github.com/mdjska/daylight-analysis/internal/infra/radiance"
	"github.com/mdjska/daylight-analysis/internal/infra/resultstore"
	"github.com/mdjska/daylight-analysis/internal/infra/workspacefinder"
	"github.com/mdjska/daylight-analysis/internal/infra/wsconfig"
	"github.com/mdjska/daylight-analysis/internal/infra/xlsxreport"
	"github.com/mdjska/daylight-analysis/internal/infra/yamlmaterials"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

const materialsFile = "materials.yaml"

type workspaceCtx struct {
	root string
	cfg  domain.Config

	models    ports.ModelLoader
	materials ports.MaterialsLoader
	simulator ports.Simulator
	reports   ports.ReportWriter
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := wsconfig.Load(root)
	if err != nil {
		return nil, err
	}

	simulator := radiance.NewRunner(root, radiance.ConfigFrom(cfg.Radiance),
		radiance.WithScenesDir(cfg.Paths.ScenesDir),
		radiance.WithLogger(logger.L()),
	)

	return &workspaceCtx{
		root:      root,
		cfg:       cfg,
		models:    jsonmodel.NewLoader(jsonmodel.WithModelDir(cfg.Paths.ModelDir)),
		materials: yamlmaterials.NewLoader(),
		simulator: simulator,
		reports:   xlsxreport.NewWriter(),
	}, nil
}

// openStore opens the run history database lazily so commands that never
// persist anything do not create it.
func (ws *workspaceCtx) openStore() (*resultstore.Store, error) {
	return resultstore.Open(ws.root, ws.cfg.Paths.RunsDir)
}

func (ws *workspaceCtx) materialsPath() string {
	return filepath.Join(ws.root, ws.cfg.Paths.ModelDir, materialsFile)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `daylight init`): %w", wd, err)
	}
	return root, nil
}

func resolveModelPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return defaultModelPath(ws)
	}

	// If arg looks like a path (contains separators), resolve relative to workspace root.
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	modelDir := filepath.Join(ws.root, ws.cfg.Paths.ModelDir)

	// If user provided "duplex.json", treat it as a file under the model dir.
	if hasJSONExt(in) {
		p := filepath.Join(modelDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	// If user provided "duplex", try duplex.json in the model dir.
	if p := filepath.Join(modelDir, in+".json"); fileExists(p) {
		return p, nil
	}

	// As a last resort: match by the model's "project" field.
	refs, err := ws.models.ListModels(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("model %q not found in %q", in, modelDir)
}

// defaultModelPath picks the model when --model is omitted: a lone JSON in
// the model dir wins, anything else needs the flag.
func defaultModelPath(ws *workspaceCtx) (string, error) {
	refs, err := ws.models.ListModels(ws.root)
	if err != nil {
		return "", err
	}

	switch len(refs) {
	case 0:
		return "", fmt.Errorf("no model JSON in %q (tip: `daylight init` scaffolds a sample)",
			filepath.Join(ws.root, ws.cfg.Paths.ModelDir))
	case 1:
		return refs[0].Path, nil
	}

	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return "", fmt.Errorf("workspace has %d models, pick one with --model (%s)",
		len(refs), strings.Join(names, ", "))
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasJSONExt(s string) bool {
	return strings.ToLower(filepath.Ext(s)) == ".json"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
