package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/infra/jsonmodel"
	"github.com/mdjska/daylight-analysis/internal/infra/radiance"
	"github.com/mdjska/daylight-analysis/internal/infra/resultstore"
	"github.com/mdjska/daylight-analysis/internal/infra/wsconfig"
	"github.com/mdjska/daylight-analysis/internal/infra/yamlmaterials"
	"github.com/mdjska/daylight-analysis/internal/ui/heatmap"
	"github.com/mdjska/daylight-analysis/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, true)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadWorkspace(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := wsconfig.Load(root)
		if err != nil {
			return workspaceLoadedMsg{root: root, err: err}
		}

		loader := jsonmodel.NewLoader(
			jsonmodel.WithModelDir(cfg.Paths.ModelDir),
		)

		refs, err := loader.ListModels(root)
		return workspaceLoadedMsg{root: root, cfg: cfg, refs: refs, err: err}
	}
}

func cmdLoadModel(cfg domain.Config, path string) tea.Cmd {
	return func() tea.Msg {
		p := filepath.Clean(path)

		loader := jsonmodel.NewLoader(
			jsonmodel.WithModelDir(cfg.Paths.ModelDir),
		)

		model, err := loader.LoadModel(p)
		return modelLoadedMsg{path: p, model: model, err: err}
	}
}

func cmdSavePlot(res domain.AnalysisResult, blurred bool, dir string) tea.Cmd {
	return func() tea.Msg {
		f, err := heatmap.New(res.Grid.NX, res.Grid.NY, res.Lux)
		if err != nil {
			return plotSavedMsg{err: err}
		}
		if blurred {
			f = f.Blurred(blurSigma)
		}

		name := fmt.Sprintf("heatmap_%s_%s.svg", res.Space.Code, time.Now().Format("20060102-150405"))
		path := filepath.Join(dir, name)

		err = heatmap.WriteSVG(f, heatmap.SVGOptions{
			Title:    "Daylight Analysis",
			Subtitle: res.Space.Label(),
			Unit:     "lux",
		}, path)
		return plotSavedMsg{path: path, err: err}
	}
}

func listenRunner(ch <-chan runDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

func startRunAsync(
	workspaceRoot string,
	cfg domain.Config,
	model domain.Model,
	in usecase.RunInput,
	log *slog.Logger,
	debug bool,
) (chan runDoneMsg, context.CancelFunc, tea.Cmd) {
	ch := make(chan runDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer close(ch)
		defer cancel()

		log.Info("run.start",
			"workspace", workspaceRoot,
			"model", model.Name,
			"space", in.SpaceCode,
			"grid_size", in.Params.GridSize,
			"debug", debug,
		)

		models := jsonmodel.NewLoader(
			jsonmodel.WithModelDir(cfg.Paths.ModelDir),
		)
		materials := yamlmaterials.NewLoader()
		runner := radiance.NewRunner(workspaceRoot, radiance.ConfigFrom(cfg.Radiance),
			radiance.WithScenesDir(cfg.Paths.ScenesDir),
			radiance.WithLogger(log),
		)

		opts := []usecase.RunOption{usecase.WithRule(cfg.Rule())}
		store, storeErr := resultstore.Open(workspaceRoot, cfg.Paths.RunsDir)
		if storeErr != nil {
			log.Warn("run.store_unavailable", "err", storeErr)
		} else {
			defer store.Close()
			opts = append(opts, usecase.WithStore(store))
		}

		uc := usecase.NewRunAnalysis(models, materials, runner, opts...)

		res, execErr := uc.ExecuteOn(ctx, model, in)

		if execErr != nil {
			log.Error("run.failed", "err", execErr, "saved_id", res.RunID)
		} else {
			log.Info("run.ok", "saved_id", res.RunID, "passed", res.Verdict.Passed)
		}

		ch <- runDoneMsg{res: res, err: execErr}
	}()

	return ch, cancel, listenRunner(ch)
}
