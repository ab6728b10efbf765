package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/usecase"
)

// Display blur for the b key, in grid cells.
const blurSigma = 1.0

type screen int

const (
	screenHome screen = iota
	screenModels
	screenSpaces
	screenForm
	screenRunning
	screenResults
)

type modelItem struct {
	ref domain.ModelRef
}

func (it modelItem) Title() string       { return it.ref.Name }
func (it modelItem) Description() string { return it.ref.Path }
func (it modelItem) FilterValue() string { return it.ref.Name }

type spaceItem struct {
	space domain.Space
}

func (it spaceItem) Title() string { return it.space.Label() }

func (it spaceItem) Description() string {
	dims := fmt.Sprintf("%.1f x %.1f x %.1f m", it.space.Width, it.space.Depth, it.space.Height)
	switch n := len(it.space.Windows); n {
	case 0:
		return dims + ", no windows"
	case 1:
		return dims + ", 1 window"
	default:
		return fmt.Sprintf("%s, %d windows", dims, n)
	}
}

func (it spaceItem) FilterValue() string { return it.space.Label() }

func modelItems(refs []domain.ModelRef) []list.Item {
	items := make([]list.Item, 0, len(refs))
	for _, r := range refs {
		items = append(items, modelItem{ref: r})
	}
	return items
}

func spaceItems(spaces []domain.Space) []list.Item {
	items := make([]list.Item, 0, len(spaces))
	for _, s := range spaces {
		items = append(items, spaceItem{space: s})
	}
	return items
}

type model struct {
	theme Theme
	deps  Deps

	scr screen

	width  int
	height int

	cwd            string
	workspaceFound bool
	workspaceRoot  string
	cfg            domain.Config

	refs      []domain.ModelRef
	models    list.Model
	spaces    list.Model
	building  domain.Model
	modelPath string

	space domain.Space
	form  paramsForm

	spin    spinner.Model
	running bool
	cancel  context.CancelFunc

	res     domain.AnalysisResult
	blurred bool

	errText string
	toast   string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	models := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	models.Title = "Models"
	models.SetShowStatusBar(false)
	models.SetFilteringEnabled(true)
	models.SetShowHelp(false)

	spaces := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	spaces.Title = "Spaces"
	spaces.SetShowStatusBar(false)
	spaces.SetFilteringEnabled(true)
	spaces.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Subtitle

	m := model{
		theme:  t,
		deps:   deps,
		scr:    screenHome,
		models: models,
		spaces: spaces,
		spin:   sp,
		cfg:    domain.DefaultConfig(),
	}

	wd, err := os.Getwd()
	if err == nil {
		m.cwd = wd
		if deps.WorkspaceLocator != nil {
			root, findErr := deps.WorkspaceLocator.FindRoot(wd)
			if findErr == nil {
				m.workspaceFound = true
				m.workspaceRoot = root
			}
		}
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.workspaceFound {
		return cmdLoadWorkspace(m.workspaceRoot)
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.models.SetSize(msg.Width-4, msg.Height-10)
		m.spaces.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		if !msg.found {
			m.workspaceFound = false
			m.scr = screenHome
			if msg.err != nil && !domain.IsKind(msg.err, domain.KindNotFound) {
				m.errText = userMessage(msg.err)
			}
			return m, nil
		}
		m.workspaceFound = true
		m.workspaceRoot = msg.root
		m.errText = ""
		return m, cmdLoadWorkspace(msg.root)

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace initialized at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case workspaceLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			m.scr = screenHome
			return m, nil
		}
		m.cfg = msg.cfg
		m.refs = msg.refs
		switch len(msg.refs) {
		case 0:
			m.errText = "No model JSON found in " + msg.cfg.Paths.ModelDir + "/"
			m.scr = screenHome
			return m, nil
		case 1:
			return m, cmdLoadModel(m.cfg, msg.refs[0].Path)
		default:
			m.models.SetItems(modelItems(msg.refs))
			m.scr = screenModels
			return m, nil
		}

	case modelLoadedMsg:
		if msg.err != nil {
			if len(m.refs) > 1 {
				m.toast = userMessage(msg.err)
				m.scr = screenModels
			} else {
				m.errText = userMessage(msg.err)
				m.scr = screenHome
			}
			return m, nil
		}
		m.building = msg.model
		m.modelPath = msg.path
		m.spaces.Title = msg.model.Name
		m.spaces.SetItems(spaceItems(msg.model.Spaces))
		m.errText = ""
		m.scr = screenSpaces
		return m, nil

	case runDoneMsg:
		m.running = false
		m.cancel = nil
		if msg.err != nil {
			m.form.errTxt = userMessage(msg.err)
			if msg.res.RunID != "" {
				m.toast = "Failed run recorded as " + msg.res.RunID
			}
			m.scr = screenForm
			return m, nil
		}
		m.res = msg.res
		m.blurred = false
		m.scr = screenResults
		return m, nil

	case plotSavedMsg:
		if msg.err != nil {
			m.toast = "Plot failed: " + userMessage(msg.err)
		} else {
			m.toast = "Plot written to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		m.toast = ""
		key := msg.String()

		if key == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

		switch m.scr {
		case screenHome:
			switch key {
			case "q":
				return m, tea.Quit
			case "i":
				if !m.workspaceFound && m.cwd != "" {
					return m, cmdInitWorkspaceHere(m.deps, m.cwd)
				}
			case "r":
				m.errText = ""
				return m, cmdRefreshWorkspace(m.deps)
			}
			return m, nil

		case screenModels:
			if m.models.FilterState() != list.Filtering {
				switch key {
				case "q":
					return m, tea.Quit
				case "enter":
					it, ok := m.models.SelectedItem().(modelItem)
					if !ok {
						return m, nil
					}
					return m, cmdLoadModel(m.cfg, it.ref.Path)
				}
			}

		case screenSpaces:
			if m.spaces.FilterState() != list.Filtering {
				switch key {
				case "q":
					return m, tea.Quit
				case "esc", "b":
					if len(m.refs) > 1 {
						m.scr = screenModels
						return m, nil
					}
				case "enter":
					it, ok := m.spaces.SelectedItem().(spaceItem)
					if !ok {
						return m, nil
					}
					if !it.space.HasWindows() {
						m.toast = it.space.Label() + " has no windows, nothing to daylight"
						return m, nil
					}
					m.space = it.space
					m.form = newParamsForm(m.cfg.Params())
					m.scr = screenForm
					return m, textinput.Blink
				}
			}

		case screenForm:
			switch key {
			case "esc":
				m.scr = screenSpaces
				return m, nil
			case "tab", "down":
				var cmd tea.Cmd
				m.form, cmd = m.form.next()
				return m, cmd
			case "shift+tab", "up":
				var cmd tea.Cmd
				m.form, cmd = m.form.prev()
				return m, cmd
			case "enter":
				if !m.form.onLast() {
					var cmd tea.Cmd
					m.form, cmd = m.form.next()
					return m, cmd
				}
				return m.startRun()
			}

		case screenRunning:
			if key == "esc" && m.cancel != nil {
				m.cancel()
				m.toast = "Cancelling run"
			}
			return m, nil

		case screenResults:
			switch key {
			case "q":
				return m, tea.Quit
			case "b":
				m.blurred = !m.blurred
				return m, nil
			case "s":
				dir := filepath.Join(m.workspaceRoot, m.cfg.Paths.ReportsDir)
				return m, cmdSavePlot(m.res, m.blurred, dir)
			case "esc":
				m.scr = screenSpaces
				return m, nil
			}
			return m, nil
		}
	}

	switch m.scr {
	case screenModels:
		var cmd tea.Cmd
		m.models, cmd = m.models.Update(msg)
		return m, cmd
	case screenSpaces:
		var cmd tea.Cmd
		m.spaces, cmd = m.spaces.Update(msg)
		return m, cmd
	case screenForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) startRun() (tea.Model, tea.Cmd) {
	p, err := m.form.params(m.cfg.Defaults.SkyLux)
	if err == nil {
		err = p.ValidateFor(m.space)
	}
	if err != nil {
		m.form.errTxt = paramsReason(err)
		return m, nil
	}
	m.form.errTxt = ""

	in := usecase.RunInput{
		ModelPath:     m.modelPath,
		MaterialsPath: filepath.Join(m.workspaceRoot, m.cfg.Paths.ModelDir, "materials.yaml"),
		SpaceCode:     m.space.Code,
		Params:        p,
		Save:          true,
	}

	_, cancel, cmd := startRunAsync(m.workspaceRoot, m.cfg, m.building, in, m.deps.Logger, m.deps.Debug)
	m.cancel = cancel
	m.running = true
	m.scr = screenRunning
	return m, tea.Batch(m.spin.Tick, cmd)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Daylight") + "\n" +
		m.theme.Subtitle.Render("Daylight-factor analysis with Radiance") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		banner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nPress i to create one in the current directory.",
		)
	}

	var body string
	switch m.scr {
	case screenHome:
		switch {
		case m.errText != "":
			body = m.theme.Card.Render(m.theme.Fail.Render("Error: ")+m.errText) + "\n" +
				m.theme.Help.Render("r retry • q quit")
		case !m.workspaceFound:
			body = m.theme.Help.Render("i init workspace • q quit")
		default:
			body = m.theme.Help.Render("Loading workspace...")
		}

	case screenModels:
		body = m.theme.Card.Render(m.models.View()) + "\n" +
			m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")

	case screenSpaces:
		help := "↑/↓ navigate • enter analyze • / search • q quit"
		if len(m.refs) > 1 {
			help = "↑/↓ navigate • enter analyze • / search • esc models • q quit"
		}
		body = m.theme.Card.Render(m.spaces.View()) + "\n" + m.theme.Help.Render(help)

	case screenForm:
		title := m.theme.Title.Render("Analyze " + m.space.Label())
		sub := m.theme.Subtitle.Render(fmt.Sprintf(
			"Overcast sky %.0f lux, target DF %.1f%% over %.0f%% of the floor",
			m.cfg.Defaults.SkyLux, m.cfg.Compliance.TargetDF, m.cfg.Compliance.MinAreaFraction*100))
		body = m.theme.Card.Render(title+"\n"+sub+"\n\n"+m.form.view(m.theme)) + "\n" +
			m.theme.Help.Render("tab next • enter run • esc back")

	case screenRunning:
		body = m.theme.Card.Render(m.spin.View()+" Tracing rays for "+m.space.Label()+"...") + "\n" +
			m.theme.Help.Render("esc cancel")

	case screenResults:
		body = m.theme.Card.Render(renderResult(m.theme, m.res, m.blurred, m.width-10)) + "\n" +
			m.theme.Help.Render("b blur • s save svg • esc back • q quit")

	default:
		body = "unknown state"
	}

	out := header + "\n" + banner + "\n\n" + body
	if m.toast != "" {
		out += "\n" + m.theme.Help.Render(clampString(m.toast, maxWidth(m.width-8)))
	}
	return wrap.Render(out)
}

func maxWidth(w int) int {
	if w < 20 {
		return 20
	}
	return w
}
