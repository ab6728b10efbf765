package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

func sampleSpace() domain.Space {
	return domain.Space{
		LongName: "Living Room",
		Code:     "A203",
		Width:    4,
		Depth:    5,
		Height:   2.6,
		Windows: []domain.Window{
			{Tag: "W1", Width: 1.2, Height: 1.4, Wall: domain.WallFront, WallLength: 4},
		},
	}
}

func sampleResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		ModelName: "Duplex Apartment",
		Space:     sampleSpace(),
		Params:    domain.DefaultParams(),
		Grid: domain.SensorGrid{
			NX: 2, NY: 2, GridSize: 0.2, Height: 0.5,
			Points: make([]domain.SensorPoint, 4),
		},
		Lux:   []float64{100, 200, 300, 400},
		Stats: domain.Stats{Min: 100, Max: 400, Mean: 250, Median: 250},
		DF: domain.DFStats{
			SkyLux: 10000, TargetDF: 2.1, ShareAtLeast: 0.5,
			Min: 1, Max: 4, Mean: 2.5,
		},
		Verdict: domain.Verdict{
			Passed:  true,
			Share:   0.5,
			Message: "50.0% of the floor reaches DF 2.1%: PASSES",
		},
		Engine:   domain.EngineInfo{Name: "radiance", Version: "5.4"},
		Duration: 1200 * time.Millisecond,
		RunID:    "run-42",
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSpaceItemDescription(t *testing.T) {
	cases := []struct {
		name    string
		windows int
		want    string
	}{
		{name: "none", windows: 0, want: "no windows"},
		{name: "one", windows: 1, want: "1 window"},
		{name: "two", windows: 2, want: "2 windows"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := sampleSpace()
			s.Windows = make([]domain.Window, tc.windows)
			got := spaceItem{space: s}.Description()
			if !strings.Contains(got, tc.want) {
				t.Fatalf("Description() = %q, want substring %q", got, tc.want)
			}
		})
	}
}

func TestWorkspaceLoadedSingleModelAutoLoads(t *testing.T) {
	m := newModel(Deps{})

	got, cmd := m.Update(workspaceLoadedMsg{
		root: "/ws",
		cfg:  domain.DefaultConfig(),
		refs: []domain.ModelRef{{Name: "Duplex", Path: "/ws/model/duplex.json"}},
	})

	mm := got.(model)
	if mm.errText != "" {
		t.Fatalf("unexpected error text %q", mm.errText)
	}
	if cmd == nil {
		t.Fatalf("expected a load command for the single model")
	}
}

func TestWorkspaceLoadedNoModels(t *testing.T) {
	m := newModel(Deps{})

	got, _ := m.Update(workspaceLoadedMsg{root: "/ws", cfg: domain.DefaultConfig()})

	mm := got.(model)
	if mm.scr != screenHome {
		t.Fatalf("expected home screen, got %d", mm.scr)
	}
	if !strings.Contains(mm.errText, "model") {
		t.Fatalf("expected model dir hint, got %q", mm.errText)
	}
}

func TestWorkspaceLoadedManyModelsShowsPicker(t *testing.T) {
	m := newModel(Deps{})

	got, _ := m.Update(workspaceLoadedMsg{
		root: "/ws",
		cfg:  domain.DefaultConfig(),
		refs: []domain.ModelRef{
			{Name: "Duplex", Path: "/ws/model/duplex.json"},
			{Name: "Office", Path: "/ws/model/office.json"},
		},
	})

	mm := got.(model)
	if mm.scr != screenModels {
		t.Fatalf("expected models screen, got %d", mm.scr)
	}
	if len(mm.models.Items()) != 2 {
		t.Fatalf("expected 2 model items, got %d", len(mm.models.Items()))
	}
}

func TestModelLoadedShowsSpaces(t *testing.T) {
	m := newModel(Deps{})

	got, _ := m.Update(modelLoadedMsg{
		path: "/ws/model/duplex.json",
		model: domain.Model{
			Name:   "Duplex Apartment",
			Spaces: []domain.Space{sampleSpace()},
		},
	})

	mm := got.(model)
	if mm.scr != screenSpaces {
		t.Fatalf("expected spaces screen, got %d", mm.scr)
	}
	if len(mm.spaces.Items()) != 1 {
		t.Fatalf("expected 1 space item, got %d", len(mm.spaces.Items()))
	}
	if mm.spaces.Title != "Duplex Apartment" {
		t.Fatalf("expected list title from model name, got %q", mm.spaces.Title)
	}
	if mm.modelPath != "/ws/model/duplex.json" {
		t.Fatalf("unexpected model path %q", mm.modelPath)
	}
}

func TestEnterOnWindowlessSpaceToasts(t *testing.T) {
	m := newModel(Deps{})
	s := sampleSpace()
	s.Windows = nil
	m.scr = screenSpaces
	m.spaces.SetItems(spaceItems([]domain.Space{s}))

	got, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	mm := got.(model)
	if mm.scr != screenSpaces {
		t.Fatalf("expected to stay on spaces, got %d", mm.scr)
	}
	if !strings.Contains(mm.toast, "no windows") {
		t.Fatalf("expected windowless toast, got %q", mm.toast)
	}
}

func TestEnterOnSpaceOpensForm(t *testing.T) {
	m := newModel(Deps{})
	m.scr = screenSpaces
	m.spaces.SetItems(spaceItems([]domain.Space{sampleSpace()}))

	got, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	mm := got.(model)
	if mm.scr != screenForm {
		t.Fatalf("expected form screen, got %d", mm.scr)
	}
	if cmd == nil {
		t.Fatalf("expected blink command")
	}
	if mm.form.inputs[fieldTransmittance].Value() != "0.6" {
		t.Fatalf("expected form prefilled from config, got %q",
			mm.form.inputs[fieldTransmittance].Value())
	}
	if mm.space.Code != "A203" {
		t.Fatalf("expected selected space, got %q", mm.space.Code)
	}
}

func TestRunDoneSuccessShowsResults(t *testing.T) {
	m := newModel(Deps{})
	m.scr = screenRunning
	m.running = true
	m.blurred = true

	got, _ := m.Update(runDoneMsg{res: sampleResult()})

	mm := got.(model)
	if mm.scr != screenResults {
		t.Fatalf("expected results screen, got %d", mm.scr)
	}
	if mm.running {
		t.Fatalf("expected running cleared")
	}
	if mm.blurred {
		t.Fatalf("expected blur reset on new result")
	}
	if mm.res.RunID != "run-42" {
		t.Fatalf("expected result stored, got %q", mm.res.RunID)
	}
}

func TestRunDoneFailureReturnsToForm(t *testing.T) {
	m := newModel(Deps{})
	m.scr = screenRunning
	m.running = true

	res := domain.AnalysisResult{RunID: "run-9"}
	got, _ := m.Update(runDoneMsg{res: res, err: errors.New("rtrace: exit 1")})

	mm := got.(model)
	if mm.scr != screenForm {
		t.Fatalf("expected form screen, got %d", mm.scr)
	}
	if mm.form.errTxt == "" {
		t.Fatalf("expected form error text")
	}
	if !strings.Contains(mm.toast, "run-9") {
		t.Fatalf("expected failed run id in toast, got %q", mm.toast)
	}
}

func TestResultsKeys(t *testing.T) {
	m := newModel(Deps{})
	m.scr = screenResults
	m.res = sampleResult()

	got, _ := m.Update(keyRune('b'))
	mm := got.(model)
	if !mm.blurred {
		t.Fatalf("expected b to enable blur")
	}

	got, _ = mm.Update(keyRune('b'))
	mm = got.(model)
	if mm.blurred {
		t.Fatalf("expected b to toggle blur off")
	}

	got, _ = mm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	mm = got.(model)
	if mm.scr != screenSpaces {
		t.Fatalf("expected esc to return to spaces, got %d", mm.scr)
	}
}

func TestRenderResult(t *testing.T) {
	out := renderResult(DefaultTheme(), sampleResult(), false, 60)

	for _, want := range []string{"Living Room (A203)", "PASS", "Lux:", "run-42", "radiance 5.4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in result view:\n%s", want, out)
		}
	}
}

func TestViewHomeWithoutWorkspace(t *testing.T) {
	m := newModel(Deps{})
	m.workspaceFound = false

	out := m.View()
	if !strings.Contains(out, "No workspace found") {
		t.Fatalf("expected workspace warning:\n%s", out)
	}
	if !strings.Contains(out, "Daylight") {
		t.Fatalf("expected app title:\n%s", out)
	}
}

func TestClampString(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "fits", in: "short", maxLen: 10, want: "short"},
		{name: "clamped", in: "abcdefgh", maxLen: 4, want: "abcd…"},
		{name: "zero", in: "abc", maxLen: 0, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampString(tc.in, tc.maxLen); got != tc.want {
				t.Fatalf("clampString(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
			}
		})
	}
}
