package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

const (
	fieldTransmittance = iota
	fieldGridSize
	fieldPlaneHeight
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Transmittance",
	"Grid size (m)",
	"Plane height (m)",
}

// paramsForm collects the analysis knobs before a run. Fields come
// pre-filled with the workspace defaults so enter-enter-enter runs
// with the configured values.
type paramsForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	errTxt string
}

func newParamsForm(defaults domain.Params) paramsForm {
	var f paramsForm
	values := [fieldCount]float64{
		defaults.Transmittance,
		defaults.GridSize,
		defaults.PlaneHeight,
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 8
		in.Width = 10
		in.SetValue(formatParam(values[i]))
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (f paramsForm) update(msg tea.Msg) (paramsForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f paramsForm) next() (paramsForm, tea.Cmd) { return f.moveFocus(1) }
func (f paramsForm) prev() (paramsForm, tea.Cmd) { return f.moveFocus(-1) }

func (f paramsForm) moveFocus(delta int) (paramsForm, tea.Cmd) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f, f.inputs[f.focus].Focus()
}

func (f paramsForm) onLast() bool { return f.focus == fieldCount-1 }

// params parses and validates the field values. The sky level is not
// prompted for and comes from the workspace config.
func (f paramsForm) params(skyLux float64) (domain.Params, error) {
	var vals [fieldCount]float64
	for i, in := range f.inputs {
		v, err := strconv.ParseFloat(strings.TrimSpace(in.Value()), 64)
		if err != nil {
			return domain.Params{}, fmt.Errorf("%s: %q is not a number",
				strings.ToLower(fieldLabels[i]), in.Value())
		}
		vals[i] = v
	}

	p := domain.Params{
		Transmittance: vals[fieldTransmittance],
		GridSize:      vals[fieldGridSize],
		PlaneHeight:   vals[fieldPlaneHeight],
		SkyLux:        skyLux,
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (f paramsForm) view(t Theme) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := fmt.Sprintf("%-18s", fieldLabels[i])
		if i == f.focus {
			label = t.Field.Render(label)
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.errTxt != "" {
		b.WriteString("\n")
		b.WriteString(t.Fail.Render(f.errTxt))
		b.WriteString("\n")
	}
	return b.String()
}
