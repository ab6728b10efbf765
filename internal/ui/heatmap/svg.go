package heatmap

import (
	"fmt"
	"text/template"
	"os"
	"path/filepath"
	"strings"
)

// SVGOptions label the exported plot.
type SVGOptions struct {
	Title    string
	Subtitle string
	Unit     string
}

const svgTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<svg width="{{.Width}}" height="{{.Height}}" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="ramp" x1="0" y1="1" x2="0" y2="0">
      {{range .Stops}}<stop offset="{{.Offset}}" stop-color="{{.Color}}"/>{{end}}
    </linearGradient>
    <style>
      .title { font: bold 16px sans-serif; fill: #111111; }
      .subtitle { font: 12px sans-serif; fill: #555555; }
      .label { font: 11px sans-serif; fill: #333333; }
    </style>
  </defs>
  {{if .Title}}<text class="title" x="{{.MarginLeft}}" y="24">{{.Title}}</text>{{end}}
  {{if .Subtitle}}<text class="subtitle" x="{{.MarginLeft}}" y="44">{{.Subtitle}}</text>{{end}}
  <g transform="translate({{.MarginLeft}},{{.MarginTop}})">
    {{range .Cells}}<rect x="{{.X}}" y="{{.Y}}" width="{{.Size}}" height="{{.Size}}" fill="{{.Fill}}"/>
    {{end}}
  </g>
  <g transform="translate({{.LegendX}},{{.MarginTop}})">
    <rect x="0" y="0" width="14" height="{{.PlotH}}" fill="url(#ramp)"/>
    <text class="label" x="20" y="10">{{.MaxLabel}}</text>
    <text class="label" x="20" y="{{.PlotH}}">{{.MinLabel}}</text>
  </g>
</svg>
`

var svgTmpl = template.Must(template.New("heatmap").Parse(svgTemplate))

type svgData struct {
	Width, Height      int
	MarginLeft         int
	MarginTop          int
	Title, Subtitle    string
	Cells              []svgCell
	Stops              []svgStop
	LegendX            int
	PlotH              int
	MinLabel, MaxLabel string
}

type svgCell struct {
	X, Y, Size int
	Fill       string
}

type svgStop struct {
	Offset string
	Color  string
}

// SVG renders the field as a standalone SVG document, north side up,
// with a vertical color ramp legend.
func SVG(f Field, opts SVGOptions) (string, error) {
	if len(f.Values) == 0 {
		return "", fmt.Errorf("heatmap: nothing to plot")
	}

	px := 640 / f.NX
	if px < 4 {
		px = 4
	}
	if px > 24 {
		px = 24
	}

	min, max := f.MinMax()
	cells := make([]svgCell, 0, len(f.Values))
	for j := 0; j < f.NY; j++ {
		for i := 0; i < f.NX; i++ {
			cells = append(cells, svgCell{
				X:    i * px,
				Y:    (f.NY - 1 - j) * px,
				Size: px,
				Fill: colorAt(normalize(f.At(i, j), min, max)),
			})
		}
	}

	stops := make([]svgStop, len(ylOrRd))
	for i, c := range ylOrRd {
		stops[i] = svgStop{
			Offset: fmt.Sprintf("%.0f%%", float64(i)/float64(len(ylOrRd)-1)*100),
			Color:  hex(c),
		}
	}

	const marginLeft, marginTop = 16, 56
	plotW := f.NX * px
	plotH := f.NY * px

	data := svgData{
		Width:      marginLeft + plotW + 120,
		Height:     marginTop + plotH + 16,
		MarginLeft: marginLeft,
		MarginTop:  marginTop,
		Title:      opts.Title,
		Subtitle:   opts.Subtitle,
		Cells:      cells,
		Stops:      stops,
		LegendX:    marginLeft + plotW + 16,
		PlotH:      plotH,
		MinLabel:   formatBound(min, opts.Unit),
		MaxLabel:   formatBound(max, opts.Unit),
	}

	var out strings.Builder
	if err := svgTmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// WriteSVG renders the field and writes it to path, creating parent
// directories as needed.
func WriteSVG(f Field, opts SVGOptions, path string) error {
	s, err := SVG(f, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}
