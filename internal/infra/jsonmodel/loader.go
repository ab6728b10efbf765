// Package jsonmodel loads IFC-derived building models from JSON exports.
package jsonmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

// Sill height assumed when the export carries none, matching the IFC
// extractor's fallback.
const defaultSillHeight = 0.1

type Loader struct {
	modelDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{modelDir: "model"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithModelDir(dir string) Option {
	return func(l *Loader) { l.modelDir = dir }
}

var _ ports.ModelLoader = (*Loader)(nil)

func (l *Loader) LoadModel(path string) (domain.Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Model{}, &domain.OpError{
			Op:   "jsonmodel.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var jm jsonModel
	if err := json.Unmarshal(b, &jm); err != nil {
		return domain.Model{}, &domain.OpError{
			Op:   "jsonmodel.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, jm)
}

func (l *Loader) ListModels(root string) ([]domain.ModelRef, error) {
	dir := filepath.Join(root, l.modelDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "jsonmodel.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.ModelRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readModelName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.ModelRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readModelName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Project string `json:"project"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Project, nil
}

type jsonModel struct {
	Project string      `json:"project"`
	Spaces  []jsonSpace `json:"spaces"`
}

type jsonSpace struct {
	LongName   string         `json:"long_name"`
	Name       string         `json:"name"`
	Dimensions jsonDimensions `json:"dimensions"`
	Windows    []jsonWindow   `json:"windows"`
	Walls      []jsonWall     `json:"walls"`
	Doors      []jsonDoor     `json:"doors"`
}

type jsonDimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

type jsonWindow struct {
	Name       string   `json:"name"`
	Tag        string   `json:"tag"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	SillHeight *float64 `json:"sill_height"`
	Wall       string   `json:"wall"`
	WallLength float64  `json:"wall_length"`
	LocX       float64  `json:"loc_x"`
	LocY       float64  `json:"loc_y"`
}

type jsonWall struct {
	Name     string      `json:"name"`
	Tag      string      `json:"tag"`
	External bool        `json:"external"`
	Layers   []jsonLayer `json:"layers"`
}

type jsonLayer struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness"`
}

type jsonDoor struct {
	Name   string  `json:"name"`
	Tag    string  `json:"tag"`
	Glazed bool    `json:"glazed"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func mapAndValidate(path string, jm jsonModel) (domain.Model, error) {
	m := domain.Model{
		Name:   jm.Project,
		Spaces: make([]domain.Space, 0, len(jm.Spaces)),
	}

	seen := make(map[string]bool, len(jm.Spaces))
	for i, js := range jm.Spaces {
		fieldPrefix := fmt.Sprintf("spaces[%d]", i)

		code := strings.TrimSpace(js.Name)
		if code == "" {
			return domain.Model{}, invalidField(path, fieldPrefix+".name", "space name is required")
		}
		key := strings.ToLower(code)
		if seen[key] {
			return domain.Model{}, invalidField(path, fieldPrefix+".name", fmt.Sprintf("duplicate space name %q", code))
		}
		seen[key] = true

		d := js.Dimensions
		if d.Width <= 0 || d.Depth <= 0 || d.Height <= 0 {
			return domain.Model{}, invalidField(path, fieldPrefix+".dimensions",
				fmt.Sprintf("dimensions must be positive, got %gx%gx%g", d.Width, d.Depth, d.Height))
		}

		s := domain.Space{
			LongName: strings.TrimSpace(js.LongName),
			Code:     code,
			Width:    d.Width,
			Depth:    d.Depth,
			Height:   d.Height,
			Windows:  make([]domain.Window, 0, len(js.Windows)),
		}

		for j, jw := range js.Windows {
			wField := fmt.Sprintf("%s.windows[%d]", fieldPrefix, j)

			wall, err := parseWall(jw.Wall)
			if err != nil {
				return domain.Model{}, invalidField(path, wField+".wall", err.Error())
			}
			if jw.Width <= 0 || jw.Height <= 0 {
				return domain.Model{}, invalidField(path, wField,
					fmt.Sprintf("window size must be positive, got %gx%g", jw.Width, jw.Height))
			}

			sill := defaultSillHeight
			if jw.SillHeight != nil {
				sill = *jw.SillHeight
			}

			w := domain.Window{
				Name:       strings.TrimSpace(jw.Name),
				Tag:        strings.TrimSpace(jw.Tag),
				Width:      jw.Width,
				Height:     jw.Height,
				SillHeight: sill,
				Wall:       wall,
				WallLength: jw.WallLength,
				LocX:       jw.LocX,
				LocY:       jw.LocY,
			}
			if w.Tag == "" {
				w.Tag = fmt.Sprintf("%s_win_%d", code, j+1)
			}
			if w.Name == "" {
				w.Name = w.Tag
			}
			if w.Width > s.WallSpan(wall) {
				return domain.Model{}, invalidField(path, wField,
					fmt.Sprintf("window %q is wider (%g m) than the %s wall (%g m)", w.Tag, w.Width, wall, s.WallSpan(wall)))
			}
			if w.BottomZ()+w.Height > s.Height {
				return domain.Model{}, invalidField(path, wField,
					fmt.Sprintf("window %q top (%g m) is above the %g m ceiling", w.Tag, w.BottomZ()+w.Height, s.Height))
			}

			s.Windows = append(s.Windows, s.FitWindow(w))
		}

		for j, a := range s.Windows {
			for _, b := range s.Windows[j+1:] {
				if a.Overlaps(b) {
					return domain.Model{}, invalidField(path, fieldPrefix+".windows",
						fmt.Sprintf("windows %q and %q overlap on the %s wall", a.Tag, b.Tag, a.Wall))
				}
			}
		}

		for _, jw := range js.Walls {
			w := domain.Wall{
				Name:     strings.TrimSpace(jw.Name),
				Tag:      strings.TrimSpace(jw.Tag),
				External: jw.External,
				Layers:   make([]domain.MaterialLayer, 0, len(jw.Layers)),
			}
			for _, layer := range jw.Layers {
				w.Layers = append(w.Layers, domain.MaterialLayer{
					Material:  strings.TrimSpace(layer.Material),
					Thickness: layer.Thickness,
				})
			}
			s.Walls = append(s.Walls, w)
		}

		for _, jd := range js.Doors {
			s.Doors = append(s.Doors, domain.Door{
				Name:   strings.TrimSpace(jd.Name),
				Tag:    strings.TrimSpace(jd.Tag),
				Glazed: jd.Glazed,
				Width:  jd.Width,
				Height: jd.Height,
			})
		}

		m.Spaces = append(m.Spaces, s)
	}

	return m, nil
}

func parseWall(s string) (domain.WallName, error) {
	low := domain.WallName(strings.ToLower(strings.TrimSpace(s)))
	if !low.Valid() {
		return "", fmt.Errorf("unsupported wall %q (want front, back, left or right)", s)
	}
	return low, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "jsonmodel.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
