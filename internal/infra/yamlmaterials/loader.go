// Package yamlmaterials loads the optical materials library from the workspace.
package yamlmaterials

import (
	"fmt"
	"os"
	"strings"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.MaterialsLoader = (*Loader)(nil)

// LoadMaterials reads the materials file. A missing file is not an error:
// the built-in defaults apply, so a bare workspace still runs.
func (l *Loader) LoadMaterials(path string) (domain.MaterialsLibrary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultMaterials(), nil
		}
		return domain.MaterialsLibrary{}, &domain.OpError{
			Op:   "yamlmaterials.load",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	var ym yamlMaterials
	if err := yaml.Unmarshal(b, &ym); err != nil {
		return domain.MaterialsLibrary{}, &domain.OpError{
			Op:   "yamlmaterials.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, ym)
}

type yamlMaterials struct {
	Reflectances yamlReflectances `yaml:"reflectances"`
	Glass        []yamlGlass      `yaml:"glass"`
}

type yamlReflectances struct {
	Wall    *float64 `yaml:"wall"`
	Ceiling *float64 `yaml:"ceiling"`
	Floor   *float64 `yaml:"floor"`
}

type yamlGlass struct {
	Name          string  `yaml:"name"`
	Transmittance float64 `yaml:"transmittance"`
}

func mapAndValidate(path string, ym yamlMaterials) (domain.MaterialsLibrary, error) {
	lib := domain.DefaultMaterials()
	lib.Glass = nil

	if ym.Reflectances.Wall != nil {
		lib.Reflectances.Wall = *ym.Reflectances.Wall
	}
	if ym.Reflectances.Ceiling != nil {
		lib.Reflectances.Ceiling = *ym.Reflectances.Ceiling
	}
	if ym.Reflectances.Floor != nil {
		lib.Reflectances.Floor = *ym.Reflectances.Floor
	}

	r := lib.Reflectances
	for field, v := range map[string]float64{"wall": r.Wall, "ceiling": r.Ceiling, "floor": r.Floor} {
		if v < 0 || v >= 1 {
			return domain.MaterialsLibrary{}, invalidField(path, "reflectances."+field,
				fmt.Sprintf("reflectance must be in [0,1), got %g", v))
		}
	}

	seen := make(map[string]bool, len(ym.Glass))
	for i, g := range ym.Glass {
		field := fmt.Sprintf("glass[%d]", i)
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return domain.MaterialsLibrary{}, invalidField(path, field+".name", "glass preset name is required")
		}
		key := strings.ToLower(name)
		if seen[key] {
			return domain.MaterialsLibrary{}, invalidField(path, field+".name", fmt.Sprintf("duplicate glass preset %q", name))
		}
		seen[key] = true
		if g.Transmittance <= 0 || g.Transmittance > 1 {
			return domain.MaterialsLibrary{}, invalidField(path, field+".transmittance",
				fmt.Sprintf("transmittance must be in (0,1], got %g", g.Transmittance))
		}
		lib.Glass = append(lib.Glass, domain.GlassPreset{Name: name, Transmittance: g.Transmittance})
	}

	if len(lib.Glass) == 0 {
		lib.Glass = domain.DefaultMaterials().Glass
	}

	return lib, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlmaterials.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
