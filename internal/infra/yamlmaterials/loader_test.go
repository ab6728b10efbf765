package yamlmaterials

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMaterials_MissingFileFallsBack(t *testing.T) {
	tmp := t.TempDir()

	lib, err := NewLoader().LoadMaterials(filepath.Join(tmp, "materials.yaml"))
	if err != nil {
		t.Fatalf("LoadMaterials error: %v", err)
	}
	if lib.Reflectances.Ceiling != 0.80 {
		t.Fatalf("expected default ceiling reflectance, got=%g", lib.Reflectances.Ceiling)
	}
	if len(lib.Glass) == 0 {
		t.Fatalf("expected default glass presets")
	}
}

func TestLoadMaterials_Overrides(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "materials.yaml")
	content := []byte(`
reflectances:
  wall: 0.65
glass:
  - name: museum
    transmittance: 0.42
`)
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib, err := NewLoader().LoadMaterials(p)
	if err != nil {
		t.Fatalf("LoadMaterials error: %v", err)
	}
	if lib.Reflectances.Wall != 0.65 {
		t.Fatalf("expected wall override, got=%g", lib.Reflectances.Wall)
	}
	if lib.Reflectances.Floor != 0.20 {
		t.Fatalf("expected floor default kept, got=%g", lib.Reflectances.Floor)
	}
	if len(lib.Glass) != 1 || lib.Glass[0].Name != "museum" {
		t.Fatalf("expected custom presets to replace defaults, got=%v", lib.Glass)
	}
}

func TestLoadMaterials_RejectsBadReflectance(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "materials.yaml")
	if err := os.WriteFile(p, []byte("reflectances:\n  wall: 1.3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewLoader().LoadMaterials(p); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadMaterials_RejectsDuplicatePreset(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "materials.yaml")
	content := []byte(`
glass:
  - name: clear
    transmittance: 0.8
  - name: Clear
    transmittance: 0.7
`)
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewLoader().LoadMaterials(p); err == nil {
		t.Fatalf("expected duplicate error")
	}
}
