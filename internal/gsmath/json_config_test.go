package gsmath

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `{
		"points": 2000,
		"degree": 2,
		"seed": 7,
		"width": 320,
		"height": 240,
		"camera": {"fovXDeg": 60, "distance": 4},
		"gamma": 2.2,
		"previewOut": "out.png"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Points != 2000 || cfg.Degree != 2 || cfg.Seed != 7 {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Fatalf("size: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Camera.FovXDeg != 60 || cfg.Camera.Distance != 4 {
		t.Fatalf("camera: %+v", cfg.Camera)
	}
	if cfg.Gamma != 2.2 || cfg.PreviewOut != "out.png" {
		t.Fatalf("output: gamma=%g previewOut=%q", cfg.Gamma, cfg.PreviewOut)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Points != Points || cfg.Degree != 0 {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.Width != Width || cfg.Height != Height {
		t.Fatalf("size defaults: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Camera.FovXDeg != FovXDeg || cfg.Camera.Distance != CamDist {
		t.Fatalf("camera defaults: %+v", cfg.Camera)
	}
	if cfg.Gamma != 1 || cfg.PreviewOut != PreviewOut {
		t.Fatalf("output defaults: gamma=%g previewOut=%q", cfg.Gamma, cfg.PreviewOut)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file accepted")
	}
	if _, err := loadConfig(writeConfig(t, `{not json`)); err == nil {
		t.Fatal("malformed JSON accepted")
	}
	if _, err := loadConfig(writeConfig(t, `{"degree": 4}`)); err == nil {
		t.Fatal("degree 4 accepted")
	}
	if _, err := loadConfig(writeConfig(t, `{"degree": -1}`)); err == nil {
		t.Fatal("degree -1 accepted")
	}
}
