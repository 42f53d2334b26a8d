package gsmath

import (
	"encoding/json"
	"fmt"
	"os"
)

type CameraCfg struct {
	FovXDeg  Real `json:"fovXDeg"`
	Distance Real `json:"distance"`
}

type Config struct {
	Points     int       `json:"points"`
	Degree     int       `json:"degree"`
	Seed       int64     `json:"seed,omitempty"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Camera     CameraCfg `json:"camera"`
	Gamma      Real      `json:"gamma,omitempty"`
	PreviewOut string    `json:"previewOut,omitempty"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Points <= 0 {
		cfg.Points = Points
	}
	if cfg.Degree < 0 || cfg.Degree > MaxSHDegree {
		return nil, fmt.Errorf("degree must be in 0..%d, got %d", MaxSHDegree, cfg.Degree)
	}
	if cfg.Width <= 0 {
		cfg.Width = Width
	}
	if cfg.Height <= 0 {
		cfg.Height = Height
	}
	if cfg.Camera.FovXDeg <= 0 || cfg.Camera.FovXDeg >= 180 {
		cfg.Camera.FovXDeg = FovXDeg
	}
	if cfg.Camera.Distance <= 0 {
		cfg.Camera.Distance = CamDist
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = 1
	}
	if cfg.PreviewOut == "" {
		cfg.PreviewOut = PreviewOut
	}
	return &cfg, nil
}
