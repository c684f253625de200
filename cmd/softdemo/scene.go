package main

import (
	_ "embed"
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/softgpu"
)

//go:embed default.yaml
var defaultScene []byte

// Scene describes what the demo renders.
type Scene struct {
	Clear   Color   `yaml:"clear"`
	Camera  Camera  `yaml:"camera"`
	Fog     *Fog    `yaml:"fog"`
	Floor   Floor   `yaml:"floor"`
	Quads   []Quad  `yaml:"quads"`
	Overlay Overlay `yaml:"overlay"`
}

// Camera angles are in degrees.
type Camera struct {
	FOV      float32    `yaml:"fov"`
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
}

type Fog struct {
	Mode    string  `yaml:"mode"` // linear, exp or exp2
	Color   Color   `yaml:"color"`
	Density float32 `yaml:"density"`
	End     float32 `yaml:"end"`
}

// Floor is a checkered square on y = 0, split into tiles x tiles quads.
type Floor struct {
	Size  float32 `yaml:"size"`
	Tiles int     `yaml:"tiles"`
	Color Color   `yaml:"color"`
}

// Quad is an upright rectangle rotated about its vertical axis.
type Quad struct {
	Center  [3]float32 `yaml:"center"`
	Size    [2]float32 `yaml:"size"`
	Rotate  float32    `yaml:"rotate"`
	Color   Color      `yaml:"color"`
	Alpha   *uint8     `yaml:"alpha"`
	Texture string     `yaml:"texture"`
}

// Overlay is a 2D bar across the top of the image.
type Overlay struct {
	Height int   `yaml:"height"`
	Color  Color `yaml:"color"`
}

var white = Color{R: 255, G: 255, B: 255, A: 255}

// Color is a color.RGBA written as "#rrggbb" or "#rrggbbaa".
type Color color.RGBA

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseHexColor(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = Color(v)
	return nil
}

func parseHexColor(s string) (color.RGBA, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	c := color.RGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

func (f *Fog) mode() (softgpu.FogMode, error) {
	switch f.Mode {
	case "", "linear":
		return softgpu.FogLinear, nil
	case "exp":
		return softgpu.FogExp, nil
	case "exp2":
		return softgpu.FogExp2, nil
	default:
		return 0, fmt.Errorf("unknown fog mode %q", f.Mode)
	}
}

// parseScene decodes a scene and fills in defaults.
func parseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if s.Camera.FOV <= 0 {
		s.Camera.FOV = 60
	}
	if s.Floor.Tiles <= 0 {
		s.Floor.Tiles = 1
	}
	if s.Floor.Color == (Color{}) {
		s.Floor.Color = white
	}
	if s.Fog != nil {
		if _, err := s.Fog.mode(); err != nil {
			return nil, err
		}
	}
	for i := range s.Quads {
		q := &s.Quads[i]
		if q.Color == (Color{}) {
			q.Color = white
		}
		switch q.Texture {
		case "", "none", "checker":
		default:
			return nil, fmt.Errorf("quad %d: unknown texture %q", i, q.Texture)
		}
	}
	return &s, nil
}

// loadScene reads a scene file, or the built-in scene for an empty path.
func loadScene(path string) (*Scene, error) {
	if path == "" {
		return parseScene(defaultScene)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScene(data)
}
