// Package config loads render settings from a JSON file and merges them
// with command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Defaults applied by Resolve.
const (
	DefaultWidth  = 800
	DefaultHeight = 800
	DefaultMesh   = "obj/african_head.obj"
	DefaultOutput = "output.tga"
	DefaultSpin   = 360.0
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all render settings.
type Config struct {
	// Paths
	Mesh    string `json:"mesh"`
	Texture string `json:"texture"` // empty: look for <mesh>_diffuse.tga
	Output  string `json:"output"`

	// Raster
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Epsilon    float64    `json:"epsilon"`
	LightDir   [3]float64 `json:"light_dir"`
	Background string     `json:"background"` // "r,g,b"

	// Modes
	Wireframe bool     `json:"wireframe"`
	Fit       bool     `json:"fit"`
	Checker   bool     `json:"checker"`
	Frames    int      `json:"frames"`
	Spin      *float64 `json:"spin"` // degrees swept over all frames; nil means DefaultSpin
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting alone; Spin is a pointer so an explicit
// zero can be told apart from an unset flag.
type Flags struct {
	Mesh       string
	Texture    string
	Output     string
	Width      int
	Height     int
	Epsilon    float64
	Background string
	Wireframe  bool
	Fit        bool
	Checker    bool
	Frames     int
	Spin       *float64
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies flag overrides, then fills any unset field with its
// default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Mesh != "" {
		c.Mesh = flags.Mesh
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Epsilon > 0 {
		c.Epsilon = flags.Epsilon
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Spin != nil {
		spin := *flags.Spin
		c.Spin = &spin
	}
	c.Wireframe = c.Wireframe || flags.Wireframe
	c.Fit = c.Fit || flags.Fit
	c.Checker = c.Checker || flags.Checker

	// Defaults
	if c.Mesh == "" {
		c.Mesh = DefaultMesh
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Epsilon <= 0 {
		c.Epsilon = render.DefaultEpsilon
	}
	if c.LightDir == [3]float64{} {
		l := render.DefaultLightDir
		c.LightDir = [3]float64{l.X, l.Y, l.Z}
	}
	if c.Background == "" {
		c.Background = "0,0,0"
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
}

// Sweep returns the turntable sweep in degrees.
func (c *Config) Sweep() float64 {
	if c.Spin == nil {
		return DefaultSpin
	}
	return *c.Spin
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	if _, err := render.FormatFromPath(c.Output); err != nil {
		return fmt.Errorf("%w: output %q: %v", ErrInvalid, c.Output, err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if c.Light().Len() == 0 {
		return fmt.Errorf("%w: light_dir must be non-zero", ErrInvalid)
	}
	return nil
}

// Light returns the normalized light direction.
func (c *Config) Light() math3d.Vec3 {
	return math3d.V3(c.LightDir[0], c.LightDir[1], c.LightDir[2]).Normalize()
}

// BackgroundColor parses Background as "r,g,b" with components in 0-255.
func (c *Config) BackgroundColor() (color.RGBA, error) {
	parts := strings.Split(c.Background, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: background %q is not r,g,b", ErrInvalid, c.Background)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: background %q: %v", ErrInvalid, c.Background, err)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{rgb[0], rgb[1], rgb[2], 255}, nil
}
