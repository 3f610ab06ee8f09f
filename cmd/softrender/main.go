// softrender - software rasterizer
// Renders an OBJ or glTF mesh to an image file without a GPU: orthographic
// projection, flat Lambert lighting, back-face culling, a z-buffer and
// diffuse texture mapping.
//
// Usage:
//
//	softrender [flags] [model.obj|model.glb]
//
// With no argument obj/african_head.obj is rendered to output.tga at
// 800x800. A texture named <mesh>_diffuse.tga next to the mesh is used when
// present.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/softrender/internal/config"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/turntable"
)

var _ render.Mesh = (*models.Mesh)(nil)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
	exitAsset  = 3
	exitOutput = 4
)

// exitError carries the process exit code for a failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps an error returned by the root command to a process status.
// Errors raised by cobra itself (bad flags, too many arguments) are usage
// errors.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

type options struct {
	configPath string
	flags      config.Flags
	spin       float64
	preview    bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, newRootCmd())
	stop()
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "softrender [mesh]",
		Short: "Render a mesh to an image with a software rasterizer",
		Long: "softrender projects a triangle mesh orthographically, lights each face\n" +
			"with a single directional light, and fills it with a z-buffered,\n" +
			"texture-mapped triangle rasterizer. The frame is written as TGA, PNG,\n" +
			"BMP or WebP depending on the output extension.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.flags.Mesh = args[0]
			}
			if cmd.Flags().Changed("spin") {
				opts.flags.Spin = &opts.spin
			}
			return run(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "JSON config file")
	f.StringVarP(&opts.flags.Output, "output", "o", "", "output image (.tga, .png, .bmp, .webp) (default \"output.tga\")")
	f.StringVarP(&opts.flags.Texture, "texture", "t", "", "diffuse texture (default <mesh>_diffuse.tga when present)")
	f.IntVar(&opts.flags.Width, "width", 0, "image width in pixels (default 800)")
	f.IntVar(&opts.flags.Height, "height", 0, "image height in pixels (default 800)")
	f.Float64Var(&opts.flags.Epsilon, "epsilon", 0, "degenerate-area threshold and edge tolerance (default 0.01)")
	f.StringVar(&opts.flags.Background, "bg", "", "background color as R,G,B (default \"0,0,0\")")
	f.BoolVarP(&opts.flags.Wireframe, "wireframe", "w", false, "draw face edges only")
	f.BoolVar(&opts.flags.Fit, "fit", false, "centre and scale the mesh into the view")
	f.BoolVar(&opts.flags.Checker, "checker", false, "use a checkerboard instead of the diffuse texture")
	f.IntVarP(&opts.flags.Frames, "frames", "n", 0, "number of turntable frames to render (default 1)")
	f.Float64Var(&opts.spin, "spin", config.DefaultSpin, "degrees swept by a turntable animation")
	f.BoolVarP(&opts.preview, "preview", "p", false, "show the last frame in the terminal")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-frame statistics")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)
	defer render.SetLogger(nil)

	var cfg config.Config
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return withCode(exitUsage, err)
		}
		cfg = loaded
	}
	cfg.Resolve(opts.flags)
	if err := cfg.Validate(); err != nil {
		return withCode(exitUsage, err)
	}
	bg, _ := cfg.BackgroundColor()

	assets, err := loadAssets(&cfg, logger)
	if err != nil {
		return withCode(exitAsset, err)
	}

	r := render.NewRenderer(cfg.Width, cfg.Height)
	r.Epsilon = cfg.Epsilon
	r.LightDir = cfg.Light()
	r.Background = bg
	r.Wireframe = cfg.Wireframe
	if cfg.Fit {
		r.Transform = render.FitTransform(assets.mesh.Center(), assets.mesh.Size())
	}

	transforms := turntable.Transforms(r.Transform, cfg.Frames, cfg.Sweep())
	var last *render.Framebuffer
	for i, m := range transforms {
		if err := ctx.Err(); err != nil {
			return withCode(exitFailed, err)
		}
		r.Transform = m
		fb, stats := r.Render(assets.mesh, assets.texture)
		fb.FlipVertically()

		path := framePath(cfg.Output, i, len(transforms))
		if err := render.Save(path, fb); err != nil {
			return withCode(exitOutput, fmt.Errorf("write %s: %w", path, err))
		}
		logger.Debug("frame done", "frame", i, "drawn", stats.Faces-stats.Culled, "culled", stats.Culled)
		last = fb
	}

	if opts.preview && last != nil {
		if err := preview(ctx, last); err != nil {
			return withCode(exitFailed, fmt.Errorf("preview: %w", err))
		}
	}
	return nil
}

// framePath returns output unchanged for a single frame, otherwise
// "<stem>_NNN<ext>".
func framePath(output string, i, n int) string {
	if n <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(output, ext), i, ext)
}
