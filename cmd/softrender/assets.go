package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/taigrr/softrender/internal/config"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
)

// assets is everything a render needs from disk. The mesh is owned by the
// render loop for the whole run.
type assets struct {
	mesh    *models.Mesh
	texture *render.Texture // nil selects flat shading
}

// loadAssets reads the mesh and picks a texture: the checkerboard when asked
// for, an explicit path, an image embedded in a glTF file, or the
// conventional <mesh>_diffuse.tga. A missing conventional texture is not an
// error; a missing explicit one is.
func loadAssets(cfg *config.Config, logger *slog.Logger) (*assets, error) {
	var (
		mesh     *models.Mesh
		embedded image.Image
		err      error
	)
	switch strings.ToLower(filepath.Ext(cfg.Mesh)) {
	case ".glb", ".gltf":
		mesh, embedded, err = models.LoadGLTFWithTexture(cfg.Mesh)
	default:
		mesh, err = models.Load(cfg.Mesh)
	}
	if err != nil {
		return nil, fmt.Errorf("load mesh: %w", err)
	}
	logger.Info("mesh loaded", "path", cfg.Mesh, "vertices", mesh.VertexCount(), "faces", mesh.FaceCount())

	out := &assets{mesh: mesh}
	if cfg.Wireframe {
		return out, nil
	}

	switch {
	case cfg.Checker:
		out.texture = render.NewCheckerTexture(512, 512, 32, render.ColorWhite, render.RGB(96, 96, 96))
		logger.Debug("texture", "source", "checker")
	case cfg.Texture != "":
		out.texture, err = render.LoadTexture(cfg.Texture)
		if err != nil {
			return nil, err
		}
		logger.Info("texture loaded", "path", cfg.Texture, "width", out.texture.Width, "height", out.texture.Height)
	case embedded != nil:
		out.texture = render.TextureFromImage(embedded)
		logger.Info("texture loaded", "source", "embedded", "width", out.texture.Width, "height", out.texture.Height)
	default:
		path := models.DiffuseTexturePath(cfg.Mesh)
		out.texture, err = render.LoadTexture(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("no diffuse texture, using flat shading", "path", path)
			out.texture = nil
		case err != nil:
			return nil, err
		default:
			logger.Info("texture loaded", "path", path, "width", out.texture.Width, "height", out.texture.Height)
		}
	}

	if out.texture != nil && !mesh.HasTexCoords() {
		logger.Warn("mesh has no texture coordinates, using flat shading")
		out.texture = nil
	}
	return out, nil
}
