package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads OBJ data. Supported statements are v, vt, vn and f; all
// others (groups, materials, smoothing) are ignored. Polygons with more than
// three corners are fan-triangulated.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		args := fields[1:]
		switch fields[0] {
		case "v", "vn":
			v, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			p := math3d.V3(v[0], v[1], v[2])
			if fields[0] == "v" {
				mesh.Vertices = append(mesh.Vertices, p)
			} else {
				mesh.Normals = append(mesh.Normals, p)
			}
		case "vt":
			v, err := parseFloats(args, 2)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			mesh.TexCoords = append(mesh.TexCoords, math3d.V2(v[0], v[1]))
		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 corners, got %d", ErrMalformed, lineNo, len(args))
			}
			corners := make([][3]int, len(args))
			for i, a := range args {
				c, err := parseCorner(a, len(mesh.Vertices), len(mesh.TexCoords), len(mesh.Normals))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				corners[i] = c
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.Faces = append(mesh.Faces, faceFromCorners(corners[0], corners[i], corners[i+1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if len(mesh.Vertices) == 0 || len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%w: no geometry", ErrMalformed)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func faceFromCorners(a, b, c [3]int) Face {
	return Face{
		V:  [3]int{a[0], b[0], c[0]},
		VT: [3]int{a[1], b[1], c[1]},
		VN: [3]int{a[2], b[2], c[2]},
	}
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices, resolving negative (relative) references. Missing parts are -1.
func parseCorner(s string, nv, nvt, nvn int) ([3]int, error) {
	out := [3]int{-1, -1, -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return out, fmt.Errorf("bad face corner %q", s)
	}
	counts := [3]int{nv, nvt, nvn}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return out, fmt.Errorf("face corner %q has no vertex", s)
			}
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("bad index in %q: %w", s, err)
		}
		switch {
		case idx > 0:
			out[i] = idx - 1
		case idx < 0:
			out[i] = counts[i] + idx
		default:
			return out, fmt.Errorf("zero index in %q", s)
		}
		if out[i] < 0 {
			return out, fmt.Errorf("index out of range in %q", s)
		}
	}
	return out, nil
}
