package formats

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Position is a vertex carrying only a position.
type Position struct {
	Position mgl32.Vec3
}

// Vertex is a vertex with position and normal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// TexturedVertex is a vertex with position, normal and texture coordinate.
type TexturedVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Texture  mgl32.Vec3
}

// OBJ is a raw OBJ file projected onto one vertex shape, with polygons
// triangulated into a flat triangle list.
type OBJ[V any] struct {
	Name     string
	Vertices []V
	Indices  []uint32
}

// NewPositionOBJ projects raw onto position-only vertices. Every v record
// becomes a vertex in file order and indices refer to position records directly,
// so faces of any kind are accepted.
func NewPositionOBJ(raw *RawOBJ) (*OBJ[Position], error) {
	if uint64(len(raw.Positions)) > math.MaxUint32 {
		return nil, ErrIndexOverflow
	}

	out := &OBJ[Position]{
		Name:     raw.Name,
		Vertices: make([]Position, len(raw.Positions)),
	}
	for i, p := range raw.Positions {
		out.Vertices[i] = Position{Position: p}
	}

	var corners []uint32
	for _, poly := range raw.Polygons {
		corners = corners[:0]
		for _, c := range poly.Corners {
			corners = append(corners, uint32(c.Position))
		}
		out.Indices = appendFan(out.Indices, corners)
	}
	return out, nil
}

// NewVertexOBJ projects raw onto position+normal vertices. Corners sharing the
// same position and normal records share a vertex.
func NewVertexOBJ(raw *RawOBJ) (*OBJ[Vertex], error) {
	return project(raw,
		func(k PolygonKind) error {
			if !k.HasNormal() {
				return ErrMissingNormals
			}
			return nil
		},
		func(c Corner) cornerKey { return cornerKey{c.Position, -1, c.Normal} },
		func(c Corner) Vertex {
			return Vertex{Position: raw.Positions[c.Position], Normal: raw.Normals[c.Normal]}
		},
	)
}

// NewTexturedOBJ projects raw onto position+normal+texture vertices.
func NewTexturedOBJ(raw *RawOBJ) (*OBJ[TexturedVertex], error) {
	return project(raw,
		func(k PolygonKind) error {
			if !k.HasNormal() {
				return ErrMissingNormals
			}
			if !k.HasTexture() {
				return ErrMissingTexCoords
			}
			return nil
		},
		func(c Corner) cornerKey { return cornerKey{c.Position, c.Texture, c.Normal} },
		func(c Corner) TexturedVertex {
			return TexturedVertex{
				Position: raw.Positions[c.Position],
				Normal:   raw.Normals[c.Normal],
				Texture:  raw.TexCoords[c.Texture],
			}
		},
	)
}

type cornerKey struct {
	position, texture, normal int
}

// project deduplicates corners by key in first-seen order and triangulates every polygon.
func project[V any](raw *RawOBJ, accept func(PolygonKind) error, key func(Corner) cornerKey, vertex func(Corner) V) (*OBJ[V], error) {
	out := &OBJ[V]{Name: raw.Name}
	seen := make(map[cornerKey]uint32)

	var corners []uint32
	for i, poly := range raw.Polygons {
		if err := accept(poly.Kind); err != nil {
			return nil, fmt.Errorf("polygon %d (%s): %w", i, poly.Kind, err)
		}

		corners = corners[:0]
		for _, c := range poly.Corners {
			k := key(c)
			idx, ok := seen[k]
			if !ok {
				if uint64(len(out.Vertices)) >= math.MaxUint32 {
					return nil, ErrIndexOverflow
				}
				idx = uint32(len(out.Vertices))
				seen[k] = idx
				out.Vertices = append(out.Vertices, vertex(c))
			}
			corners = append(corners, idx)
		}
		out.Indices = appendFan(out.Indices, corners)
	}
	return out, nil
}

// appendFan triangulates a convex polygon as a fan around its first corner.
func appendFan(indices []uint32, corners []uint32) []uint32 {
	for i := 1; i+1 < len(corners); i++ {
		indices = append(indices, corners[0], corners[i], corners[i+1])
	}
	return indices
}
