package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-obj/internal/mesh"
	"github.com/Faultbox/midgard-obj/pkg/formats"
)

// BuildMesh projects raw onto the vertex shape of tier and writes position,
// normal, UV and index buffers into m, replacing whatever they held.
// Attributes the tier lacks are filled with zero vectors.
func BuildMesh(raw *formats.RawOBJ, tier Tier, m *mesh.Mesh) error {
	switch tier {
	case TierPosition:
		obj, err := formats.NewPositionOBJ(raw)
		if err != nil {
			return invalidOBJ(err)
		}
		positions := make([]mgl32.Vec3, len(obj.Vertices))
		for i, v := range obj.Vertices {
			positions[i] = v.Position
		}
		setBuffers(m, positions, zeros(len(positions)), zeros(len(positions)), obj.Indices)

	case TierNormal:
		obj, err := formats.NewVertexOBJ(raw)
		if err != nil {
			return invalidOBJ(err)
		}
		positions := make([]mgl32.Vec3, len(obj.Vertices))
		normals := make([]mgl32.Vec3, len(obj.Vertices))
		for i, v := range obj.Vertices {
			positions[i] = v.Position
			normals[i] = v.Normal
		}
		setBuffers(m, positions, normals, zeros(len(positions)), obj.Indices)

	case TierTextured:
		obj, err := formats.NewTexturedOBJ(raw)
		if err != nil {
			return invalidOBJ(err)
		}
		positions := make([]mgl32.Vec3, len(obj.Vertices))
		normals := make([]mgl32.Vec3, len(obj.Vertices))
		uvs := make([]mgl32.Vec3, len(obj.Vertices))
		for i, v := range obj.Vertices {
			positions[i] = v.Position
			normals[i] = v.Normal
			uvs[i] = FlipV(v.Texture)
		}
		setBuffers(m, positions, normals, uvs, obj.Indices)

	default:
		return &Error{Kind: KindUnknownVertexFormat, Err: fmt.Errorf("tier %d", int(tier))}
	}
	return nil
}

// FlipV moves a texture coordinate from the OBJ bottom-left origin to a top-left origin.
func FlipV(uv mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{uv[0], 1 - uv[1], uv[2]}
}

func setBuffers(m *mesh.Mesh, positions, normals, uvs []mgl32.Vec3, indices []uint32) {
	m.SetAttribute(mesh.AttributePosition, positions)
	m.SetAttribute(mesh.AttributeNormal, normals)
	m.SetAttribute(mesh.AttributeUV, uvs)
	m.SetIndices(indices)
}

func zeros(n int) []mgl32.Vec3 {
	return make([]mgl32.Vec3, n)
}
