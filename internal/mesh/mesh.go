// Package mesh provides the vertex/index buffer container filled by asset loaders.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Well-known vertex attribute slots.
const (
	AttributePosition = "Vertex_Position"
	AttributeNormal   = "Vertex_Normal"
	AttributeUV       = "Vertex_Uv"
)

// Mesh validation errors.
var (
	ErrAttributeLength = errors.New("attribute lengths differ")
	ErrIndexCount      = errors.New("index count is not a multiple of 3")
	ErrIndexRange      = errors.New("index out of range")
)

// Topology describes how the index buffer is assembled into primitives.
type Topology uint8

// TriangleList is the only topology the loaders produce: every three indices form a triangle.
const TriangleList Topology = 0

// String returns a human-readable topology name.
func (t Topology) String() string {
	switch t {
	case TriangleList:
		return "TriangleList"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh holds named per-vertex attribute buffers and an index buffer.
// Every attribute stores 3 components per vertex.
type Mesh struct {
	Topology   Topology
	attributes map[string][]mgl32.Vec3
	indices    []uint32
}

// New creates an empty mesh with the given topology.
func New(topology Topology) *Mesh {
	return &Mesh{
		Topology:   topology,
		attributes: make(map[string][]mgl32.Vec3),
	}
}

// SetAttribute stores values in the named slot, replacing previous content.
func (m *Mesh) SetAttribute(name string, values []mgl32.Vec3) {
	if m.attributes == nil {
		m.attributes = make(map[string][]mgl32.Vec3)
	}
	m.attributes[name] = values
}

// Attribute returns the values of the named slot, or nil if unset.
func (m *Mesh) Attribute(name string) []mgl32.Vec3 {
	return m.attributes[name]
}

// AttributeNames returns the names of all populated slots in sorted order.
func (m *Mesh) AttributeNames() []string {
	names := make([]string, 0, len(m.attributes))
	for name := range m.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetIndices stores the index buffer, replacing previous content.
func (m *Mesh) SetIndices(indices []uint32) {
	m.indices = indices
}

// Indices returns the index buffer.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// VertexCount returns the length of the position slot.
func (m *Mesh) VertexCount() int {
	return len(m.attributes[AttributePosition])
}

// TriangleCount returns the number of triangles for triangle-list meshes.
func (m *Mesh) TriangleCount() int {
	if m.Topology != TriangleList {
		return 0
	}
	return len(m.indices) / 3
}

// Validate checks that all attributes have one entry per vertex and that the
// index buffer describes whole triangles within range.
func (m *Mesh) Validate() error {
	count := m.VertexCount()
	for name, values := range m.attributes {
		if len(values) != count {
			return fmt.Errorf("%w: %s has %d, %s has %d", ErrAttributeLength, name, len(values), AttributePosition, count)
		}
	}

	if m.Topology == TriangleList && len(m.indices)%3 != 0 {
		return fmt.Errorf("%w: %d", ErrIndexCount, len(m.indices))
	}
	for i, idx := range m.indices {
		if int(idx) >= count {
			return fmt.Errorf("%w: indices[%d] = %d, vertex count %d", ErrIndexRange, i, idx, count)
		}
	}
	return nil
}

// Bounds computes the bounding box of the position slot.
// An empty mesh returns zero bounds.
func (m *Mesh) Bounds() Bounds {
	positions := m.attributes[AttributePosition]
	if len(positions) == 0 {
		return Bounds{}
	}

	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b
}
