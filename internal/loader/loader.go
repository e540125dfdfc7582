// Package loader converts Wavefront OBJ data into triangle-list meshes.
//
// A conversion parses the file, picks the richest vertex shape that every
// face supports (see Classify) and fills position, normal, UV and index
// buffers. Functions in this package hold no state and are safe for
// concurrent use.
package loader

import (
	"github.com/Faultbox/midgard-obj/internal/mesh"
	"github.com/Faultbox/midgard-obj/pkg/formats"
)

var extensions = []string{"obj"}

// Extensions returns the file extensions handled by Load.
func Extensions() []string {
	return append([]string(nil), extensions...)
}

// Load converts OBJ data into a new triangle-list mesh.
func Load(data []byte) (*mesh.Mesh, error) {
	m := mesh.New(mesh.TriangleList)
	if _, err := LoadInto(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadInto converts OBJ data into an existing mesh and returns the tier used.
// On failure m is left unchanged.
func LoadInto(data []byte, m *mesh.Mesh) (Tier, error) {
	raw, err := formats.ParseOBJ(data)
	if err != nil {
		return 0, invalidOBJ(err)
	}

	tier := Classify(raw.Polygons)
	if err := BuildMesh(raw, tier, m); err != nil {
		return 0, err
	}
	return tier, nil
}
