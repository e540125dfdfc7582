package loader

import (
	"fmt"

	"github.com/Faultbox/midgard-obj/pkg/formats"
)

// Tier is the richest vertex shape every polygon of a file can provide.
type Tier int

const (
	TierPosition Tier = 1 // position
	TierNormal   Tier = 2 // position, normal
	TierTextured Tier = 3 // position, normal, texture
)

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierPosition:
		return "Position"
	case TierNormal:
		return "PositionNormal"
	case TierTextured:
		return "PositionNormalTexture"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Classify returns the minimum tier over all polygons. An empty slice yields TierTextured.
//
// Faces with texture coordinates but no normals (f v/vt) cannot be expressed
// as a position+normal vertex, so they lower the tier to TierPosition.
func Classify(polygons []formats.Polygon) Tier {
	tier := TierTextured
	for _, p := range polygons {
		tier = min(tier, polygonTier(p.Kind))
	}
	return tier
}

func polygonTier(kind formats.PolygonKind) Tier {
	switch kind {
	case formats.PolygonP, formats.PolygonPT:
		return TierPosition
	case formats.PolygonPN:
		return TierNormal
	default:
		return TierTextured
	}
}
