// Package formats provides parsers for 3D asset file formats.
// OBJ (Wavefront object) text format parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJ format errors. All of them wrap ErrInvalidOBJ.
var (
	ErrInvalidOBJ        = errors.New("invalid OBJ data")
	ErrMalformedNumber   = fmt.Errorf("%w: malformed number", ErrInvalidOBJ)
	ErrMissingComponents = fmt.Errorf("%w: missing components", ErrInvalidOBJ)
	ErrInvalidIndex      = fmt.Errorf("%w: invalid index", ErrInvalidOBJ)
	ErrMixedFaceFormat   = fmt.Errorf("%w: mixed face vertex format", ErrInvalidOBJ)
	ErrDegenerateFace    = fmt.Errorf("%w: face has fewer than 3 vertices", ErrInvalidOBJ)
	ErrMissingNormals    = fmt.Errorf("%w: polygon has no normal data", ErrInvalidOBJ)
	ErrMissingTexCoords  = fmt.Errorf("%w: polygon has no texture data", ErrInvalidOBJ)
	ErrIndexOverflow     = fmt.Errorf("%w: vertex count exceeds uint32", ErrInvalidOBJ)
	ErrUnknownStatement  = fmt.Errorf("%w: unknown statement", ErrInvalidOBJ)
	ErrExtraComponents   = fmt.Errorf("%w: too many components", ErrInvalidOBJ)
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Statements that are valid OBJ but carry nothing a triangle mesh uses.
var ignoredStatements = map[string]bool{
	"vp": true, "l": true, "p": true, "s": true, "mg": true,
	"usemtl": true, "mtllib": true,
	"cstype": true, "deg": true, "bmat": true, "step": true,
	"curv": true, "curv2": true, "surf": true, "parm": true,
	"trim": true, "hole": true, "scrv": true, "sp": true, "end": true,
	"con": true, "lod": true, "bevel": true, "c_interp": true, "d_interp": true,
	"shadow_obj": true, "trace_obj": true, "ctech": true, "stech": true,
}

// PolygonKind tags which attributes the corners of a face reference.
type PolygonKind uint8

const (
	PolygonP   PolygonKind = iota // f v
	PolygonPT                     // f v/vt
	PolygonPN                     // f v//vn
	PolygonPTN                    // f v/vt/vn
)

// String returns the face format as written in OBJ syntax.
func (k PolygonKind) String() string {
	switch k {
	case PolygonP:
		return "P"
	case PolygonPT:
		return "PT"
	case PolygonPN:
		return "PN"
	case PolygonPTN:
		return "PTN"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// HasNormal reports whether corners of this kind carry a normal index.
func (k PolygonKind) HasNormal() bool {
	return k == PolygonPN || k == PolygonPTN
}

// HasTexture reports whether corners of this kind carry a texture index.
func (k PolygonKind) HasTexture() bool {
	return k == PolygonPT || k == PolygonPTN
}

// Corner is one face vertex. Indices are resolved to 0-based offsets; -1 means absent.
type Corner struct {
	Position int
	Texture  int
	Normal   int
}

// Polygon is a single face record.
type Polygon struct {
	Kind    PolygonKind
	Corners []Corner
}

// RawOBJ holds the untyped records of an OBJ file.
type RawOBJ struct {
	Name      string       // First object (o) or group (g) name
	Positions []mgl32.Vec3 // v records
	TexCoords []mgl32.Vec3 // vt records, missing components are 0
	Normals   []mgl32.Vec3 // vn records
	Polygons  []Polygon    // f records in file order
}

// ParseOBJ parses OBJ data from a byte slice.
func ParseOBJ(data []byte) (*RawOBJ, error) {
	obj := &RawOBJ{}
	data = bytes.TrimPrefix(data, utf8BOM)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNum := 0
	var pending string
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Backslash continues the statement on the next line
		if strings.HasSuffix(line, "\\") {
			pending += strings.TrimSuffix(line, "\\") + " "
			continue
		}
		line = pending + line
		pending = ""

		if err := obj.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}
	if pending != "" {
		if err := obj.parseLine(pending); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return obj, nil
}

func (o *RawOBJ) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		// x y z [w], or x y z r g b with vertex colors
		v, err := parseVec(fields[1:], 3, 7)
		if err != nil {
			return err
		}
		o.Positions = append(o.Positions, v)
	case "vn":
		v, err := parseVec(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		o.Normals = append(o.Normals, v)
	case "vt":
		v, err := parseVec(fields[1:], 1, 3)
		if err != nil {
			return err
		}
		o.TexCoords = append(o.TexCoords, v)
	case "f":
		p, err := o.parseFace(fields[1:])
		if err != nil {
			return err
		}
		o.Polygons = append(o.Polygons, p)
	case "o", "g":
		if o.Name == "" && len(fields) > 1 {
			o.Name = strings.Join(fields[1:], " ")
		}
	default:
		if !ignoredStatements[fields[0]] {
			return fmt.Errorf("%w: %q", ErrUnknownStatement, fields[0])
		}
	}
	return nil
}

// parseVec reads between need and limit floats and keeps the first three.
func parseVec(fields []string, need, limit int) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) < need {
		return v, fmt.Errorf("%w: want %d, got %d", ErrMissingComponents, need, len(fields))
	}
	if len(fields) > limit {
		return v, fmt.Errorf("%w: want at most %d, got %d", ErrExtraComponents, limit, len(fields))
	}
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return v, fmt.Errorf("%w: %q", ErrMalformedNumber, field)
		}
		if i < 3 {
			v[i] = float32(f)
		}
	}
	return v, nil
}

func (o *RawOBJ) parseFace(fields []string) (Polygon, error) {
	if len(fields) < 3 {
		return Polygon{}, ErrDegenerateFace
	}

	p := Polygon{Corners: make([]Corner, 0, len(fields))}
	for i, field := range fields {
		c, kind, err := o.parseCorner(field)
		if err != nil {
			return Polygon{}, err
		}
		if i == 0 {
			p.Kind = kind
		} else if kind != p.Kind {
			return Polygon{}, fmt.Errorf("%w: %s and %s", ErrMixedFaceFormat, p.Kind, kind)
		}
		p.Corners = append(p.Corners, c)
	}
	return p, nil
}

func (o *RawOBJ) parseCorner(field string) (Corner, PolygonKind, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return Corner{}, 0, fmt.Errorf("%w: %q", ErrInvalidIndex, field)
	}

	c := Corner{Position: -1, Texture: -1, Normal: -1}
	var err error

	if c.Position, err = resolveIndex(parts[0], len(o.Positions)); err != nil {
		return Corner{}, 0, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.Texture, err = resolveIndex(parts[1], len(o.TexCoords)); err != nil {
			return Corner{}, 0, err
		}
	}
	if len(parts) > 2 {
		if c.Normal, err = resolveIndex(parts[2], len(o.Normals)); err != nil {
			return Corner{}, 0, err
		}
	}

	var kind PolygonKind
	switch {
	case c.Texture >= 0 && c.Normal >= 0:
		kind = PolygonPTN
	case c.Normal >= 0:
		kind = PolygonPN
	case c.Texture >= 0:
		kind = PolygonPT
	default:
		kind = PolygonP
	}
	return c, kind, nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index into a 0-based offset.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d out of range (have %d)", ErrInvalidIndex, n, count)
	}
	return idx, nil
}
