package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Binary container errors.
var (
	ErrInvalidMagic        = errors.New("invalid mesh magic: expected 'OMSH'")
	ErrUnsupportedVersion  = errors.New("unsupported mesh version")
	ErrTruncatedData       = errors.New("truncated mesh data")
	ErrUnsupportedTopology = errors.New("unsupported mesh topology")
)

const (
	magic         = "OMSH"
	formatVersion = 1
	maxNameLength = 256
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo encodes the mesh as a little-endian OMSH container.
//
// Layout: magic[4] version[1] topology[1] reserved[2] attrCount[4]
// then per attribute (sorted by name): nameLen[2] name vertexCount[4] float32[3*n],
// then indexCount[4] uint32[n].
func (m *Mesh) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	write := func(v any) error {
		return binary.Write(bw, binary.LittleEndian, v)
	}

	if _, err := bw.WriteString(magic); err != nil {
		return cw.n, err
	}
	header := [4]uint8{formatVersion, uint8(m.Topology), 0, 0}
	if err := write(header); err != nil {
		return cw.n, err
	}

	names := m.AttributeNames()
	if err := write(uint32(len(names))); err != nil {
		return cw.n, err
	}
	for _, name := range names {
		if len(name) > maxNameLength {
			return cw.n, fmt.Errorf("attribute name too long: %q", name)
		}
		if err := write(uint16(len(name))); err != nil {
			return cw.n, err
		}
		if _, err := bw.WriteString(name); err != nil {
			return cw.n, err
		}
		values := m.attributes[name]
		if err := write(uint32(len(values))); err != nil {
			return cw.n, err
		}
		if err := write(values); err != nil {
			return cw.n, err
		}
	}

	if err := write(uint32(len(m.indices))); err != nil {
		return cw.n, err
	}
	if err := write(m.indices); err != nil {
		return cw.n, err
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Read decodes an OMSH container produced by WriteTo.
func Read(data []byte) (*Mesh, error) {
	if len(data) < 12 {
		return nil, ErrTruncatedData
	}
	if string(data[:4]) != magic {
		return nil, ErrInvalidMagic
	}

	r := bytes.NewReader(data[4:])
	read := func(v any) error {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return ErrTruncatedData
		}
		return nil
	}

	var header [4]uint8
	if err := read(&header); err != nil {
		return nil, err
	}
	if header[0] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[0])
	}

	if Topology(header[1]) != TriangleList {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTopology, header[1])
	}

	m := New(TriangleList)

	var attrCount uint32
	if err := read(&attrCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < attrCount; i++ {
		var nameLen uint16
		if err := read(&nameLen); err != nil {
			return nil, err
		}
		if nameLen > maxNameLength || int(nameLen) > r.Len() {
			return nil, fmt.Errorf("attribute %d: %w", i, ErrTruncatedData)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, ErrTruncatedData
		}

		var count uint32
		if err := read(&count); err != nil {
			return nil, err
		}
		// 12 bytes per Vec3
		if uint64(count)*12 > uint64(r.Len()) {
			return nil, fmt.Errorf("attribute %q: %w", name, ErrTruncatedData)
		}
		values := make([]mgl32.Vec3, count)
		if err := read(values); err != nil {
			return nil, err
		}
		m.SetAttribute(string(name), values)
	}

	var indexCount uint32
	if err := read(&indexCount); err != nil {
		return nil, err
	}
	if uint64(indexCount)*4 > uint64(r.Len()) {
		return nil, fmt.Errorf("indices: %w", ErrTruncatedData)
	}
	indices := make([]uint32, indexCount)
	if err := read(indices); err != nil {
		return nil, err
	}
	m.SetIndices(indices)

	return m, nil
}
